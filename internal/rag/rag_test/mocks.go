package rag_test

import (
	"context"

	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/internal/rag/ocr"
	"github.com/akolanti/PDFChatAPI/internal/rag/vectorDB"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnSearch           func(ctx context.Context, vector []float32, filter vectorDB.Filter, threshold float32, limit int) ([]chatModel.RetrievedChunk, error)
	OnEnsureCollection func(ctx context.Context) error
	OnUpsertBatch      func(ctx context.Context, pages []docModel.DocumentPage, vectors [][]float32) error
	OnDeleteByDocument func(ctx context.Context, documentId string) error
	OnSetFolder        func(ctx context.Context, documentId string, folder string) error
}

func (m *MockVectorDB) Search(ctx context.Context, vector []float32, filter vectorDB.Filter, threshold float32, limit int) ([]chatModel.RetrievedChunk, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, vector, filter, threshold, limit)
	}
	return []chatModel.RetrievedChunk{
		{ChunkId: "default-chunk", DocumentId: filter.DocumentId, Page: 1, Source: "default.pdf", Content: "default context"},
	}, nil
}

func (m *MockVectorDB) EnsureCollection(ctx context.Context) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx)
	}
	return nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, pages []docModel.DocumentPage, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, pages, vectors)
	}
	return nil
}

func (m *MockVectorDB) DeleteByDocument(ctx context.Context, documentId string) error {
	if m.OnDeleteByDocument != nil {
		return m.OnDeleteByDocument(ctx, documentId)
	}
	return nil
}

func (m *MockVectorDB) SetFolder(ctx context.Context, documentId string, folder string) error {
	if m.OnSetFolder != nil {
		return m.OnSetFolder(ctx, documentId, folder)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, texts)
	}
	// Return dummy vectors matching input size
	return make([][]float32, len(texts)), nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate     func(ctx context.Context, system string, prompt string) (string, error)
	OnGenerateJSON func(ctx context.Context, system string, prompt string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, system string, prompt string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, system, prompt)
	}
	return "mocked llm response", nil
}

func (m *MockLLM) GenerateJSON(ctx context.Context, system string, prompt string) (string, error) {
	if m.OnGenerateJSON != nil {
		return m.OnGenerateJSON(ctx, system, prompt)
	}
	return `{"answer": "mocked answer", "citations": []}`, nil
}

// MockDocStore implements docModel.DocumentStore
type MockDocStore struct {
	OnGetDocument  func(ctx context.Context, id string) (docModel.Document, bool)
	OnSaveDocument func(ctx context.Context, doc docModel.Document) error
	OnListByFolder func(ctx context.Context, folder string) ([]docModel.Document, error)
}

func (m *MockDocStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	if m.OnSaveDocument != nil {
		return m.OnSaveDocument(ctx, doc)
	}
	return nil
}

func (m *MockDocStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	if m.OnGetDocument != nil {
		return m.OnGetDocument(ctx, id)
	}
	return docModel.Document{Id: id, Title: "default.pdf", Folder: "General", Status: docModel.StatusReady}, true
}

func (m *MockDocStore) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	return nil, nil
}

func (m *MockDocStore) ListDocumentsByFolder(ctx context.Context, folder string) ([]docModel.Document, error) {
	if m.OnListByFolder != nil {
		return m.OnListByFolder(ctx, folder)
	}
	return nil, nil
}

func (m *MockDocStore) DeleteDocument(ctx context.Context, id string) error { return nil }

func (m *MockDocStore) ListFolders(ctx context.Context) ([]docModel.Folder, error) {
	return nil, nil
}

func (m *MockDocStore) CreateFolder(ctx context.Context, name string) error { return nil }

func (m *MockDocStore) DeleteFolder(ctx context.Context, name string) ([]docModel.Document, error) {
	return nil, nil
}

// MockExtractor implements ocr.Extractor
type MockExtractor struct {
	OnExtractPages func(ctx context.Context, path string) ([]ocr.Page, error)
}

func (m *MockExtractor) ExtractPages(ctx context.Context, path string) ([]ocr.Page, error) {
	if m.OnExtractPages != nil {
		return m.OnExtractPages(ctx, path)
	}
	return []ocr.Page{{Number: 1, Content: "default page content"}}, nil
}
