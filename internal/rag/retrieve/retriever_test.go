package retrieve

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/internal/rag/vectorDB"
)

type mockVectorDB struct {
	OnSearch func(ctx context.Context, vector []float32, filter vectorDB.Filter, threshold float32, limit int) ([]chatModel.RetrievedChunk, error)
}

func (m *mockVectorDB) EnsureCollection(ctx context.Context) error { return nil }
func (m *mockVectorDB) UpsertBatch(ctx context.Context, pages []docModel.DocumentPage, vectors [][]float32) error {
	return nil
}
func (m *mockVectorDB) DeleteByDocument(ctx context.Context, documentId string) error { return nil }
func (m *mockVectorDB) SetFolder(ctx context.Context, documentId string, folder string) error {
	return nil
}

func (m *mockVectorDB) Search(ctx context.Context, vector []float32, filter vectorDB.Filter, threshold float32, limit int) ([]chatModel.RetrievedChunk, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, vector, filter, threshold, limit)
	}
	return nil, nil
}

type mockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1}, nil
}

func (m *mockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}

type mockLLM struct {
	OnGenerateJSON func(ctx context.Context, system string, prompt string) (string, error)
}

func (m *mockLLM) Generate(ctx context.Context, system string, prompt string) (string, error) {
	return "mocked response", nil
}

func (m *mockLLM) GenerateJSON(ctx context.Context, system string, prompt string) (string, error) {
	if m.OnGenerateJSON != nil {
		return m.OnGenerateJSON(ctx, system, prompt)
	}
	return `{"documents": []}`, nil
}

type mockDocStore struct {
	OnListByFolder func(ctx context.Context, folder string) ([]docModel.Document, error)
}

func (m *mockDocStore) SaveDocument(ctx context.Context, doc docModel.Document) error { return nil }
func (m *mockDocStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	return docModel.Document{}, false
}
func (m *mockDocStore) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	return nil, nil
}
func (m *mockDocStore) DeleteDocument(ctx context.Context, id string) error      { return nil }
func (m *mockDocStore) ListFolders(ctx context.Context) ([]docModel.Folder, error) { return nil, nil }
func (m *mockDocStore) CreateFolder(ctx context.Context, name string) error      { return nil }
func (m *mockDocStore) DeleteFolder(ctx context.Context, name string) ([]docModel.Document, error) {
	return nil, nil
}

func (m *mockDocStore) ListDocumentsByFolder(ctx context.Context, folder string) ([]docModel.Document, error) {
	if m.OnListByFolder != nil {
		return m.OnListByFolder(ctx, folder)
	}
	return nil, nil
}

func readyDoc(id string, summary string) docModel.Document {
	return docModel.Document{
		Id:     id,
		Title:  "title-" + id,
		Status: docModel.StatusReady,
		Summary: docModel.Summary{
			Description: summary,
		},
	}
}

func TestRetrieve_SingleDoc(t *testing.T) {
	mVec := &mockVectorDB{
		OnSearch: func(ctx context.Context, v []float32, f vectorDB.Filter, threshold float32, limit int) ([]chatModel.RetrievedChunk, error) {
			if f.DocumentId != "doc-1" {
				t.Errorf("filter document got %s, want doc-1", f.DocumentId)
			}
			if threshold > 0.1 {
				t.Errorf("single-doc search should use the loose threshold, got %v", threshold)
			}
			return []chatModel.RetrievedChunk{{ChunkId: "c1", DocumentId: "doc-1"}}, nil
		},
	}

	r := New(mVec, &mockEmbedder{}, &mockLLM{}, &mockDocStore{})
	got, err := r.Retrieve(context.Background(), chatModel.Query{
		Mode:       chatModel.ModeSingleDoc,
		DocumentId: "doc-1",
		Message:    "what is the termination clause?",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ChunkId != "c1" {
		t.Errorf("unexpected chunks: %+v", got)
	}
}

func TestRetrieve_SingleDoc_EmbeddingFailure(t *testing.T) {
	mEmbed := &mockEmbedder{
		OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("api limit")
		},
	}

	r := New(&mockVectorDB{}, mEmbed, &mockLLM{}, &mockDocStore{})
	_, err := r.Retrieve(context.Background(), chatModel.Query{
		Mode:       chatModel.ModeSingleDoc,
		DocumentId: "doc-1",
		Message:    "question",
	})

	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestRetrieve_FolderFast_UsesSummariesOnly(t *testing.T) {
	mVec := &mockVectorDB{
		OnSearch: func(ctx context.Context, v []float32, f vectorDB.Filter, threshold float32, limit int) ([]chatModel.RetrievedChunk, error) {
			t.Error("fast mode must not touch the vector store")
			return nil, nil
		},
	}
	mStore := &mockDocStore{
		OnListByFolder: func(ctx context.Context, folder string) ([]docModel.Document, error) {
			return []docModel.Document{
				readyDoc("a", "annual revenue report"),
				readyDoc("b", "employee handbook"),
				{Id: "c", Status: docModel.StatusProcessing},
			}, nil
		},
	}

	r := New(mVec, &mockEmbedder{}, &mockLLM{}, mStore)
	got, err := r.Retrieve(context.Background(), chatModel.Query{
		Mode:       chatModel.ModeFolderFast,
		FolderName: "Finance",
		Message:    "what was the revenue?",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d summary chunks, want 2", len(got))
	}
	for _, c := range got {
		if c.Type != chatModel.ChunkTypeSummary {
			t.Errorf("chunk %s type got %s, want summary", c.ChunkId, c.Type)
		}
		if c.Source == "" {
			t.Errorf("chunk %s missing source title", c.ChunkId)
		}
		if c.Page != 1 {
			t.Errorf("chunk %s page got %d, want 1 for summary chunks", c.ChunkId, c.Page)
		}
	}
}

func TestRetrieve_FolderFast_FallsBackToDeep(t *testing.T) {
	searched := false
	mVec := &mockVectorDB{
		OnSearch: func(ctx context.Context, v []float32, f vectorDB.Filter, threshold float32, limit int) ([]chatModel.RetrievedChunk, error) {
			searched = true
			return []chatModel.RetrievedChunk{{ChunkId: "c1", DocumentId: f.DocumentId}}, nil
		},
	}
	mStore := &mockDocStore{
		OnListByFolder: func(ctx context.Context, folder string) ([]docModel.Document, error) {
			// ready but never summarized
			return []docModel.Document{
				{Id: "a", Title: "Doc A", Status: docModel.StatusReady},
			}, nil
		},
	}

	r := New(mVec, &mockEmbedder{}, &mockLLM{}, mStore)
	got, err := r.Retrieve(context.Background(), chatModel.Query{
		Mode:       chatModel.ModeFolderFast,
		FolderName: "Finance",
		Message:    "question",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !searched {
		t.Error("expected fallback to deep retrieval when summaries are missing")
	}
	if len(got) != 1 {
		t.Errorf("got %d chunks, want 1", len(got))
	}
}

func TestRetrieve_FolderDeep_SelectsDocuments(t *testing.T) {
	var searchedDocs []string
	mVec := &mockVectorDB{
		OnSearch: func(ctx context.Context, v []float32, f vectorDB.Filter, threshold float32, limit int) ([]chatModel.RetrievedChunk, error) {
			searchedDocs = append(searchedDocs, f.DocumentId)
			return []chatModel.RetrievedChunk{
				{ChunkId: f.DocumentId + "-c1", DocumentId: f.DocumentId},
			}, nil
		},
	}
	mLLM := &mockLLM{
		OnGenerateJSON: func(ctx context.Context, sys, p string) (string, error) {
			return `{"documents": [5, 1]}`, nil
		},
	}
	mStore := &mockDocStore{
		OnListByFolder: func(ctx context.Context, folder string) ([]docModel.Document, error) {
			docs := make([]docModel.Document, 6)
			for i := range docs {
				docs[i] = readyDoc(fmt.Sprintf("doc-%d", i), "summary")
			}
			return docs, nil
		},
	}

	r := New(mVec, &mockEmbedder{}, mLLM, mStore)
	got, err := r.Retrieve(context.Background(), chatModel.Query{
		Mode:       chatModel.ModeFolderDeep,
		FolderName: "Finance",
		Message:    "question",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(searchedDocs) != 2 || searchedDocs[0] != "doc-5" || searchedDocs[1] != "doc-1" {
		t.Errorf("searched %v, want [doc-5 doc-1]", searchedDocs)
	}
	for _, c := range got {
		if c.Source == "" {
			t.Errorf("chunk %s missing source title", c.ChunkId)
		}
	}
}

func TestRetrieve_FolderDeep_SelectionFailureFallsBack(t *testing.T) {
	var searchedDocs []string
	mVec := &mockVectorDB{
		OnSearch: func(ctx context.Context, v []float32, f vectorDB.Filter, threshold float32, limit int) ([]chatModel.RetrievedChunk, error) {
			searchedDocs = append(searchedDocs, f.DocumentId)
			return nil, nil
		},
	}
	mLLM := &mockLLM{
		OnGenerateJSON: func(ctx context.Context, sys, p string) (string, error) {
			return "", errors.New("provider down")
		},
	}
	mStore := &mockDocStore{
		OnListByFolder: func(ctx context.Context, folder string) ([]docModel.Document, error) {
			docs := make([]docModel.Document, 6)
			for i := range docs {
				docs[i] = readyDoc(fmt.Sprintf("doc-%d", i), "summary")
			}
			return docs, nil
		},
	}

	r := New(mVec, &mockEmbedder{}, mLLM, mStore)
	_, err := r.Retrieve(context.Background(), chatModel.Query{
		Mode:       chatModel.ModeFolderDeep,
		FolderName: "Finance",
		Message:    "question",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// first MaxDeepSearchDocs in folder order
	want := []string{"doc-0", "doc-1", "doc-2", "doc-3"}
	if len(searchedDocs) != len(want) {
		t.Fatalf("searched %d docs, want %d", len(searchedDocs), len(want))
	}
	for i, id := range want {
		if searchedDocs[i] != id {
			t.Errorf("position %d got %s, want %s", i, searchedDocs[i], id)
		}
	}
}

func TestRetrieve_FolderDeep_SmallFolderSkipsSelection(t *testing.T) {
	mLLM := &mockLLM{
		OnGenerateJSON: func(ctx context.Context, sys, p string) (string, error) {
			t.Error("selection llm should not run when the folder already fits the search limit")
			return "", nil
		},
	}
	mStore := &mockDocStore{
		OnListByFolder: func(ctx context.Context, folder string) ([]docModel.Document, error) {
			return []docModel.Document{readyDoc("a", "s"), readyDoc("b", "s")}, nil
		},
	}

	r := New(&mockVectorDB{}, &mockEmbedder{}, mLLM, mStore)
	_, err := r.Retrieve(context.Background(), chatModel.Query{
		Mode:       chatModel.ModeFolderDeep,
		FolderName: "Finance",
		Message:    "question",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
