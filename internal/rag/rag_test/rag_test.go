package rag_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/jobModel"
	"github.com/akolanti/PDFChatAPI/internal/rag"
	"github.com/akolanti/PDFChatAPI/internal/rag/ocr"
	"github.com/akolanti/PDFChatAPI/internal/rag/vectorDB"
)

func newTestService(v *MockVectorDB, l *MockLLM, e *MockEmbedder, d *MockDocStore, x *MockExtractor) rag.Service {
	return rag.NewService(v, l, e, d, x)
}

func TestChat_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM, d *MockDocStore)
		query          chatModel.Query
		expectedAnswer string
		wantCitations  int
	}{
		{
			name: "Success_SingleDoc_Flow",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM, d *MockDocStore) {
				v.OnSearch = func(ctx context.Context, vec []float32, f vectorDB.Filter, th float32, lim int) ([]chatModel.RetrievedChunk, error) {
					return []chatModel.RetrievedChunk{
						{ChunkId: "c1", DocumentId: "doc-1", Page: 3, Source: "report.pdf", Content: "Total revenue was $5.2M in Q3."},
					}, nil
				}
				l.OnGenerateJSON = func(ctx context.Context, sys, p string) (string, error) {
					return `{"answer": "Revenue was $5.2M.", "citations": [{"id": 0, "quote": "$5.2M"}]}`, nil
				}
			},
			query:          chatModel.Query{Mode: chatModel.ModeSingleDoc, DocumentId: "doc-1", Message: "What is the total revenue?"},
			expectedAnswer: "Revenue was $5.2M.",
			wantCitations:  1,
		},
		{
			name: "Failure_Embedding_Returns_Fallback",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM, d *MockDocStore) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			query:          chatModel.Query{Mode: chatModel.ModeSingleDoc, DocumentId: "doc-1", Message: "question"},
			expectedAnswer: config.FallbackAnswer,
		},
		{
			name: "Failure_VectorSearch_Returns_Fallback",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM, d *MockDocStore) {
				v.OnSearch = func(ctx context.Context, vec []float32, f vectorDB.Filter, th float32, lim int) ([]chatModel.RetrievedChunk, error) {
					return nil, errors.New("db timeout")
				}
			},
			query:          chatModel.Query{Mode: chatModel.ModeSingleDoc, DocumentId: "doc-1", Message: "question"},
			expectedAnswer: config.FallbackAnswer,
		},
		{
			name: "Failure_Synthesis_Returns_Fallback",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM, d *MockDocStore) {
				l.OnGenerateJSON = func(ctx context.Context, sys, p string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			query:          chatModel.Query{Mode: chatModel.ModeSingleDoc, DocumentId: "doc-1", Message: "question"},
			expectedAnswer: config.FallbackAnswer,
		},
		{
			name: "FolderFast_Answers_From_Summaries",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM, d *MockDocStore) {
				d.OnListByFolder = func(ctx context.Context, folder string) ([]docModel.Document, error) {
					return []docModel.Document{
						{Id: "a", Title: "handbook.pdf", Status: docModel.StatusReady,
							Summary: docModel.Summary{Description: "employee handbook"}},
					}, nil
				}
				v.OnSearch = func(ctx context.Context, vec []float32, f vectorDB.Filter, th float32, lim int) ([]chatModel.RetrievedChunk, error) {
					t.Error("fast mode must not search the vector store")
					return nil, nil
				}
				l.OnGenerateJSON = func(ctx context.Context, sys, p string) (string, error) {
					return `{"answer": "See the handbook.", "citations": [{"id": 0}]}`, nil
				}
			},
			query:          chatModel.Query{Mode: chatModel.ModeFolderFast, FolderName: "HR", Message: "where is the pto policy?"},
			expectedAnswer: "See the handbook.",
			wantCitations:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}
			mDocs := &MockDocStore{}

			tt.setupMocks(mEmbed, mVec, mLLM, mDocs)

			s := newTestService(mVec, mLLM, mEmbed, mDocs, &MockExtractor{})

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			answer := s.Chat(ctx, tt.query)

			if answer.Text != tt.expectedAnswer {
				t.Errorf("answer got %q, want %q", answer.Text, tt.expectedAnswer)
			}
			if len(answer.Citations) != tt.wantCitations {
				t.Errorf("got %d citations, want %d", len(answer.Citations), tt.wantCitations)
			}
		})
	}
}

func TestChat_RewriteUsesHistory(t *testing.T) {
	var synthesisPrompt string
	mLLM := &MockLLM{
		OnGenerateJSON: func(ctx context.Context, sys, p string) (string, error) {
			// first structured call is the rewrite, second is synthesis
			if strings.Contains(sys, "standalone") {
				return `{"query": "Why is $5M revenue considered low?"}`, nil
			}
			synthesisPrompt = p
			return `{"answer": "Because costs grew.", "citations": []}`, nil
		},
	}

	s := newTestService(&MockVectorDB{}, mLLM, &MockEmbedder{}, &MockDocStore{}, &MockExtractor{})
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	answer := s.Chat(ctx, chatModel.Query{
		Mode:       chatModel.ModeSingleDoc,
		DocumentId: "doc-1",
		Message:    "Why is it low?",
		History: []chatModel.Turn{
			{Role: "user", Content: "What is the revenue?"},
			{Role: "assistant", Content: "$5M"},
		},
	})

	if answer.Text != "Because costs grew." {
		t.Fatalf("unexpected answer %q", answer.Text)
	}
	if !strings.Contains(synthesisPrompt, "Why is $5M revenue considered low?") {
		t.Error("synthesis should see the rewritten standalone question")
	}
}

func TestIngestDocument_Scenarios(t *testing.T) {
	dummyFile := "test_ingest.txt"

	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, x *MockExtractor, d *MockDocStore)
		expectedStatus jobModel.JobStatus
		expectedStep   jobModel.InternalStatus
	}{
		{
			name: "Ingestion_Success",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, x *MockExtractor, d *MockDocStore) {
				x.OnExtractPages = func(ctx context.Context, path string) ([]ocr.Page, error) {
					return []ocr.Page{{Number: 1, Content: "# Intro\nsome content"}}, nil
				}
			},
			expectedStatus: jobModel.JobStatusComplete,
			expectedStep:   jobModel.Complete,
		},
		{
			name: "Failure_Extraction",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, x *MockExtractor, d *MockDocStore) {
				x.OnExtractPages = func(ctx context.Context, path string) ([]ocr.Page, error) {
					return nil, errors.New("corrupt pdf")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedStep:   jobModel.Error,
		},
		{
			name: "Failure_Embedding",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, x *MockExtractor, d *MockDocStore) {
				e.OnBatchEmbedding = func(ctx context.Context, texts []string) ([][]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedStep:   jobModel.Error,
		},
		{
			name: "Failure_Upsert",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, x *MockExtractor, d *MockDocStore) {
				v.OnUpsertBatch = func(ctx context.Context, pages []docModel.DocumentPage, vectors [][]float32) error {
					return errors.New("disk full")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedStep:   jobModel.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.WriteFile(dummyFile, []byte("test content for ingestion"), 0644)
			defer os.Remove(dummyFile)

			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mExtract := &MockExtractor{}
			mDocs := &MockDocStore{}

			var savedDoc docModel.Document
			mDocs.OnSaveDocument = func(ctx context.Context, doc docModel.Document) error {
				savedDoc = doc
				return nil
			}

			tt.setupMocks(mEmbed, mVec, mExtract, mDocs)

			s := newTestService(mVec, &MockLLM{}, mEmbed, mDocs, mExtract)

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "ingest-trace")
			job := jobModel.Job{
				Id:         "ingest-job-1",
				DocumentId: "doc-1",
				FileName:   "test_ingest.txt",
				FilePath:   dummyFile,
			}

			result := s.IngestDocument(ctx, job)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}
			if result.CurrentStep != tt.expectedStep {
				t.Errorf("Step got %v, want %v", result.CurrentStep, tt.expectedStep)
			}

			wantDocStatus := docModel.StatusReady
			if tt.expectedStatus == jobModel.JobStatusError {
				wantDocStatus = docModel.StatusFailed
			}
			if savedDoc.Status != wantDocStatus {
				t.Errorf("document status got %s, want %s", savedDoc.Status, wantDocStatus)
			}
		})
	}
}
