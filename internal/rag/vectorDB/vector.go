package vectorDB

import (
	"context"

	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
)

// Filter narrows a similarity search. Exactly one of DocumentId or Folder is
// expected to be set; an empty filter searches the whole collection.
type Filter struct {
	DocumentId string
	Folder     string
}

// DataProcessor is the vector index contract. The score threshold is per-call
// because single-document search runs near-zero (recall) while folder-wide
// search runs strict (precision).
type DataProcessor interface {
	EnsureCollection(ctx context.Context) error
	UpsertBatch(ctx context.Context, pages []docModel.DocumentPage, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, filter Filter, scoreThreshold float32, limit int) ([]chatModel.RetrievedChunk, error)
	DeleteByDocument(ctx context.Context, documentId string) error

	// SetFolder rewrites the denormalized folder payload of every chunk owned
	// by the document - keeps chunks consistent on folder rename/reassign.
	SetFolder(ctx context.Context, documentId string, folder string) error
}
