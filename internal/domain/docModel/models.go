package docModel

import (
	"context"
	"time"
)

type DocumentStatus string

const (
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Summary is the structured three-level document summary generated at the end
// of ingestion. Tag is a couple of words, Description one sentence, Detailed a
// short paragraph - the folder retrieval paths search over these.
type Summary struct {
	Tag         string `json:"tag,omitempty"`
	Description string `json:"description,omitempty"`
	Detailed    string `json:"detailed,omitempty"`
}

func (s Summary) IsEmpty() bool {
	return s.Tag == "" && s.Description == "" && s.Detailed == ""
}

// Text flattens the summary for prompt building and folder-fast pseudo-chunks.
func (s Summary) Text() string {
	out := s.Tag
	if s.Description != "" {
		if out != "" {
			out += " - "
		}
		out += s.Description
	}
	if s.Detailed != "" {
		if out != "" {
			out += "\n"
		}
		out += s.Detailed
	}
	return out
}

type Document struct {
	Id        string         `json:"id"`
	Title     string         `json:"title"`
	Folder    string         `json:"folder"`
	Status    DocumentStatus `json:"status"`
	Summary   Summary        `json:"summary"`
	PageCount int            `json:"page_count"`
	CreatedAt time.Time      `json:"created_at"`
}

// DocumentPage is one retrieval chunk. Folder and Title are denormalized from
// the owning Document so vector-store filters never need a join; folder
// reassignment must rewrite them in the vector store too.
type DocumentPage struct {
	Id         string `json:"chunk_id"`
	Seq        int    `json:"seq"` //insertion order, breaks score ties
	DocumentId string `json:"document_id"`
	PageNumber int    `json:"page_number"`
	Folder     string `json:"folder"`
	Content    string `json:"content"`
	Title      string `json:"title"`
}

type Folder struct {
	Name string `json:"name"`
}

// DocumentStore is the persisted metadata repository. Implementations must
// keep a default folder alive at all times.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, bool)
	ListDocuments(ctx context.Context) ([]Document, error)
	ListDocumentsByFolder(ctx context.Context, folder string) ([]Document, error)
	DeleteDocument(ctx context.Context, id string) error

	ListFolders(ctx context.Context) ([]Folder, error)
	CreateFolder(ctx context.Context, name string) error
	// DeleteFolder reassigns the folder's documents to the default folder
	// before removing it. The default folder is never deletable.
	DeleteFolder(ctx context.Context, name string) ([]Document, error)
}
