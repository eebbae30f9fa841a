package store

import (
	"context"
	"sync"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

var inMemDocLogger = logger_i.NewLogger("InMem DocumentStore")

// InMemoryDocumentStore is the fallback when redis is offline. Same contract,
// nothing survives a restart.
type InMemoryDocumentStore struct {
	mu      sync.RWMutex
	docs    map[string]docModel.Document
	folders map[string]bool
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docs:    make(map[string]docModel.Document),
		folders: map[string]bool{config.DefaultFolderName: true},
	}
}

func (s *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Id] = doc
	s.folders[doc.Folder] = true
	inMemDocLogger.Debug("saved document", "documentId", doc.Id)
	return nil
}

func (s *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, found := s.docs[id]
	return doc, found
}

func (s *InMemoryDocumentStore) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]docModel.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	return out, nil
}

func (s *InMemoryDocumentStore) ListDocumentsByFolder(ctx context.Context, folder string) ([]docModel.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []docModel.Document
	for _, doc := range s.docs {
		if doc.Folder == folder {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *InMemoryDocumentStore) ListFolders(ctx context.Context) ([]docModel.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]docModel.Folder, 0, len(s.folders))
	for name := range s.folders {
		out = append(out, docModel.Folder{Name: name})
	}
	return out, nil
}

func (s *InMemoryDocumentStore) CreateFolder(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders[name] = true
	return nil
}

func (s *InMemoryDocumentStore) DeleteFolder(ctx context.Context, name string) ([]docModel.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var moved []docModel.Document
	for id, doc := range s.docs {
		if doc.Folder == name {
			doc.Folder = config.DefaultFolderName
			s.docs[id] = doc
			moved = append(moved, doc)
		}
	}
	delete(s.folders, name)
	return moved, nil
}
