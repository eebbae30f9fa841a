package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/data/redisStore"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

// key layout:
//   doc:<id>            document record as JSON
//   folder-docs:<name>  set of document ids in the folder
//   folders             set of folder names

const (
	docKeyPrefix    = "doc:"
	folderKeyPrefix = "folder-docs:"
	folderSetKey    = "folders"
)

type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	internal := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if internal == nil {
		return nil
	}
	s := &RedisDocumentStore{
		store:  internal,
		logger: logger_i.NewLogger("DocumentStore"),
	}
	// the default folder must exist before the first upload
	if err := s.CreateFolder(ctx, config.DefaultFolderName); err != nil {
		s.logger.Error("could not ensure default folder", "error", err)
	}
	return s
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", doc.Id)

	// a save may move the document between folders; membership follows the record
	if prev, found := s.GetDocument(ctx, doc.Id); found && prev.Folder != doc.Folder {
		if err := s.store.SetRemove(ctx, folderKeyPrefix+prev.Folder, doc.Id); err != nil {
			return err
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, docKeyPrefix+doc.Id, data, 0); err != nil {
		return err
	}
	if err := s.store.SetAdd(ctx, folderKeyPrefix+doc.Folder, doc.Id); err != nil {
		return err
	}
	if err := s.store.SetAdd(ctx, folderSetKey, doc.Folder); err != nil {
		return err
	}

	log.Debug("saved document", "folder", doc.Folder, "status", doc.Status)
	return nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	var doc docModel.Document
	val, err := s.store.Get(ctx, docKeyPrefix+id)
	if err != nil {
		return doc, false
	}
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	folders, err := s.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	var out []docModel.Document
	for _, f := range folders {
		docs, err := s.ListDocumentsByFolder(ctx, f.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, docs...)
	}
	return out, nil
}

func (s *RedisDocumentStore) ListDocumentsByFolder(ctx context.Context, folder string) ([]docModel.Document, error) {
	ids, err := s.store.SetMembers(ctx, folderKeyPrefix+folder)
	if err != nil {
		return nil, fmt.Errorf("reading folder members: %w", err)
	}
	out := make([]docModel.Document, 0, len(ids))
	for _, id := range ids {
		if doc, found := s.GetDocument(ctx, id); found {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	doc, found := s.GetDocument(ctx, id)
	if !found {
		return nil
	}
	if err := s.store.SetRemove(ctx, folderKeyPrefix+doc.Folder, id); err != nil {
		return err
	}
	return s.store.Del(ctx, docKeyPrefix+id)
}

func (s *RedisDocumentStore) ListFolders(ctx context.Context) ([]docModel.Folder, error) {
	names, err := s.store.SetMembers(ctx, folderSetKey)
	if err != nil {
		return nil, err
	}
	out := make([]docModel.Folder, 0, len(names))
	for _, name := range names {
		out = append(out, docModel.Folder{Name: name})
	}
	return out, nil
}

func (s *RedisDocumentStore) CreateFolder(ctx context.Context, name string) error {
	return s.store.SetAdd(ctx, folderSetKey, name)
}

// DeleteFolder moves the folder's documents into the default folder and
// returns them so the caller can rewrite their chunk payloads. The folder
// name itself disappears from the registry.
func (s *RedisDocumentStore) DeleteFolder(ctx context.Context, name string) ([]docModel.Document, error) {
	docs, err := s.ListDocumentsByFolder(ctx, name)
	if err != nil {
		return nil, err
	}

	moved := make([]docModel.Document, 0, len(docs))
	for _, doc := range docs {
		doc.Folder = config.DefaultFolderName
		if err := s.SaveDocument(ctx, doc); err != nil {
			return moved, fmt.Errorf("reassigning %s: %w", doc.Id, err)
		}
		moved = append(moved, doc)
	}

	if err := s.store.SetRemove(ctx, folderSetKey, name); err != nil {
		return moved, err
	}
	if err := s.store.Del(ctx, folderKeyPrefix+name); err != nil {
		return moved, err
	}
	return moved, nil
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test document store"),
	}
}
