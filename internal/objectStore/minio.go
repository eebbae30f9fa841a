package objectStore

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

var (
	instance *ObjectStore
	once     sync.Once
	logger   *logger_i.Logger
)

// ObjectStore keeps the original uploaded file so a document can be
// re-ingested (new chunking, new embedding model) without a re-upload.
type ObjectStore struct {
	client *minio.Client
}

// GetObjectStore returns the singleton minio-backed store, nil when the
// endpoint is unreachable. The source archive is optional: ingestion works
// without it, re-ingestion does not.
func GetObjectStore(ctx context.Context) *ObjectStore {
	once.Do(func() {
		logger = logger_i.NewLogger("ObjectStore")

		endpoint := os.Getenv("MINIO_ENDPOINT")
		if endpoint == "" {
			endpoint = config.MinioEndpoint
		}

		client, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: config.MinioUseSSL,
		})
		if err != nil {
			logger.Error("could not create minio client", "error", err)
			return
		}

		store := &ObjectStore{client: client}
		if err := store.ensureBucket(ctx); err != nil {
			logger.Error("object store offline", "error", err)
			return
		}
		instance = store
		logger.Info("connected to object store", "endpoint", endpoint)
	})
	return instance
}

func (s *ObjectStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, config.MinioBucketName)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, config.MinioBucketName, minio.MakeBucketOptions{})
}

// Put archives a document's source file under <documentId>/source<ext>.
func (s *ObjectStore) Put(ctx context.Context, documentId string, ext string, reader io.Reader, size int64) error {
	objectName := fmt.Sprintf("%s/source%s", documentId, ext)
	_, err := s.client.PutObject(ctx, config.MinioBucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("archiving source file: %w", err)
	}
	logger.Debug("archived source file", "documentId", documentId, "object", objectName)
	return nil
}

// Get streams a previously archived source file, used by re-ingestion.
func (s *ObjectStore) Get(ctx context.Context, documentId string, ext string) (io.ReadCloser, error) {
	objectName := fmt.Sprintf("%s/source%s", documentId, ext)
	obj, err := s.client.GetObject(ctx, config.MinioBucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching source file: %w", err)
	}
	return obj, nil
}

// Delete removes the archived source when the document is deleted.
func (s *ObjectStore) Delete(ctx context.Context, documentId string, ext string) error {
	objectName := fmt.Sprintf("%s/source%s", documentId, ext)
	return s.client.RemoveObject(ctx, config.MinioBucketName, objectName, minio.RemoveObjectOptions{})
}
