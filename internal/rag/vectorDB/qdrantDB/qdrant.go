package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/internal/rag/vectorDB"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)
var collectionName = config.ChunkCollectionName

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQuadrantClient(ctx context.Context) vectorDB.DataProcessor {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx)
		if res != nil {
			quadrantInstance = res
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: quadrantInstance,
	}
}

func newClient(ctx context.Context) *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = createCollection(ctx, client, collectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", collectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) EnsureCollection(ctx context.Context) error {
	return createCollection(ctx, db.QObj, collectionName)
}

func (db *ClientHolder) Search(ctx context.Context, vector []float32, filter vectorDB.Filter, scoreThreshold float32, limit int) ([]chatModel.RetrievedChunk, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	query := &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if scoreThreshold > 0 {
		query.ScoreThreshold = qdrant.PtrOf(scoreThreshold)
	}
	if conditions := buildConditions(filter); len(conditions) > 0 {
		query.Filter = &qdrant.Filter{Must: conditions}
	}

	result, err := db.QObj.Query(ctx, query)
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	chunks := make([]chatModel.RetrievedChunk, 0, len(result))
	for _, hit := range result {
		chunks = append(chunks, chatModel.RetrievedChunk{
			ChunkId:    hit.Payload["chunk_id"].GetStringValue(),
			DocumentId: hit.Payload["document_id"].GetStringValue(),
			Page:       int(hit.Payload["page_number"].GetIntegerValue()),
			Source:     hit.Payload["title"].GetStringValue(),
			Content:    hit.Payload["content"].GetStringValue(),
			Score:      hit.Score,
			Type:       chatModel.ChunkTypeText,
		})
	}

	// qdrant already orders by score; make ties stable on insertion order
	seqOf := func(i int) int64 { return result[i].Payload["seq"].GetIntegerValue() }
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Score != chunks[j].Score {
			return chunks[i].Score > chunks[j].Score
		}
		return seqOf(i) < seqOf(j)
	})

	loggr.Debug("Qdrant search done", "hits", len(chunks))
	return chunks, nil
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, pages []docModel.DocumentPage, vectors [][]float32) error {
	if len(pages) != len(vectors) {
		return fmt.Errorf("mismatch: got %d pages but %d vectors", len(pages), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(pages))

	for i, page := range pages {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(page.Id),
			Vectors: qdrant.NewVectors(vectors[i]...),

			Payload: qdrant.NewValueMap(map[string]any{
				"chunk_id":    page.Id,
				"seq":         page.Seq,
				"document_id": page.DocumentId,
				"page_number": page.PageNumber,
				"folder":      page.Folder,
				"content":     page.Content,
				"title":       page.Title,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	return nil
}

func (db *ClientHolder) DeleteByDocument(ctx context.Context, documentId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("document_id", documentId)},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete by document failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) SetFolder(ctx context.Context, documentId string, folder string) error {
	_, err := db.QObj.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: collectionName,
		Payload:        qdrant.NewValueMap(map[string]any{"folder": folder}),
		PointsSelector: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("document_id", documentId)},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant folder payload update failed: %w", err)
	}
	return nil
}

func buildConditions(filter vectorDB.Filter) []*qdrant.Condition {
	var conditions []*qdrant.Condition
	if filter.DocumentId != "" {
		conditions = append(conditions, qdrant.NewMatch("document_id", filter.DocumentId))
	}
	if filter.Folder != "" {
		conditions = append(conditions, qdrant.NewMatch("folder", filter.Folder))
	}
	return conditions
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return err
	}

	//payload indexes for the two filter dimensions the retriever uses
	for _, field := range []string{"document_id", "folder"} {
		_, err = client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: collectionName,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
