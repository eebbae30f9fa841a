package googleEmbedding

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/customHttpClient"
	"github.com/akolanti/PDFChatAPI/internal/rag/embedding"
	"github.com/akolanti/PDFChatAPI/internal/retry"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi  *genai.Client
	model  string
	policy retry.Policy
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, HTTPClient: customHttpClient.Client()})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi: c,
			model: modelName,
			policy: retry.Policy{
				MaxAttempts: config.RetryMaxAttempts,
				BaseDelay:   config.RetryBaseDelay,
				MaxDelay:    config.RetryMaxDelay,
			},
		}
		logger.Debug("Google Embedding model name: " + modelName)
		logger.Info("Google Embedding client created")
		go closeClient(ctx, embeddingClient)
	}
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model, policy: embeddingClient.policy}
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	var result *genai.EmbedContentResponse
	err := c.policy.Do(ctx, isTransient, func() error {
		var callErr error
		result, callErr = c.doCall(ctx, genai.Text(embedding.Normalize(text)))
		return callErr
	})
	if err != nil {
		log.Error("Error getting embedding from Google", "error", err.Error())
		return nil, err
	}
	vectors, err := toVectors(result, 1)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "batch size", len(texts))

	var res *genai.EmbedContentResponse
	err := c.policy.Do(ctx, isTransient, func() error {
		var callErr error
		res, callErr = c.doCall(ctx, getContent(embedding.NormalizeAll(texts)))
		return callErr
	})
	if err != nil {
		log.Error("Error getting batch embeddings from Google", "error", err.Error())
		return nil, err
	}
	return toVectors(res, len(texts))
}

// toVectors unpacks a response, rejecting one whose embedding count does not
// match the request. A successful call can still come back short, indexing
// into it blindly would panic.
func toVectors(res *genai.EmbedContentResponse, want int) ([][]float32, error) {
	if res == nil || len(res.Embeddings) != want {
		return nil, errors.New("google returned an unexpected number of embeddings")
	}
	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		vectors = append(vectors, r.Values)
	}
	return vectors, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content,
		&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

func isTransient(err error) bool {
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded:
			return true
		}
	}
	return false
}
