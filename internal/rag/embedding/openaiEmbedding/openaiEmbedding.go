package openaiEmbedding

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/customHttpClient"
	"github.com/akolanti/PDFChatAPI/internal/rag/embedding"
	"github.com/akolanti/PDFChatAPI/internal/retry"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	openAi *openai.Client
	model  string
	policy retry.Policy
}

// GetOpenAIEmbeddingClient returns the OpenAI embedder (text-embedding-3-small
// by default). Selected via EMBEDDING_PROVIDER=openai; satisfies the same
// Embedder interface as the Google client.
func GetOpenAIEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		if apikey == "" {
			logger.Error("OpenAI embedding api key is empty")
			return
		}
		c := openai.NewClient(option.WithAPIKey(apikey), option.WithHTTPClient(customHttpClient.Client()))
		embeddingClient = &client{
			openAi: &c,
			model:  modelName,
			policy: retry.Policy{
				MaxAttempts: config.RetryMaxAttempts,
				BaseDelay:   config.RetryBaseDelay,
				MaxDelay:    config.RetryMaxDelay,
			},
		}
		logger.Info("OpenAI Embedding client created", "model", modelName)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "batch size", len(texts))

	var res *openai.CreateEmbeddingResponse
	err := c.policy.Do(ctx, isTransient, func() error {
		var callErr error
		res, callErr = c.openAi.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: embedding.NormalizeAll(texts),
			},
			Model:      openai.EmbeddingModel(c.model),
			Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
		})
		return callErr
	})
	if err != nil {
		log.Error("Error getting embeddings from OpenAI", "error", err.Error())
		return nil, err
	}
	if len(res.Data) != len(texts) {
		return nil, errors.New("openai returned an unexpected number of embeddings")
	}

	vectors := make([][]float32, len(res.Data))
	for i, d := range res.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func isTransient(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}
