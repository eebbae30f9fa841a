package gemini

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/customHttpClient"
	"github.com/akolanti/PDFChatAPI/internal/rag/llm"
	"github.com/akolanti/PDFChatAPI/internal/retry"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	policy    retry.Policy
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName, policy: geminiClient.policy}
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, HTTPClient: customHttpClient.Client()})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{
			client:    c,
			modelName: modelName,
			policy: retry.Policy{
				MaxAttempts: config.RetryMaxAttempts,
				BaseDelay:   config.RetryBaseDelay,
				MaxDelay:    config.RetryMaxDelay,
			},
		}
		logger.Info("Gemini client created", "model", modelName)
		go closeClient(ctx, geminiClient)
	}

}

func (c *llmClient) Generate(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	return c.generate(ctx, systemInstruction, prompt, "")
}

func (c *llmClient) GenerateJSON(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	return c.generate(ctx, systemInstruction, prompt, "application/json")
}

func (c *llmClient) generate(ctx context.Context, systemInstruction string, prompt string, mimeType string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	temperature := config.ModelTemperature
	contentConfig := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if systemInstruction != "" {
		contentConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}
	if mimeType != "" {
		contentConfig.ResponseMIMEType = mimeType
	}

	var result *genai.GenerateContentResponse
	err := c.policy.Do(ctx, isTransient, func() error {
		var callErr error
		result, callErr = c.client.Models.GenerateContent(
			ctx,
			c.modelName,
			genai.Text(prompt),
			contentConfig,
		)
		return callErr
	})
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return "", err
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
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

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.modelName = ""
}
