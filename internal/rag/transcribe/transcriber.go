package transcribe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/customHttpClient"
	"github.com/akolanti/PDFChatAPI/internal/retry"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var transcriptionClient *client

// Transcriber converts a recorded voice question into text so it can go
// through the normal chat pipeline.
type Transcriber interface {
	Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error)
}

type client struct {
	openAi *openai.Client
	model  string
	policy retry.Policy
}

// GetOpenAITranscriber returns the OpenAI-backed transcriber, nil when no api
// key is configured. Voice input is optional, chat works without it.
func GetOpenAITranscriber(ctx context.Context, apikey string) Transcriber {
	once.Do(func() {
		logger = logger_i.NewLogger("transcription")
		if apikey == "" {
			logger.Warn("OpenAI api key is empty, voice transcription disabled")
			return
		}
		c := openai.NewClient(option.WithAPIKey(apikey), option.WithHTTPClient(customHttpClient.Client()))
		transcriptionClient = &client{
			openAi: &c,
			model:  config.TranscriptionModel,
			policy: retry.Policy{
				MaxAttempts: config.RetryMaxAttempts,
				BaseDelay:   config.RetryBaseDelay,
				MaxDelay:    config.RetryMaxDelay,
			},
		}
		logger.Info("OpenAI transcription client created", "model", config.TranscriptionModel)
	})

	if transcriptionClient == nil {
		return nil
	}
	return transcriptionClient
}

func (c *client) Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	// buffered so a retried attempt does not resend a drained reader
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", err
	}

	var res *openai.Transcription
	err = c.policy.Do(ctx, isTransient, func() error {
		var callErr error
		res, callErr = c.openAi.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
			Model: openai.AudioModel(c.model),
			File:  openai.File(bytes.NewReader(data), fileName, "application/octet-stream"),
		})
		return callErr
	})
	if err != nil {
		log.Error("Error transcribing audio with OpenAI", "error", err.Error())
		return "", err
	}
	return strings.TrimSpace(res.Text), nil
}

func isTransient(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}
