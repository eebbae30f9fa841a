package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/PDFChatAPI/internal/api"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

type mockTranscriber struct {
	OnTranscribe func(ctx context.Context, fileName string, audio io.Reader) (string, error)
}

func (m *mockTranscriber) Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error) {
	return m.OnTranscribe(ctx, fileName, audio)
}

func audioRequest(t *testing.T, field string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "question.wav")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("fake audio bytes")); err != nil {
		t.Fatal(err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/transcribe", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestTranscribeHandler_NotConfigured(t *testing.T) {
	logRH = logger_i.NewLogger("TestHandlers")
	handlerInstance = &serviceHandler{}

	rec := httptest.NewRecorder()
	TranscribeHandler(rec, audioRequest(t, "audio"))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status got %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestTranscribeHandler_MissingFile(t *testing.T) {
	logRH = logger_i.NewLogger("TestHandlers")
	handlerInstance = &serviceHandler{transcriber: &mockTranscriber{
		OnTranscribe: func(ctx context.Context, fileName string, audio io.Reader) (string, error) {
			t.Error("transcriber must not be called without an audio file")
			return "", nil
		},
	}}

	rec := httptest.NewRecorder()
	TranscribeHandler(rec, audioRequest(t, "wrong_field"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestTranscribeHandler_ReturnsText(t *testing.T) {
	logRH = logger_i.NewLogger("TestHandlers")
	handlerInstance = &serviceHandler{transcriber: &mockTranscriber{
		OnTranscribe: func(ctx context.Context, fileName string, audio io.Reader) (string, error) {
			if fileName != "question.wav" {
				t.Errorf("file name got %q, want question.wav", fileName)
			}
			return "what was the total revenue?", nil
		},
	}}

	rec := httptest.NewRecorder()
	TranscribeHandler(rec, audioRequest(t, "audio"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want %d", rec.Code, http.StatusOK)
	}
	var resp api.TranscriptionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Text != "what was the total revenue?" {
		t.Errorf("text got %q", resp.Text)
	}
}
