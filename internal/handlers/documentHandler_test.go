package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

type mockDocStore struct {
	doc docModel.Document
}

func (m *mockDocStore) SaveDocument(ctx context.Context, doc docModel.Document) error { return nil }
func (m *mockDocStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	return m.doc, m.doc.Id == id
}
func (m *mockDocStore) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	return nil, nil
}
func (m *mockDocStore) ListDocumentsByFolder(ctx context.Context, folder string) ([]docModel.Document, error) {
	return nil, nil
}
func (m *mockDocStore) DeleteDocument(ctx context.Context, id string) error { return nil }
func (m *mockDocStore) ListFolders(ctx context.Context) ([]docModel.Folder, error) {
	return nil, nil
}
func (m *mockDocStore) CreateFolder(ctx context.Context, name string) error { return nil }
func (m *mockDocStore) DeleteFolder(ctx context.Context, name string) ([]docModel.Document, error) {
	return nil, nil
}

func reingestRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/reingest", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestReingestDocumentHandler_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		doc        docModel.Document
		requestId  string
		wantStatus int
	}{
		{
			name:       "UnknownDocument_NotFound",
			doc:        docModel.Document{Id: "doc-1", Status: docModel.StatusReady},
			requestId:  "missing",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "AlreadyProcessing_Conflict",
			doc:        docModel.Document{Id: "doc-1", Status: docModel.StatusProcessing},
			requestId:  "doc-1",
			wantStatus: http.StatusConflict,
		},
		{
			name:       "NoArchive_ServiceUnavailable",
			doc:        docModel.Document{Id: "doc-1", Status: docModel.StatusFailed},
			requestId:  "doc-1",
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logRH = logger_i.NewLogger("TestHandlers")
			handlerInstance = &serviceHandler{docStore: &mockDocStore{doc: tc.doc}}

			rec := httptest.NewRecorder()
			ReingestDocumentHandler(rec, reingestRequest(tc.requestId))

			if rec.Code != tc.wantStatus {
				t.Errorf("status got %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}
