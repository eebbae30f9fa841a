package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/PDFChatAPI/internal/adapter"
	"github.com/akolanti/PDFChatAPI/internal/api"
	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
)

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ChatHandler godoc
// @Summary      Chat over a document or folder
// @Description  Answers a question from one document or a folder of documents. The response always contains an answer; citations reference verified source text.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest  true  "Question plus document or folder scope"
// @Success      200      {object}  api.ChatResponse
// @Failure      400      {object}  api.ErrorResponse "Missing message or scope"
// @Failure      404      {object}  api.ErrorResponse "Unknown document or folder"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	var requestData api.ChatRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the chat handler reader", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad chat request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
		return
	}

	query, degraded, errCode, errMessage := resolveChatQuery(r, requestData)
	if errCode != 0 {
		WriteErrorResponse(w, errCode, errMessage)
		return
	}
	// the chat endpoint always answers once the scope is valid, even when the
	// document cannot be searched yet
	if degraded != "" {
		writeJsonResponse(w, http.StatusOK, api.ChatResponse{Answer: degraded, Citations: []api.Citation{}})
		return
	}

	answer := handlerInstance.ragService.Chat(r.Context(), query)
	writeJsonResponse(w, http.StatusOK, adapter.ToChatResponse(answer))
}

// resolveChatQuery validates scope and resolves the mode once. Everything past
// this point works with the enum, not the wire strings.
func resolveChatQuery(r *http.Request, requestData api.ChatRequest) (chatModel.Query, string, int, string) {
	if requestData.Message == "" {
		return chatModel.Query{}, "", http.StatusBadRequest, "message is required"
	}

	mode := chatModel.ResolveMode(requestData.Mode, requestData.DocumentId, requestData.FolderName)
	if mode == chatModel.ModeUnknown {
		return chatModel.Query{}, "", http.StatusBadRequest, "document_id or folder_name is required"
	}

	if mode == chatModel.ModeSingleDoc {
		doc, found := getDocument(r.Context(), requestData.DocumentId)
		if !found {
			return chatModel.Query{}, "", http.StatusNotFound, "document not found"
		}
		if doc.Status == docModel.StatusProcessing {
			return chatModel.Query{}, "This document is still being processed. Please try again in a moment.", 0, ""
		}
		if doc.Status == docModel.StatusFailed {
			return chatModel.Query{}, "This document could not be processed, so there is no content to search. Try re-uploading it.", 0, ""
		}
	} else if !folderExists(r, requestData.FolderName) {
		return chatModel.Query{}, "", http.StatusNotFound, "folder not found"
	}

	return chatModel.Query{
		Message:    requestData.Message,
		DocumentId: requestData.DocumentId,
		FolderName: requestData.FolderName,
		Mode:       mode,
		History:    requestData.History,
	}, "", 0, ""
}

func folderExists(r *http.Request, name string) bool {
	folders, err := handlerInstance.docStore.ListFolders(r.Context())
	if err != nil {
		logRH.Error("listing folders failed", "error", err)
		return false
	}
	for _, f := range folders {
		if f.Name == name {
			return true
		}
	}
	return false
}
