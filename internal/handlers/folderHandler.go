package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akolanti/PDFChatAPI/internal/adapter"
	"github.com/akolanti/PDFChatAPI/internal/adapter/utils"
	"github.com/akolanti/PDFChatAPI/internal/api"
	"github.com/akolanti/PDFChatAPI/internal/config"
)

// ListFoldersHandler godoc
// @Summary      List folders
// @Tags         Folders
// @Produce      json
// @Success      200  {object}  api.FolderListResponse
// @Router       /folders [get]
func ListFoldersHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	folders, err := handlerInstance.docStore.ListFolders(r.Context())
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "could not list folders")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToFolderList(folders))
}

// CreateFolderHandler godoc
// @Summary      Create a folder
// @Tags         Folders
// @Accept       json
// @Produce      json
// @Param        request  body  api.FolderRequest  true  "Folder name"
// @Success      201  {object}  api.FolderRequest
// @Failure      400  {object}  api.ErrorResponse "Missing name"
// @Router       /folders [post]
func CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.FolderRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Name == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := handlerInstance.docStore.CreateFolder(r.Context(), requestData.Name); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "could not create folder")
		return
	}
	writeJsonResponse(w, http.StatusCreated, requestData)
}

// DeleteFolderHandler godoc
// @Summary      Delete a folder
// @Description  Moves the folder's documents to the default folder, rewrites their chunk payloads, then removes the folder. The default folder cannot be deleted.
// @Tags         Folders
// @Produce      json
// @Param        name  path  string  true  "Folder name"
// @Success      204  "Deleted"
// @Failure      400  {object}  api.ErrorResponse "Default folder is not deletable"
// @Failure      404  {object}  api.ErrorResponse "Folder not found"
// @Router       /folders/{name} [delete]
func DeleteFolderHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	name := utils.GetChiURLParam(r, "name")
	if name == config.DefaultFolderName {
		WriteErrorResponse(w, http.StatusBadRequest, "the default folder cannot be deleted")
		return
	}
	if !folderExists(r, name) {
		WriteErrorResponse(w, http.StatusNotFound, "folder not found")
		return
	}

	moved, err := handlerInstance.docStore.DeleteFolder(r.Context(), name)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "could not delete folder")
		return
	}

	// chunk payloads carry the folder name; keep them in sync with the move
	for _, doc := range moved {
		if err := handlerInstance.ragService.MoveDocumentChunks(r.Context(), doc.Id, config.DefaultFolderName); err != nil {
			logRH.Error("chunk folder rewrite failed", "documentId", doc.Id, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
