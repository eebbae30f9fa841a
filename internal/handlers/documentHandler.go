package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/PDFChatAPI/internal/adapter"
	"github.com/akolanti/PDFChatAPI/internal/adapter/utils"
	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/internal/rag/ocr"
)

// UploadDocumentHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, creates the document record in processing state, and queues a background ingestion job.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  false  "Display name, defaults to the file name"
// @Param        folder_name    formData  string  false  "Target folder, defaults to General"
// @Param        document       formData  file    true   "The PDF, DOCX, RTF or TXT file to upload"
// @Success      202  {object}  api.UploadResponse "Accepted - poll the status URL"
// @Failure      400  {object}  api.ErrorResponse  "Missing file, unsupported type, or file too large"
// @Failure      500  {object}  api.ErrorResponse  "Storage error"
// @Router       /upload [post]
func UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	if ocr.GetDocType(fileMetadata.Filename) == ocr.ERR {
		WriteErrorResponse(w, http.StatusBadRequest, "Unsupported file type")
		return
	}

	docName := r.FormValue("document_name")
	if docName == "" {
		docName = fileMetadata.Filename
	}
	folder := r.FormValue("folder_name")
	if folder == "" {
		folder = config.DefaultFolderName
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "Write error")
		return
	}

	doc := docModel.Document{
		Id:        utils.GetNewUUID(),
		Title:     docName,
		Folder:    folder,
		Status:    docModel.StatusProcessing,
		CreatedAt: time.Now(),
	}
	if err := handlerInstance.docStore.SaveDocument(r.Context(), doc); err != nil {
		logRH.Error("could not save document record", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	archiveSourceFile(r, doc.Id, tempFilePath, fileMetadata.Filename)

	handlerInstance.queueIngestJob(newIngestJob{
		documentId: doc.Id,
		fileName:   docName,
		filePath:   tempFilePath,
		folder:     folder,
		traceId:    traceFrom(r.Context()),
	})

	writeJsonResponse(w, http.StatusAccepted, adapter.ToUploadResponse(doc))
}

// the source archive is best-effort: ingestion reads the temp file, the
// object store only enables later re-ingestion
func archiveSourceFile(r *http.Request, documentId string, tempFilePath string, originalName string) {
	if handlerInstance.objects == nil {
		return
	}
	source, err := os.Open(tempFilePath)
	if err != nil {
		logRH.Warn("could not open temp file for archiving", "error", err)
		return
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return
	}
	ext := filepath.Ext(originalName)
	if err := handlerInstance.objects.Put(r.Context(), documentId, ext, source, info.Size()); err != nil {
		logRH.Warn("source archive failed", "documentId", documentId, "error", err)
	}
}

// ReingestDocumentHandler godoc
// @Summary      Re-ingest a document from its archived source
// @Description  Pulls the original file from the object store and runs ingestion again, replacing the document's existing chunks.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      202  {object}  api.UploadResponse "Accepted - poll the status URL"
// @Failure      404  {object}  api.ErrorResponse "Document not found"
// @Failure      409  {object}  api.ErrorResponse "Document is already processing"
// @Failure      503  {object}  api.ErrorResponse "Source archive unavailable"
// @Router       /documents/{id}/reingest [post]
func ReingestDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	doc, found := getDocument(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, "document not found")
		return
	}
	if doc.Status == docModel.StatusProcessing {
		WriteErrorResponse(w, http.StatusConflict, "document is already processing")
		return
	}
	if handlerInstance.objects == nil {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "source archive is not configured")
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		WriteErrorResponse(w, http.StatusInternalServerError, errString)
		return
	}

	source, err := handlerInstance.objects.Get(r.Context(), id, filepath.Ext(doc.Title))
	if err != nil {
		logRH.Error("could not fetch archived source", "documentId", id, "error", err)
		WriteErrorResponse(w, http.StatusServiceUnavailable, "archived source unavailable")
		return
	}
	defer source.Close()

	tempFilePath := filepath.Join(targetDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), doc.Title))
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, source); err != nil {
		logRH.Error("could not restore archived source", "documentId", id, "error", err)
		WriteErrorResponse(w, http.StatusServiceUnavailable, "archived source unavailable")
		return
	}

	doc.Status = docModel.StatusProcessing
	if err := handlerInstance.docStore.SaveDocument(r.Context(), doc); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	handlerInstance.queueIngestJob(newIngestJob{
		documentId: doc.Id,
		fileName:   doc.Title,
		filePath:   tempFilePath,
		folder:     doc.Folder,
		traceId:    traceFrom(r.Context()),
	})

	writeJsonResponse(w, http.StatusAccepted, adapter.ToUploadResponse(doc))
}

// GetStatusHandler godoc
// @Summary      Get document ingestion status
// @Description  Reports whether a document is processing, ready, or failed.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.StatusResponse
// @Failure      404  {object}  api.ErrorResponse "Document not found"
// @Router       /documents/{id}/status [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	doc, found := getDocument(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, "document not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToStatusResponse(doc))
}

// ListDocumentsHandler godoc
// @Summary      List documents
// @Description  Lists all documents with folder, status and summary tag.
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	docs, err := handlerInstance.docStore.ListDocuments(r.Context())
	if err != nil {
		logRH.Error("listing documents failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "could not list documents")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentList(docs))
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes the document record, its vector chunks, and the archived source file.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      204  "Deleted"
// @Failure      404  {object}  api.ErrorResponse "Document not found"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	doc, found := getDocument(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, "document not found")
		return
	}

	if err := handlerInstance.ragService.DeleteDocumentChunks(r.Context(), id); err != nil {
		logRH.Error("chunk cascade failed", "documentId", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "could not delete document chunks")
		return
	}
	if err := handlerInstance.docStore.DeleteDocument(r.Context(), id); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "could not delete document")
		return
	}
	if handlerInstance.objects != nil {
		if err := handlerInstance.objects.Delete(r.Context(), id, filepath.Ext(doc.Title)); err != nil {
			logRH.Warn("source archive delete failed", "documentId", id, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
