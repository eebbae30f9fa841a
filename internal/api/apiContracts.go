package api

import (
	"time"

	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
)

type ChatRequest struct {
	Message    string           `json:"message" validate:"required" example:"What is the total revenue?"`
	DocumentId string           `json:"document_id,omitempty" example:"4f7c9c0a-2b1d-4f7e-9c3a-8d2e5b6a1f00"`
	FolderName string           `json:"folder_name,omitempty" example:"Finance"`
	Mode       string           `json:"mode,omitempty" example:"deep"`
	History    []chatModel.Turn `json:"history,omitempty"`
}

type ChatResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

type Citation struct {
	Content string `json:"content" example:"Total revenue was $5.2M in Q3."`
	Page    int    `json:"page" example:"3"`
	Source  string `json:"source" example:"Q3 Report.pdf"`
}

type UploadResponse struct {
	DocumentId string `json:"doc_id"`
	Status     string `json:"status" example:"processing"`
	StatusURL  string `json:"status_url"`
}

type StatusResponse struct {
	DocumentId string    `json:"document_id"`
	Title      string    `json:"title"`
	Folder     string    `json:"folder"`
	Status     string    `json:"status" example:"ready"`
	Summary    string    `json:"summary,omitempty"`
	PageCount  int       `json:"page_count,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type DocumentInfo struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Folder    string    `json:"folder"`
	Status    string    `json:"status"`
	Tag       string    `json:"tag,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	PageCount int       `json:"page_count,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type DocumentListResponse struct {
	Documents []DocumentInfo `json:"documents"`
}

type FolderRequest struct {
	Name string `json:"name" validate:"required" example:"Finance"`
}

type FolderListResponse struct {
	Folders []string `json:"folders"`
}

type TranscriptionResponse struct {
	Text string `json:"text" example:"What was the total revenue in Q3?"`
}

type ErrorResponse struct {
	Code    int    `json:"code" example:"404"`
	Message string `json:"message" example:"document not found"`
}
