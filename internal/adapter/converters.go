package adapter

import (
	"fmt"

	"github.com/akolanti/PDFChatAPI/internal/api"
	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
)

func ToChatResponse(answer chatModel.Answer) api.ChatResponse {
	citations := make([]api.Citation, 0, len(answer.Citations))
	for _, c := range answer.Citations {
		citations = append(citations, api.Citation{
			Content: c.Content,
			Page:    c.Page,
			Source:  c.Source,
		})
	}
	return api.ChatResponse{
		Answer:    answer.Text,
		Citations: citations,
	}
}

func ToUploadResponse(doc docModel.Document) api.UploadResponse {
	return api.UploadResponse{
		DocumentId: doc.Id,
		Status:     string(doc.Status),
		StatusURL:  fmt.Sprintf("documents/%s/status", doc.Id),
	}
}

func ToStatusResponse(doc docModel.Document) api.StatusResponse {
	return api.StatusResponse{
		DocumentId: doc.Id,
		Title:      doc.Title,
		Folder:     doc.Folder,
		Status:     string(doc.Status),
		Summary:    doc.Summary.Description,
		PageCount:  doc.PageCount,
		CreatedAt:  doc.CreatedAt,
	}
}

func ToDocumentList(docs []docModel.Document) api.DocumentListResponse {
	out := make([]api.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		out = append(out, api.DocumentInfo{
			Id:        doc.Id,
			Title:     doc.Title,
			Folder:    doc.Folder,
			Status:    string(doc.Status),
			Tag:       doc.Summary.Tag,
			Summary:   doc.Summary.Description,
			PageCount: doc.PageCount,
			CreatedAt: doc.CreatedAt,
		})
	}
	return api.DocumentListResponse{Documents: out}
}

func ToFolderList(folders []docModel.Folder) api.FolderListResponse {
	names := make([]string, 0, len(folders))
	for _, f := range folders {
		names = append(names, f.Name)
	}
	return api.FolderListResponse{Folders: names}
}
