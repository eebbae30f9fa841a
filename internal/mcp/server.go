package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/PDFChatAPI/internal/adapter/utils"
	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/rag"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

// Server exposes the chat pipeline to MCP clients (agents, IDEs) over stdio.
// Same Service interface the HTTP handlers use, different front door.
type Server struct {
	ragService rag.Service
	logger     *logger_i.Logger
}

func NewServer(ragService rag.Service) *Server {
	return &Server{
		ragService: ragService,
		logger:     logger_i.NewLogger("MCP Server"),
	}
}

type askInput struct {
	Question   string `json:"question" jsonschema:"the question to answer"`
	DocumentId string `json:"document_id,omitempty" jsonschema:"ask one document"`
	FolderName string `json:"folder_name,omitempty" jsonschema:"ask a whole folder"`
	Mode       string `json:"mode,omitempty" jsonschema:"fast or deep, folder scope only"`
}

type askOutput struct {
	Answer    string     `json:"answer"`
	Citations []citation `json:"citations"`
}

type citation struct {
	Content string `json:"content"`
	Page    int    `json:"page"`
	Source  string `json:"source"`
}

// Run serves tools over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pdf-chat",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_documents",
		Description: "Ask a question about an uploaded document or a folder of documents. Returns a cited answer.",
	}, s.askDocuments)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Retrieve the most relevant passages for a query without synthesizing an answer. Returns raw chunks with scores.",
	}, s.searchDocuments)

	s.logger.Info("MCP server listening on stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) askDocuments(ctx context.Context, req *mcp.CallToolRequest, input askInput) (*mcp.CallToolResult, askOutput, error) {
	if input.Question == "" {
		return nil, askOutput{}, fmt.Errorf("question is required")
	}

	mode := chatModel.ResolveMode(input.Mode, input.DocumentId, input.FolderName)
	if mode == chatModel.ModeUnknown {
		return nil, askOutput{}, fmt.Errorf("document_id or folder_name is required")
	}

	ctx = context.WithValue(ctx, config.TRACE_ID_KEY, utils.GetNewUUID())

	answer := s.ragService.Chat(ctx, chatModel.Query{
		Message:    input.Question,
		DocumentId: input.DocumentId,
		FolderName: input.FolderName,
		Mode:       mode,
	})

	out := askOutput{Answer: answer.Text}
	var rendered strings.Builder
	rendered.WriteString(answer.Text)
	if len(answer.Citations) > 0 {
		rendered.WriteString("\n\nSources:\n")
	}
	for _, c := range answer.Citations {
		out.Citations = append(out.Citations, citation{
			Content: c.Content,
			Page:    c.Page,
			Source:  c.Source,
		})
		rendered.WriteString(fmt.Sprintf("- %s (page %d): %q\n", c.Source, c.Page, c.Content))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: rendered.String()}},
	}, out, nil
}

type searchOutput struct {
	Chunks []searchChunk `json:"chunks"`
}

type searchChunk struct {
	Content string  `json:"content"`
	Page    int     `json:"page"`
	Source  string  `json:"source"`
	Score   float32 `json:"score"`
}

func (s *Server) searchDocuments(ctx context.Context, req *mcp.CallToolRequest, input askInput) (*mcp.CallToolResult, searchOutput, error) {
	if input.Question == "" {
		return nil, searchOutput{}, fmt.Errorf("question is required")
	}

	mode := chatModel.ResolveMode(input.Mode, input.DocumentId, input.FolderName)
	if mode == chatModel.ModeUnknown {
		return nil, searchOutput{}, fmt.Errorf("document_id or folder_name is required")
	}

	ctx = context.WithValue(ctx, config.TRACE_ID_KEY, utils.GetNewUUID())

	chunks, err := s.ragService.Search(ctx, chatModel.Query{
		Message:    input.Question,
		DocumentId: input.DocumentId,
		FolderName: input.FolderName,
		Mode:       mode,
	})
	if err != nil {
		return nil, searchOutput{}, fmt.Errorf("search failed: %w", err)
	}

	var out searchOutput
	var rendered strings.Builder
	for _, c := range chunks {
		out.Chunks = append(out.Chunks, searchChunk{
			Content: c.Content,
			Page:    c.Page,
			Source:  c.Source,
			Score:   c.Score,
		})
		rendered.WriteString(fmt.Sprintf("[%.2f] %s (page %d)\n%s\n\n", c.Score, c.Source, c.Page, c.Content))
	}
	if len(chunks) == 0 {
		rendered.WriteString("No relevant passages found.")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: rendered.String()}},
	}, out, nil
}
