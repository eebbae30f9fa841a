package ingest

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/internal/rag/llm"
	"github.com/akolanti/PDFChatAPI/internal/rag/ocr"
)

const summaryPrompt = `You summarize documents for a retrieval system. You get
the opening text of a document. Produce three levels of summary:
- tag: two to four words naming the document type
- description: one sentence on what the document covers
- detailed: one short paragraph covering the main topics
Respond with JSON: {"tag": "...", "description": "...", "detailed": "..."}`

// generateSummary builds the three-level summary folder retrieval depends on.
// Any failure returns an empty summary; the folder paths treat those
// documents as second-class but the document itself stays usable.
func (p *Pipeline) generateSummary(ctx context.Context, pages []ocr.Page) docModel.Summary {
	var sb strings.Builder
	for _, page := range pages {
		sb.WriteString(page.Content)
		sb.WriteString("\n")
		if sb.Len() >= config.SummaryInputChars {
			break
		}
	}
	head := sb.String()
	if len(head) > config.SummaryInputChars {
		head = head[:config.SummaryInputChars]
	}

	raw, err := p.llmProvider.GenerateJSON(ctx, summaryPrompt, head)
	if err != nil {
		p.logger.Warn("summary generation failed", "error", err)
		return docModel.Summary{}
	}

	var summary docModel.Summary
	if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &summary); err != nil {
		p.logger.Warn("summary output unparseable")
		return docModel.Summary{}
	}
	return summary
}
