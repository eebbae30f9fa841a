package synthesize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/rag/llm"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

const outputFormat = `Respond with JSON:
{"answer": "<markdown answer>", "citations": [{"id": <context number>, "quote": "<exact text copied from that context entry>"}]}
Cite only context entries you actually used. Quotes must be copied verbatim.`

const singleDocPersona = `You are a meticulous document analyst. Answer strictly
from the provided context of one document. Quote exact passages to support
every claim. If the context does not contain the answer, say so plainly.
` + outputFormat

const folderDeepPersona = `You are a research assistant synthesizing an answer
across several documents. Compare sources, and explicitly flag any
contradictions between them, naming the documents that disagree. Answer only
from the provided context.
` + outputFormat

const folderFastPersona = `You are a librarian with access to document
summaries, not full texts. Answer from the summaries, point the user to the
documents that cover their question, and say when a question needs the full
document.
` + outputFormat

// Synthesizer turns retrieved context plus the question into the final answer
// with verified citations. It never returns an error: the chat endpoint
// always answers, degrading to a fallback message when the model fails.
type Synthesizer struct {
	llmProvider llm.Provider
	logger      *logger_i.Logger
}

func New(provider llm.Provider) *Synthesizer {
	return &Synthesizer{
		llmProvider: provider,
		logger:      logger_i.NewLogger("Synthesizer"),
	}
}

type modelResponse struct {
	Answer    string        `json:"answer"`
	Citations []rawCitation `json:"citations"`
}

func (s *Synthesizer) Synthesize(ctx context.Context, query chatModel.Query, chunks []chatModel.RetrievedChunk) chatModel.Answer {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "mode", query.Mode.String())

	if len(chunks) == 0 {
		log.Info("no context retrieved, returning fallback answer")
		return chatModel.Answer{Text: config.FallbackAnswer}
	}

	raw, err := s.llmProvider.GenerateJSON(ctx, personaFor(query.Mode), buildPrompt(query, chunks))
	if err != nil {
		log.Error("synthesis call failed", "error", err)
		return chatModel.Answer{Text: config.FallbackAnswer}
	}

	var parsed modelResponse
	if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &parsed); err != nil || parsed.Answer == "" {
		log.Error("synthesis returned unusable output", "error", err)
		return chatModel.Answer{Text: config.FallbackAnswer}
	}

	citations := reconcile(parsed.Citations, chunks, query.Message)
	log.Debug("synthesis done", "citations", len(citations), "claimed", len(parsed.Citations))

	return chatModel.Answer{Text: parsed.Answer, Citations: citations}
}

func personaFor(mode chatModel.ChatMode) string {
	switch mode {
	case chatModel.ModeFolderDeep:
		return folderDeepPersona
	case chatModel.ModeFolderFast:
		return folderFastPersona
	default:
		return singleDocPersona
	}
}

// buildPrompt renders the indexed context block, recent history and the
// question. The [ID:i] tags are the citation reference scheme: the model
// cites by number, not by repeating source names.
func buildPrompt(query chatModel.Query, chunks []chatModel.RetrievedChunk) string {
	var sb strings.Builder

	sb.WriteString("Context:\n")
	for i, c := range chunks {
		sb.WriteString(fmt.Sprintf("[ID:%d] [Page %d | Source %s] %s\n", i, c.Page, c.Source, c.Content))
	}

	if len(query.History) > 0 {
		sb.WriteString("\nConversation so far:\n")
		history := query.History
		if len(history) > config.MaxHistoryTurns {
			history = history[len(history)-config.MaxHistoryTurns:]
		}
		for _, turn := range history {
			sb.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
		}
	}

	sb.WriteString(fmt.Sprintf("\nQuestion: %s", query.Message))
	return sb.String()
}
