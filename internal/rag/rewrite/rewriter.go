package rewrite

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

const systemPrompt = `You rewrite follow-up questions into standalone search queries.
Resolve pronouns and ellipsis using the conversation so the query makes sense on its own.
Keep the user's intent; do not answer the question.
Respond with JSON: {"query": "<standalone query>"}`

// Rewriter turns a follow-up question into a standalone query using recent
// conversation turns. This stage must never block retrieval: any failure
// returns the original question unchanged.
type Rewriter struct {
	llmProvider llm.Provider
	logger      *logger_i.Logger
}

func New(provider llm.Provider) *Rewriter {
	return &Rewriter{
		llmProvider: provider,
		logger:      logger_i.NewLogger("QueryRewriter"),
	}
}

type rewriteResponse struct {
	Query string `json:"query"`
}

func (r *Rewriter) Rewrite(ctx context.Context, question string, history []chatModel.Turn) string {
	if len(history) == 0 {
		return question
	}

	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	turns := history
	if len(turns) > config.MaxHistoryTurns {
		turns = turns[len(turns)-config.MaxHistoryTurns:]
	}

	var sb strings.Builder
	sb.WriteString("Conversation so far:\n")
	for _, t := range turns {
		sb.WriteString(fmt.Sprintf("%s: %s\n", t.Role, t.Content))
	}
	sb.WriteString(fmt.Sprintf("\nFollow-up question: %s", question))

	raw, err := r.llmProvider.GenerateJSON(ctx, systemPrompt, sb.String())
	if err != nil {
		log.Warn("query rewrite failed, using original question", "error", err)
		return question
	}

	var parsed rewriteResponse
	if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &parsed); err != nil || strings.TrimSpace(parsed.Query) == "" {
		log.Warn("query rewrite returned unusable output, using original question")
		return question
	}

	log.Debug("query rewritten", "original", question, "rewritten", parsed.Query)
	return strings.TrimSpace(parsed.Query)
}
