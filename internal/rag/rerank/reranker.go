package rerank

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/rag/llm"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

const systemPrompt = `You are a relevance filter for a document search system.
You get a question and numbered chunk previews. Pick the chunks most useful for
answering the question, best first.
Respond with JSON: {"indices": [<chunk numbers>]}`

// Reranker narrows a broad candidate set with one LLM call over truncated
// previews. It is a quality optimization, never a correctness requirement: on
// any failure it falls back to a prefix of the original candidates.
type Reranker struct {
	llmProvider llm.Provider
	keepCount   int
	logger      *logger_i.Logger
}

func New(provider llm.Provider) *Reranker {
	return &Reranker{
		llmProvider: provider,
		keepCount:   config.RerankKeepCount,
		logger:      logger_i.NewLogger("Reranker"),
	}
}

type rerankResponse struct {
	Indices []int `json:"indices"`
}

func (r *Reranker) Rerank(ctx context.Context, query string, candidates []chatModel.RetrievedChunk) []chatModel.RetrievedChunk {
	// Ranking overhead isn't justified for tiny candidate sets.
	if len(candidates) <= config.RerankSkipThreshold {
		return candidates
	}

	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "candidates", len(candidates))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Question: %s\n\nChunks:\n", query))
	for i, c := range candidates {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i, preview(c.Content)))
	}
	sb.WriteString(fmt.Sprintf("\nReturn up to %d chunk numbers.", r.keepCount))

	raw, err := r.llmProvider.GenerateJSON(ctx, systemPrompt, sb.String())
	if err != nil {
		log.Warn("rerank call failed, keeping unranked prefix", "error", err)
		return fallback(candidates, r.keepCount)
	}

	var parsed rerankResponse
	if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &parsed); err != nil || len(parsed.Indices) == 0 {
		log.Warn("rerank returned unusable output, keeping unranked prefix")
		return fallback(candidates, r.keepCount)
	}

	seen := make(map[int]bool, len(parsed.Indices))
	selected := make([]chatModel.RetrievedChunk, 0, r.keepCount)
	for _, idx := range parsed.Indices {
		// hallucinated indices are dropped, never thrown
		if idx < 0 || idx >= len(candidates) || seen[idx] {
			continue
		}
		seen[idx] = true
		selected = append(selected, candidates[idx])
		if len(selected) == r.keepCount {
			break
		}
	}
	if len(selected) == 0 {
		return fallback(candidates, r.keepCount)
	}

	log.Debug("rerank done", "kept", len(selected))
	return selected
}

func fallback(candidates []chatModel.RetrievedChunk, keep int) []chatModel.RetrievedChunk {
	if len(candidates) <= keep {
		return candidates
	}
	return candidates[:keep]
}

func preview(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	if len(content) <= config.RerankPreviewChars {
		return content
	}
	// cut on a rune boundary so the prompt never carries a torn multi-byte
	// sequence
	cut := config.RerankPreviewChars
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}
