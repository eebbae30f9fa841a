package rag

import (
	"context"
	"time"

	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/metrics"
)

func (s *service) executeRewriteStep(ctx context.Context, query chatModel.Query) string {
	if s.rewriter == nil || len(query.History) == 0 {
		return query.Message
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("query_rewrite", time.Since(start)) }()

	return s.rewriter.Rewrite(ctx, query.Message, query.History)
}

func (s *service) executeRetrieveStep(ctx context.Context, query chatModel.Query) ([]chatModel.RetrievedChunk, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval", time.Since(start)) }()

	return s.retriever.Retrieve(ctx, query)
}

func (s *service) executeRerankStep(ctx context.Context, query chatModel.Query, candidates []chatModel.RetrievedChunk) []chatModel.RetrievedChunk {
	// summaries are already few and curated, re-ranking them wastes a call
	if s.reranker == nil || query.Mode == chatModel.ModeFolderFast {
		return candidates
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("rerank", time.Since(start)) }()

	return s.reranker.Rerank(ctx, query.Message, candidates)
}

func (s *service) executeSynthesizeStep(ctx context.Context, query chatModel.Query, candidates []chatModel.RetrievedChunk) chatModel.Answer {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("synthesis", time.Since(start)) }()

	return s.synthesizer.Synthesize(ctx, query, candidates)
}
