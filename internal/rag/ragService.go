package rag

import (
	"context"
	"time"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/jobModel"
	"github.com/akolanti/PDFChatAPI/internal/metrics"
	"github.com/akolanti/PDFChatAPI/internal/rag/embedding"
	"github.com/akolanti/PDFChatAPI/internal/rag/ingest"
	"github.com/akolanti/PDFChatAPI/internal/rag/llm"
	"github.com/akolanti/PDFChatAPI/internal/rag/ocr"
	"github.com/akolanti/PDFChatAPI/internal/rag/rerank"
	"github.com/akolanti/PDFChatAPI/internal/rag/retrieve"
	"github.com/akolanti/PDFChatAPI/internal/rag/rewrite"
	"github.com/akolanti/PDFChatAPI/internal/rag/synthesize"
	"github.com/akolanti/PDFChatAPI/internal/rag/vectorDB"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - This is the PUBLIC contract.
  - Handlers and workers only see the behavior, not the stack behind it.

2. service (Private Struct):
  - This is the PRIVATE implementation.
  - It holds the pipeline stages (retriever, reranker, synthesizer) and
    the shared clients they wrap.
  - Lowercase so external packages cannot reach the internals directly.

3. Pointer Receiver (*service):
  - Methods on (*service) implicitly satisfy the Service interface.

4. Dependency Injection (NewService):
  - Links the private struct to the public interface and lets tests swap
    every external dependency for a mock.
*/

// Service is what handlers and workers call - they never see the llm, the
// vector store or any stage wiring.
type Service interface {
	Chat(ctx context.Context, query chatModel.Query) chatModel.Answer
	Search(ctx context.Context, query chatModel.Query) ([]chatModel.RetrievedChunk, error)
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	DeleteDocumentChunks(ctx context.Context, documentId string) error
	MoveDocumentChunks(ctx context.Context, documentId string, folder string) error
}

type service struct {
	retriever   *retrieve.Retriever
	rewriter    *rewrite.Rewriter
	reranker    *rerank.Reranker
	synthesizer *synthesize.Synthesizer
	pipeline    *ingest.Pipeline
	vectorDb    vectorDB.DataProcessor
	logger      *logger_i.Logger
}

// NewService wires the chat and ingestion pipelines. Rewrite and rerank are
// optional stages: disabled in config means the stage is never constructed
// and Chat simply skips it.
func NewService(vectorDb vectorDB.DataProcessor, llmProvider llm.Provider, embedder embedding.Embedder, docStore docModel.DocumentStore, extractor ocr.Extractor) Service {
	s := &service{
		retriever:   retrieve.New(vectorDb, embedder, llmProvider, docStore),
		synthesizer: synthesize.New(llmProvider),
		pipeline:    ingest.NewPipeline(extractor, embedder, vectorDb, llmProvider, docStore),
		vectorDb:    vectorDb,
		logger:      logger_i.NewLogger("RAG Service"),
	}
	if config.RewriteEnabled {
		s.rewriter = rewrite.New(llmProvider)
	}
	if config.RerankEnabled {
		s.reranker = rerank.New(llmProvider)
	}
	return s
}

// Chat runs the synchronous answer pipeline. It never fails outward: every
// stage degrades (skip rewrite, keep unranked candidates, fallback answer)
// so the endpoint always has something to return.
func (s *service) Chat(ctx context.Context, query chatModel.Query) chatModel.Answer {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "mode", query.Mode.String())

	start := time.Now()
	defer func() { metrics.CaptureChatMetrics(query.Mode.String(), time.Since(start)) }()
	metrics.CountChatRequest(query.Mode.String())

	chatCtx, cancel := context.WithTimeout(ctx, config.ChatPipelineTimeout)
	defer cancel()

	query.Message = s.executeRewriteStep(chatCtx, query)

	candidates, err := s.executeRetrieveStep(chatCtx, query)
	if err != nil {
		log.Error("retrieval failed", "error", err)
		return chatModel.Answer{Text: config.FallbackAnswer}
	}

	candidates = s.executeRerankStep(chatCtx, query, candidates)

	answer := s.executeSynthesizeStep(chatCtx, query, candidates)
	metrics.ObserveCitations(len(answer.Citations))

	log.Info("chat complete", "chunks", len(candidates), "citations", len(answer.Citations))
	return answer
}

// Search runs retrieval only, no synthesis. Raw chunks with scores, for
// callers that want to see what the pipeline would read.
func (s *service) Search(ctx context.Context, query chatModel.Query) ([]chatModel.RetrievedChunk, error) {
	searchCtx, cancel := context.WithTimeout(ctx, config.ChatPipelineTimeout)
	defer cancel()
	return s.executeRetrieveStep(searchCtx, query)
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	result := s.pipeline.Run(ctx, job)
	if result.Status == jobModel.JobStatusComplete {
		metrics.CountDocumentIngested("success")
	} else {
		metrics.CountDocumentIngested("failure")
	}
	return result
}

// DeleteDocumentChunks removes a document's vectors, the cascade half of a
// document delete.
func (s *service) DeleteDocumentChunks(ctx context.Context, documentId string) error {
	return s.vectorDb.DeleteByDocument(ctx, documentId)
}

// MoveDocumentChunks rewrites the denormalized folder payload after a
// document changes folders.
func (s *service) MoveDocumentChunks(ctx context.Context, documentId string, folder string) error {
	return s.vectorDb.SetFolder(ctx, documentId, folder)
}
