package ingest

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akolanti/PDFChatAPI/internal/adapter/utils"
	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/jobModel"
	"github.com/akolanti/PDFChatAPI/internal/rag/chunker"
	"github.com/akolanti/PDFChatAPI/internal/rag/embedding"
	"github.com/akolanti/PDFChatAPI/internal/rag/llm"
	"github.com/akolanti/PDFChatAPI/internal/rag/ocr"
	"github.com/akolanti/PDFChatAPI/internal/rag/vectorDB"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

// Pipeline runs one document through extraction, chunking, embedding and
// summary generation. It is the only writer of a document's status and
// chunks, which is what makes status a sufficient synchronization signal for
// readers.
type Pipeline struct {
	extractor   ocr.Extractor
	splitter    *chunker.Chunker
	embedder    embedding.Embedder
	vectorDb    vectorDB.DataProcessor
	llmProvider llm.Provider
	docStore    docModel.DocumentStore
	logger      *logger_i.Logger
}

func NewPipeline(extractor ocr.Extractor, embedder embedding.Embedder, vectorDb vectorDB.DataProcessor, llmProvider llm.Provider, docStore docModel.DocumentStore) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		splitter:    chunker.New(),
		embedder:    embedder,
		vectorDb:    vectorDb,
		llmProvider: llmProvider,
		docStore:    docStore,
		logger:      logger_i.NewLogger("Ingestion"),
	}
}

// Run executes the full ingestion for one job and returns the job with its
// final status. The document record always ends up ready or failed, never
// stuck in processing.
func (p *Pipeline) Run(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := p.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", job.DocumentId, "file", job.FileName)

	job.CurrentStep = jobModel.IngestInit
	job.Status = jobModel.JobStatusRunning

	doc, found := p.docStore.GetDocument(ctx, job.DocumentId)
	if !found {
		return p.fail(ctx, job, doc, "document record missing", nil)
	}

	job.CurrentStep = jobModel.IngestExtracting
	pages, err := p.extractor.ExtractPages(ctx, job.FilePath)
	if err != nil {
		return p.fail(ctx, job, doc, "content extraction failed", err)
	}
	if len(pages) == 0 {
		return p.fail(ctx, job, doc, "document has no extractable text", nil)
	}
	log.Debug("extraction done", "pages", len(pages))

	// re-ingest must not duplicate: drop whatever an earlier attempt stored
	if err := p.vectorDb.EnsureCollection(ctx); err != nil {
		return p.fail(ctx, job, doc, "vector collection unavailable", err)
	}
	if err := p.vectorDb.DeleteByDocument(ctx, doc.Id); err != nil {
		return p.fail(ctx, job, doc, "clearing previous chunks failed", err)
	}

	job.CurrentStep = jobModel.IngestChunking
	chunks := p.prepareChunks(pages, doc)
	log.Debug("chunking done", "chunks", len(chunks))

	job.CurrentStep = jobModel.IngestEmbedding
	if err := p.embedAndStore(ctx, chunks); err != nil {
		return p.fail(ctx, job, doc, "embedding failed", err)
	}

	job.CurrentStep = jobModel.IngestSummary
	// summary failure only degrades folder chat quality, the document is
	// still fully searchable
	doc.Summary = p.generateSummary(ctx, pages)

	doc.PageCount = len(pages)
	doc.Status = docModel.StatusReady
	if err := p.docStore.SaveDocument(ctx, doc); err != nil {
		return p.fail(ctx, job, doc, "saving document record failed", err)
	}

	if err := os.Remove(job.FilePath); err != nil {
		log.Warn("could not remove temp file", "error", err)
	}

	job.CurrentStep = jobModel.Complete
	job.Status = jobModel.JobStatusComplete
	job.EndTime = time.Now()
	log.Info("ingestion complete", "pages", len(pages), "chunks", len(chunks))
	return job
}

// prepareChunks enriches every page with a page marker, splits it and assigns
// a global sequence number. The marker survives chunking so a chunk always
// states which page it came from even after the text is quoted elsewhere.
func (p *Pipeline) prepareChunks(pages []ocr.Page, doc docModel.Document) []docModel.DocumentPage {
	var out []docModel.DocumentPage
	seq := 0
	for _, page := range pages {
		enriched := fmt.Sprintf("**[Page %d]**\n%s", page.Number, page.Content)
		for _, text := range p.splitter.Split(enriched) {
			out = append(out, docModel.DocumentPage{
				Id:         utils.GetNewUUID(),
				Seq:        seq,
				DocumentId: doc.Id,
				PageNumber: page.Number,
				Folder:     doc.Folder,
				Content:    text,
				Title:      doc.Title,
			})
			seq++
		}
	}
	return out
}

// embedAndStore embeds and upserts chunk batches concurrently. Batches are
// independent, the vector store insert is the per-chunk serialization point.
func (p *Pipeline) embedAndStore(ctx context.Context, chunks []docModel.DocumentPage) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(config.IngestPageConcurrency)

	for start := 0; start < len(chunks); start += config.EmbedBatchSize {
		end := start + config.EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		group.Go(func() error {
			texts := make([]string, len(batch))
			for i, c := range batch {
				texts[i] = embedding.Normalize(c.Content)
			}

			vectors, err := p.embedder.BatchEmbedding(groupCtx, texts)
			if err != nil {
				return fmt.Errorf("embedding batch: %w", err)
			}
			if err := p.vectorDb.UpsertBatch(groupCtx, batch, vectors); err != nil {
				return fmt.Errorf("upserting batch: %w", err)
			}
			return nil
		})
	}

	return group.Wait()
}

func (p *Pipeline) fail(ctx context.Context, job jobModel.Job, doc docModel.Document, message string, err error) jobModel.Job {
	p.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", job.DocumentId).
		Error(message, "error", err)

	// the temp upload is spent either way, failed ingestions must not pile
	// files up in temporary_data
	if job.FilePath != "" {
		if removeErr := os.Remove(job.FilePath); removeErr != nil && !os.IsNotExist(removeErr) {
			p.logger.Warn("could not remove temp file", "error", removeErr)
		}
	}

	if doc.Id != "" {
		doc.Status = docModel.StatusFailed
		if saveErr := p.docStore.SaveDocument(ctx, doc); saveErr != nil {
			p.logger.Error("could not mark document failed", "error", saveErr)
		}
	}

	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	job.EndTime = time.Now()
	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
	return job
}
