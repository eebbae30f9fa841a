package retrieve

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/internal/rag/embedding"
	"github.com/akolanti/PDFChatAPI/internal/rag/llm"
	"github.com/akolanti/PDFChatAPI/internal/rag/vectorDB"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

const selectorPrompt = `You route questions to documents in a folder. You get a
question and a numbered list of document summaries. Pick the documents most
likely to contain the answer.
Respond with JSON: {"documents": [<document numbers>]}`

// Retriever produces scored context candidates for one of three scopes:
// a single document (chunk search, loose threshold), a folder in fast mode
// (summaries only, no vector traffic), or a folder in deep mode (LLM document
// selection followed by per-document chunk search).
type Retriever struct {
	vectorDb    vectorDB.DataProcessor
	embedder    embedding.Embedder
	llmProvider llm.Provider
	docStore    docModel.DocumentStore
	logger      *logger_i.Logger
}

func New(vectorDb vectorDB.DataProcessor, embedder embedding.Embedder, llmProvider llm.Provider, docStore docModel.DocumentStore) *Retriever {
	return &Retriever{
		vectorDb:    vectorDb,
		embedder:    embedder,
		llmProvider: llmProvider,
		docStore:    docStore,
		logger:      logger_i.NewLogger("Retriever"),
	}
}

func (r *Retriever) Retrieve(ctx context.Context, query chatModel.Query) ([]chatModel.RetrievedChunk, error) {
	switch query.Mode {
	case chatModel.ModeSingleDoc:
		return r.retrieveSingleDoc(ctx, query)
	case chatModel.ModeFolderFast:
		return r.retrieveFolderFast(ctx, query)
	case chatModel.ModeFolderDeep:
		return r.retrieveFolderDeep(ctx, query)
	default:
		return nil, fmt.Errorf("unresolved chat mode %s", query.Mode)
	}
}

// retrieveSingleDoc searches one document's chunks with a near-zero score
// threshold: inside a single document recall beats precision, the synthesizer
// can ignore weak context but cannot recover missing context.
func (r *Retriever) retrieveSingleDoc(ctx context.Context, query chatModel.Query) ([]chatModel.RetrievedChunk, error) {
	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", query.DocumentId)

	vector, err := r.embedder.GetEmbedding(ctx, embedding.Normalize(query.Message))
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	chunks, err := r.vectorDb.Search(ctx, vector,
		vectorDB.Filter{DocumentId: query.DocumentId},
		config.SingleDocScoreThreshold, config.SingleDocSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("chunk search: %w", err)
	}

	log.Debug("single-doc retrieval done", "chunks", len(chunks))
	return chunks, nil
}

// retrieveFolderFast answers from document summaries alone. It never touches
// the vector store, which keeps it cheap enough for default folder chat. A
// folder whose documents have no summaries yet falls through to deep mode.
func (r *Retriever) retrieveFolderFast(ctx context.Context, query chatModel.Query) ([]chatModel.RetrievedChunk, error) {
	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "folder", query.FolderName)

	docs, err := r.readyDocuments(ctx, query.FolderName)
	if err != nil {
		return nil, err
	}

	if len(docs) > config.FolderSummaryMaxDocs {
		docs = docs[:config.FolderSummaryMaxDocs]
	}

	chunks := make([]chatModel.RetrievedChunk, 0, len(docs))
	for _, doc := range docs {
		if doc.Summary.IsEmpty() {
			continue
		}
		chunks = append(chunks, chatModel.RetrievedChunk{
			ChunkId:    doc.Id + ":summary",
			DocumentId: doc.Id,
			Source:     doc.Title,
			Page:       1, // summaries carry no page, cite the document head
			Content:    doc.Summary.Text(),
			Type:       chatModel.ChunkTypeSummary,
		})
	}

	if len(chunks) == 0 {
		log.Info("no summaries available, falling back to deep retrieval")
		return r.retrieveFolderDeep(ctx, query)
	}

	log.Debug("folder-fast retrieval done", "summaries", len(chunks))
	return chunks, nil
}

// retrieveFolderDeep runs in two phases: an LLM selects the few documents
// worth searching, then each selected document gets its own chunk search with
// the strict folder threshold.
func (r *Retriever) retrieveFolderDeep(ctx context.Context, query chatModel.Query) ([]chatModel.RetrievedChunk, error) {
	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "folder", query.FolderName)

	docs, err := r.readyDocuments(ctx, query.FolderName)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	selected := r.selectDocuments(ctx, query.Message, docs)
	log.Debug("deep selection done", "selected", len(selected), "candidates", len(docs))

	vector, err := r.embedder.GetEmbedding(ctx, embedding.Normalize(query.Message))
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	var chunks []chatModel.RetrievedChunk
	for _, doc := range selected {
		found, err := r.vectorDb.Search(ctx, vector,
			vectorDB.Filter{DocumentId: doc.Id},
			config.FolderScoreThreshold, config.DeepPerDocLimit)
		if err != nil {
			return nil, fmt.Errorf("chunk search in %s: %w", doc.Id, err)
		}
		for i := range found {
			// chunk payloads already carry title, but the document record is
			// authoritative when the two drift after a rename
			found[i].Source = doc.Title
		}
		chunks = append(chunks, found...)
	}

	log.Debug("folder-deep retrieval done", "chunks", len(chunks))
	return chunks, nil
}

// selectDocuments asks the LLM to pick at most MaxDeepSearchDocs documents by
// summary. Selection failure is not fatal: the fallback is the first few
// documents in folder order.
func (r *Retriever) selectDocuments(ctx context.Context, question string, docs []docModel.Document) []docModel.Document {
	if len(docs) <= config.MaxDeepSearchDocs {
		return docs
	}

	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Question: %s\n\nDocuments:\n", question))
	for i, doc := range docs {
		summary := doc.Summary.Text()
		if summary == "" {
			summary = doc.Title
		}
		sb.WriteString(fmt.Sprintf("[%d] %s: %s\n", i, doc.Title, summary))
	}
	sb.WriteString(fmt.Sprintf("\nPick at most %d documents.", config.MaxDeepSearchDocs))

	raw, err := r.llmProvider.GenerateJSON(ctx, selectorPrompt, sb.String())
	if err != nil {
		log.Warn("document selection failed, using folder order", "error", err)
		return docs[:config.MaxDeepSearchDocs]
	}

	var parsed struct {
		Documents []int `json:"documents"`
	}
	if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &parsed); err != nil || len(parsed.Documents) == 0 {
		log.Warn("document selection returned unusable output, using folder order")
		return docs[:config.MaxDeepSearchDocs]
	}

	seen := make(map[int]bool, len(parsed.Documents))
	selected := make([]docModel.Document, 0, config.MaxDeepSearchDocs)
	for _, idx := range parsed.Documents {
		if idx < 0 || idx >= len(docs) || seen[idx] {
			continue
		}
		seen[idx] = true
		selected = append(selected, docs[idx])
		if len(selected) == config.MaxDeepSearchDocs {
			break
		}
	}
	if len(selected) == 0 {
		return docs[:config.MaxDeepSearchDocs]
	}
	return selected
}

// readyDocuments lists a folder's documents, dropping those still processing
// or failed. Their chunks are absent or partial and would skew retrieval.
func (r *Retriever) readyDocuments(ctx context.Context, folder string) ([]docModel.Document, error) {
	docs, err := r.docStore.ListDocumentsByFolder(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("listing folder %s: %w", folder, err)
	}
	ready := docs[:0]
	for _, doc := range docs {
		if doc.Status == docModel.StatusReady {
			ready = append(ready, doc)
		}
	}
	return ready, nil
}
