package config

import (
	"log/slog"
	"os"
	"time"
)

// secrets and deploy-specific values come from the environment
var (
	GoogleAPIKey      = os.Getenv("GEMINI_API_KEY")
	OpenAIAPIKey      = os.Getenv("OPENAI_API_KEY")
	EmbeddingProvider = os.Getenv("EMBEDDING_PROVIDER")
	McpEnabled        = os.Getenv("MCP_ENABLED") == "true"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//TODO:this will differ based on the embedding provider
	EmbeddingOutputDimensionality int32 = 1536
	ChunkCollectionName                 = "document-pages"

	//chunking - split on headers only after the minimum is reached so a header
	//is never detached from its first paragraph; the hard max forces a split
	//even mid-paragraph
	MinChunkSize = 550
	MaxChunkSize = 3800

	//retrieval thresholds - single doc is permissive (small candidate pool,
	//recall matters), folder-wide is strict (large noisy pool)
	SingleDocScoreThreshold float32 = 0.05
	FolderScoreThreshold    float32 = 0.45
	SingleDocSearchLimit            = 20
	FolderSummaryMaxDocs            = 50

	//folder deep mode
	MaxDeepSearchDocs = 4
	DeepPerDocLimit   = 8

	//re-ranking
	RerankSkipThreshold = 5
	RerankKeepCount     = 10
	RerankPreviewChars  = 300
	RerankEnabled       = true

	//query rewriting
	RewriteEnabled  = true
	MaxHistoryTurns = 6

	//citation reconciliation
	MinQuoteOverlapChars = 30

	//summary generation gets the head of the extracted document text
	SummaryInputChars = 3000

	DefaultFolderName = "General"

	//ingestion
	IngestPageConcurrency = 4
	EmbedBatchSize        = 100

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//retry policy for external calls (embedding, LLM, OCR)
	RetryMaxAttempts = 3
	RetryBaseDelay   = 500 * time.Millisecond
	RetryMaxDelay    = 8 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 60 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//external call timeouts
	ChatPipelineTimeout = 90 * time.Second
	IngestJobTimeout    = 10 * time.Minute

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost             = ""
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false //set for https
	QdrantPoolSize         = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout = 30 * time.Second

	//llm
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIEmbeddingModel = "text-embedding-3-small"
	TranscriptionModel   = "gpt-4o-mini-transcribe"

	//set EMBEDDING_PROVIDER=openai to use the OpenAI embedder instead
	DefaultEmbeddingProvider = "google"

	ModelTemperature float32 = 0.2

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisDocumentStore = 0
	RedisJobStore      = 1

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour

	//object store for source PDFs
	MinioEndpoint   = "127.0.0.1:9000"
	MinioBucketName = "document-pages"
	MinioUseSSL     = false

	//fallback message when the synthesizer cannot produce an answer
	FallbackAnswer = "I could not find an answer in the provided documents. Please try rephrasing your question."
)
