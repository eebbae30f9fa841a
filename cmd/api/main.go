// @title           PDF Chat API
// @version         1.0
// @description     Upload documents, track ingestion, and chat over single documents or folders with cited answers.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/data/store"
	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	jobmodel "github.com/akolanti/PDFChatAPI/internal/domain/jobModel"
	"github.com/akolanti/PDFChatAPI/internal/handlers"
	"github.com/akolanti/PDFChatAPI/internal/job"
	"github.com/akolanti/PDFChatAPI/internal/mcp"
	"github.com/akolanti/PDFChatAPI/internal/objectStore"
	"github.com/akolanti/PDFChatAPI/internal/rag"
	"github.com/akolanti/PDFChatAPI/internal/rag/embedding"
	"github.com/akolanti/PDFChatAPI/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/PDFChatAPI/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/PDFChatAPI/internal/rag/llm/gemini"
	"github.com/akolanti/PDFChatAPI/internal/rag/ocr"
	"github.com/akolanti/PDFChatAPI/internal/rag/transcribe"
	"github.com/akolanti/PDFChatAPI/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/PDFChatAPI/internal/server"
	"github.com/akolanti/PDFChatAPI/internal/worker"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if redisJobs := store.GetRedisJobStore(serviceContext); redisJobs != nil {
		serviceConfig.JobStore = redisJobs
	} else {
		logger.Error("Redis job store is offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	var docStore docModel.DocumentStore
	if redisDocs := store.GetRedisDocumentStore(serviceContext); redisDocs != nil {
		docStore = redisDocs
	} else {
		logger.Error("Redis document store is offline")
		docStore = store.InitInMemoryDocumentStore()
	}

	vectorDB := qdrantDB.GetQuadrantClient(serviceContext)
	llmProvider := gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey)

	var embeddingService embedding.Embedder
	if config.EmbeddingProvider == "openai" {
		embeddingService = openaiEmbedding.GetOpenAIEmbeddingClient(serviceContext, config.OpenAIEmbeddingModel, config.OpenAIAPIKey)
	} else {
		embeddingService = googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey)
	}

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	//minio holds the original uploads; the API degrades to no archival when it is offline
	objects := objectStore.GetObjectStore(serviceContext)
	if objects == nil {
		logger.Warn("Object store is offline, uploaded files will not be archived")
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, docStore, ocr.NewLocalExtractor())

	//voice input rides on the OpenAI key; chat works without it
	transcriber := transcribe.GetOpenAITranscriber(serviceContext, config.OpenAIAPIKey)

	handlers.InitHandlers(handlers.Dependencies{
		JobService:  service,
		RagService:  ragService,
		DocStore:    docStore,
		ObjectStore: objects,
		Transcriber: transcriber,
	})

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	if config.McpEnabled {
		go func() {
			mcpServer := mcp.NewServer(ragService)
			if err := mcpServer.Run(serviceContext); err != nil {
				logger.Error("MCP server stopped", "error :", err.Error())
			}
		}()
	}

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
