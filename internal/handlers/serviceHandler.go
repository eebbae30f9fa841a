package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/PDFChatAPI/internal/domain/docModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/jobModel"
	"github.com/akolanti/PDFChatAPI/internal/job"
	"github.com/akolanti/PDFChatAPI/internal/metrics"
	"github.com/akolanti/PDFChatAPI/internal/objectStore"
	"github.com/akolanti/PDFChatAPI/internal/rag"
	"github.com/akolanti/PDFChatAPI/internal/rag/transcribe"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

var (
	handlerInstance *serviceHandler //private singleton
	once            sync.Once
	logSH           *logger_i.Logger
	logRH           *logger_i.Logger
)

type serviceHandler struct {
	jobService  *job.Service
	ragService  rag.Service
	docStore    docModel.DocumentStore
	objects     *objectStore.ObjectStore
	transcriber transcribe.Transcriber
}

type Dependencies struct {
	JobService  *job.Service
	RagService  rag.Service
	DocStore    docModel.DocumentStore
	ObjectStore *objectStore.ObjectStore //nil when minio is offline
	Transcriber transcribe.Transcriber //nil when no OpenAI key is configured
}

func InitHandlers(deps Dependencies) {
	once.Do(func() {
		handlerInstance = &serviceHandler{
			jobService:  deps.JobService,
			ragService:  deps.RagService,
			docStore:    deps.DocStore,
			objects:     deps.ObjectStore,
			transcriber: deps.Transcriber,
		}

		logSH = logger_i.NewLogger("ServiceHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logSH.Info("Handlers initialized")
	})
}

type newIngestJob struct {
	documentId string
	fileName   string
	filePath   string
	folder     string
	traceId    string
}

// queueIngestJob pushes the job and nudges the dispatcher. Ingestion involves
// long external calls, so every ingest request is also a worker-scale signal.
func (h *serviceHandler) queueIngestJob(data newIngestJob) string {
	newJob := jobModel.Job{
		Id:          data.documentId, //job id doubles as document id, one job per document
		TraceId:     data.traceId,
		DocumentId:  data.documentId,
		FileName:    data.fileName,
		FilePath:    data.filePath,
		Folder:      data.folder,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.IngestInit,
	}

	metrics.IncrementJobsInQueue()

	h.jobService.JobChannel <- newJob //blocking send keeps the system from being overwhelmed
	logSH.Info("Queued ingest job", "documentId", data.documentId)

	//every ingest job asks for a worker - batch embedding calls take long and
	//the pool retires idle workers on its own
	atomic.AddInt64(&h.jobService.RequestCount, 1)
	metrics.StartDispatcherSignalCount()
	h.jobService.DispatcherChannel <- true

	return newJob.Id
}

func getDocument(ctx context.Context, id string) (docModel.Document, bool) {
	if handlerInstance == nil || id == "" {
		return docModel.Document{}, false
	}
	return handlerInstance.docStore.GetDocument(ctx, id)
}
