package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/PDFChatAPI/internal/config"
	"github.com/akolanti/PDFChatAPI/internal/domain/chatModel"
	"github.com/akolanti/PDFChatAPI/internal/domain/jobModel"
	"github.com/akolanti/PDFChatAPI/internal/job"
	"github.com/akolanti/PDFChatAPI/pkg/logger_i"
)

// MockRagService to track if jobs are executed
type MockRagService struct {
	ProcessedCount int32
}

func (m *MockRagService) Chat(ctx context.Context, query chatModel.Query) chatModel.Answer {
	return chatModel.Answer{}
}

func (m *MockRagService) Search(ctx context.Context, query chatModel.Query) ([]chatModel.RetrievedChunk, error) {
	return nil, nil
}

func (m *MockRagService) IngestDocument(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	j.Status = jobModel.JobStatusComplete
	return j
}

func (m *MockRagService) DeleteDocumentChunks(ctx context.Context, documentId string) error {
	return nil
}

func (m *MockRagService) MoveDocumentChunks(ctx context.Context, documentId string, folder string) error {
	return nil
}

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobModel.Job) error
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          &MockJobStore{},
	}
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockRag)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		testJob := jobModel.Job{Id: "test-1", DocumentId: "doc-1"}
		jobSvc.JobChannel <- testJob

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_SavesFinalJobState(t *testing.T) {
	var lastSaved jobModel.Job
	var mu sync.Mutex

	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job),
		JobStore: &MockJobStore{
			OnSaveJob: func(ctx context.Context, j jobModel.Job) error {
				mu.Lock()
				lastSaved = j
				mu.Unlock()
				return nil
			},
		},
	}
	logger = logger_i.NewLogger("TestWorkerPool")
	InitServices(jobSvc, &MockRagService{})

	executeJob(jobModel.Job{Id: "job-1", DocumentId: "doc-1", TraceId: "trace-1"})

	mu.Lock()
	defer mu.Unlock()
	if lastSaved.Status != jobModel.JobStatusComplete {
		t.Errorf("final saved status got %s, want %s", lastSaved.Status, jobModel.JobStatusComplete)
	}
}

func TestWorker_IdleRetirementStopsAtFloor(t *testing.T) {
	// Temporarily override config/globals for test
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 1) // production floor
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job),
	}
	InitServices(jobSvc, &MockRagService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// Spawn 2 workers manually; the pool must shrink back to the floor of 1,
	// not to 0.
	createWorker()
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(100 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != 1 {
		t.Errorf("Assertion Failed: Pool should shrink to its floor of 1, but count is %d", count)
	}
	close(stopChan)
}

func TestWorker_RetireIdleWorkerRespectsFloor(t *testing.T) {
	atomic.StoreInt64(&currentWorkerCount, 1)
	atomic.StoreInt64(&minWorkerCount, 1)
	logger = logger_i.NewLogger("TestWorkerPool")

	if retireIdleWorker() {
		t.Error("the last worker at the floor must not retire")
	}

	atomic.StoreInt64(&currentWorkerCount, 2)
	wg := &sync.WaitGroup{}
	wg.Add(1)
	workerWaitGroup = wg
	if !retireIdleWorker() {
		t.Error("a worker above the floor should retire")
	}
	if count := atomic.LoadInt64(&currentWorkerCount); count != 1 {
		t.Errorf("count after retirement got %d, want 1", count)
	}
}
