package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit       InternalStatus = "IngestInit"
	IngestExtracting InternalStatus = "IngestExtracting"
	IngestChunking   InternalStatus = "IngestChunking"
	IngestEmbedding  InternalStatus = "IngestEmbedding"
	IngestSummary    InternalStatus = "IngestSummary"
	Error            InternalStatus = "Error"
	Complete         InternalStatus = "Complete"
)

// Job is one background ingestion task. The document's status field is the
// caller-visible signal; the job record adds per-step observability and a
// retryable error code.
type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	DocumentId  string         `json:"document_id"`
	FileName    string         `json:"file_name"`
	FilePath    string         `json:"file_path"`
	Folder      string         `json:"folder"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
