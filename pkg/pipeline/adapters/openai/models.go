package openai

// File purposes for upload operations
const (
	FilePurposeBatch    = "batch"
	FilePurposeFineTune = "fine-tune"
)

// Batch completion window
const BatchCompletionWindow24h = "24h"

// Batch statuses as reported by the service.
const (
	BatchStatusValidating = "validating"
	BatchStatusInProgress = "in_progress"
	BatchStatusFinalizing = "finalizing"
	BatchStatusCompleted  = "completed"
	BatchStatusFailed     = "failed"
	BatchStatusExpired    = "expired"
	BatchStatusCancelling = "cancelling"
	BatchStatusCancelled  = "cancelled"
)

// Fine-tuning job statuses as reported by the service.
const (
	FineTuningStatusValidatingFiles = "validating_files"
	FineTuningStatusQueued          = "queued"
	FineTuningStatusRunning         = "running"
	FineTuningStatusSucceeded       = "succeeded"
	FineTuningStatusFailed          = "failed"
	FineTuningStatusCancelled       = "cancelled"
)

// File represents an OpenAI file object.
type File struct {
	ID            string `json:"id"`
	Object        string `json:"object"` // "file"
	Filename      string `json:"filename"`
	Purpose       string `json:"purpose"` // e.g., "batch", "fine-tune"
	Status        string `json:"status"`  // e.g., "uploaded", "processed", "error"
	StatusDetails string `json:"status_details,omitempty"`
	Bytes         int    `json:"bytes"`
	CreatedAt     int64  `json:"created_at"`
}

// CreateBatchRequest defines the request body for creating a batch.
type CreateBatchRequest struct {
	Metadata         map[string]string `json:"metadata,omitempty"`
	InputFileID      string            `json:"input_file_id"`
	Endpoint         string            `json:"endpoint"`          // e.g., "/v1/chat/completions"
	CompletionWindow string            `json:"completion_window"` // Currently only "24h"
}

// BatchError provides details about errors in a batch request if any.
// This is a sub-structure within the Batch object's 'errors' field.
type BatchError struct {
	Line    *int   `json:"line,omitempty"` // Pointer to allow null
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Param   string `json:"param,omitempty"`
}

// BatchErrors holds error data for a batch.
// This is the structure for the 'errors' field in the Batch object.
type BatchErrors struct {
	Object string       `json:"object,omitempty"` // e.g. "list"
	Data   []BatchError `json:"data,omitempty"`
}

// BatchRequestCounts details the number of requests in a batch by status.
type BatchRequestCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Batch represents an OpenAI batch object.
type Batch struct {
	Errors           *BatchErrors       `json:"errors,omitempty"`         // Pointer to allow null
	OutputFileID     *string            `json:"output_file_id,omitempty"` // Pointer to allow null
	ErrorFileID      *string            `json:"error_file_id,omitempty"`  // Pointer to allow null
	InProgressAt     *int64             `json:"in_progress_at,omitempty"` // Pointer to allow null
	ExpiresAt        *int64             `json:"expires_at,omitempty"`     // Pointer to allow null
	FinalizingAt     *int64             `json:"finalizing_at,omitempty"`  // Pointer to allow null
	CompletedAt      *int64             `json:"completed_at,omitempty"`   // Pointer to allow null
	FailedAt         *int64             `json:"failed_at,omitempty"`      // Pointer to allow null
	CancelledAt      *int64             `json:"cancelled_at,omitempty"`   // Pointer to allow null
	Metadata         map[string]string  `json:"metadata,omitempty"`
	ID               string             `json:"id"`
	Object           string             `json:"object"` // "batch"
	Endpoint         string             `json:"endpoint"`
	InputFileID      string             `json:"input_file_id"`
	CompletionWindow string             `json:"completion_window"`
	Status           string             `json:"status"` // one of the BatchStatus* constants
	RequestCounts    BatchRequestCounts `json:"request_counts"`
	CreatedAt        int64              `json:"created_at"`
}

// ListBatchesResponse defines the response for listing batches.
type ListBatchesResponse struct {
	FirstID *string `json:"first_id,omitempty"`
	LastID  *string `json:"last_id,omitempty"`
	Object  string  `json:"object"` // "list"
	Data    []Batch `json:"data"`
	HasMore bool    `json:"has_more"`
}

// ListParams defines cursor query parameters for list endpoints.
// Note: these are query params, not a request body.
type ListParams struct {
	After *string `url:"after,omitempty"`
	Limit *int    `url:"limit,omitempty"`
}

// CreateFineTuningJobRequest defines the request body for creating a fine-tuning job.
type CreateFineTuningJobRequest struct {
	TrainingFile   string `json:"training_file"`
	ValidationFile string `json:"validation_file,omitempty"`
	Model          string `json:"model"`
	Suffix         string `json:"suffix,omitempty"`
}

// FineTuningJobError provides details about a failed fine-tuning job.
type FineTuningJobError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Param   string `json:"param,omitempty"`
}

// FineTuningJob represents an OpenAI fine-tuning job object.
type FineTuningJob struct {
	Error           *FineTuningJobError `json:"error,omitempty"`            // Pointer to allow null
	FineTunedModel  *string             `json:"fine_tuned_model,omitempty"` // Pointer to allow null
	FinishedAt      *int64              `json:"finished_at,omitempty"`      // Pointer to allow null
	ID              string              `json:"id"`
	Object          string              `json:"object"` // "fine_tuning.job"
	Model           string              `json:"model"`
	Status          string              `json:"status"` // one of the FineTuningStatus* constants
	TrainingFile    string              `json:"training_file"`
	ValidationFile  string              `json:"validation_file,omitempty"`
	TrainedTokens   *int64              `json:"trained_tokens,omitempty"` // Pointer to allow null
	ResultFiles     []string            `json:"result_files,omitempty"`
	Suffix          string              `json:"user_provided_suffix,omitempty"`
	OrganizationID  string              `json:"organization_id,omitempty"`
	CreatedAt       int64               `json:"created_at"`
	EstimatedFinish *int64              `json:"estimated_finish,omitempty"` // Pointer to allow null
}

// ListFineTuningJobsResponse defines the response for listing fine-tuning jobs.
type ListFineTuningJobsResponse struct {
	Object  string          `json:"object"` // "list"
	Data    []FineTuningJob `json:"data"`
	HasMore bool            `json:"has_more"`
}

// CreateEmbeddingsRequest defines the request body for creating embeddings.
type CreateEmbeddingsRequest struct {
	Model          string   `json:"model"`
	Input          []string `json:"input"`
	EncodingFormat string   `json:"encoding_format,omitempty"` // e.g., "float"
	Dimensions     int      `json:"dimensions,omitempty"`
}

// Embedding is a single embedding vector within an embeddings response.
type Embedding struct {
	Object    string    `json:"object"` // "embedding"
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// EmbeddingsUsage reports token consumption for an embeddings request.
type EmbeddingsUsage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// CreateEmbeddingsResponse defines the response for creating embeddings.
type CreateEmbeddingsResponse struct {
	Object string          `json:"object"` // "list"
	Data   []Embedding     `json:"data"`
	Model  string          `json:"model"`
	Usage  EmbeddingsUsage `json:"usage"`
}
