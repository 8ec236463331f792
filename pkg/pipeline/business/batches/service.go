package batches

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eser/ajan/logfx"
	"github.com/eser/distill/pkg/pipeline/adapters/openai"
	"github.com/eser/distill/pkg/pipeline/business/jobs"
)

var (
	ErrUpload      = errors.New("failed to upload batch input file")
	ErrJobCreation = errors.New("failed to create batch job")
	ErrDownload    = errors.New("failed to download batch results")
)

var batchSuccessStatuses = []string{openai.BatchStatusCompleted}

var batchFailureStatuses = []string{
	openai.BatchStatusFailed,
	openai.BatchStatusExpired,
	openai.BatchStatusCancelled,
}

// Provider is the remote surface the batch lifecycle controller depends on.
//
//go:generate go tool mockery --name=Provider --inpackage --inpackage-suffix --case=underscore --structname=MockProvider --filename=mock_provider.go
type Provider interface {
	CreateFile(ctx context.Context, filePath string, purpose string) (*openai.File, error)
	GetFileContent(ctx context.Context, fileID string) ([]byte, error)
	CreateBatch(ctx context.Context, batchReq openai.CreateBatchRequest) (*openai.Batch, error)
	RetrieveBatch(ctx context.Context, batchID string) (*openai.Batch, error)
	CancelBatch(ctx context.Context, batchID string) (*openai.Batch, error)
	ListBatches(ctx context.Context, params *openai.ListParams) (*openai.ListBatchesResponse, error)
}

type Service struct {
	Config   *Config
	logger   *logfx.Logger
	provider Provider
}

func NewService(config *Config, logger *logfx.Logger, provider Provider) *Service {
	return &Service{Config: config, logger: logger, provider: provider}
}

// BuildInputFile writes one request per prompt as line-delimited JSON and
// returns the written path. Local operation, overwrites any previous file.
func (s *Service) BuildInputFile(prompts []string, schema ResponseSchema, systemMessage, model string, maxTokens int, dir, filenamePrefix string) (string, error) {
	records := BuildRequests(prompts, schema, systemMessage, model, maxTokens)

	path := filepath.Join(dir, filenamePrefix+"_batch_input.jsonl")
	if err := WriteRecordsFile(records, path); err != nil {
		return "", err
	}

	s.logger.Info("[Batches] Batch input file created", "module", "batches", "path", path, "requests", len(records))

	return path, nil
}

// Upload pushes a batch input file to remote storage and returns its file id.
func (s *Service) Upload(ctx context.Context, filePath string) (string, error) {
	file, err := s.provider.CreateFile(ctx, filePath, openai.FilePurposeBatch)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}

	s.logger.InfoContext(ctx, "[Batches] Input file uploaded", "module", "batches", "path", filePath, "fileId", file.ID)

	return file.ID, nil
}

// CreateJob registers a batch job against an uploaded input file.
func (s *Service) CreateJob(ctx context.Context, fileID string) (string, error) {
	batch, err := s.provider.CreateBatch(ctx, openai.CreateBatchRequest{
		InputFileID:      fileID,
		Endpoint:         s.Config.Endpoint,
		CompletionWindow: s.Config.CompletionWindow,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrJobCreation, err)
	}

	s.logger.InfoContext(ctx, "[Batches] Batch job created", "module", "batches", "jobId", batch.ID, "inputFileId", fileID)

	return batch.ID, nil
}

// WaitForCompletion blocks until the batch job reaches a terminal status.
// Terminal failure statuses (failed, expired, cancelled) surface immediately
// as a *jobs.JobFailedError; everything else polls again after the configured
// interval, with no upper bound on attempts.
func (s *Service) WaitForCompletion(ctx context.Context, jobID string) (*openai.Batch, error) {
	var lastBatch *openai.Batch

	fetch := func(ctx context.Context) (string, error) {
		batch, err := s.provider.RetrieveBatch(ctx, jobID)
		if err != nil {
			return "", err
		}

		lastBatch = batch

		return batch.Status, nil
	}

	_, err := jobs.WaitForTerminal(ctx, s.logger, "batch", jobID, s.Config.PollInterval, fetch, batchSuccessStatuses, batchFailureStatuses)
	if err != nil {
		return nil, err
	}

	return lastBatch, nil
}

// DownloadResults fetches the completed job's output file and writes it under
// dir. A completed batch without an output file is a fatal inconsistency and
// is not retried.
func (s *Service) DownloadResults(ctx context.Context, jobID string, dir, filename string) (string, error) {
	batch, err := s.provider.RetrieveBatch(ctx, jobID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	if batch.OutputFileID == nil || *batch.OutputFileID == "" {
		return "", fmt.Errorf("%w: batch %s has status %q but no output file", ErrDownload, jobID, batch.Status)
	}

	content, err := s.provider.GetFileContent(ctx, *batch.OutputFileID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	s.logger.InfoContext(ctx, "[Batches] Batch results downloaded", "module", "batches", "jobId", jobID, "path", path)

	return path, nil
}

// Cancel requests cancellation of an in-progress batch job.
func (s *Service) Cancel(ctx context.Context, jobID string) error {
	batch, err := s.provider.CancelBatch(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to cancel batch job %s: %w", jobID, err)
	}

	s.logger.InfoContext(ctx, "[Batches] Batch job cancellation requested", "module", "batches", "jobId", jobID, "status", batch.Status)

	return nil
}

// List returns a page of the organization's batch jobs.
func (s *Service) List(ctx context.Context, params *openai.ListParams) (*openai.ListBatchesResponse, error) {
	response, err := s.provider.ListBatches(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch jobs: %w", err)
	}

	return response, nil
}
