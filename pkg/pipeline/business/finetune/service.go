package finetune

import (
	"context"
	"errors"
	"fmt"

	"github.com/eser/ajan/logfx"
	"github.com/eser/distill/pkg/pipeline/adapters/openai"
	"github.com/eser/distill/pkg/pipeline/business/jobs"
)

var (
	ErrUpload       = errors.New("failed to upload fine-tuning file")
	ErrJobCreation  = errors.New("failed to create fine-tuning job")
	ErrMissingModel = errors.New("fine-tuning job succeeded but reported no fine-tuned model")
)

var fineTuneSuccessStatuses = []string{openai.FineTuningStatusSucceeded}

var fineTuneFailureStatuses = []string{
	openai.FineTuningStatusFailed,
	openai.FineTuningStatusCancelled,
}

// Provider is the remote surface the fine-tune lifecycle controller depends on.
//
//go:generate go tool mockery --name=Provider --inpackage --inpackage-suffix --case=underscore --structname=MockProvider --filename=mock_provider.go
type Provider interface {
	CreateFile(ctx context.Context, filePath string, purpose string) (*openai.File, error)
	CreateFineTuningJob(ctx context.Context, jobReq openai.CreateFineTuningJobRequest) (*openai.FineTuningJob, error)
	RetrieveFineTuningJob(ctx context.Context, jobID string) (*openai.FineTuningJob, error)
	ListFineTuningJobs(ctx context.Context, params *openai.ListParams) (*openai.ListFineTuningJobsResponse, error)
}

type Service struct {
	Config   *Config
	logger   *logfx.Logger
	provider Provider
}

func NewService(config *Config, logger *logfx.Logger, provider Provider) *Service {
	return &Service{Config: config, logger: logger, provider: provider}
}

// Upload pushes a train or validation file to remote storage and returns its
// file id.
func (s *Service) Upload(ctx context.Context, filePath string) (string, error) {
	file, err := s.provider.CreateFile(ctx, filePath, openai.FilePurposeFineTune)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}

	s.logger.InfoContext(ctx, "[Finetune] File uploaded", "module", "finetune", "path", filePath, "fileId", file.ID)

	return file.ID, nil
}

// CreateJob registers a fine-tuning job over uploaded train/validation files.
func (s *Service) CreateJob(ctx context.Context, trainingFileID, validationFileID, baseModel, suffix string) (string, error) {
	job, err := s.provider.CreateFineTuningJob(ctx, openai.CreateFineTuningJobRequest{
		TrainingFile:   trainingFileID,
		ValidationFile: validationFileID,
		Model:          baseModel,
		Suffix:         suffix,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrJobCreation, err)
	}

	s.logger.InfoContext(ctx, "[Finetune] Fine-tuning job created", "module", "finetune", "jobId", job.ID, "baseModel", baseModel)

	return job.ID, nil
}

// WaitForCompletion blocks until the fine-tuning job reaches a terminal
// status and returns the resulting model identifier. Terminal failures
// (failed, cancelled) surface immediately as a *jobs.JobFailedError.
func (s *Service) WaitForCompletion(ctx context.Context, jobID string) (string, error) {
	var lastJob *openai.FineTuningJob

	fetch := func(ctx context.Context) (string, error) {
		job, err := s.provider.RetrieveFineTuningJob(ctx, jobID)
		if err != nil {
			return "", err
		}

		lastJob = job

		return job.Status, nil
	}

	_, err := jobs.WaitForTerminal(ctx, s.logger, "fine-tuning", jobID, s.Config.PollInterval, fetch, fineTuneSuccessStatuses, fineTuneFailureStatuses)
	if err != nil {
		return "", err
	}

	if lastJob.FineTunedModel == nil || *lastJob.FineTunedModel == "" {
		return "", fmt.Errorf("%w: job %s", ErrMissingModel, jobID)
	}

	s.logger.InfoContext(ctx, "[Finetune] Fine-tuning job succeeded", "module", "finetune", "jobId", jobID, "fineTunedModel", *lastJob.FineTunedModel)

	return *lastJob.FineTunedModel, nil
}

// List returns a page of the organization's fine-tuning jobs.
func (s *Service) List(ctx context.Context, params *openai.ListParams) (*openai.ListFineTuningJobsResponse, error) {
	response, err := s.provider.ListFineTuningJobs(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list fine-tuning jobs: %w", err)
	}

	return response, nil
}
