package runs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eser/ajan/logfx"
	"github.com/google/uuid"
)

// Manifest records each stage's handoff artifacts for a single pipeline run.
// It is the flat-file record that lets a failed stage be re-invoked manually
// with corrected inputs.
type Manifest struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PromptCount int `json:"prompt_count,omitempty"`

	BatchInputPath   string `json:"batch_input_path,omitempty"`
	BatchInputFileID string `json:"batch_input_file_id,omitempty"`
	BatchJobID       string `json:"batch_job_id,omitempty"`
	BatchOutputPath  string `json:"batch_output_path,omitempty"`

	TrainPath    string `json:"train_path,omitempty"`
	TestPath     string `json:"test_path,omitempty"`
	TrainCount   int    `json:"train_count,omitempty"`
	TestCount    int    `json:"test_count,omitempty"`
	DroppedCount int    `json:"dropped_count,omitempty"`

	TrainingFileID   string `json:"training_file_id,omitempty"`
	ValidationFileID string `json:"validation_file_id,omitempty"`
	FineTuneJobID    string `json:"fine_tune_job_id,omitempty"`
	FineTunedModel   string `json:"fine_tuned_model,omitempty"`

	EvalResultPaths  map[string]string  `json:"eval_result_paths,omitempty"`
	EvalSimilarities map[string]float64 `json:"eval_similarities,omitempty"`
}

type Service struct {
	Config *Config
	logger *logfx.Logger

	manifest *Manifest
}

func NewService(config *Config, logger *logfx.Logger) *Service {
	return &Service{Config: config, logger: logger}
}

// Begin starts a new run with a fresh identifier and persists the manifest.
func (s *Service) Begin() (*Manifest, error) {
	now := time.Now().UTC()
	s.manifest = &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.save(); err != nil {
		return nil, err
	}

	s.logger.Info("[Runs] Run started", "module", "runs", "runId", s.manifest.RunID)

	return s.manifest, nil
}

// Record applies an update to the manifest and persists it. Called after each
// completed stage so the manifest always reflects the latest handoff state.
func (s *Service) Record(update func(*Manifest)) error {
	update(s.manifest)
	s.manifest.UpdatedAt = time.Now().UTC()

	return s.save()
}

// Path returns the manifest file location for the current run.
func (s *Service) Path() string {
	return filepath.Join(s.Config.Dir, s.manifest.RunID+".json")
}

func (s *Service) save() error {
	if err := os.MkdirAll(s.Config.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create run directory %s: %w", s.Config.Dir, err)
	}

	doc, err := json.MarshalIndent(s.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run manifest: %w", err)
	}

	path := s.Path()
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write run manifest %s: %w", path, err)
	}

	return nil
}
