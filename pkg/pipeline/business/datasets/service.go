package datasets

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eser/ajan/logfx"
	"github.com/eser/distill/pkg/pipeline/business/batches"
)

type Service struct {
	Config *Config
	logger *logfx.Logger
}

func NewService(config *Config, logger *logfx.Logger) *Service {
	return &Service{Config: config, logger: logger}
}

type promptTurns struct {
	system string
	user   string
}

// Assemble joins a batch output file back to its originating request file by
// request id and emits one fine-tuning example per successfully joined pair,
// in request-file order. Every result must resolve to exactly one originating
// prompt; records that don't, or that errored, are dropped and counted.
func (s *Service) Assemble(requestPath, outputPath string) ([]Example, DropStats, error) {
	var stats DropStats

	requests, err := batches.ReadRequestsFile(requestPath)
	if err != nil {
		return nil, stats, err
	}

	results, err := batches.ReadResultsFile(outputPath)
	if err != nil {
		return nil, stats, err
	}

	turnsByID := make(map[string]promptTurns, len(requests))
	order := make([]string, 0, len(requests))
	for _, request := range requests {
		turns := promptTurns{}
		for _, message := range request.Body.Messages {
			switch message.Role {
			case "system":
				turns.system = message.Content
			case "user":
				turns.user = message.Content
			}
		}

		turnsByID[request.CustomID] = turns
		order = append(order, request.CustomID)
	}

	resultsByID := make(map[string]batches.ResultRecord, len(results))
	for _, result := range results {
		if _, ok := turnsByID[result.CustomID]; !ok {
			s.logger.Warn("[Datasets] Result does not match any request, dropping", "module", "datasets", "customId", result.CustomID)
			stats.UnmatchedResult++

			continue
		}

		resultsByID[result.CustomID] = result
	}

	examples := make([]Example, 0, len(resultsByID))
	for _, customID := range order {
		result, ok := resultsByID[customID]
		if !ok {
			stats.MissingResult++

			continue
		}

		content, ok := result.Content()
		if !ok {
			s.logger.Warn("[Datasets] Result errored, dropping", "module", "datasets", "customId", customID)
			stats.Errored++

			continue
		}

		if !json.Valid([]byte(content)) {
			s.logger.Warn("[Datasets] Assistant content is not valid JSON, dropping", "module", "datasets", "customId", customID)
			stats.Unparseable++

			continue
		}

		turns := turnsByID[customID]
		examples = append(examples, Example{
			Messages: []batches.Message{
				{Role: "system", Content: turns.system},
				{Role: "user", Content: turns.user},
				{Role: "assistant", Content: content},
			},
		})
	}

	s.logger.Info("[Datasets] Assembled fine-tuning examples", "module", "datasets", "examples", len(examples), "dropped", stats.Total())

	return examples, stats, nil
}

// Split partitions examples into train and test sets deterministically: the
// first TrainPercent% (floor) go to train, the remainder to test. Input order
// is preserved within both partitions.
func (s *Service) Split(examples []Example) ([]Example, []Example) {
	trainCount := len(examples) * s.Config.TrainPercent / 100

	return examples[:trainCount], examples[trainCount:]
}

// WriteJSONL serializes examples as line-delimited JSON in the format the
// fine-tuning endpoint requires, overwriting any existing file at path.
func (s *Service) WriteJSONL(examples []Example, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for i, example := range examples {
		if err := encoder.Encode(example); err != nil {
			return fmt.Errorf("failed to encode example %d for %s: %w", i+1, path, err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush dataset file %s: %w", path, err)
	}

	s.logger.Info("[Datasets] Dataset file written", "module", "datasets", "path", path, "examples", len(examples))

	return nil
}

// ReadJSONL parses a line-delimited dataset file.
func ReadJSONL(path string) ([]Example, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck

	var examples []Example

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var example Example
		if err := json.Unmarshal(scanner.Bytes(), &example); err != nil {
			return nil, fmt.Errorf("failed to parse dataset line in %s: %w", path, err)
		}

		examples = append(examples, example)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}

	return examples, nil
}
