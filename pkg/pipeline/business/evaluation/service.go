package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/eser/ajan/logfx"
	"github.com/eser/distill/pkg/pipeline/adapters/openai"
	"github.com/eser/distill/pkg/pipeline/business/batches"
	"github.com/eser/distill/pkg/pipeline/business/datasets"
)

const evalIDPrefix = "eval-"

var evalLabels = []string{LabelFinetuned, LabelBase, LabelLarge}

var evalPairs = [][2]string{
	{LabelFinetuned, LabelBase},
	{LabelFinetuned, LabelLarge},
	{LabelBase, LabelLarge},
}

// Embedder is the embeddings surface the similarity scorer depends on.
//
//go:generate go tool mockery --name=Embedder --inpackage --inpackage-suffix --case=underscore --structname=MockEmbedder --filename=mock_embedder.go
type Embedder interface {
	CreateEmbeddings(ctx context.Context, embReq openai.CreateEmbeddingsRequest) (*openai.CreateEmbeddingsResponse, error)
}

type Service struct {
	Config   *Config
	logger   *logfx.Logger
	batches  *batches.Service
	embedder Embedder
}

func NewService(config *Config, logger *logfx.Logger, batchService *batches.Service, embedder Embedder) *Service {
	return &Service{Config: config, logger: logger, batches: batchService, embedder: embedder}
}

type evalItem struct {
	system string
	user   string
}

// Run re-runs the test partition through the three model variants as one
// combined batch job, demultiplexes the results per model, and scores output
// similarity pairwise.
func (s *Service) Run(ctx context.Context, testPath string, models ModelSet, schema batches.ResponseSchema) (*Report, error) {
	items, err := loadEvalItems(testPath)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "[Evaluation] Starting evaluation", "module", "evaluation", "examples", len(items), "models", models)

	records := s.buildRequests(items, models, schema)

	inputPath := filepath.Join(s.Config.Dir, "eval_input_all_models.jsonl")
	if err := batches.WriteRecordsFile(records, inputPath); err != nil {
		return nil, err
	}

	outputPath, err := s.runCombinedBatch(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	resultPaths, outputsByLabel, err := s.demuxResults(outputPath)
	if err != nil {
		return nil, err
	}

	similarities, err := s.scorePairs(ctx, outputsByLabel)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "[Evaluation] Evaluation finished", "module", "evaluation", "similarities", similarities)

	return &Report{ResultPaths: resultPaths, Similarities: similarities}, nil
}

// loadEvalItems reads a test partition and strips the assistant turns,
// keeping only the system and user messages to replay.
func loadEvalItems(testPath string) ([]evalItem, error) {
	examples, err := datasets.ReadJSONL(testPath)
	if err != nil {
		return nil, err
	}

	items := make([]evalItem, len(examples))
	for i, example := range examples {
		for _, message := range example.Messages {
			switch message.Role {
			case "system":
				items[i].system = message.Content
			case "user":
				items[i].user = message.Content
			}
		}
	}

	return items, nil
}

// buildRequests emits the cross product of test examples and model variants.
// The model label is embedded in each request id so results can be
// demultiplexed without relying on response ordering.
func (s *Service) buildRequests(items []evalItem, models ModelSet, schema batches.ResponseSchema) []batches.RequestRecord {
	records := make([]batches.RequestRecord, 0, len(items)*len(evalLabels))
	for _, label := range evalLabels {
		model := models.ByLabel(label)
		for i, item := range items {
			customID := fmt.Sprintf("%s%s-%d", evalIDPrefix, label, i+1)
			records = append(records, batches.NewRequestRecord(customID, item.user, item.system, model, s.Config.MaxTokens, schema))
		}
	}

	return records
}

func (s *Service) runCombinedBatch(ctx context.Context, inputPath string) (string, error) {
	fileID, err := s.batches.Upload(ctx, inputPath)
	if err != nil {
		return "", err
	}

	jobID, err := s.batches.CreateJob(ctx, fileID)
	if err != nil {
		return "", err
	}

	if _, err := s.batches.WaitForCompletion(ctx, jobID); err != nil {
		return "", err
	}

	return s.batches.DownloadResults(ctx, jobID, s.Config.Dir, "eval_output_all_models.jsonl")
}

// demuxResults splits the combined output file into one file per model label
// and parses each structured output, keyed by example index.
func (s *Service) demuxResults(outputPath string) (map[string]string, map[string]map[int]map[string]any, error) {
	results, err := batches.ReadResultsFile(outputPath)
	if err != nil {
		return nil, nil, err
	}

	resultsByLabel := make(map[string][]batches.ResultRecord, len(evalLabels))
	outputsByLabel := make(map[string]map[int]map[string]any, len(evalLabels))
	for _, label := range evalLabels {
		outputsByLabel[label] = make(map[int]map[string]any)
	}

	for _, result := range results {
		label, index, ok := parseEvalID(result.CustomID)
		if !ok {
			s.logger.Warn("[Evaluation] Result has unrecognized request id, dropping", "module", "evaluation", "customId", result.CustomID)

			continue
		}

		resultsByLabel[label] = append(resultsByLabel[label], result)

		content, ok := result.Content()
		if !ok {
			s.logger.Warn("[Evaluation] Result errored, excluding from scoring", "module", "evaluation", "customId", result.CustomID)

			continue
		}

		var structured map[string]any
		if err := json.Unmarshal([]byte(content), &structured); err != nil {
			s.logger.Warn("[Evaluation] Result output is not valid JSON, excluding from scoring", "module", "evaluation", "customId", result.CustomID)

			continue
		}

		outputsByLabel[label][index] = structured
	}

	resultPaths := make(map[string]string, len(evalLabels))
	for _, label := range evalLabels {
		path := filepath.Join(s.Config.Dir, label+"_eval_output.jsonl")
		if err := batches.WriteResultsFile(resultsByLabel[label], path); err != nil {
			return nil, nil, err
		}

		resultPaths[label] = path
	}

	return resultPaths, outputsByLabel, nil
}

// scorePairs computes the mean field-level similarity for each model pair.
func (s *Service) scorePairs(ctx context.Context, outputsByLabel map[string]map[int]map[string]any) (map[string]float64, error) {
	similarities := make(map[string]float64, len(evalPairs))

	for _, pair := range evalPairs {
		pairLabel := fmt.Sprintf("%s_vs_%s", pair[0], pair[1])

		var sum float64
		var count int

		outputs1 := outputsByLabel[pair[0]]
		outputs2 := outputsByLabel[pair[1]]

		for _, index := range sortedKeys(outputs1) {
			output1 := outputs1[index]
			output2, ok := outputs2[index]
			if !ok {
				continue
			}

			for _, field := range sortedKeys(output1) {
				val2, ok := output2[field]
				if !ok {
					continue
				}

				score, comparable, err := s.compareValues(ctx, output1[field], val2)
				if err != nil {
					return nil, err
				}

				if !comparable {
					continue
				}

				sum += score
				count++
			}
		}

		if count > 0 {
			similarities[pairLabel] = sum / float64(count)
		} else {
			similarities[pairLabel] = 0
		}
	}

	return similarities, nil
}

func parseEvalID(customID string) (string, int, bool) {
	rest, ok := strings.CutPrefix(customID, evalIDPrefix)
	if !ok {
		return "", 0, false
	}

	label, indexStr, ok := strings.Cut(rest, "-")
	if !ok {
		return "", 0, false
	}

	index, err := strconv.Atoi(indexStr)
	if err != nil {
		return "", 0, false
	}

	if !slices.Contains(evalLabels, label) {
		return "", 0, false
	}

	return label, index, true
}

func sortedKeys[K int | string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}
