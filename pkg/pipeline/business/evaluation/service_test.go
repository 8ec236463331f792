package evaluation_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/eser/ajan/logfx"
	"github.com/eser/distill/pkg/pipeline/adapters/openai"
	"github.com/eser/distill/pkg/pipeline/business/batches"
	"github.com/eser/distill/pkg/pipeline/business/evaluation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── fakes ──────────────────────────────────────────────────────────────────

// fakeBatchProvider drives a combined evaluation batch to immediate
// completion and serves a pre-canned results file.
type fakeBatchProvider struct {
	resultsContent []byte
	uploadedPath   string
}

func (p *fakeBatchProvider) CreateFile(_ context.Context, filePath string, purpose string) (*openai.File, error) {
	p.uploadedPath = filePath

	return &openai.File{ID: "file-eval", Purpose: purpose}, nil
}

func (p *fakeBatchProvider) GetFileContent(_ context.Context, _ string) ([]byte, error) {
	return p.resultsContent, nil
}

func (p *fakeBatchProvider) CreateBatch(_ context.Context, batchReq openai.CreateBatchRequest) (*openai.Batch, error) {
	return &openai.Batch{ID: "batch-eval", InputFileID: batchReq.InputFileID, Status: "validating"}, nil
}

func (p *fakeBatchProvider) RetrieveBatch(_ context.Context, batchID string) (*openai.Batch, error) {
	outputFileID := "file-eval-out"

	return &openai.Batch{ID: batchID, Status: openai.BatchStatusCompleted, OutputFileID: &outputFileID}, nil
}

func (p *fakeBatchProvider) CancelBatch(_ context.Context, batchID string) (*openai.Batch, error) {
	return &openai.Batch{ID: batchID, Status: "cancelling"}, nil
}

func (p *fakeBatchProvider) ListBatches(_ context.Context, _ *openai.ListParams) (*openai.ListBatchesResponse, error) {
	return &openai.ListBatchesResponse{Object: "list"}, nil
}

var _ batches.Provider = (*fakeBatchProvider)(nil)

// fakeEmbedder maps known strings to fixed vectors so cosine scores are
// predictable.
type fakeEmbedder struct {
	vectors map[string][]float64
	calls   int
}

func (e *fakeEmbedder) CreateEmbeddings(_ context.Context, embReq openai.CreateEmbeddingsRequest) (*openai.CreateEmbeddingsResponse, error) {
	e.calls++

	data := make([]openai.Embedding, len(embReq.Input))
	for i, input := range embReq.Input {
		data[i] = openai.Embedding{Index: i, Embedding: e.vectors[input]}
	}

	return &openai.CreateEmbeddingsResponse{Data: data}, nil
}

var _ evaluation.Embedder = (*fakeEmbedder)(nil)

// ─── helpers ────────────────────────────────────────────────────────────────

var testSchema = batches.ResponseSchema{
	Name: "sentiment_analysis",
	Properties: map[string]batches.SchemaProperty{
		"sentiment": {Type: "string", Enum: []string{"positive", "negative", "neutral"}},
		"intensity": {Type: "number"},
	},
	Required: []string{"sentiment", "intensity"},
}

func writeTestPartition(t *testing.T, dir string, count int) string {
	t.Helper()

	var lines []byte
	for i := 0; i < count; i++ {
		line, err := json.Marshal(map[string]any{
			"messages": []batches.Message{
				{Role: "system", Content: "Classify the sentiment of the text."},
				{Role: "user", Content: "I really enjoyed this."},
				{Role: "assistant", Content: `{"sentiment":"positive","intensity":0.9}`},
			},
		})
		require.NoError(t, err)

		lines = append(lines, line...)
		lines = append(lines, '\n')
	}

	path := filepath.Join(dir, "test.jsonl")
	require.NoError(t, os.WriteFile(path, lines, 0o600))

	return path
}

// evalResults builds a combined output file where every example gets the same
// structured output per model label.
func evalResults(t *testing.T, count int, outputsByLabel map[string]string) []byte {
	t.Helper()

	var records []batches.ResultRecord
	for _, label := range []string{"finetuned", "base", "large"} {
		for i := 1; i <= count; i++ {
			records = append(records, batches.ResultRecord{
				CustomID: "eval-" + label + "-" + strconv.Itoa(i),
				Response: &batches.ResultResponse{
					StatusCode: 200,
					Body: &batches.CompletionBody{
						Choices: []batches.Choice{{Message: batches.Message{Role: "assistant", Content: outputsByLabel[label]}}},
					},
				},
			})
		}
	}

	var content []byte
	for _, record := range records {
		line, err := json.Marshal(record)
		require.NoError(t, err)

		content = append(content, line...)
		content = append(content, '\n')
	}

	return content
}

func newHarness(t *testing.T, dir string, provider batches.Provider, embedder evaluation.Embedder) *evaluation.Service {
	t.Helper()

	logger, err := logfx.NewLoggerAsDefault(io.Discard, &logfx.Config{})
	require.NoError(t, err)

	batchService := batches.NewService(&batches.Config{
		Endpoint:         "/v1/chat/completions",
		CompletionWindow: "24h",
		PollInterval:     time.Millisecond,
	}, logger, provider)

	return evaluation.NewService(&evaluation.Config{
		Dir:                 dir,
		MaxTokens:           1000,
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1024,
	}, logger, batchService, embedder)
}

// ─── harness tests ──────────────────────────────────────────────────────────

func TestRun_BuildsCrossProductOfExamplesAndModels(t *testing.T) {
	dir := t.TempDir()
	testPath := writeTestPartition(t, dir, 2)

	provider := &fakeBatchProvider{resultsContent: evalResults(t, 2, map[string]string{
		"finetuned": `{"sentiment":"positive","intensity":0.8}`,
		"base":      `{"sentiment":"positive","intensity":0.8}`,
		"large":     `{"sentiment":"positive","intensity":0.8}`,
	})}
	service := newHarness(t, dir, provider, &fakeEmbedder{})

	_, err := service.Run(context.Background(), testPath, evaluation.ModelSet{
		Finetuned: "ft:gpt-4o-mini:acme:distill:abc",
		Base:      "gpt-4o-mini",
		Large:     "gpt-4o",
	}, testSchema)
	require.NoError(t, err)

	records, err := batches.ReadRequestsFile(filepath.Join(dir, "eval_input_all_models.jsonl"))
	require.NoError(t, err)
	require.Len(t, records, 6)

	modelsByID := make(map[string]string, len(records))
	for _, record := range records {
		modelsByID[record.CustomID] = record.Body.Model
	}

	assert.Equal(t, "ft:gpt-4o-mini:acme:distill:abc", modelsByID["eval-finetuned-1"])
	assert.Equal(t, "gpt-4o-mini", modelsByID["eval-base-2"])
	assert.Equal(t, "gpt-4o", modelsByID["eval-large-1"])
}

func TestRun_ScoresAllThreePairs(t *testing.T) {
	dir := t.TempDir()
	testPath := writeTestPartition(t, dir, 2)

	// finetuned and base agree on sentiment but not intensity; large disagrees
	// on sentiment but matches finetuned's intensity.
	provider := &fakeBatchProvider{resultsContent: evalResults(t, 2, map[string]string{
		"finetuned": `{"sentiment":"positive","intensity":0.8}`,
		"base":      `{"sentiment":"positive","intensity":0.4}`,
		"large":     `{"sentiment":"negative","intensity":0.8}`,
	})}
	embedder := &fakeEmbedder{vectors: map[string][]float64{
		"positive": {1, 0},
		"negative": {0, 1},
	}}
	service := newHarness(t, dir, provider, embedder)

	report, err := service.Run(context.Background(), testPath, evaluation.ModelSet{
		Finetuned: "ft:gpt-4o-mini:acme:distill:abc",
		Base:      "gpt-4o-mini",
		Large:     "gpt-4o",
	}, testSchema)
	require.NoError(t, err)

	require.Len(t, report.Similarities, 3)
	assert.InDelta(t, 0.75, report.Similarities[evaluation.PairFinetunedVsBase], 1e-9)
	assert.InDelta(t, 0.5, report.Similarities[evaluation.PairFinetunedVsLarge], 1e-9)
	assert.InDelta(t, 0.25, report.Similarities[evaluation.PairBaseVsLarge], 1e-9)

	for _, score := range report.Similarities {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}

	// equal strings short-circuit, so only sentiment mismatches hit the
	// embedder: 2 pairs x 2 examples
	assert.Equal(t, 4, embedder.calls)
}

func TestRun_WritesOneResultFilePerModel(t *testing.T) {
	dir := t.TempDir()
	testPath := writeTestPartition(t, dir, 2)

	provider := &fakeBatchProvider{resultsContent: evalResults(t, 2, map[string]string{
		"finetuned": `{"sentiment":"neutral","intensity":0.5}`,
		"base":      `{"sentiment":"neutral","intensity":0.5}`,
		"large":     `{"sentiment":"neutral","intensity":0.5}`,
	})}
	service := newHarness(t, dir, provider, &fakeEmbedder{})

	report, err := service.Run(context.Background(), testPath, evaluation.ModelSet{
		Finetuned: "ft:m", Base: "b", Large: "l",
	}, testSchema)
	require.NoError(t, err)

	require.Len(t, report.ResultPaths, 3)
	for _, label := range []string{"finetuned", "base", "large"} {
		path := report.ResultPaths[label]
		assert.Equal(t, filepath.Join(dir, label+"_eval_output.jsonl"), path)

		results, err := batches.ReadResultsFile(path)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	}
}

func TestRun_ExcludesErroredResultsFromScoring(t *testing.T) {
	dir := t.TempDir()
	testPath := writeTestPartition(t, dir, 1)

	content := evalResults(t, 1, map[string]string{
		"finetuned": `{"sentiment":"positive","intensity":0.6}`,
		"base":      `{"sentiment":"positive","intensity":0.6}`,
		"large":     `{"sentiment":"positive","intensity":0.6}`,
	})

	// append an errored line and one with an unknown id; both must be ignored
	erroredLine, err := json.Marshal(batches.ResultRecord{
		CustomID: "eval-base-2",
		Error:    &batches.ResultError{Code: "server_error", Message: "boom"},
	})
	require.NoError(t, err)

	content = append(content, erroredLine...)
	content = append(content, '\n')
	content = append(content, []byte(`{"custom_id":"request-7","response":{"status_code":200}}`+"\n")...)

	provider := &fakeBatchProvider{resultsContent: content}
	service := newHarness(t, dir, provider, &fakeEmbedder{})

	report, err := service.Run(context.Background(), testPath, evaluation.ModelSet{
		Finetuned: "ft:m", Base: "b", Large: "l",
	}, testSchema)
	require.NoError(t, err)

	// identical outputs still score 1.0 for every pair
	for _, pair := range []string{evaluation.PairFinetunedVsBase, evaluation.PairFinetunedVsLarge, evaluation.PairBaseVsLarge} {
		assert.InDelta(t, 1.0, report.Similarities[pair], 1e-9)
	}
}
