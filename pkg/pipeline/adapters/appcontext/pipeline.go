package appcontext

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/eser/distill/pkg/pipeline/business/batches"
	"github.com/eser/distill/pkg/pipeline/business/evaluation"
	"github.com/eser/distill/pkg/pipeline/business/runs"
)

// Run executes the full pipeline: load prompts, run a labeling batch through
// the teacher model, assemble the fine-tuning dataset, train the student
// model, and evaluate the three model variants. Stages hand off exclusively
// through files; the run manifest records every artifact so a failed stage
// can be re-invoked manually with corrected inputs.
func (a *AppContext) Run(ctx context.Context, schema batches.ResponseSchema) error {
	a.Logger.InfoContext(
		ctx,
		"[Pipeline] Starting pipeline run",
		"module", "appcontext",
		"name", a.Config.AppName,
		"environment", a.Config.AppEnv,
		"schema", schema.Name,
	)

	manifest, err := a.Runs.Begin()
	if err != nil {
		return err
	}

	// prompts
	promptList, err := a.Prompts.Load()
	if err != nil {
		return err
	}

	// labeling batch against the teacher model
	batchCfg := &a.Config.Batches

	inputPath, err := a.Batches.BuildInputFile(promptList, schema, batchCfg.SystemMessage, batchCfg.TeacherModel, batchCfg.MaxTokens, batchCfg.Dir, batchCfg.FilenamePrefix)
	if err != nil {
		return err
	}

	if err := a.Runs.Record(func(m *runs.Manifest) {
		m.PromptCount = len(promptList)
		m.BatchInputPath = inputPath
	}); err != nil {
		return err
	}

	fileID, err := a.Batches.Upload(ctx, inputPath)
	if err != nil {
		return err
	}

	jobID, err := a.Batches.CreateJob(ctx, fileID)
	if err != nil {
		return err
	}

	if err := a.Runs.Record(func(m *runs.Manifest) {
		m.BatchInputFileID = fileID
		m.BatchJobID = jobID
	}); err != nil {
		return err
	}

	if _, err := a.Batches.WaitForCompletion(ctx, jobID); err != nil {
		return err
	}

	outputPath, err := a.Batches.DownloadResults(ctx, jobID, batchCfg.Dir, batchCfg.FilenamePrefix+"_batch_output.jsonl")
	if err != nil {
		return err
	}

	if err := a.Runs.Record(func(m *runs.Manifest) { m.BatchOutputPath = outputPath }); err != nil {
		return err
	}

	// dataset assembly
	examples, stats, err := a.Datasets.Assemble(inputPath, outputPath)
	if err != nil {
		return err
	}

	train, test := a.Datasets.Split(examples)

	trainPath := filepath.Join(a.Config.Datasets.Dir, "train.jsonl")
	testPath := filepath.Join(a.Config.Datasets.Dir, "test.jsonl")

	if err := a.Datasets.WriteJSONL(train, trainPath); err != nil {
		return err
	}

	if err := a.Datasets.WriteJSONL(test, testPath); err != nil {
		return err
	}

	for _, path := range []string{trainPath, testPath} {
		if err := a.Datasets.Validate(path, schema); err != nil {
			return err
		}
	}

	if err := a.Runs.Record(func(m *runs.Manifest) {
		m.TrainPath = trainPath
		m.TestPath = testPath
		m.TrainCount = len(train)
		m.TestCount = len(test)
		m.DroppedCount = stats.Total()
	}); err != nil {
		return err
	}

	// fine-tuning
	trainingFileID, err := a.Finetune.Upload(ctx, trainPath)
	if err != nil {
		return err
	}

	validationFileID, err := a.Finetune.Upload(ctx, testPath)
	if err != nil {
		return err
	}

	fineTuneJobID, err := a.Finetune.CreateJob(ctx, trainingFileID, validationFileID, a.Config.Finetune.BaseModel, a.Config.Finetune.Suffix)
	if err != nil {
		return err
	}

	if err := a.Runs.Record(func(m *runs.Manifest) {
		m.TrainingFileID = trainingFileID
		m.ValidationFileID = validationFileID
		m.FineTuneJobID = fineTuneJobID
	}); err != nil {
		return err
	}

	fineTunedModel, err := a.Finetune.WaitForCompletion(ctx, fineTuneJobID)
	if err != nil {
		return err
	}

	if err := a.Runs.Record(func(m *runs.Manifest) { m.FineTunedModel = fineTunedModel }); err != nil {
		return err
	}

	// evaluation
	report, err := a.Evaluation.Run(ctx, testPath, evaluation.ModelSet{
		Finetuned: fineTunedModel,
		Base:      a.Config.Finetune.BaseModel,
		Large:     batchCfg.TeacherModel,
	}, schema)
	if err != nil {
		return err
	}

	if err := a.Runs.Record(func(m *runs.Manifest) {
		m.EvalResultPaths = report.ResultPaths
		m.EvalSimilarities = report.Similarities
	}); err != nil {
		return err
	}

	a.Logger.InfoContext(
		ctx,
		"[Pipeline] Pipeline run finished",
		"module", "appcontext",
		"runId", manifest.RunID,
		"manifest", a.Runs.Path(),
		"fineTunedModel", fineTunedModel,
		"similarities", fmt.Sprintf("%v", sortedPairs(report.Similarities)),
	)

	return nil
}

func sortedPairs(similarities map[string]float64) []string {
	pairs := make([]string, 0, len(similarities))
	for label, score := range similarities {
		pairs = append(pairs, fmt.Sprintf("%s=%.4f", label, score))
	}

	slices.Sort(pairs)

	return pairs
}
