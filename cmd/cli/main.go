package main

import (
	"context"

	"github.com/eser/distill/pkg/pipeline/adapters/appcontext"
	"github.com/eser/distill/pkg/pipeline/adapters/openai"
)

const listLimit = 20

// Inspection entry point: lists recent batch and fine-tuning jobs so a
// failed run can be investigated against the provider's dashboard.
func main() {
	baseCtx := context.Background()

	appContext, err := appcontext.NewAppContext(baseCtx)
	if err != nil {
		panic(err)
	}

	limit := listLimit
	params := &openai.ListParams{Limit: &limit}

	batchList, err := appContext.Batches.List(baseCtx, params)
	if err != nil {
		panic(err)
	}

	for _, batch := range batchList.Data {
		appContext.Logger.InfoContext(baseCtx, "Batch job", "id", batch.ID, "status", batch.Status, "createdAt", batch.CreatedAt)
	}

	jobList, err := appContext.Finetune.List(baseCtx, params)
	if err != nil {
		panic(err)
	}

	for _, job := range jobList.Data {
		fineTunedModel := ""
		if job.FineTunedModel != nil {
			fineTunedModel = *job.FineTunedModel
		}

		appContext.Logger.InfoContext(baseCtx, "Fine-tuning job", "id", job.ID, "status", job.Status, "fineTunedModel", fineTunedModel)
	}
}
