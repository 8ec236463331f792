package main

import (
	"context"
	"log/slog"

	"github.com/eser/ajan/processfx"
	"github.com/eser/distill/pkg/pipeline/adapters/appcontext"
	"github.com/eser/distill/pkg/pipeline/business/batches"
)

// sentimentSchema is the structured-output shape the teacher model labels
// prompts with and the fine-tuned student is trained to reproduce. Passed
// explicitly to every stage that needs it.
var sentimentSchema = batches.ResponseSchema{
	Name: "sentiment_analysis",
	Properties: map[string]batches.SchemaProperty{
		"sentiment": {Type: "string", Enum: []string{"positive", "negative", "neutral"}},
		"intensity": {Type: "number", Description: "Strength of the sentiment from 0.0 to 1.0"},
		"label":     {Type: "string", Description: "Short free-form topic label"},
	},
	Required: []string{"sentiment", "intensity", "label"},
}

func main() {
	baseCtx := context.Background()

	appContext, err := appcontext.NewAppContext(baseCtx)
	if err != nil {
		panic(err)
	}

	process := processfx.New(baseCtx, appContext.Logger)

	process.StartGoroutine("pipeline", func(ctx context.Context) error {
		err := appContext.Run(ctx, sentimentSchema)
		if err != nil {
			appContext.Logger.ErrorContext(
				ctx,
				"[Main] Pipeline run failed",
				slog.String("module", "main"),
				slog.Any("error", err))

			return err
		}

		return nil
	})

	process.Wait()
	process.Shutdown()
}
