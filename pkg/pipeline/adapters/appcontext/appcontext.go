package appcontext

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/eser/ajan/configfx"
	"github.com/eser/ajan/logfx"
	"github.com/eser/ajan/metricsfx"

	"github.com/eser/distill/pkg/pipeline/adapters/openai"
	"github.com/eser/distill/pkg/pipeline/business/batches"
	"github.com/eser/distill/pkg/pipeline/business/datasets"
	"github.com/eser/distill/pkg/pipeline/business/evaluation"
	"github.com/eser/distill/pkg/pipeline/business/finetune"
	"github.com/eser/distill/pkg/pipeline/business/prompts"
	"github.com/eser/distill/pkg/pipeline/business/runs"
)

var ErrInitFailed = errors.New("failed to initialize app context")

type AppContext struct {
	Config  *AppConfig
	Logger  *logfx.Logger
	Metrics *metricsfx.MetricsProvider

	OpenAI *openai.Client

	Prompts    *prompts.Service
	Batches    *batches.Service
	Datasets   *datasets.Service
	Finetune   *finetune.Service
	Evaluation *evaluation.Service
	Runs       *runs.Service
}

func NewAppContext(ctx context.Context) (*AppContext, error) {
	appContext := &AppContext{} //nolint:exhaustruct

	// config
	cl := configfx.NewConfigManager()

	appContext.Config = &AppConfig{} //nolint:exhaustruct

	err := cl.LoadDefaults(appContext.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	// logger
	appContext.Logger, err = logfx.NewLoggerAsDefault(os.Stdout, &appContext.Config.Log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	// metrics
	appContext.Metrics = metricsfx.NewMetricsProvider()

	err = appContext.Metrics.RegisterNativeCollectors()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	// openai client
	appContext.OpenAI = openai.NewClient(appContext.Config.OpenAI)

	// services
	appContext.Prompts = prompts.NewService(&appContext.Config.Prompts, appContext.Logger)
	appContext.Batches = batches.NewService(&appContext.Config.Batches, appContext.Logger, appContext.OpenAI)
	appContext.Datasets = datasets.NewService(&appContext.Config.Datasets, appContext.Logger)
	appContext.Finetune = finetune.NewService(&appContext.Config.Finetune, appContext.Logger, appContext.OpenAI)
	appContext.Evaluation = evaluation.NewService(&appContext.Config.Evaluation, appContext.Logger, appContext.Batches, appContext.OpenAI)
	appContext.Runs = runs.NewService(&appContext.Config.Runs, appContext.Logger)

	return appContext, nil
}
