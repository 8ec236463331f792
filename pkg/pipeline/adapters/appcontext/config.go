package appcontext

import (
	"github.com/eser/ajan"
	"github.com/eser/distill/pkg/pipeline/adapters/openai"
	"github.com/eser/distill/pkg/pipeline/business/batches"
	"github.com/eser/distill/pkg/pipeline/business/datasets"
	"github.com/eser/distill/pkg/pipeline/business/evaluation"
	"github.com/eser/distill/pkg/pipeline/business/finetune"
	"github.com/eser/distill/pkg/pipeline/business/prompts"
	"github.com/eser/distill/pkg/pipeline/business/runs"
)

type AppConfig struct {
	OpenAI openai.Config `conf:"OPENAI"`

	Prompts    prompts.Config    `conf:"PROMPTS"`
	Batches    batches.Config    `conf:"BATCHES"`
	Datasets   datasets.Config   `conf:"DATASETS"`
	Finetune   finetune.Config   `conf:"FINETUNE"`
	Evaluation evaluation.Config `conf:"EVALUATION"`
	Runs       runs.Config       `conf:"RUNS"`

	ajan.BaseConfig
}
