package batches

import "time"

type Config struct {
	Dir            string `conf:"DIR" default:"./data/raw"`
	FilenamePrefix string `conf:"FILENAME_PREFIX" default:"labeling"`

	Endpoint         string `conf:"ENDPOINT" default:"/v1/chat/completions"`
	CompletionWindow string `conf:"COMPLETION_WINDOW" default:"24h"`

	// TeacherModel generates the training labels the student model learns from.
	TeacherModel  string `conf:"TEACHER_MODEL" default:"gpt-4o"`
	SystemMessage string `conf:"SYSTEM_MESSAGE" default:"You are a helpful assistant."`
	MaxTokens     int    `conf:"MAX_TOKENS" default:"1000"`

	PollInterval time.Duration `conf:"POLL_INTERVAL" default:"60s"`
}
