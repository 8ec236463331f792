package finetune

import "time"

type Config struct {
	// BaseModel is the student model being trained to imitate the teacher.
	BaseModel string `conf:"BASE_MODEL" default:"gpt-4o-mini"`
	Suffix    string `conf:"SUFFIX" default:"distill"`

	PollInterval time.Duration `conf:"POLL_INTERVAL" default:"60s"`
}
