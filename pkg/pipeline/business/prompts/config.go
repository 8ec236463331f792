package prompts

type Config struct {
	Path string `conf:"PATH" default:"./data/raw/prompts.txt"`
}
