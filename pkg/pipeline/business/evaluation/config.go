package evaluation

type Config struct {
	Dir string `conf:"DIR" default:"./data/evaluation"`

	MaxTokens int `conf:"MAX_TOKENS" default:"1000"`

	EmbeddingModel      string `conf:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	EmbeddingDimensions int    `conf:"EMBEDDING_DIMENSIONS" default:"1024"`
}
