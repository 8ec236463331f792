package runs

type Config struct {
	Dir string `conf:"DIR" default:"./data/runs"`
}
