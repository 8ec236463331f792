package datasets

type Config struct {
	Dir string `conf:"DIR" default:"./data/processed"`

	// TrainPercent of joined examples go to the train partition (floor), the
	// remainder to test. Split is by position, deterministic across runs.
	TrainPercent int `conf:"TRAIN_PERCENT" default:"80"`
}
