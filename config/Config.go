// Package config implements the configuration surface of a training
// run. All values are fixed at construction time and never re-read
// while a run is in progress.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config collects every parameter the training run consumes
type Config struct {
	// Seed initializes every random source of the run. Runs with the
	// same Config are reproducible.
	Seed uint64 `mapstructure:"seed"`

	// Solver parameters
	Gamma         float64 `mapstructure:"gamma"`
	LearningRate  float64 `mapstructure:"learning_rate"`
	KernelsPerDim []int   `mapstructure:"kernels_per_dim"`

	// Exploration schedule
	Epsilon      float64 `mapstructure:"epsilon"`
	MinEpsilon   float64 `mapstructure:"min_epsilon"`
	EpsilonDecay float64 `mapstructure:"epsilon_decay"`

	// Episode and run budgets
	MaxEpisodeSteps int `mapstructure:"max_episode_steps"`
	MaxEpisodes     int `mapstructure:"max_episodes"`

	// Evaluation blocks
	EvalEvery       int     `mapstructure:"eval_every"`
	EvalTrials      int     `mapstructure:"eval_trials"`
	SolvedThreshold float64 `mapstructure:"solved_threshold"`

	// Output
	DataDir string `mapstructure:"data_dir"`
	Verbose bool   `mapstructure:"verbose"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Seed:            345,
		Gamma:           0.999,
		LearningRate:    0.05,
		KernelsPerDim:   []int{7, 5},
		Epsilon:         0.1,
		MinEpsilon:      0.05,
		EpsilonDecay:    1.0,
		MaxEpisodeSteps: 200,
		MaxEpisodes:     100_000,
		EvalEvery:       10,
		EvalTrials:      10,
		SolvedThreshold: -75,
		DataDir:         ".",
		Verbose:         true,
	}
}

// FromYaml loads a configuration from a YAML file. Keys absent from
// the file keep their default values.
func FromYaml(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")

	defaults := Default()
	vp.SetDefault("seed", defaults.Seed)
	vp.SetDefault("gamma", defaults.Gamma)
	vp.SetDefault("learning_rate", defaults.LearningRate)
	vp.SetDefault("kernels_per_dim", defaults.KernelsPerDim)
	vp.SetDefault("epsilon", defaults.Epsilon)
	vp.SetDefault("min_epsilon", defaults.MinEpsilon)
	vp.SetDefault("epsilon_decay", defaults.EpsilonDecay)
	vp.SetDefault("max_episode_steps", defaults.MaxEpisodeSteps)
	vp.SetDefault("max_episodes", defaults.MaxEpisodes)
	vp.SetDefault("eval_every", defaults.EvalEvery)
	vp.SetDefault("eval_trials", defaults.EvalTrials)
	vp.SetDefault("solved_threshold", defaults.SolvedThreshold)
	vp.SetDefault("data_dir", defaults.DataDir)
	vp.SetDefault("verbose", defaults.Verbose)

	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("fromYaml: could not read config: %v", err)
	}

	conf := &Config{}
	if err := vp.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("fromYaml: could not unmarshal config: %v",
			err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// RunID returns the seed-derived identifier under which the run's
// artifacts are saved
func (c Config) RunID() string {
	return fmt.Sprintf("seed%d", c.Seed)
}

// Validate rejects configurations the run could not sensibly operate
// under
func (c Config) Validate() error {
	if c.Gamma <= 0 || c.Gamma >= 1 {
		return fmt.Errorf("validate: discount factor %v ∉ (0, 1)", c.Gamma)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate %v is not positive",
			c.LearningRate)
	}
	if len(c.KernelsPerDim) == 0 {
		return fmt.Errorf("validate: no kernel counts given")
	}
	for i, k := range c.KernelsPerDim {
		if k < 1 {
			return fmt.Errorf("validate: kernel count %d along "+
				"dimension %d is not positive", k, i)
		}
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon %v ∉ [0, 1]", c.Epsilon)
	}
	if c.MinEpsilon < 0 || c.MinEpsilon > c.Epsilon {
		return fmt.Errorf("validate: minimum epsilon %v ∉ [0, %v]",
			c.MinEpsilon, c.Epsilon)
	}
	if c.EpsilonDecay <= 0 || c.EpsilonDecay > 1 {
		return fmt.Errorf("validate: epsilon decay %v ∉ (0, 1]",
			c.EpsilonDecay)
	}
	if c.MaxEpisodeSteps < 1 {
		return fmt.Errorf("validate: episode step budget %v is not "+
			"positive", c.MaxEpisodeSteps)
	}
	if c.MaxEpisodes < 1 {
		return fmt.Errorf("validate: episode budget %v is not positive",
			c.MaxEpisodes)
	}
	if c.EvalEvery < 1 || c.EvalTrials < 1 {
		return fmt.Errorf("validate: evaluation block size %v and trial "+
			"count %v must be positive", c.EvalEvery, c.EvalTrials)
	}
	return nil
}
