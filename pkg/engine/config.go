package engine

import (
	"github.com/go-playground/validator/v10"

	"github.com/mutualist/evoprompt/pkg/errors"
)

// Config contains the evolutionary parameters of an Engine.
type Config struct {
	// PopulationSize is the number of individuals per generation.
	// Reproduction samples two distinct parents, so at least 2 is required.
	PopulationSize int `json:"population_size" yaml:"population_size" validate:"gte=2"` // Default: 5

	// CommonsMaxSize bounds the shared knowledge pool.
	CommonsMaxSize int `json:"commons_max_size" yaml:"commons_max_size" validate:"gte=1"` // Default: 10

	// SurvivalRate is the fraction of the population kept under Darwin
	// selection, floored with a hard minimum of one survivor.
	SurvivalRate float64 `json:"survival_rate" yaml:"survival_rate" validate:"gt=0,lte=1"` // Default: 0.5

	// SharingProbability is the per-individual chance of adopting a commons
	// fragment during Kropotkin selection.
	SharingProbability float64 `json:"sharing_probability" yaml:"sharing_probability" validate:"gte=0,lte=1"` // Default: 0.5

	// MutationRate is the probability a bred child mutates at all.
	MutationRate float64 `json:"mutation_rate" yaml:"mutation_rate" validate:"gte=0,lte=1"` // Default: 0.2

	// Seed initializes the engine's random source; 0 means time-based.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		PopulationSize:     5,
		CommonsMaxSize:     10,
		SurvivalRate:       0.5,
		SharingProbability: 0.5,
		MutationRate:       0.2,
	}
}

var validate = validator.New()

// Validate checks the configuration, reporting the first offending field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return errors.WithFields(
			errors.New(errors.InvalidConfig, "invalid engine configuration"),
			errors.Fields{
				"field":      first.Field(),
				"constraint": first.Tag(),
				"value":      first.Value(),
			})
	}
	return errors.Wrap(err, errors.InvalidConfig, "invalid engine configuration")
}

// Option configures an Engine at construction time.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithPopulationSize sets the number of individuals per generation.
func WithPopulationSize(n int) Option {
	return func(c *Config) {
		c.PopulationSize = n
	}
}

// WithCommonsMaxSize bounds the shared knowledge pool.
func WithCommonsMaxSize(n int) Option {
	return func(c *Config) {
		c.CommonsMaxSize = n
	}
}

// WithSurvivalRate sets the surviving fraction under Darwin selection.
func WithSurvivalRate(rate float64) Option {
	return func(c *Config) {
		c.SurvivalRate = rate
	}
}

// WithSharingProbability sets the commons adoption chance under Kropotkin selection.
func WithSharingProbability(p float64) Option {
	return func(c *Config) {
		c.SharingProbability = p
	}
}

// WithMutationRate sets the child mutation probability.
func WithMutationRate(rate float64) Option {
	return func(c *Config) {
		c.MutationRate = rate
	}
}

// WithSeed fixes the engine's random source for reproducible runs.
func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}
