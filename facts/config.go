package facts

import (
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	// Seed for the random source. Zero means a fresh random seed.
	Seed    uint64
	Timeout time.Duration
	Logger  *zap.Logger

	source rand.Source
}

func newConfig() *Config {
	c := &Config{
		Timeout: 10 * time.Second,
		Logger:  zap.NewNop(),
	}
	if v := os.Getenv("HISTFACTS_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = seed
		}
	}
	if v := os.Getenv("HISTFACTS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Timeout = d
		}
	}
	return c
}

func (c *Config) randSource() rand.Source {
	if c.source != nil {
		return c.source
	}
	if c.Seed != 0 {
		return rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15)
	}
	return rand.NewPCG(rand.Uint64(), rand.Uint64())
}

type Option func(*Config)

// WithSeed makes random selection reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithRandSource overrides the random source. It takes precedence over WithSeed.
func WithRandSource(src rand.Source) Option {
	return func(c *Config) {
		c.source = src
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithTimeout bounds backend calls made by Load and Writer.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.Timeout = d
		}
	}
}
