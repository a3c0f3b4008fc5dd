package hashmap

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	// DefaultInitialCapacity is the amount of buckets a map created by New starts with
	DefaultInitialCapacity = 16

	// DefaultLoadFactorThreshold is the load (size / capacity) at which a map created by New grows
	DefaultLoadFactorThreshold = 0.75

	growthFactor = 2
)

// Options represents the construction parameters of a ChainedMap
type Options struct {
	// InitialCapacity is the starting amount of buckets; must be positive
	InitialCapacity int

	// LoadFactorThreshold is the fraction in (0, 1] of size to capacity that triggers a resize
	LoadFactorThreshold float64

	// Logger receives debug events about table growth. Logging is disabled if nil.
	Logger *zerolog.Logger
}

// DefaultOptions returns the options used by New
func DefaultOptions() *Options {
	return &Options{
		InitialCapacity:     DefaultInitialCapacity,
		LoadFactorThreshold: DefaultLoadFactorThreshold,
	}
}

// Validate checks whether the options may be used to construct a map
func (opts *Options) Validate() error {
	if opts.InitialCapacity <= 0 {
		return fmt.Errorf("%w: the initial capacity has to be positive (got %d)", ErrInvalidArgument, opts.InitialCapacity)
	}
	if !(opts.LoadFactorThreshold > 0 && opts.LoadFactorThreshold <= 1) {
		return fmt.Errorf("%w: the load factor threshold has to be in (0, 1] (got %v)", ErrInvalidArgument, opts.LoadFactorThreshold)
	}
	return nil
}

func (opts *Options) logger() zerolog.Logger {
	if opts.Logger == nil {
		return zerolog.Nop()
	}
	return *opts.Logger
}
