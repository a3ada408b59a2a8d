package objpool

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultPoolSize       = 1024
	defaultLocalCacheSize = 16

	prewarmBatch = 32
	shrinkBatch  = 16
	drainBatch   = 64

	// destroyQuiesceSleep is a best-effort pause during Close to let
	// in-flight acquire/release calls observe the shutdown flag before
	// the ring is drained. It is not a correctness guarantee — callers
	// with outstanding handles must still quiesce externally.
	destroyQuiesceSleep = 2 * time.Millisecond
)

type config struct {
	poolSize       int
	localCacheSize int
	enableStats    bool
	logger         zerolog.Logger
	rescue         bool
}

func defaultConfig() config {
	return config{
		poolSize:       defaultPoolSize,
		localCacheSize: defaultLocalCacheSize,
		enableStats:    true,
		logger:         zerolog.Nop(),
		rescue:         true,
	}
}

// Option configures a Pool at construction time.
type Option func(*config)

// WithPoolSize sets the global free ring's capacity. Rounded up to the
// next power of two if it is not already one.
func WithPoolSize(n int) Option {
	return func(c *config) { c.poolSize = n }
}

// WithLocalCacheSize sets the per-shard LIFO cache capacity.
// LocalCacheSize=0 is valid: acquire/release still function via the
// global ring alone.
func WithLocalCacheSize(n int) Option {
	return func(c *config) { c.localCacheSize = n }
}

// WithStats toggles counter maintenance. Disabled counters still exist
// (Go has no conditional-compilation elision) but GetStats always
// returns a zero Stats when disabled, and the hot path skips the
// increments.
func WithStats(enabled bool) Option {
	return func(c *config) { c.enableStats = enabled }
}

// WithLogger supplies a zerolog.Logger for lifecycle events. The pool
// logs one Debug event, at construction; prewarm, shrink and shutdown
// do not log. Defaults to a no-op logger; pool operations never log on
// the hot acquire/release path.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithCrossPoolRescue toggles whether this pool both registers for and
// participates in cross-pool-instance rescue (see the registry
// package) when another pool of the same payload type retires. Enabled
// by default.
func WithCrossPoolRescue(enabled bool) Option {
	return func(c *config) { c.rescue = enabled }
}
