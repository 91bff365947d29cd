package outbox

import "time"

const (
	defaultMaxRetryCount   = 10
	defaultRetentionDays   = 30
	defaultSweepInterval   = 5 * time.Minute
	defaultCleanupInterval = 24 * time.Hour
	defaultStatsInterval   = time.Hour
)

// Config defines outbox policy and scheduling behavior.
type Config struct {
	// MaxRetryCount is the number of recorded failures after which a record
	// goes FAILED instead of PENDING.
	MaxRetryCount int
	// RetentionDays is the age threshold (by CreatedAt) beyond which terminal
	// records are purged.
	RetentionDays int
	// SweepInterval is the period between retry sweeps.
	SweepInterval time.Duration
	// CleanupInterval is the period between retention cleanup runs.
	CleanupInterval time.Duration
	// StatsInterval is the period between statistics reports.
	StatsInterval time.Duration
	// SendTimeout bounds a single delivery attempt. Zero disables the bound
	// and leaves timeouts to the Sender.
	SendTimeout time.Duration
	// Clock is the time source for backoff and retention math.
	Clock Clock
	// Logger receives operational log events.
	Logger Logger
	// Metrics receives scheduler telemetry.
	Metrics Metrics
}

func (c Config) withDefaults() Config {
	if c.MaxRetryCount <= 0 {
		c.MaxRetryCount = defaultMaxRetryCount
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = defaultRetentionDays
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = defaultSweepInterval
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = defaultCleanupInterval
	}
	if c.StatsInterval <= 0 {
		c.StatsInterval = defaultStatsInterval
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Logger == nil {
		c.Logger = NopLogger{}
	}
	if c.Metrics == nil {
		c.Metrics = NopMetrics{}
	}

	return c
}

// Option configures Service and Scheduler behavior.
type Option func(*Config)

// WithMaxRetryCount sets the retry budget before a record goes FAILED.
func WithMaxRetryCount(count int) Option {
	return func(c *Config) {
		c.MaxRetryCount = count
	}
}

// WithRetentionDays sets how long terminal records are kept.
func WithRetentionDays(days int) Option {
	return func(c *Config) {
		c.RetentionDays = days
	}
}

// WithSweepInterval sets the period between retry sweeps.
func WithSweepInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.SweepInterval = interval
	}
}

// WithCleanupInterval sets the period between retention cleanup runs.
func WithCleanupInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.CleanupInterval = interval
	}
}

// WithStatsInterval sets the period between statistics reports.
func WithStatsInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.StatsInterval = interval
	}
}

// WithSendTimeout bounds a single delivery attempt at the Sender boundary.
func WithSendTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.SendTimeout = timeout
	}
}

// WithClock sets the time source.
func WithClock(clock Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics Metrics) Option {
	return func(c *Config) {
		c.Metrics = metrics
	}
}
