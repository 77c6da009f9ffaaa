package pipeline

import (
	"fmt"

	"github.com/erraggy/resttools/dispatch"
)

// defaultMaxBodySize caps request body reads when WithMaxBodySize is not used.
const defaultMaxBodySize = 10 << 20 // 10 MiB

// Option is a functional option for configuring a Pipeline.
type Option func(*config) error

// config holds the configuration for a Pipeline.
type config struct {
	logger    Logger
	producers []Producer

	// binding behavior
	collectAllErrors bool
	strictMode       bool

	// resource limits
	maxBodySize int64

	// response dispatch
	processors []dispatch.Processor
}

// defaultConfig returns the default configuration.
func defaultConfig() *config {
	return &config{
		logger:      NopLogger{},
		producers:   []Producer{JSONProducer{}},
		maxBodySize: defaultMaxBodySize,
	}
}

// WithLogger sets the structured logger. Default is NopLogger.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return fmt.Errorf("pipeline: logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithProducers replaces the producer set. Default is the built-in JSON
// producer alone.
func WithProducers(producers ...Producer) Option {
	return func(c *config) error {
		if len(producers) == 0 {
			return fmt.Errorf("pipeline: at least one producer is required")
		}
		c.producers = producers
		return nil
	}
}

// WithCollectAllErrors reports every failed constraint when binding a request
// instead of stopping at the first failure per part. Default is false.
func WithCollectAllErrors(collect bool) Option {
	return func(c *config) error {
		c.collectAllErrors = collect
		return nil
	}
}

// WithStrictMode rejects requests carrying query parameters or non-standard
// headers that no part schema declares. Default is false.
func WithStrictMode(strict bool) Option {
	return func(c *config) error {
		c.strictMode = strict
		return nil
	}
}

// WithMaxBodySize sets the maximum request body size in bytes.
// Default: 10 MiB.
func WithMaxBodySize(n int64) Option {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("pipeline: maxBodySize must be positive")
		}
		c.maxBodySize = n
		return nil
	}
}

// WithProcessors replaces the response processor chain. Default is the
// built-in chain from dispatch.DefaultDispatcher.
func WithProcessors(processors ...dispatch.Processor) Option {
	return func(c *config) error {
		if len(processors) == 0 {
			return fmt.Errorf("pipeline: at least one processor is required")
		}
		c.processors = processors
		return nil
	}
}
