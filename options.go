package bucketx

import (
	"net/http"
	"time"
)

// Options holds functional options for customizing client behavior
type Options struct {
	logger       Logger
	clock        func() time.Time
	httpClient   *http.Client
	instrumenter *Instrumenter
}

// Option is a functional option for configuring the Client
type Option func(*Options)

// WithLogger sets a custom logger. The default logger is a no-op.
func WithLogger(logger Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// WithClock sets a custom time provider (useful for testing)
func WithClock(clock func() time.Time) Option {
	return func(opts *Options) {
		opts.clock = clock
	}
}

// WithHTTPClient sets the HTTP client used for backend requests. When unset,
// a client with the configured request timeout is created.
func WithHTTPClient(hc *http.Client) Option {
	return func(opts *Options) {
		opts.httpClient = hc
	}
}

// WithInstrumenter attaches operation metrics to the client
func WithInstrumenter(inst *Instrumenter) Option {
	return func(opts *Options) {
		opts.instrumenter = inst
	}
}

// applyDefaults applies default values to unset options
func (opts *Options) applyDefaults() {
	if opts.logger == nil {
		opts.logger = NewNopLogger()
	}
	if opts.clock == nil {
		opts.clock = time.Now
	}
}

func buildOptions(options ...Option) *Options {
	opts := &Options{}
	for _, opt := range options {
		opt(opts)
	}
	opts.applyDefaults()
	return opts
}
