package solver

import (
	"runtime"

	"github.com/charmbracelet/log"
)

type options struct {
	logger    *log.Logger
	workers   int
	minChunk  int
	observers []Observer
}

func defaultOptions() options {
	return options{
		logger:   log.Default(),
		workers:  runtime.GOMAXPROCS(0),
		minChunk: 1024,
	}
}

// Option customises a Solver at construction.
type Option func(*options)

// WithLogger routes solver diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers caps the goroutines used for integration. Values below 1 integrate on the
// calling goroutine.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithMinChunk sets the smallest number of bodies handed to one integration worker.
func WithMinChunk(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.minChunk = n
		}
	}
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}
