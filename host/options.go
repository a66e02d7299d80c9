package host

import (
	"log/slog"

	"github.com/hiveml/hivehost/hostapi"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithLogger sets the executor's logger (default slog.Default()). Boundary
// diagnostics for failed guest calls go through it.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithHostModules configures the host modules bound at construction.
func WithHostModules(modules ...hostapi.HostModule) Option {
	return func(e *Executor) {
		e.modules = append(e.modules, modules...)
	}
}
