package config

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jpalmerr/htinter"
)

// BuildOptions converts parsed configuration into server options.
//
// The logger and the metrics registerer are created by the caller; reg may
// be nil, in which case metrics are collected but not registered.
func BuildOptions(cfg *Config, logger *slog.Logger, reg prometheus.Registerer) []htinter.Option {
	opts := []htinter.Option{
		htinter.WithAddress(cfg.Address),
		htinter.WithPort(cfg.Port),
		htinter.WithRoot(cfg.Root),
		htinter.WithMaxRequests(cfg.MaxRequests),
		htinter.WithReadTimeout(cfg.ReadTimeout.Duration()),
	}

	if logger != nil {
		opts = append(opts, htinter.WithLogger(logger))
	}
	if reg != nil {
		opts = append(opts, htinter.WithMetrics(reg))
	}

	return opts
}
