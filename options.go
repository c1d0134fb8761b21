package htinter

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// serverConfig holds mutable state during Server construction.
type serverConfig struct {
	address     string
	port        int
	maxRequests int
	root        string
	files       fs.FS
	readTimeout time.Duration
	logger      *slog.Logger
	registerer  prometheus.Registerer
}

// Option is a function that configures a [Server] during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithAddress], [WithPort], [WithMaxRequests], [WithRoot],
// [WithFS], [WithReadTimeout], [WithLogger], [WithMetrics].
type Option func(*serverConfig) error

// WithAddress sets the interface the server listens on.
//
// Defaults to 127.0.0.1. Use "0.0.0.0" or "" to listen on all interfaces.
func WithAddress(address string) Option {
	return func(cfg *serverConfig) error {
		cfg.address = address
		return nil
	}
}

// WithPort sets the TCP port. Port 0 picks a free port, see [Server.Addr].
//
// Defaults to 5080.
//
// Returns an error if the port is outside 0-65535.
func WithPort(port int) Option {
	return func(cfg *serverConfig) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("port must be between 0 and 65535, got %d", port)
		}
		cfg.port = port
		return nil
	}
}

// WithMaxRequests makes [Server.Start] return after n answered requests.
// Zero or a negative n means no limit, which is the default.
//
// Connections that time out before sending a request line do not count.
func WithMaxRequests(n int) Option {
	return func(cfg *serverConfig) error {
		cfg.maxRequests = n
		return nil
	}
}

// WithRoot sets the directory static files are served from.
//
// Defaults to the working directory.
//
// Returns an error if dir is empty.
func WithRoot(dir string) Option {
	return func(cfg *serverConfig) error {
		if dir == "" {
			return errors.New("root directory cannot be empty")
		}
		cfg.root = dir
		return nil
	}
}

// WithFS serves static files from fsys instead of a directory. It takes
// precedence over [WithRoot].
//
// Returns an error if fsys is nil.
func WithFS(fsys fs.FS) Option {
	return func(cfg *serverConfig) error {
		if fsys == nil {
			return errors.New("filesystem cannot be nil")
		}
		cfg.files = fsys
		return nil
	}
}

// WithReadTimeout bounds the wait for a request line on a new connection.
// A connection that sends nothing in time is closed without a response.
//
// Defaults to 100ms.
//
// Returns an error if the duration is zero or negative.
func WithReadTimeout(d time.Duration) Option {
	return func(cfg *serverConfig) error {
		if d <= 0 {
			return errors.New("read timeout must be positive")
		}
		cfg.readTimeout = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the server.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serverConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithMetrics registers the server's Prometheus collectors with reg.
//
// Without this option the collectors are still updated but not registered
// anywhere.
//
// Returns an error if reg is nil.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(cfg *serverConfig) error {
		if reg == nil {
			return errors.New("metrics registerer cannot be nil")
		}
		cfg.registerer = reg
		return nil
	}
}
