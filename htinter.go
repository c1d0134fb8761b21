package htinter

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jpalmerr/htinter/internal/batch"
	"github.com/jpalmerr/htinter/internal/metrics"
	"github.com/jpalmerr/htinter/internal/server"
	"github.com/jpalmerr/htinter/internal/static"
)

const (
	defaultAddress = "127.0.0.1"
	defaultPort    = 5080
	defaultRoot    = "."
)

// Server serves a directory of pages and answers the protocol calls made by
// the bridge script injected into them.
//
// Server owns the route table, the heartbeat table and the action batch of
// the request being served. Requests are served strictly one at a time, so
// handlers may call any Server method without synchronization.
//
// The typical lifecycle is:
//
//	s, err := htinter.New(htinter.WithPort(8000))
//	if err != nil {
//	    slog.Error("failed to create server", "error", err)
//	    os.Exit(1)
//	}
//
//	s.Route("/inc", htinter.HandlerFunc(func(c *htinter.Context) {
//	    c.SetContent("#x", "5", false)
//	}))
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	s.Start(ctx) // blocks until ctx is cancelled or Stop is called
//
// Methods other than [Server.Start], [Server.Stop] and [Server.Addr] must not
// be called from other goroutines while the server is running.
type Server struct {
	address     string
	port        int
	maxRequests int
	root        string
	readTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics

	files      *static.Server
	routes     map[string]Handler
	heartbeats []heartbeat
	batch      *batch.Batch

	loop *server.Server
	addr atomic.Value // net.Addr, set once listening
}

// New creates a [Server] with the given options.
//
// Defaults:
//   - Address: 127.0.0.1
//   - Port: 5080
//   - Max requests: unlimited
//   - Root: the working directory
//   - Read timeout: 100ms
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*Server, error) {
	cfg := &serverConfig{
		address: defaultAddress,
		port:    defaultPort,
		root:    defaultRoot,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	files := cfg.files
	if files == nil {
		files = os.DirFS(cfg.root)
	}

	s := &Server{
		address:     cfg.address,
		port:        cfg.port,
		maxRequests: cfg.maxRequests,
		root:        cfg.root,
		readTimeout: cfg.readTimeout,
		logger:      logger,
		metrics:     metrics.New(cfg.registerer),
		files:       static.NewServer(files),
		routes:      make(map[string]Handler),
		batch:       batch.New(),
	}

	s.loop = server.NewServer(server.DispatcherFunc(s.dispatch), server.Config{
		ReadTimeout: cfg.readTimeout,
		MaxRequests: cfg.maxRequests,
	}, logger, s.metrics)

	return s, nil
}

// Start listens on the configured address and port and serves requests.
//
// Start blocks until [Server.Stop] is called, ctx is cancelled, or the
// configured maximum number of requests has been answered. A request being
// served when the stop is requested is always completed first. The listening
// socket is closed before Start returns.
//
// Returns nil on orderly shutdown. Returns an error if the listener cannot be
// created or fails.
func (s *Server) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}

	hostPort := net.JoinHostPort(s.address, strconv.Itoa(s.port))
	ln, err := net.Listen("tcp", hostPort)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", hostPort, err)
	}
	s.addr.Store(ln.Addr())

	s.logger.Info("htinter starting",
		"url", "http://"+ln.Addr().String(),
		"root", s.root,
		"max_requests", s.maxRequests,
	)

	if err := s.loop.Serve(ctx, ln); err != nil {
		return fmt.Errorf("accept loop failed: %w", err)
	}

	s.logger.Info("htinter stopped", "served", s.loop.Served())
	return nil
}

// Stop asks the server to exit once the current request, if any, has been
// answered. It is safe to call from a handler or from another goroutine.
// Calling Stop before Start makes Start return without serving.
func (s *Server) Stop() {
	s.loop.Stop()
}

// Addr returns the address the server listens on, or nil before
// [Server.Start] has bound it. Useful with [WithPort](0).
func (s *Server) Addr() net.Addr {
	addr, _ := s.addr.Load().(net.Addr)
	return addr
}
