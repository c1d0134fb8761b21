package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jpalmerr/htinter/internal/metrics"
)

const (
	// DefaultReadTimeout bounds the wait for a request start line.
	DefaultReadTimeout = 100 * time.Millisecond

	// acceptPoll is how long Accept blocks before the run flag is checked
	// again. It only matters while the server is idle.
	acceptPoll = 250 * time.Millisecond

	// writeTimeout bounds writing one response.
	writeTimeout = 5 * time.Second

	// maxDrain bounds how much of the request is discarded before closing.
	maxDrain = 64 << 10
)

// Dispatcher turns a GET request target into a response.
type Dispatcher interface {
	Dispatch(target []byte) Response
}

// DispatcherFunc adapts a function to [Dispatcher].
type DispatcherFunc func(target []byte) Response

// Dispatch calls f(target).
func (f DispatcherFunc) Dispatch(target []byte) Response {
	return f(target)
}

// Config holds the loop settings.
type Config struct {
	// ReadTimeout bounds the wait for the start line. Zero means
	// [DefaultReadTimeout].
	ReadTimeout time.Duration

	// MaxRequests stops the loop after that many answered requests.
	// Zero or negative means no limit.
	MaxRequests int
}

// Server accepts and answers connections strictly one at a time.
type Server struct {
	dispatcher  Dispatcher
	readTimeout time.Duration
	maxRequests int
	logger      *slog.Logger
	metrics     *metrics.Metrics

	stopped atomic.Bool
	served  atomic.Int64
}

// NewServer creates a [Server]. The loop is started with [Server.Serve].
func NewServer(d Dispatcher, cfg Config, logger *slog.Logger, m *metrics.Metrics) *Server {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New(nil)
	}

	return &Server{
		dispatcher:  d,
		readTimeout: cfg.ReadTimeout,
		maxRequests: cfg.MaxRequests,
		logger:      logger,
		metrics:     m,
	}
}

// Serve runs the accept loop on ln until [Server.Stop] is called, ctx is
// cancelled, or the request limit is reached. A stop never interrupts the
// connection being served: it is seen at the top of the next iteration.
//
// ln is closed when Serve returns. Serve returns nil on every orderly exit
// and the accept error if the listener fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()

	deadliner, canPoll := ln.(interface{ SetDeadline(time.Time) error })

	for s.keepGoing(ctx) {
		if canPoll {
			_ = deadliner.SetDeadline(time.Now().Add(acceptPoll))
		}

		conn, err := ln.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if !s.keepGoing(ctx) || errors.Is(err, net.ErrClosed) {
				break
			}
			return err
		}

		if s.serveConn(conn) {
			s.served.Add(1)
		}
	}

	return nil
}

// Stop asks the loop to exit before accepting another connection. Calling
// Stop before Serve makes Serve return at once.
func (s *Server) Stop() {
	s.stopped.Store(true)
}

// Served returns how many requests have been answered.
func (s *Server) Served() int {
	return int(s.served.Load())
}

func (s *Server) keepGoing(ctx context.Context) bool {
	if s.stopped.Load() || ctx.Err() != nil {
		return false
	}
	return s.maxRequests <= 0 || s.Served() < s.maxRequests
}

// serveConn answers one connection and reports whether a response was sent.
// Read failures are swallowed: the connection is closed without a reply.
func (s *Server) serveConn(conn net.Conn) bool {
	defer conn.Close()

	req, err := readRequest(conn, s.readTimeout)
	var resp Response
	switch {
	case errors.Is(err, errMalformed):
		resp = BadRequest
	case err != nil:
		s.metrics.Dropped()
		s.logger.Debug("connection dropped", "remote", conn.RemoteAddr().String(), "error", err)
		return false
	case req.Method != http.MethodGet:
		resp = BadRequest
	default:
		resp = s.dispatcher.Dispatch(req.Target)
	}

	if resp.Status == http.StatusBadRequest {
		s.metrics.Request(metrics.KindBadRequest)
		s.logger.Debug("bad request", "method", req.Method, "remote", conn.RemoteAddr().String())
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := resp.WriteTo(conn); err != nil {
		s.logger.Debug("write response failed", "error", err)
		return true
	}

	s.finish(conn)
	return true
}

// finish half-closes the connection and discards what is left of the
// request, so that closing does not reset the connection before the client
// has read the response.
func (s *Server) finish(conn net.Conn) {
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
	}
	_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	_, _ = io.Copy(io.Discard, io.LimitReader(conn, maxDrain))
}
