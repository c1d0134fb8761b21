package htinter

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"

	"github.com/google/uuid"

	"github.com/jpalmerr/htinter/bridge"
	"github.com/jpalmerr/htinter/internal/metrics"
	"github.com/jpalmerr/htinter/internal/query"
	"github.com/jpalmerr/htinter/internal/server"
)

const jsonContentType = "application/json; charset=utf-8"

// dispatch answers one GET request target. Rules are tried in order:
//
//  1. the bridge script
//  2. a heartbeat tick
//  3. a registered route
//  4. the init call, when no route is registered for it
//  5. a static file
func (s *Server) dispatch(target []byte) server.Response {
	path, decodedQuery := query.SplitTarget(target)

	if path == bridge.Path {
		s.metrics.Request(metrics.KindBridge)
		return server.OK(bridge.ContentType, bridge.Script)
	}

	if path == bridge.TickPath {
		params := Params(query.Parse(decodedQuery))
		s.metrics.Request(metrics.KindTick)
		if ref, err := strconv.Atoi(params.Get("ref")); err == nil {
			if hb, ok := s.heartbeat(ref); ok {
				return s.call(hb.handler, path, params)
			}
		}
		s.logger.Debug("tick for unknown heartbeat ignored", "ref", params.Get("ref"))
		return s.reply()
	}

	if h, ok := s.routes[path]; ok {
		s.metrics.Request(metrics.KindRoute)
		return s.call(h, path, Params(query.Parse(decodedQuery)))
	}

	if path == bridge.InitPath {
		s.metrics.Request(metrics.KindInit)
		return s.reply()
	}

	return s.serveFile(path)
}

// call runs h and replies with the effects it recorded.
func (s *Server) call(h Handler, path string, params Params) server.Response {
	s.logger.Debug("protocol call", "path", path, "params", len(params))

	if err := s.invoke(h, &Context{Server: s, Path: path, Params: params}); err != nil {
		s.batch.Reset()
		s.metrics.Request(metrics.KindError)
		return server.InternalError
	}
	return s.reply()
}

// errHandlerPanic is returned by invoke when the handler panicked.
var errHandlerPanic = errors.New("handler panicked")

// invoke calls the handler with panic recovery.
// A panic is logged with a correlation ID and reported as an error; it never
// stops the server.
func (s *Server) invoke(h Handler, c *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			stack := debug.Stack()

			s.logger.Error("handler panic",
				"correlation_id", correlationID,
				"path", c.Path,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(stack),
			)
			s.metrics.HandlerPanic()

			err = fmt.Errorf("%w (correlation_id: %s)", errHandlerPanic, correlationID)
		}
	}()

	h.Handle(c)
	return nil
}

// reply serializes the pending effects and clears them.
func (s *Server) reply() server.Response {
	data, err := s.batch.Flush()
	if err != nil {
		s.logger.Error("failed to encode action batch", "error", err)
		return server.InternalError
	}
	return server.OK(jsonContentType, data)
}

func (s *Server) serveFile(path string) server.Response {
	f, err := s.files.Open(path)
	if err != nil {
		s.metrics.StaticMiss()
		s.logger.Debug("static file not found", "path", path, "error", err)
		return server.NotFound
	}

	s.metrics.Request(metrics.KindStatic)
	s.logger.Debug("static file served", "path", path, "bytes", len(f.Body))
	return server.OK(f.Type.ContentType(), f.Body)
}
