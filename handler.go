package htinter

import (
	"fmt"
	"strconv"
)

// Params holds the decoded query parameters of a protocol call.
//
// Keys and values are fully decoded. When a key appears several times, the
// last occurrence wins. A '+' is kept as a literal '+'.
type Params map[string]string

// Get returns the value of key, or "" when it is absent.
func (p Params) Get(key string) string {
	return p[key]
}

// Int parses the value of key as a base-10 integer.
func (p Params) Int(key string) (int, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("parameter %q is missing", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", key, err)
	}
	return n, nil
}

// Context is passed to a [Handler] for one protocol call.
//
// It embeds the [Server], so every effect method (SetContent, SetClasses,
// CreateHeartbeat, ...) is available directly on the context and lands in the
// reply to the current call.
type Context struct {
	*Server

	// Path is the decoded request path, e.g. "/inc".
	Path string

	// Params are the decoded query parameters, including the values of
	// elements bound with [Server.BindParam].
	Params Params
}

// Handler reacts to a protocol call by recording effects on its [Context].
//
// Handlers run one at a time on the server goroutine. They must not block for
// long: no other request is served until they return.
type Handler interface {
	Handle(c *Context)
}

// HandlerFunc adapts an ordinary function to [Handler].
type HandlerFunc func(c *Context)

// Handle calls f(c).
func (f HandlerFunc) Handle(c *Context) {
	f(c)
}

// nopHandler is used where a nil [Handler] is given.
var nopHandler = HandlerFunc(func(*Context) {})

func orNop(h Handler) Handler {
	if h == nil {
		return nopHandler
	}
	return h
}
