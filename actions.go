package htinter

import "github.com/jpalmerr/htinter/bridge"

const (
	// DefaultKeysEndpoint receives key events when [Server.ListenKeys] is
	// given no endpoint.
	DefaultKeysEndpoint = "/__ec.to__"

	// defaultClickPrefix is followed by the selector when
	// [Server.CaptureClick] is given no endpoint.
	defaultClickPrefix = "/__cc__."
)

// Route registers h for path. A later registration for the same path
// replaces the earlier one. A nil h registers a handler that does nothing,
// which still makes path a protocol call answered with the pending effects.
func (s *Server) Route(path string, h Handler) {
	s.routes[path] = orNop(h)
	s.logger.Debug("route registered", "path", path)
}

// SetInitHandler registers h for the call every page makes when it loads.
// The call carries the page path in the location_pathname parameter.
func (s *Server) SetInitHandler(h Handler) {
	s.Route(bridge.InitPath, h)
}

// Navigate redirects the browser to target. When init is not nil it becomes
// the init handler, see [Server.SetInitHandler].
func (s *Server) Navigate(target string, init Handler) {
	s.batch.Navigate(target)
	if init != nil {
		s.SetInitHandler(init)
	}
}

// BindParam makes the browser send the value of the element with the given
// id as parameter name on every later protocol call. A later binding for the
// same id replaces the earlier one.
func (s *Server) BindParam(id, name string) {
	s.batch.BindParam(id, name)
}

// SetContent replaces the content of the elements matching selector with
// html. With appendContent set, html is appended instead; several appends to
// the same selector during one call are applied in order.
func (s *Server) SetContent(selector, html string, appendContent bool) {
	if appendContent {
		s.batch.AppendContent(selector, html)
		return
	}
	s.batch.SetContent(selector, html)
}

// SetValue replaces the value of the elements matching selector.
func (s *Server) SetValue(selector, value string) {
	s.batch.SetValue(selector, value)
}

// SetClasses replaces the class attribute of the elements matching selector.
func (s *Server) SetClasses(selector, classes string) {
	s.batch.SetClasses(selector, classes)
}

// ListenKeys turns keyup forwarding on or off for the page.
//
// When active, every key released on the page calls endpoint with the key
// in the touche parameter, and h is registered for endpoint. An empty
// endpoint means [DefaultKeysEndpoint].
func (s *Server) ListenKeys(active bool, endpoint string, h Handler) {
	if endpoint == "" {
		endpoint = DefaultKeysEndpoint
	}

	s.batch.ListenKeys(active, endpoint)
	if active {
		s.Route(endpoint, h)
	}
}

// CaptureClick turns click forwarding on or off for the elements matching
// selector.
//
// When active, a click calls endpoint with the selector in the objet
// parameter plus one parameter per attribute of the clicked element, and h is
// registered for endpoint. An empty endpoint means "/__cc__." followed by
// the selector.
func (s *Server) CaptureClick(selector string, active bool, endpoint string, h Handler) {
	if endpoint == "" {
		endpoint = defaultClickPrefix + selector
	}

	s.batch.CaptureClick(active, selector, endpoint)
	if active {
		s.Route(endpoint, h)
	}
}
