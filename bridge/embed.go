// Package bridge provides the client-side script that connects an htinter
// page to its server.
//
// The script is served at [Path] and referenced by a script tag that the
// static file server inserts into every .html page. It forwards DOM events and
// timer ticks to the server as GET requests and applies each JSON reply to the
// page, in this order: redirect, parameter bindings, content, appended
// content, classes, values, heartbeat creation, heartbeat stops, key
// listener, click captures.
//
// The script issues one request at a time per event and applies a reply in
// full before handling the next one.
package bridge

import _ "embed"

const (
	// Path is where the server exposes the script.
	Path = "/js"

	// TickPath receives heartbeat ticks as /__tictac?ref=<handle>.
	TickPath = "/__tictac"

	// InitPath is called once per page load with location_pathname set.
	InitPath = "/__init"

	// ContentType is sent with the script.
	ContentType = "application/javascript; charset=utf-8"
)

// Script is the bridge source.
//
//go:embed assets/bridge.js
var Script []byte
