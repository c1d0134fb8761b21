// Package htinter provides a small HTTP server that lets Go code drive a
// browser page without writing client-side code.
//
// The server serves files from a directory. Every .html page it serves gets a
// script tag loading the bridge script, which turns page loads, clicks, key
// presses and timers into GET requests ("protocol calls"). Handlers registered
// on the server answer those calls by recording effects: replace or append
// content, set values and classes, redirect, start and stop timers, capture
// keys and clicks. The effects of one call are sent back as one small JSON
// object and applied by the bridge.
//
// # Quick Start
//
//	s, _ := htinter.New(htinter.WithPort(8000), htinter.WithRoot("./www"))
//
//	count := 0
//	s.CaptureClick("#plus", true, "/inc", htinter.HandlerFunc(func(c *htinter.Context) {
//	    count++
//	    c.SetContent("#count", strconv.Itoa(count), false)
//	}))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	s.Start(ctx) // blocks until ctx is cancelled or Stop is called
//
// Effects recorded outside a handler, such as the CaptureClick above, are sent
// with the reply to the next protocol call, usually the init call every page
// makes when it loads.
//
// # Routing
//
// For every GET request the decoded path is matched against, in order:
//
//   - "/js": the bridge script
//   - "/__tictac": a heartbeat tick, ref=<id>
//   - routes registered with [Server.Route] and the helpers using it
//   - "/__init": the page load call
//   - any other path: a file under the root directory, or 404
//
// Other methods are answered with 400.
//
// # Heartbeats
//
// [Server.CreateHeartbeat] defines a handler the page calls back
// periodically. Heartbeats are numbered in creation order and are never
// removed; [Server.SetHeartbeatActive] stops and restarts their timer.
//
// # Concurrency
//
// Requests are served strictly one at a time, in arrival order. Handlers
// therefore run one at a time and may use the server without locking.
// [Server.Stop] takes effect once the current request has been answered.
//
// # Errors
//
// A panicking handler is recovered: the panic is logged with a correlation
// ID, the effects of that call are discarded, the browser receives a 500 and
// the server keeps serving.
package htinter
