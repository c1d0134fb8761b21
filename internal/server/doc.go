// Package server provides the connection loop behind htinter.
//
// This package is internal to htinter and handles the network side only:
//
//   - Accepting connections one at a time on a [net.Listener]
//   - Reading the request start line under a short deadline
//   - Answering non-GET requests with a fixed 400
//   - Writing the [Response] produced by a [Dispatcher] and closing the connection
//
// No two requests are ever in flight. The next connection is accepted only
// after the previous one has been answered and closed, so the dispatcher needs
// no locking.
//
// Users of the htinter library should not need to interact with this package
// directly. The loop is started by [htinter.Server.Start].
package server
