package htinter

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

// startServer runs s.Start in the background and waits until it is
// listening. The returned channel receives the result of Start.
func startServer(t *testing.T, ctx context.Context, s *Server) (string, <-chan error) {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for s.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatal("server did not start listening in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return "http://" + s.Addr().String(), done
}

func waitStopped(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return in time")
	}
}

func fetch(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	client := &http.Client{
		Timeout:   2 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body of %s: %v", url, err)
	}
	return resp, body
}

// TestStart_BlocksUntilContextCancelled verifies that Start blocks until the
// provided context is cancelled.
func TestStart_BlocksUntilContextCancelled(t *testing.T) {
	s := newTestServer(t, WithPort(0))

	ctx, cancel := context.WithCancel(context.Background())
	_, done := startServer(t, ctx, s)

	select {
	case err := <-done:
		t.Fatalf("Start() returned early with %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	waitStopped(t, done)
}

// TestStart_AlreadyCancelledContext verifies that Start returns immediately
// without listening when the context is already cancelled.
func TestStart_AlreadyCancelledContext(t *testing.T) {
	s := newTestServer(t, WithPort(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Start(ctx); err != nil {
		t.Errorf("Start() error = %v, want nil", err)
	}
	if s.Addr() != nil {
		t.Errorf("Addr() = %v, want nil", s.Addr())
	}
}

func TestStart_StopBeforeStart(t *testing.T) {
	s := newTestServer(t, WithPort(0))
	s.Stop()

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()
	waitStopped(t, done)
}

func TestStart_StopFromAnotherGoroutine(t *testing.T) {
	s := newTestServer(t, WithPort(0))
	_, done := startServer(t, context.Background(), s)

	s.Stop()
	waitStopped(t, done)
}

func TestStart_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	s := newTestServer(t, WithPort(port))

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start() on an occupied port expected error, got nil")
	}
}

func TestStart_MaxRequests(t *testing.T) {
	s := newTestServer(t, WithPort(0), WithMaxRequests(1))
	base, done := startServer(t, context.Background(), s)

	resp, _ := fetch(t, base+"/page.htm")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	waitStopped(t, done)

	if _, err := net.DialTimeout("tcp", s.Addr().String(), 200*time.Millisecond); err == nil {
		t.Error("expected connection refused after the last request")
	}
}

// TestStart_EndToEnd drives a counter page the way the bridge script does.
func TestStart_EndToEnd(t *testing.T) {
	s := newTestServer(t, WithPort(0))

	count := 0
	s.CaptureClick("#plus", true, "/inc", HandlerFunc(func(c *Context) {
		count++
		c.SetContent("#x", strconv.Itoa(count), false)
	}))
	s.Route("/quit", HandlerFunc(func(c *Context) { c.Stop() }))

	base, done := startServer(t, context.Background(), s)

	resp, body := fetch(t, base+"/page.html")
	if got := resp.Header.Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("page Content-Type = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if len(body) != len(testPage)+len(`<script src="/js"></script>`) {
		t.Errorf("page length = %d, want script tag injected once", len(body))
	}

	resp, _ = fetch(t, base+"/js")
	if got := resp.Header.Get("Content-Type"); got != "application/javascript; charset=utf-8" {
		t.Errorf("bridge Content-Type = %q", got)
	}

	_, body = fetch(t, base+"/__init?location_pathname=%2Fpage.html")
	if got := gjson.GetBytes(body, "capture_clic.0").Raw; got != `[true,"#plus","/inc"]` {
		t.Errorf("capture_clic.0 = %s, want [true,\"#plus\",\"/inc\"]", got)
	}

	_, body = fetch(t, base+"/inc?objet=%23plus&id=plus")
	if got := gjson.GetBytes(body, `contenu.\#x`).String(); got != "1" {
		t.Errorf("contenu.#x = %q, want %q (body %s)", got, "1", body)
	}

	resp, body = fetch(t, base+"/nope.txt")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if string(body) != "404 Not Found\r\n\r\n" {
		t.Errorf("404 body = %q", body)
	}

	fetch(t, base+"/quit")
	waitStopped(t, done)

	if got := s.loop.Served(); got != 6 {
		t.Errorf("Served() = %d, want 6", got)
	}
}
