package htinter

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/jpalmerr/htinter/bridge"
	"github.com/jpalmerr/htinter/internal/server"
	"github.com/jpalmerr/htinter/internal/static"
)

const testPage = "<html><head><title>t</title></head><body><p id=\"x\"></p></body></html>"

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"page.html":   {Data: []byte(testPage)},
		"page.htm":    {Data: []byte(testPage)},
		"logo.png":    {Data: []byte{0x89, 'P', 'N', 'G'}},
		"__init":      {Data: []byte("shadowed")},
		"data/a.json": {Data: []byte(`{"a":1}`)},
	}
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	base := []Option{WithFS(testFS()), WithLogger(testLogger())}
	s, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func get(s *Server, target string) server.Response {
	return s.dispatch([]byte(target))
}

func requireJSON(t *testing.T, resp server.Response) []byte {
	t.Helper()
	require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)
	require.Equal(t, "application/json; charset=utf-8", resp.ContentType)
	require.True(t, gjson.ValidBytes(resp.Body), "invalid JSON: %s", resp.Body)
	return resp.Body
}

func TestDispatch_BridgeScript(t *testing.T) {
	s := newTestServer(t)

	resp := get(s, "/js")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "application/javascript; charset=utf-8", resp.ContentType)
	assert.Equal(t, bridge.Script, resp.Body)
}

func TestDispatch_BridgeScriptBeatsRoute(t *testing.T) {
	s := newTestServer(t)
	called := false
	s.Route("/js", HandlerFunc(func(*Context) { called = true }))

	resp := get(s, "/js")
	assert.Equal(t, bridge.Script, resp.Body)
	assert.False(t, called)
}

func TestDispatch_RouteReceivesDecodedParams(t *testing.T) {
	s := newTestServer(t)

	var got *Context
	s.Route("/echo", HandlerFunc(func(c *Context) {
		got = c
		c.SetContent("#out", c.Params.Get("msg"), false)
	}))

	body := requireJSON(t, get(s, "/echo?msg=a%3Db%26c%25d+e&n=%C3%A9"))

	require.NotNil(t, got)
	assert.Equal(t, "/echo", got.Path)
	assert.Equal(t, "a=b&c%d+e", got.Params.Get("msg"))
	assert.Equal(t, "é", got.Params.Get("n"))
	assert.Equal(t, "a=b&c%d+e", gjson.GetBytes(body, `contenu.\#out`).String())
}

func TestDispatch_EncodedPathMatchesRoute(t *testing.T) {
	s := newTestServer(t)
	s.Route("/a b", nil)

	requireJSON(t, get(s, "/a%20b"))
}

func TestDispatch_LastRouteRegistrationWins(t *testing.T) {
	s := newTestServer(t)
	s.Route("/r", HandlerFunc(func(c *Context) { c.SetValue("#v", "first") }))
	s.Route("/r", HandlerFunc(func(c *Context) { c.SetValue("#v", "second") }))

	body := requireJSON(t, get(s, "/r"))
	assert.Equal(t, "second", gjson.GetBytes(body, `valeurs.\#v`).String())
}

func TestDispatch_InitWithoutHandler(t *testing.T) {
	s := newTestServer(t)
	s.SetContent("#x", "queued", false)

	body := requireJSON(t, get(s, "/__init?location_pathname=/page.html"))
	assert.Equal(t, "queued", gjson.GetBytes(body, `contenu.\#x`).String())

	// the static file named __init is never reached
	assert.Equal(t, "{}", string(requireJSON(t, get(s, "/__init"))))
}

func TestDispatch_InitHandlerTakesPrecedence(t *testing.T) {
	s := newTestServer(t)

	var pathname string
	s.SetInitHandler(HandlerFunc(func(c *Context) {
		pathname = c.Params.Get("location_pathname")
		c.SetClasses("body", "ready")
	}))

	body := requireJSON(t, get(s, "/__init?location_pathname=%2Fpage.html"))
	assert.Equal(t, "/page.html", pathname)
	assert.Equal(t, "ready", gjson.GetBytes(body, "classes.body").String())
}

func TestDispatch_StaticHTMLGetsScriptTag(t *testing.T) {
	s := newTestServer(t)

	resp := get(s, "/page.html")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "text/html; charset=utf-8", resp.ContentType)
	assert.Equal(t, 1, bytes.Count(resp.Body, []byte(static.ScriptTag)))
	assert.True(t, strings.Contains(string(resp.Body), static.ScriptTag+"</head>"))
}

func TestDispatch_StaticHTMIsByteForByte(t *testing.T) {
	s := newTestServer(t)

	resp := get(s, "/page.htm")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []byte(testPage), resp.Body)
}

func TestDispatch_StaticBinaryAndNested(t *testing.T) {
	s := newTestServer(t)

	resp := get(s, "/logo.png")
	assert.Equal(t, "image/png", resp.ContentType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, resp.Body)

	resp = get(s, "/data/a.json?cache=no")
	assert.Equal(t, "application/json; charset=utf-8", resp.ContentType)
	assert.Equal(t, `{"a":1}`, string(resp.Body))
}

func TestDispatch_StaticMissIs404(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{"/missing.html", "/", "/data", "/../etc/passwd", "/nope?x=1", "/%00"} {
		t.Run(target, func(t *testing.T) {
			resp := get(s, target)
			assert.Equal(t, http.StatusNotFound, resp.Status)
			assert.Equal(t, server.NotFound.Body, resp.Body)
			assert.Len(t, resp.Body, 17)
		})
	}
}

func TestDispatch_StaticRequestDoesNotFlushBatch(t *testing.T) {
	s := newTestServer(t)
	s.SetContent("#x", "pending", false)

	get(s, "/page.html")
	get(s, "/missing")

	body := requireJSON(t, get(s, "/__init"))
	assert.Equal(t, "pending", gjson.GetBytes(body, `contenu.\#x`).String())
}

func TestDispatch_NoLeakAcrossCycles(t *testing.T) {
	s := newTestServer(t)
	s.Route("/inc", HandlerFunc(func(c *Context) { c.SetContent("#x", "5", false) }))
	s.Route("/other", HandlerFunc(func(c *Context) { c.SetValue("#y", "1") }))

	body := requireJSON(t, get(s, "/inc"))
	assert.Equal(t, "5", gjson.GetBytes(body, `contenu.\#x`).String())

	body = requireJSON(t, get(s, "/other"))
	assert.False(t, gjson.GetBytes(body, "contenu").Exists(), "leaked content: %s", body)
	assert.Equal(t, "1", gjson.GetBytes(body, `valeurs.\#y`).String())

	body = requireJSON(t, get(s, "/inc"))
	assert.False(t, gjson.GetBytes(body, "valeurs").Exists(), "leaked values: %s", body)
}

func TestDispatch_HandlerPanicIsRecovered(t *testing.T) {
	s := newTestServer(t)
	s.Route("/boom", HandlerFunc(func(c *Context) {
		c.SetContent("#x", "half done", false)
		panic("kaboom")
	}))
	s.Route("/ok", nil)

	resp := get(s, "/boom")
	assert.Equal(t, http.StatusInternalServerError, resp.Status)

	// the partial effects of the failed call are discarded
	assert.Equal(t, "{}", string(requireJSON(t, get(s, "/ok"))))
}

func TestDispatch_NilHandlerStillReplies(t *testing.T) {
	s := newTestServer(t)
	s.Route("/noop", nil)
	s.SetClasses("#a", "b")

	body := requireJSON(t, get(s, "/noop"))
	assert.Equal(t, "b", gjson.GetBytes(body, `classes.\#a`).String())
}

func TestDispatch_HandlerCanStopServer(t *testing.T) {
	s := newTestServer(t)
	s.Route("/quit", HandlerFunc(func(c *Context) {
		c.SetContent("body", "bye", false)
		c.Stop()
	}))

	body := requireJSON(t, get(s, "/quit"))
	assert.Equal(t, "bye", gjson.GetBytes(body, "contenu.body").String())
}
