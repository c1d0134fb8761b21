package static

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

const (
	// ScriptTag loads the bridge script. It is inserted into html pages.
	ScriptTag = `<script src="/js"></script>`

	headClose = "</head>"
)

// ErrNotFound is returned for every file that cannot be served.
var ErrNotFound = errors.New("file not found")

// File is a file ready to be sent.
type File struct {
	Body []byte
	Type Type
}

// Server reads files from a filesystem.
type Server struct {
	root fs.FS
}

// NewServer creates a [Server] reading from root.
func NewServer(root fs.FS) *Server {
	return &Server{root: root}
}

// Open reads the file named by a decoded request path such as "/index.html".
//
// Any failure is reported as an error wrapping [ErrNotFound]: missing files,
// directories, unreadable files and paths leaving the root alike.
func (s *Server) Open(requestPath string) (File, error) {
	name := strings.TrimPrefix(requestPath, "/")
	if !fs.ValidPath(name) || name == "." {
		return File{}, fmt.Errorf("%w: invalid path %q", ErrNotFound, requestPath)
	}

	body, err := fs.ReadFile(s.root, name)
	if err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	ext := Extension(name)
	if ext == "html" {
		body = Inject(body)
	}

	return File{Body: body, Type: Lookup(ext)}, nil
}

// Extension returns what follows the last dot of the base name, or "" when
// the base name has no dot. Case is preserved.
func Extension(name string) string {
	base := path.Base(name)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[i+1:]
	}
	return ""
}

// Inject inserts [ScriptTag] right before the first "</head>". Content
// without "</head>" is returned unchanged.
func Inject(body []byte) []byte {
	i := bytes.Index(body, []byte(headClose))
	if i < 0 {
		return body
	}

	out := make([]byte, 0, len(body)+len(ScriptTag))
	out = append(out, body[:i]...)
	out = append(out, ScriptTag...)
	out = append(out, body[i:]...)
	return out
}
