package static

import "strings"

// Type is a MIME type together with whether its content is text.
type Type struct {
	Name    string
	Textual bool
}

// ContentType returns the Content-Type header value, with a UTF-8 charset
// for textual types.
func (t Type) ContentType() string {
	if t.Textual {
		return t.Name + "; charset=utf-8"
	}
	return t.Name
}

// OctetStream is returned for unknown extensions.
var OctetStream = Type{Name: "application/octet-stream"}

var types = map[string]Type{
	// binary
	"png":  {Name: "image/png"},
	"jpg":  {Name: "image/jpeg"},
	"jpeg": {Name: "image/jpeg"},
	"gif":  {Name: "image/gif"},
	"ico":  {Name: "image/x-icon"},

	// textual
	"htm":   {Name: "text/html", Textual: true},
	"html":  {Name: "text/html", Textual: true},
	"css":   {Name: "text/css", Textual: true},
	"js":    {Name: "application/javascript", Textual: true},
	"csv":   {Name: "text/csv", Textual: true},
	"json":  {Name: "application/json", Textual: true},
	"svg":   {Name: "image/svg+xml", Textual: true},
	"xhtml": {Name: "application/xhtml+xml", Textual: true},
	"xml":   {Name: "application/xml", Textual: true},
}

// Lookup returns the MIME type for an extension given without its leading
// dot. Matching is case-insensitive.
func Lookup(ext string) Type {
	if t, ok := types[strings.ToLower(ext)]; ok {
		return t
	}
	return OctetStream
}
