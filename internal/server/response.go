package server

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
)

const plainText = "text/plain; charset=utf-8"

// Response is a complete HTTP/1.1 reply. Every response closes the connection.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// OK builds a 200 response.
func OK(contentType string, body []byte) Response {
	return Response{Status: http.StatusOK, ContentType: contentType, Body: body}
}

// Fixed error replies. The 404 body is always 17 bytes long.
var (
	NotFound      = Response{Status: http.StatusNotFound, ContentType: plainText, Body: []byte("404 Not Found\r\n\r\n")}
	BadRequest    = Response{Status: http.StatusBadRequest, ContentType: plainText, Body: []byte("Malformed request\r\n\r\n")}
	InternalError = Response{Status: http.StatusInternalServerError, ContentType: plainText, Body: []byte("Internal server error\r\n\r\n")}
)

// Bytes renders the status line, headers and body.
func (r Response) Bytes() []byte {
	var b bytes.Buffer
	b.Grow(160 + len(r.Body))

	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(r.Status))
	b.WriteByte(' ')
	b.WriteString(http.StatusText(r.Status))
	b.WriteString("\r\nContent-Type: ")
	b.WriteString(r.ContentType)
	b.WriteString("\r\nConnection: close\r\n")
	if r.Status == http.StatusOK {
		b.WriteString("Access-Control-Allow-Origin: *\r\n")
	}
	b.WriteString("Content-Length: ")
	b.WriteString(strconv.Itoa(len(r.Body)))
	b.WriteString("\r\n\r\n")
	b.Write(r.Body)

	return b.Bytes()
}

// WriteTo writes the rendered response to w.
func (r Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}
