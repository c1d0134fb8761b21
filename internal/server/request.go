package server

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// maxRequestLine bounds how much of a request is read before giving up.
const maxRequestLine = 2048

var errMalformed = errors.New("malformed request line")

// Request is the parsed start line of an HTTP request.
type Request struct {
	Method string

	// Target is the raw request target, e.g. "/api?x=1%20".
	Target []byte
}

// readRequest reads the start line from conn under a deadline.
//
// It returns errMalformed for a line that is too long or has no target, and
// the read error (timeout, EOF, reset) when nothing usable arrived.
func readRequest(conn net.Conn, timeout time.Duration) (Request, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Request{}, fmt.Errorf("set read deadline: %w", err)
	}

	br := bufio.NewReaderSize(conn, maxRequestLine)
	line, err := br.ReadSlice('\n')
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		return Request{}, errMalformed
	case errors.Is(err, io.EOF) && len(line) > 0:
		// start line without terminator, use what we have
	case err != nil:
		return Request{}, err
	}

	return parseRequestLine(line)
}

// parseRequestLine splits "GET /path?q HTTP/1.1" into method and target.
func parseRequestLine(line []byte) (Request, error) {
	line = bytes.TrimRight(line, "\r\n")
	parts := bytes.Split(line, []byte(" "))
	if len(parts) < 2 || len(parts[0]) == 0 {
		return Request{}, errMalformed
	}

	return Request{
		Method: string(parts[0]),
		Target: parts[1],
	}, nil
}
