package main

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/fatih/color"
)

// Used to connect to the server under probe. Can be mocked.
var probeDialer = func(addr string) (net.Conn, error) {
	return net.DialTimeout("tcp", addr, 2*time.Second)
}

const probeTimeout = 5 * time.Second

type ProbeResult struct {
	Response *Response
	Body     []byte
}

func contentLength(h HTTPHeader) (int, error) {
	cls, ok := h.Get("content-length")
	if !ok {
		return 0, fmt.Errorf("no Content-Length")
	}
	cl, err := strconv.Atoi(cls)
	if err != nil || cl < 0 {
		return 0, fmt.Errorf("invalid Content-Length %q", cls)
	}
	return cl, nil
}

// Probe issues one GET for uri against addr and reads the framed body.
func Probe(addr, uri string) (*ProbeResult, error) {
	conn, err := probeDialer(addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(probeTimeout)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	req := &Request{Method: "GET", URI: uri}
	headers := HTTPHeader{{"host", addr}, {"connection", "close"}}
	// One write, so the server gets the whole request in a single read
	// and closes without unread data pending.
	var buf bytes.Buffer
	if err := WriteRequest(&buf, req, headers); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	if _, err := conn.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	rr := NewResponseReader(conn)
	rr.Start()
	var res *Response
	select {
	case res = <-rr.ResponseReceived():
	case err := <-rr.ErrorOccurred():
		return nil, err
	}

	cl, err := contentLength(res.Headers)
	if err != nil {
		return nil, err
	}
	body, err := readBody(NewFixedLengthBodyReader(rr.Reader(), cl))
	if err != nil {
		return nil, err
	}
	return &ProbeResult{res, body}, nil
}

func readBody(reader BodyReader) ([]byte, error) {
	var body []byte
	reader.Start()
	for b := range reader.BodyReceived() {
		body = append(body, b...)
	}
	select {
	case err := <-reader.ErrorOccurred():
		return nil, err
	default:
	}
	return body, nil
}

// BodyReader reads body of request or response
type BodyReader interface {
	Start()
	Cancel()
	BodyReceived() <-chan []byte
	ErrorOccurred() <-chan error
}

// PrintProbe writes a one-line summary and reports whether the probe got 200.
func PrintProbe(w io.Writer, r *ProbeResult) bool {
	ct, _ := r.Response.Headers.Get("content-type")
	ok := r.Response.Status == StatusOK.Code
	c := color.New(color.FgRed)
	if r.Response.Status/100 == 2 {
		c = color.New(color.FgGreen)
	}
	c.Fprintf(w, "%d %s", r.Response.Status, r.Response.Phrase)
	fmt.Fprintf(w, " %s %d bytes\n", ct, len(r.Body))
	return ok
}
