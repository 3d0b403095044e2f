package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrEmptyRequest = errors.New("empty request")

type baseReader struct {
	r     *bufio.Reader
	errCh chan error
}

func newBufioReader(r io.Reader) *bufio.Reader {
	if casted, ok := r.(*bufio.Reader); ok {
		return casted
	}
	return bufio.NewReader(r)
}

func (r *baseReader) ErrorOccurred() <-chan error {
	return r.errCh
}

// similar to readLineSlice() in net/textproto/reader.go
func (r *baseReader) readLine() (string, error) {
	var line []byte
	for {
		l, more, err := r.r.ReadLine()
		if err != nil {
			return "", err
		}
		if line == nil && !more {
			return string(l), nil
		}
		line = append(line, l...)
		if !more {
			break
		}
	}
	return string(line), nil
}

func (r *baseReader) readHeaders() (HTTPHeader, error) {
	var headers HTTPHeader
	for {
		line, err := r.readLine()
		if err != nil {
			return nil, fmt.Errorf("failed to read headers: %w", err)
		}
		if len(line) == 0 {
			break
		}
		fs := strings.SplitN(line, ":", 2)
		if len(fs) != 2 {
			return nil, fmt.Errorf("invalid header format: %q", line)
		}
		hdr := strings.ToLower(strings.TrimSpace(fs[0]))
		headers = append(headers, HeaderField{hdr, strings.TrimSpace(fs[1])})
	}
	return headers, nil
}

// RequestReader reads the request line of an HTTP/1.1 request and
// nothing past it.
type RequestReader struct {
	baseReader
	reqCh chan *Request
}

func NewRequestReader(r io.Reader) *RequestReader {
	return &RequestReader{
		baseReader{newBufioReader(r), make(chan error, 1)},
		make(chan *Request, 1),
	}
}

func (r *RequestReader) Start() {
	go func() {
		req, err := r.readRequestLine()
		if err != nil {
			r.errCh <- err
			return
		}
		r.reqCh <- req
	}()
}

func (r *RequestReader) readRequestLine() (*Request, error) {
	rl, err := r.readLine()
	if err == io.EOF {
		return nil, ErrEmptyRequest
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read request line: %w", err)
	}
	if !utf8.ValidString(rl) {
		return nil, fmt.Errorf("invalid request line: not UTF-8")
	}
	return parseRequestLine(rl), nil
}

// parseRequestLine splits on any whitespace. A missing path means "/".
func parseRequestLine(rl string) *Request {
	req := &Request{Line: rl, URI: "/"}
	fields := strings.Fields(rl)
	if len(fields) > 0 {
		req.Method = fields[0]
	}
	if len(fields) > 1 {
		req.URI = fields[1]
	}
	return req
}

func (r *RequestReader) RequestReceived() <-chan *Request {
	return r.reqCh
}

// ResponseReader reads HTTP response headers
type ResponseReader struct {
	baseReader
	res   *Response
	resCh chan *Response
}

func NewResponseReader(r io.Reader) *ResponseReader {
	return &ResponseReader{
		baseReader{newBufioReader(r), make(chan error, 1)},
		&Response{},
		make(chan *Response, 1),
	}
}

func (r *ResponseReader) Start() {
	go func() {
		if err := r.readStatusLine(); err != nil {
			r.errCh <- err
			return
		}
		if err := r.readResponseHeaders(); err != nil {
			r.errCh <- err
			return
		}
		r.resCh <- r.res
	}()
}

func parseStatusCode(ss string) (int, error) {
	status, err := strconv.Atoi(ss)
	first := status / 100
	if err != nil || (first < 1 || first > 5) {
		return 0, fmt.Errorf("invalid status code: %s", ss)
	}
	return status, nil
}

func (r *ResponseReader) readStatusLine() error {
	sl, err := r.readLine()
	if err != nil {
		return fmt.Errorf("failed to read status line: %w", err)
	}
	fields := strings.Split(sl, " ")
	if len(fields) < 3 {
		return fmt.Errorf("invalid status line: %s", sl)
	}
	r.res.Version = fields[0]
	r.res.Status, err = parseStatusCode(fields[1])
	if err != nil {
		return err
	}
	r.res.Phrase = strings.Join(fields[2:], " ")
	return nil
}

func (r *ResponseReader) readResponseHeaders() error {
	headers, err := r.readHeaders()
	if err == nil {
		r.res.Headers = headers
	}
	return err
}

func (r *ResponseReader) ResponseReceived() <-chan *Response {
	return r.resCh
}

// Reader exposes the buffered stream so the body can be read after the
// headers without losing bytes already buffered.
func (r *ResponseReader) Reader() *bufio.Reader {
	return r.r
}

// FixedLengthBodyReader reads exactly contentLength bytes of a body.
type FixedLengthBodyReader struct {
	r             io.Reader
	contentLength int
	bodyCh        chan []byte
	errCh         chan error
	done          chan struct{}
}

func NewFixedLengthBodyReader(r io.Reader, cl int) *FixedLengthBodyReader {
	return &FixedLengthBodyReader{
		r, cl, make(chan []byte), make(chan error, 1), make(chan struct{})}
}

func (r *FixedLengthBodyReader) Start() {
	go func() {
		defer close(r.bodyCh)

		buf := make([]byte, 4096)
		for total := 0; total < r.contentLength; {
			m := min(r.contentLength-total, len(buf))
			n, err := r.r.Read(buf[:m])
			if n > 0 {
				tmp := make([]byte, n)
				copy(tmp, buf[:n])
				select {
				case r.bodyCh <- tmp:
				case <-r.done:
					return
				}
				total += n
			}
			if err != nil {
				if err == io.EOF && total == r.contentLength {
					return
				}
				r.errCh <- fmt.Errorf("body truncated at %d of %d bytes: %w", total, r.contentLength, err)
				return
			}
		}
	}()
}

func (r *FixedLengthBodyReader) Cancel() {
	close(r.done)
}

func (r *FixedLengthBodyReader) BodyReceived() <-chan []byte {
	return r.bodyCh
}

func (r *FixedLengthBodyReader) ErrorOccurred() <-chan error {
	return r.errCh
}
