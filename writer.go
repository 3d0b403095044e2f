package main

import (
	"fmt"
	"io"
	"strconv"
	"unicode"
)

func capitalizeHeader(h string) string {
	ret := make([]rune, 0, len(h))
	cap := true
	for _, c := range h {
		if cap && unicode.IsLetter(c) {
			ret = append(ret, unicode.ToUpper(c))
			cap = false
		} else {
			ret = append(ret, c)
		}
		if c == '-' {
			cap = true
		}
	}
	return string(ret)
}

func writeHeaders(w io.Writer, headers HTTPHeader) error {
	for _, f := range headers {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", capitalizeHeader(f.Name), f.Value); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

func WriteRequest(w io.Writer, req *Request, headers HTTPHeader) error {
	if _, err := fmt.Fprintf(w, "%s %s %s\r\n", req.Method, req.URI, httpVersion); err != nil {
		return err
	}
	return writeHeaders(w, headers)
}

// NewResponse builds the header block for a body of n bytes. The server
// never offers keep-alive.
func NewResponse(st StatusLine, contentType string, n int) *Response {
	return &Response{
		Version: httpVersion,
		Status:  st.Code,
		Phrase:  st.Phrase,
		Headers: HTTPHeader{
			{"content-length", strconv.Itoa(n)},
			{"content-type", contentType},
			{"connection", "close"},
		},
	}
}

func WriteResponse(w io.Writer, res *Response) error {
	if _, err := fmt.Fprintf(w, "%s %d %s\r\n", res.Version, res.Status, res.Phrase); err != nil {
		return err
	}
	return writeHeaders(w, res.Headers)
}

// WriteFramed writes the full response for body, with Content-Length
// taken from the bytes actually written.
func WriteFramed(w io.Writer, st StatusLine, contentType string, body []byte) error {
	if err := WriteResponse(w, NewResponse(st, contentType, len(body))); err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}
	return nil
}
