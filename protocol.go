package main

import "strconv"

// Header names are kept lowercase and in insertion order; the writer
// capitalizes them on the wire.
type HTTPHeader []HeaderField

type HeaderField struct {
	Name  string
	Value string
}

// Get returns the first value stored under name, if any.
func (h HTTPHeader) Get(name string) (string, bool) {
	for _, f := range h {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Request holds the request line. Everything after it is never read.
type Request struct {
	Method string
	URI    string
	Line   string
}

type Response struct {
	Version string
	Status  int
	Phrase  string
	Headers HTTPHeader
}

const (
	httpVersion = "HTTP/1.1"

	contentTypeHTML  = "text/html; charset=utf-8"
	contentTypePlain = "text/plain"
)

// StatusLine is the version-less part of a status line, e.g. "200 OK".
type StatusLine struct {
	Code   int
	Phrase string
}

var (
	StatusOK       = StatusLine{200, "OK"}
	StatusNotFound = StatusLine{404, "NOT FOUND"}
)

func (s StatusLine) String() string {
	return httpVersion + " " + strconv.Itoa(s.Code) + " " + s.Phrase
}

// Target is where a request path points on disk.
type Target struct {
	Status      StatusLine
	Name        string // path relative to the document root, as logged
	Path        string // path handed to the file system
	ContentType string
	Binary      bool
}
