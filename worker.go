package main

import (
	"bufio"
	"errors"
	"log"
	"net"
	"os"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Used to read served files. Can be mocked.
var readFile = os.ReadFile

var errNotUTF8 = errors.New("stream did not contain valid UTF-8")

func readBinaryFile(p string) ([]byte, error) {
	return readFile(p)
}

func readTextFile(p string) ([]byte, error) {
	b, err := readFile(p)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(b) {
		return nil, errNotUTF8
	}
	return b, nil
}

// Worker serves exactly one request on one connection, then closes it.
type Worker struct {
	id       string
	resolver *PathResolver
	conn     net.Conn
	reader   *bufio.Reader
	writer   *bufio.Writer
	req      *Request
	target   Target
	source   notFoundSource
	log      *log.Logger
	cancel   chan struct{}
	done     chan struct{}
}

type stateFunc func(*Worker) stateFunc

func NewWorker(resolver *PathResolver) *Worker {
	id := uuid.NewString()
	return &Worker{
		id:       id,
		resolver: resolver,
		log:      log.New(log.Writer(), "", log.Flags()),
		cancel:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// logf writes "<level> [<id>] <message>".
func (w *Worker) logf(level, format string, args ...any) {
	w.log.Printf(level+" ["+w.id+"] "+format, args...)
}

// Done is closed once the connection has been closed.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Start runs the worker to completion. The worker takes ownership of conn.
func (w *Worker) Start(conn net.Conn) {
	w.conn = conn
	w.reader = bufio.NewReader(conn)
	w.writer = bufio.NewWriter(conn)

	for state := waitForRequest; state != nil; {
		state = state(w)
	}
}

// Cancel stops a worker still waiting for its request line.
func (w *Worker) Cancel() {
	select {
	case w.cancel <- struct{}{}:
	default:
	}
}

func (w *Worker) send(st StatusLine, contentType string, body []byte) stateFunc {
	if err := WriteFramed(w.writer, st, contentType, body); err != nil {
		w.logf("E", "failed to write response: %v", err)
	}
	return flushResponse
}

// state funcs

func waitForRequest(w *Worker) stateFunc {
	r := NewRequestReader(w.reader)
	r.Start()
	select {
	case req := <-r.RequestReceived():
		w.req = req
		return requestReceived
	case err := <-r.ErrorOccurred():
		// No response: the peer just sees the connection close.
		w.logf("E", "%v", err)
		return finishWorker
	case <-w.cancel:
		w.logf("W", "waitForRequest cancelled")
		return finishWorker
	}
}

func requestReceived(w *Worker) stateFunc {
	w.logf("I", "Request: %s", w.req.Line)
	w.target = w.resolver.Resolve(w.req.URI)
	if w.target.Status == StatusNotFound {
		w.logf("I", "File '%s' not found. Targeting %s.", w.req.URI, w.target.Name)
	}
	if w.target.Binary {
		return serveBinary
	}
	return serveText
}

func serveBinary(w *Worker) stateFunc {
	t := w.target
	body, err := readBinaryFile(t.Path)
	if err != nil {
		w.logf("E", "Error reading binary file '%s': %v. Sending 404.", t.Name, err)
		w.source = nextNotFoundSource(t, w.resolver.notFoundPage, sourceNone)
		return sendInline
	}
	w.logf("I", "Successfully read binary file '%s'.", t.Name)
	return w.send(t.Status, t.ContentType, body)
}

func serveText(w *Worker) stateFunc {
	t := w.target
	body, err := readTextFile(t.Path)
	if err == nil {
		w.logf("I", "Successfully read text file '%s'.", t.Name)
		return w.send(t.Status, t.ContentType, body)
	}
	w.logf("E", "Error reading text file '%s': %v.", t.Name, err)
	w.source = nextNotFoundSource(t, w.resolver.notFoundPage, sourceNone)
	if w.source == sourcePage {
		return serveNotFoundPage
	}
	return sendInline
}

func serveNotFoundPage(w *Worker) stateFunc {
	page := w.resolver.NotFound()
	body, err := readTextFile(page.Path)
	if err != nil {
		w.logf("E", "Error reading fallback '%s': %v. Sending hardcoded 404.", page.Name, err)
		w.source = nextNotFoundSource(w.target, w.resolver.notFoundPage, w.source)
		return sendInline
	}
	w.logf("I", "Successfully read fallback '%s'.", page.Name)
	return w.send(StatusNotFound, page.ContentType, body)
}

func sendInline(w *Worker) stateFunc {
	contentType, body, ok := w.source.inlineBody()
	if !ok {
		w.logf("E", "internal error: no inline body for source %v", w.source)
		return finishWorker
	}
	w.logf("W", "sending 404 from %v", w.source)
	return w.send(StatusNotFound, contentType, body)
}

func flushResponse(w *Worker) stateFunc {
	if err := w.writer.Flush(); err != nil {
		w.logf("E", "Failed to flush stream: %v", err)
	}
	w.logf("I", "Response processing complete for '%s'", w.req.URI)
	return finishWorker
}

func finishWorker(w *Worker) stateFunc {
	if w.conn != nil {
		w.conn.Close()
	}
	close(w.done)
	w.logf("I", "worker finished")
	return nil
}
