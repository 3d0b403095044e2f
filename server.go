package main

import (
	"errors"
	"log"
	"net"
	"sync"
)

// Server accepts connections and hands each one to a fresh Worker.
type Server struct {
	cfg      *Config
	resolver *PathResolver

	mu       sync.Mutex
	ln       net.Listener
	closing  bool
	workers  map[*Worker]struct{}
	inflight sync.WaitGroup
}

func NewServer(cfg *Config) *Server {
	return &Server{
		cfg:      cfg,
		resolver: NewPathResolver(cfg),
		workers:  make(map[*Worker]struct{}),
	}
}

// track registers w until it finishes. A worker arriving after Shutdown
// is cancelled right away.
func (s *Server) track(w *Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers[w] = struct{}{}
	if s.closing {
		w.Cancel()
	}
}

func (s *Server) untrack(w *Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workers, w)
}

func (s *Server) handle(conn net.Conn) {
	defer s.inflight.Done()
	worker := NewWorker(s.resolver)
	s.track(worker)
	defer s.untrack(worker)
	worker.Start(conn) // worker takes the ownership of |conn|
}

// Serve accepts on ln until it is closed. It returns nil once Shutdown
// has been called.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.ln = ln
	s.mu.Unlock()
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosing() {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				log.Printf("W accept error: %v", err)
				continue
			}
			return err
		}
		s.inflight.Add(1)
		if s.cfg.Sequential {
			s.handle(conn)
			continue
		}
		go s.handle(conn)
	}
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// Shutdown stops accepting, cancels workers still waiting for a request
// line and waits for the rest to finish.
func (s *Server) Shutdown() {
	s.mu.Lock()
	s.closing = true
	if s.ln != nil {
		s.ln.Close()
	}
	for w := range s.workers {
		w.Cancel()
	}
	s.mu.Unlock()
	s.inflight.Wait()
}
