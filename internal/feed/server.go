package feed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"lorehub/internal/logging"
)

// Server accepts TCP subscribers for a Hub.
type Server struct {
	Addr   string
	Hub    *Hub
	logger *slog.Logger

	mu sync.Mutex
	ln net.Listener
}

func NewServer(addr string, hub *Hub, logger *slog.Logger) *Server {
	logger = logging.Default(logger)
	return &Server{Addr: addr, Hub: hub, logger: logger.With("component", "feed-tcp")}
}

// Listen binds the address. Run calls it when needed; calling it first lets
// callers learn the bound address.
func (s *Server) Listen() (net.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr(), nil
	}
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return nil, fmt.Errorf("feed listen %s: %w", s.Addr, err)
	}
	s.ln = ln
	return ln.Addr(), nil
}

// Run serves until Close. It returns nil after Close.
func (s *Server) Run() error {
	addr, err := s.Listen()
	if err != nil {
		return err
	}
	s.logger.Info("listening", "addr", addr.String())

	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("accept failed", "error", err)
			time.Sleep(50 * time.Millisecond)
			continue
		}

		s.Hub.Add(conn)
		s.logger.Info("subscriber connected", "addr", conn.RemoteAddr().String())

		go func(c net.Conn) {
			defer func() {
				s.Hub.Remove(c)
				s.logger.Info("subscriber disconnected", "addr", c.RemoteAddr().String())
			}()
			// Subscribers only listen; drain until they hang up.
			_, _ = io.Copy(io.Discard, bufio.NewReader(c))
		}(conn)
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
