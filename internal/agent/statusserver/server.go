package statusserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Server is the status HTTP server.
type Server struct {
	httpServer *http.Server
}

// New creates a status server listening on addr.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start listens on the configured address and serves in the background.
// It returns the bound address and a channel that receives the serve
// error, if any, once the server stops.
func (s *Server) Start() (net.Addr, <-chan error, error) {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, nil, err
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()
	return ln.Addr(), errCh, nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
