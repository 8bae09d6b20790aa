package api

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-logr/logr"
)

// Server wraps the control-plane HTTP listener's lifecycle, mirroring the
// Sse reaction's own Start/Stop-over-http.Server pattern.
type Server struct {
	addr   string
	log    logr.Logger
	server *http.Server
	errCh  chan error
}

func NewServer(addr string, o Orchestrator, log logr.Logger) *Server {
	return &Server{
		addr:   addr,
		log:    log,
		server: &http.Server{Addr: addr, Handler: Router(o)},
		errCh:  make(chan error, 1),
	}
}

// Start begins serving in the background and returns immediately; a
// listener failure other than a clean Shutdown is logged.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	go func() {
		err := s.server.Serve(lis)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(err, "control API server stopped unexpectedly")
		}
		s.errCh <- err
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
