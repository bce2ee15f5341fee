package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
	"github.com/theapemachine/a2a-rpc/pkg/delegate"
	aerrors "github.com/theapemachine/a2a-rpc/pkg/errors"
	"github.com/theapemachine/a2a-rpc/pkg/jsonrpc"
	"github.com/theapemachine/a2a-rpc/pkg/rpc"
)

// DefaultShutdownTimeout bounds how long Shutdown waits for in-flight
// requests to drain before forcing every transport closed.
const DefaultShutdownTimeout = 10 * time.Second

// Config selects which transports an orchestrated Server enables and the
// socket address each binds to. An empty address disables that transport
// entirely; ":0" (or "[::]:0") requests ephemeral-port assignment, whose
// result LocalAddr reports after Start.
type Config struct {
	JSONRPCAddr     string
	GRPCAddr        string
	Card            *a2a.AgentCard
	ShutdownTimeout time.Duration
}

/*
Server is the orchestrator: it binds every enabled transport before
serving a single request, so callers can learn ephemeral ports up front,
then runs each transport's serve loop concurrently under one shutdown
trigger. If any serve loop fails the whole server fails — Join surfaces
that as a fatal error regardless of which transport caused it.
*/
type Server struct {
	delegate *delegate.Delegate
	cfg      Config

	mu    sync.Mutex
	addrs map[a2a.Transport]net.Addr

	httpListener net.Listener
	httpServer   *http.Server

	grpcListener net.Listener
	grpcServer   *grpc.Server

	wg         sync.WaitGroup
	serveErrCh chan error

	shutdownOnce sync.Once
	shutdownErr  error
}

// New returns an orchestrator dispatching both transports to d, not yet
// bound or serving.
func New(d *delegate.Delegate, cfg Config) *Server {
	return &Server{delegate: d, cfg: cfg, addrs: make(map[a2a.Transport]net.Addr)}
}

// Start runs the two-phase startup: every enabled transport binds its
// listener first, so LocalAddr is populated for all of them before any one
// of them begins accepting requests, then every serve loop launches
// concurrently. Start returns once binding has completed; it does not wait
// for the serve loops to finish (use Join or Shutdown for that).
func (s *Server) Start() error {
	var serveFns []func() error

	if s.cfg.JSONRPCAddr != "" {
		ln, err := net.Listen("tcp", s.cfg.JSONRPCAddr)
		if err != nil {
			return aerrors.NewError("server: bind jsonrpc", err)
		}
		s.httpListener = ln
		s.setAddr(a2a.TransportJSONRPC, ln.Addr())
		s.httpServer = &http.Server{Handler: s.httpMux()}
		serveFns = append(serveFns, s.serveJSONRPC)
	}

	if s.cfg.GRPCAddr != "" {
		ln, err := net.Listen("tcp", s.cfg.GRPCAddr)
		if err != nil {
			return aerrors.NewError("server: bind grpc", err)
		}
		s.grpcListener = ln
		s.setAddr(a2a.TransportGRPC, ln.Addr())
		s.grpcServer = rpc.NewGRPCServer()
		rpc.Register(s.grpcServer, s.delegate)
		reflection.Register(s.grpcServer)
		serveFns = append(serveFns, s.serveGRPC)
	}

	if len(serveFns) == 0 {
		return aerrors.NewError("server: no transport enabled")
	}

	s.serveErrCh = make(chan error, len(serveFns))
	for _, serve := range serveFns {
		s.wg.Add(1)
		go func(serve func() error) {
			defer s.wg.Done()
			if err := serve(); err != nil {
				s.serveErrCh <- err
			}
		}(serve)
	}

	for transport, addr := range s.addrs {
		log.Info("a2a transport listening", "transport", transport, "addr", addr.String())
	}

	return nil
}

func (s *Server) serveJSONRPC() error {
	if err := s.httpServer.Serve(s.httpListener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) serveGRPC() error {
	return s.grpcServer.Serve(s.grpcListener)
}

func (s *Server) httpMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/rpc", jsonrpc.NewServer(s.delegate))
	if s.cfg.Card != nil {
		mux.HandleFunc("/.well-known/agent-card", s.handleCard)
	}
	return mux
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.cfg.Card); err != nil {
		log.Error("failed to encode agent card", "error", err)
	}
}

func (s *Server) setAddr(transport a2a.Transport, addr net.Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addrs[transport] = addr
}

// LocalAddr returns the bound address for transport, populated as soon as
// Start returns — callers binding to port 0 read the assigned port here.
func (s *Server) LocalAddr(transport a2a.Transport) (net.Addr, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr, ok := s.addrs[transport]
	return addr, ok
}

// Join blocks until every serve loop has returned, without itself
// signaling shutdown. If any serve loop failed, Join returns that error —
// one failed transport fails the whole server.
func (s *Server) Join() error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case err := <-s.serveErrCh:
		return err
	case <-done:
		select {
		case err := <-s.serveErrCh:
			return err
		default:
			return nil
		}
	}
}

// Shutdown signals every transport to stop accepting new requests, drains
// in-flight ones up to cfg.ShutdownTimeout (DefaultShutdownTimeout if
// unset), and waits for every serve loop to return. It is idempotent and
// safe to call concurrently with, or after, natural server termination.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = DefaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var errs []error

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
				_ = s.httpServer.Close()
			}
		}

		if s.grpcServer != nil {
			stopped := make(chan struct{})
			go func() {
				s.grpcServer.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-shutdownCtx.Done():
				log.Warn("grpc graceful stop deadline exceeded, forcing shutdown")
				s.grpcServer.Stop()
			}
		}

		s.wg.Wait()

		if len(errs) > 0 {
			args := make([]any, len(errs))
			for i, e := range errs {
				args[i] = e
			}
			s.shutdownErr = aerrors.NewError(args...)
		}
	})
	return s.shutdownErr
}
