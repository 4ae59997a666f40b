package mcp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/offerscout/internal/config"
	"github.com/honeycarbs/offerscout/internal/mcp/tools"
	"github.com/honeycarbs/offerscout/pkg/logging"
)

const (
	serverName    = "offerscout"
	serverVersion = "0.1.0"
)

// Server wraps an MCP SDK server with an HTTP listener
type Server struct {
	logger *logging.Logger
	config config.Config

	srv     *http.Server
	started atomic.Bool
}

// NewServer constructs the MCP HTTP server and registers every tool served
// from res
func NewServer(log *logging.Logger, cfg config.Config, res *Resources) *Server {
	mcpServer := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	names := tools.Register(mcpServer, log, res.toolOptions()...)
	log.Info("MCP tools registered", "tools", names)

	return &Server{
		logger: log,
		config: cfg,
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           newMux(mcpServer, res),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func newMux(mcpServer *sdkmcp.Server, res *Resources) *http.ServeMux {
	handler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp/stream", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if res.Metrics != nil {
		mux.Handle("/metrics", res.Metrics.Handler())
	}
	return mux
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("MCP HTTP server listening", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for MCP HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("MCP HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("MCP HTTP server shutdown complete")
	return nil
}
