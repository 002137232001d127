// Package server exposes the node over HTTP for the host platform: the
// static descriptor, the dropdown option queries and the execute
// endpoint.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"infuranode/internal/chain"
	"infuranode/internal/config"
	"infuranode/internal/ethrpc"
	"infuranode/internal/node"
	"infuranode/internal/provider"
)

// Server represents the main server
type Server struct {
	cfg       *config.Config
	engine    *node.Engine
	newClient node.ClientFactory
	providers *provider.Cache
	httpSrv   *http.Server
	logger    zerolog.Logger
}

// New creates a new Server
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	switch cfg.ClientMode {
	case config.ClientModeProvider:
		cache, err := provider.NewCache(cfg.ProviderCacheSize, logger)
		if err != nil {
			return nil, err
		}
		s.providers = cache
		s.newClient = func(ctx context.Context, network chain.Network, creds chain.Credentials) (chain.Client, error) {
			return cache.Get(ctx, network, creds)
		}
		logger.Info().
			Int("cacheSize", cfg.ProviderCacheSize).
			Msg("using provider client")

	case config.ClientModeRPCWS, config.ClientModeRPC:
		useWS := cfg.ClientMode == config.ClientModeRPCWS
		s.newClient = func(ctx context.Context, network chain.Network, creds chain.Credentials) (chain.Client, error) {
			return ethrpc.New(ethrpc.Options{
				Network:      network,
				Credentials:  creds,
				UseWebSocket: useWS,
				Timeout:      cfg.GetRequestTimeoutDuration(),
				Logger:       logger,
			})
		}
		logger.Info().
			Bool("websocket", useWS).
			Msg("using direct JSON-RPC client")

	default:
		return nil, fmt.Errorf("unsupported client mode %q", cfg.ClientMode)
	}

	s.engine = node.NewEngine(node.Config{
		NewClient: func(ctx context.Context, network chain.Network, creds chain.Credentials) (chain.Client, error) {
			return s.newClient(ctx, network, creds)
		},
		ReceiptPollInterval: cfg.GetReceiptPollIntervalDuration(),
		ReceiptPollAttempts: cfg.ReceiptPollAttempts,
		Logger:              logger,
	})

	return s, nil
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/descriptor", s.handleDescriptor)
	mux.HandleFunc("POST /v1/options/methods", s.handleMethodOptions)
	mux.HandleFunc("POST /v1/options/inputs", s.handleInputOptions)
	mux.HandleFunc("POST /v1/execute", s.handleExecute)
	return mux
}

// Start starts the server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	// sendTransaction holds the request open while polling for the
	// receipt, so the write timeout must cover the full poll budget
	writeTimeout := 30*time.Second +
		time.Duration(s.cfg.ReceiptPollAttempts)*s.cfg.GetReceiptPollIntervalDuration()

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		s.logger.Info().
			Str("addr", addr).
			Msg("starting node server")
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("node server error")
		}
	}()

	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server...")

	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}

	if s.providers != nil {
		s.providers.Close()
	}

	if err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info().Msg("server stopped")
	return nil
}
