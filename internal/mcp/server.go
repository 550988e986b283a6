// Package mcp provides an MCP (Model Context Protocol) server for synthlab.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/synthlab-io/synthlab/internal/config"
	"github.com/synthlab-io/synthlab/internal/exploration"
	"github.com/synthlab-io/synthlab/internal/llm"
	"github.com/synthlab-io/synthlab/internal/logging"
	"github.com/synthlab-io/synthlab/internal/montecarlo"
	"github.com/synthlab-io/synthlab/internal/sensitivity"
	"github.com/synthlab-io/synthlab/internal/store"
)

// Server wraps the MCP SDK server and exposes the simulation, sensitivity,
// and exploration operations as tools.
type Server struct {
	server   *sdk.Server
	store    store.Store
	config   *config.Config
	engine   *montecarlo.Engine
	analyzer *sensitivity.Analyzer
	proposer exploration.Proposer
	logger   *slog.Logger
	trace    *logging.TraceLogger
	root     string
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "synthlab")
	Version string // Server version
	Root    string // Project root directory
	App     *config.Config
	Logger  *slog.Logger
}

// NewServer creates a new MCP server with synthlab tools.
func NewServer(cfg *Config) (*Server, error) {
	appCfg := cfg.App
	if appCfg == nil {
		appCfg = config.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	st, err := store.NewSQLiteStore(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	proposer, err := llm.NewProposer(appCfg.LLM)
	if err != nil {
		st.Close()
		return nil, err
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	trace := logging.NewTraceLogger(filepath.Join(cfg.Root, ".synthlab"), appCfg.Logging.Level)
	engine := montecarlo.NewEngine(logger)

	s := &Server{
		server:   mcpServer,
		store:    st,
		config:   appCfg,
		engine:   engine,
		analyzer: sensitivity.NewAnalyzer(engine, logger),
		proposer: proposer,
		logger:   logger,
		trace:    trace,
		root:     cfg.Root,
	}

	if err := s.registerTools(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.trace.Close()
	s.store.Close()

	return err
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	s.trace.Close()
	return s.store.Close()
}
