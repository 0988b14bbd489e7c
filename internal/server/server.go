package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formdrop/formdrop/internal/discovery"
	"github.com/formdrop/formdrop/internal/logging"
	"go.uber.org/zap"
)

const (
	// DefaultPort is the default listen port
	DefaultPort = 8640

	// DefaultMaxUploadBytes bounds the size of one multipart request
	DefaultMaxUploadBytes = 256 << 20

	shutdownTimeout = 10 * time.Second
)

// Config holds the server configuration
type Config struct {
	Host           string
	Port           int
	CertPath       string // Path to TLS certificate file (empty = plain HTTP)
	KeyPath        string // Path to TLS private key file
	StoreDir       string // Directory uploads are written to
	MaxUploadBytes int64  // Maximum size of one request body (0 = default)
	LogLevel       string
	Advertise      bool   // Register the server over mDNS
	InstanceName   string // mDNS instance name (defaults to the hostname)
}

// Server accepts multipart form submissions and stores the uploaded
// files, answering each request with a JSON payload the submitting
// form controller can decode. Accepted uploads are broadcast to
// WebSocket subscribers on /events.
type Server struct {
	config *Config
	hub    *Hub

	httpServer *http.Server
	stopAdv    func()
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	// Initialize logging
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if config.StoreDir == "" {
		return nil, fmt.Errorf("storage directory must be configured")
	}
	if err := os.MkdirAll(config.StoreDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	// Either both cert and key, or neither
	if (config.CertPath == "") != (config.KeyPath == "") {
		return nil, fmt.Errorf("cert and key must be provided together, or neither")
	}

	return &Server{
		config: config,
		hub:    NewHub(),
	}, nil
}

// TLS reports whether the server will serve HTTPS
func (s *Server) TLS() bool {
	return s.config.CertPath != "" && s.config.KeyPath != ""
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Handler builds the HTTP route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	go s.hub.Run()
	defer s.hub.Stop()

	logging.Info("Starting formdrop server",
		zap.String("addr", s.Addr()),
		zap.String("store_dir", s.config.StoreDir),
		zap.Bool("tls", s.TLS()),
		zap.Int64("max_upload_bytes", s.config.MaxUploadBytes),
	)

	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}

	if s.config.Advertise {
		if err := s.advertise(); err != nil {
			// Advertisement failure is not fatal; the server still works
			// for clients with an explicit endpoint.
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
	}
	defer func() {
		if s.stopAdv != nil {
			s.stopAdv()
		}
	}()

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.TLS() {
			errCh <- s.httpServer.ServeTLS(listener, s.config.CertPath, s.config.KeyPath)
		} else {
			errCh <- s.httpServer.Serve(listener)
		}
	}()

	// Wait for a shutdown signal or a server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info("Shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

// advertise registers the server over mDNS so clients can discover it
func (s *Server) advertise() error {
	instance := s.config.InstanceName
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("cannot determine instance name: %w", err)
		}
		instance = hostname
	}

	txt := []string{"path=/upload"}
	if s.TLS() {
		txt = append(txt, "tls=1")
	}

	stop, err := discovery.Advertise(instance, s.config.Port, txt)
	if err != nil {
		return err
	}
	s.stopAdv = stop

	logging.Info("Advertising over mDNS",
		zap.String("instance", instance),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", s.config.Port),
	)
	return nil
}
