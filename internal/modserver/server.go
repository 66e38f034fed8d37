// SPDX-License-Identifier: EPL-2.0

// Package modserver provides a local HTTP origin for module loading. It
// serves a directory of module sources with content-types derived from the
// media classification table, so that modules loaded from it classify the
// same way they would from a real remote origin.
//
// A Server instance is single-use: once stopped or failed, create a new
// instance.
package modserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"esmload-cli/pkg/fspath"
	"esmload-cli/pkg/media"
	"esmload-cli/pkg/types"

	"github.com/charmbracelet/log"
)

// Server serves a root directory as a module origin over HTTP.
type Server struct {
	// Immutable configuration (set at creation, never modified)
	cfg Config

	// State management (atomic for lock-free reads)
	state atomic.Int32

	// Initialized during Start() - protected by stateMu for writes
	stateMu  sync.Mutex
	srv      *http.Server
	listener net.Listener
	addr     string // Actual bound address (including resolved port)

	// Lifecycle management
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedCh chan struct{} // Closed when server is ready to accept requests
	errCh     chan error    // Receives fatal errors from background goroutines
	lastErr   error         // Stores the last error for State() == StateFailed

	// Logger
	logger *log.Logger
}

// New creates a new module server instance.
// The server is not started; call Start() to begin accepting requests.
func New(cfg Config) *Server {
	// Apply defaults
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = 5 * time.Second
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "mod-server",
	})

	s := &Server{
		cfg:       cfg,
		startedCh: make(chan struct{}),
		errCh:     make(chan error, 1), // Buffered so goroutines don't block
		logger:    logger,
	}
	s.state.Store(int32(StateCreated))

	return s
}

// Start starts the module server and blocks until either:
//   - The server is ready to accept requests (returns nil)
//   - The server fails to start (returns error)
//   - The context is cancelled (returns context error)
//   - The startup timeout is exceeded (returns error)
//
// After Start() returns nil, use Err() to monitor for runtime errors.
func (s *Server) Start(ctx context.Context) error {
	// Check for already-cancelled context BEFORE any setup.
	// This prevents a race condition where the serve goroutine could transition
	// to StateRunning before the cancelled context is detected in the select.
	select {
	case <-ctx.Done():
		s.transitionToFailed(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
		return s.lastErr
	default:
	}

	// Transition: Created -> Starting
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		currentState := State(s.state.Load())
		return fmt.Errorf("cannot start server in state %s", currentState)
	}

	// Create internal context for lifecycle management. Written under
	// stateMu so accessors can observe whether Start has run.
	s.stateMu.Lock()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.stateMu.Unlock()

	if err := s.cfg.Validate(); err != nil {
		s.transitionToFailed(err)
		return s.lastErr
	}

	// Setup timeout for startup
	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	// Initialize listener
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		s.transitionToFailed(fmt.Errorf("failed to listen on %s: %w", addr, err))
		return s.lastErr
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleModule)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.stateMu.Lock()
	s.listener = listener
	s.addr = listener.Addr().String()
	s.srv = srv
	s.stateMu.Unlock()

	// Start the serve goroutine
	s.wg.Add(1)
	go s.serve()

	// Wait for server to be ready or fail
	select {
	case <-s.startedCh:
		// Server is ready
		s.logger.Info("module server started", "address", s.addr, "root", s.cfg.Root)
		return nil

	case err := <-s.errCh:
		// Server failed during startup
		s.transitionToFailed(err)
		return err

	case <-startupCtx.Done():
		// Startup timeout or caller cancelled
		s.cancel() // Stop any background work
		s.transitionToFailed(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.lastErr
	}
}

// Stop gracefully stops the module server.
// It blocks until in-flight requests complete or the shutdown timeout is reached.
// Safe to call multiple times; subsequent calls are no-ops.
func (s *Server) Stop() error {
	// Only proceed if we're in a stoppable state
	for {
		currentState := State(s.state.Load())
		switch currentState {
		case StateStopped, StateFailed:
			return nil // Already stopped
		case StateCreated:
			if s.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return nil // Never started
			}
			continue // State changed, retry
		case StateStopping:
			// Wait for ongoing stop to complete
			s.wg.Wait()
			return nil
		case StateStarting, StateRunning:
			// Transition to Stopping
			if !s.state.CompareAndSwap(int32(currentState), int32(StateStopping)) {
				continue // State changed, retry
			}
			// Proceed with shutdown
			return s.doStop()
		default:
			return fmt.Errorf("unknown server state: %d", currentState)
		}
	}
}

// Err returns a channel that receives fatal server errors.
// Use this to monitor for unexpected failures after Start() returns.
// The channel is closed when the server stops.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// State returns the current server state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// IsRunning returns whether the server is currently running and accepting requests.
// This is a convenience method equivalent to State() == StateRunning.
func (s *Server) IsRunning() bool {
	return s.State() == StateRunning
}

// Address returns the server's bound address (host:port).
// Blocks until the server has started or failed.
// Returns empty string if server never started or failed.
func (s *Server) Address() string {
	s.stateMu.Lock()
	ctx := s.ctx
	s.stateMu.Unlock()

	// Start was never called; there is nothing to wait for.
	if ctx == nil {
		return ""
	}

	select {
	case <-s.startedCh:
		s.stateMu.Lock()
		defer s.stateMu.Unlock()
		return s.addr
	case <-ctx.Done():
		return ""
	}
}

// URL returns the full base URL of the running server (e.g. "http://127.0.0.1:8080").
// Returns empty string if the server never started or failed.
func (s *Server) URL() string {
	addr := s.Address()
	if addr == "" {
		return ""
	}
	return "http://" + addr
}

// Port returns the server's listening port.
// Blocks until the server has started or failed.
// Returns 0 if server never started or failed.
func (s *Server) Port() int {
	addr := s.Address()
	if addr == "" {
		return 0
	}
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		return 0 // Invalid port string
	}
	return port
}

// Host returns the server's configured host address.
func (s *Server) Host() string {
	return s.cfg.Host
}

// Root returns the directory the server exposes.
func (s *Server) Root() string {
	return s.cfg.Root
}

// Wait blocks until the server stops (either gracefully or due to error).
// Returns the error if the server failed, nil otherwise.
func (s *Server) Wait() error {
	s.wg.Wait()

	state := s.State()
	if state == StateFailed {
		return s.lastErr
	}
	return nil
}

// serve runs the HTTP server and handles errors.
func (s *Server) serve() {
	defer s.wg.Done()

	// Transition: Starting -> Running (signals readiness)
	if s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(s.startedCh)
	}

	s.stateMu.Lock()
	srv := s.srv
	listener := s.listener
	s.stateMu.Unlock()

	if srv == nil || listener == nil {
		return
	}

	err := srv.Serve(listener)
	// Handle serve completion
	if err != nil {
		// Ignore expected shutdown errors
		if errors.Is(err, http.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
			return
		}

		// Report unexpected errors
		select {
		case s.errCh <- fmt.Errorf("serve error: %w", err):
		default:
			// Error channel full, log instead
			s.logger.Error("module server error (channel full)", "error", err)
		}
	}
}

// doStop performs the actual shutdown logic.
func (s *Server) doStop() error {
	// Signal all goroutines to stop
	if s.cancel != nil {
		s.cancel()
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	s.stateMu.Lock()
	if s.srv != nil {
		shutdownErr = s.srv.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, net.ErrClosed) {
			s.logger.Error("shutdown error", "error", shutdownErr)
		} else {
			shutdownErr = nil
		}
	}
	if s.listener != nil {
		_ = s.listener.Close() //nolint:errcheck // Best-effort cleanup during shutdown
	}
	s.stateMu.Unlock()

	// Wait for all goroutines to exit
	s.wg.Wait()

	// Transition to Stopped
	s.state.Store(int32(StateStopped))
	s.logger.Info("module server stopped")

	// Close error channel to signal consumers
	close(s.errCh)

	return shutdownErr
}

// transitionToFailed sets the server state to Failed and stores the error.
func (s *Server) transitionToFailed(err error) {
	s.lastErr = err
	s.state.Store(int32(StateFailed))
	if s.cancel != nil {
		s.cancel()
	}
	// Send error to channel for Err() consumers (non-blocking)
	select {
	case s.errCh <- err:
	default:
	}
}

// handleHealth responds with 200 OK for health checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleModule serves a module source from the root directory. The
// content-type is derived from the path's media classification rather than
// sniffed from the bytes, so that clients classify the module the same way a
// direct filesystem load would. Unclassifiable files are served as
// application/octet-stream and left for the client to reject.
func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	fsPath, ok := s.resolvePath(r.URL.Path)
	if !ok {
		s.logger.Warn("rejected path", "path", r.URL.Path)
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(fsPath)
	if err != nil {
		s.logger.Debug("not found", "path", r.URL.Path)
		http.NotFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	contentType := media.FromPath(fsPath).ContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	s.logger.Debug("serving module", "path", r.URL.Path, "content-type", contentType)
	http.ServeContent(w, r, "", info.ModTime(), f)
}

// resolvePath maps a request path to a file under the root directory.
// Returns false for paths that escape the root or carry traversal segments.
func (s *Server) resolvePath(urlPath string) (string, bool) {
	if !strings.HasPrefix(urlPath, "/") {
		return "", false
	}

	cleaned := path.Clean(urlPath)
	if strings.Contains(cleaned, "..") {
		return "", false
	}

	rel := fspath.FromSlash(types.FilesystemPath(cleaned))
	fsPath := fspath.JoinStr(types.FilesystemPath(s.cfg.Root), rel.String())

	// Containment check against the root, resolved to absolute form.
	absRoot, err := fspath.Abs(types.FilesystemPath(s.cfg.Root))
	if err != nil {
		return "", false
	}
	absPath, err := fspath.Abs(fsPath)
	if err != nil {
		return "", false
	}
	sep := string(filepath.Separator)
	if absPath != absRoot && !strings.HasPrefix(absPath.String(), absRoot.String()+sep) {
		return "", false
	}

	return absPath.String(), true
}
