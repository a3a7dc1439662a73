// Package status provides the connectivity core's diagnostics HTTP
// surface: a JSON snapshot of the radio and MQTT FSMs at GET /status.
package status

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jspark311/esp32-connectivity-core/internal/logger"
)

// Server is a small HTTP server exposing diagnostics. It embeds
// *http.ServeMux so callers can register additional routes (e.g. a
// console-over-HTTP endpoint) alongside /status.
type Server struct {
	lg       logger.Logger
	config   *Config
	addr     string
	provider Provider
	*http.ServeMux
	svr *http.Server
}

// New returns a new diagnostics server. provider supplies the JSON body
// for GET /status.
func New(lg logger.Logger, config *Config, provider Provider) *Server {
	if lg == nil {
		lg = logger.Null
	}
	mux := &http.ServeMux{}
	addr := config.addr()
	s := &Server{
		lg:       lg,
		config:   config,
		addr:     addr,
		provider: provider,
		ServeMux: mux,
		svr:      &http.Server{Addr: addr, Handler: mux},
	}
	mux.HandleFunc("/status", s.handleStatus)
	return s
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.provider.Snapshot()); err != nil {
		s.lg.Printf("status: encode failed: %s", err)
	}
}

// Addr returns the server's listen address.
func (s *Server) Addr() string { return s.addr }

// ListenAndServe starts the server listening for new connections.
func (s *Server) ListenAndServe() error {
	s.lg.Printf("status: listening on %s", s.addr)
	go func() {
		if err := s.svr.ListenAndServe(); err != http.ErrServerClosed {
			s.lg.Fatalf("status: ListenAndServe: %s", err)
		}
	}()
	return nil
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	s.lg.Println("status: shutting down")
	if err := s.svr.Shutdown(context.Background()); err != nil {
		s.lg.Printf("status: shutdown: %v", err)
	}
	return nil
}
