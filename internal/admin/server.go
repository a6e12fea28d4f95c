package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"flarepie/internal/metrics"
	"flarepie/internal/sim"
)

// StatusSource provides the run snapshot served by the admin UI.
type StatusSource interface {
	Status() sim.Status
}

type Server struct {
	src StatusSource
	tpl *template.Template
	mux *http.ServeMux
}

//go:embed templates/index.html
var content embed.FS

func NewServer(src StatusSource) *Server {
	tpl := template.Must(template.New("index.html").Funcs(template.FuncMap{
		"percent": percent,
	}).ParseFS(content, "templates/index.html"))
	s := &Server{src: src, tpl: tpl, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/status", s.handleStatus)
	s.mux.Handle("/metrics", metrics.Handler())
}

// Handler returns the admin mux wrapped with request metrics.
func (s *Server) Handler() http.Handler {
	return metrics.Middleware(s.mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	slog.Info("admin server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, s.src.Status()); err != nil {
		slog.Error("render admin index", "err", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.src.Status())
}

// percent renders remaining propellant as a share of the initial load.
func percent(remaining, initial float64) float64 {
	if initial <= 0 {
		return 0
	}
	return remaining / initial * 100
}
