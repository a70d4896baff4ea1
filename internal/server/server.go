// internal/server/server.go
// Package server serves the interactive dashboard over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/mwiater/evaldash/internal/dataset"
	"github.com/mwiater/evaldash/internal/logging"
	"github.com/mwiater/evaldash/internal/report"
	"github.com/mwiater/evaldash/internal/view"
)

// multipartOverhead is the body allowance for multipart framing on top of the
// upload limit.
const multipartOverhead = 1 << 20

const defaultMaxUploadBytes = 32 << 20

// Options configures a Server.
type Options struct {
	Addr           string
	TitleWidth     int
	MaxUploadBytes int64
}

// ErrResp is the JSON error body.
type ErrResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// TableResp is the body of GET /api/table.
type TableResp struct {
	OK      bool             `json:"ok"`
	Source  string           `json:"source"`
	Digest  string           `json:"digest"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// Server holds the current upload and renders dashboards from the loader.
type Server struct {
	mu     sync.Mutex
	loader *dataset.Loader
	upload *dataset.Upload
	opts   Options
}

// New returns a Server backed by loader. A non-positive upload limit falls back
// to 32 MB.
func New(loader *dataset.Loader, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Server{loader: loader, opts: opts}
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /api/table", s.handleTable)
	return logRequests(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.LogEvent("listening on http://%s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrapf(err, "listen on %s", srv.Addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logging.LogEvent("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "shutdown")
		}
		return nil
	}
}

func (s *Server) currentUpload() *dataset.Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upload
}

func (s *Server) load() (*dataset.Dataset, error) {
	return s.loader.Load(s.currentUpload())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := view.Filter{
		Journal:   q.Get("journal"),
		Alignment: view.Alignment(q.Get("alignment")),
		Record:    q.Get("record"),
	}

	var dash view.Dashboard
	data, err := s.load()
	if err != nil {
		logging.LogEvent("dashboard load error: %v", err)
		dash = view.ErrorDashboard(err)
	} else {
		dash = view.Build(data.Table, filter, view.Options{TitleWidth: s.opts.TitleWidth})
		dash.Source = data.Source
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	opts := report.Options{Interactive: true, MaxUploadMB: int(s.opts.MaxUploadBytes >> 20)}
	if err := report.Render(w, dash, opts); err != nil {
		logging.LogEvent("dashboard render error: %v", err)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := s.opts.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrResp{OK: false, Error: dataset.ErrUploadTooLarge.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrResp{OK: false, Error: "a multipart field named \"file\" is required"})
		return
	}
	defer file.Close()

	data, err := dataset.ReadUpload(file, limit)
	if err != nil {
		if errors.Is(err, dataset.ErrUploadTooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrResp{OK: false, Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrResp{OK: false, Error: err.Error()})
		return
	}

	s.mu.Lock()
	prev := s.upload
	s.upload = &dataset.Upload{Name: header.Filename, Data: data}
	s.mu.Unlock()
	logging.LogEvent("upload received: %s (%d bytes)", header.Filename, len(data))

	// Only the active upload keeps a cache entry.
	if prev != nil {
		if old := dataset.Digest(prev.Data); old != dataset.Digest(data) {
			s.loader.Cache().Invalidate(old)
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	prev := s.upload
	s.upload = nil
	s.mu.Unlock()

	if prev != nil {
		s.loader.Cache().Invalidate(dataset.Digest(prev.Data))
		logging.LogEvent("upload %s cleared", prev.Name)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTable(w http.ResponseWriter, _ *http.Request) {
	data, err := s.load()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrResp{OK: false, Error: err.Error()})
		return
	}
	resp := TableResp{
		OK:      true,
		Source:  data.Source,
		Digest:  data.Digest,
		Columns: data.Table.Columns,
		Rows:    make([]map[string]any, 0, data.Table.Len()),
	}
	for _, row := range data.Table.Rows {
		resp.Rows = append(resp.Rows, row)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogRequest(r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
