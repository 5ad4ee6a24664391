package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/agbru/numfmt/internal/errors"
	"github.com/agbru/numfmt/internal/logging"
	"github.com/agbru/numfmt/internal/numfmt"
	"github.com/agbru/numfmt/internal/orchestration"
)

// Timeouts applied to the underlying http.Server.
const (
	ReadTimeout     = 5 * time.Second
	WriteTimeout    = 10 * time.Second
	IdleTimeout     = 60 * time.Second
	ShutdownTimeout = 10 * time.Second
)

// ConvertResponse is the JSON body of a successful /convert request.
type ConvertResponse struct {
	Op       string `json:"op"`
	Result   string `json:"result"`
	Duration string `json:"duration"`
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves conversions over HTTP.
type Server struct {
	addr      string
	formatter *numfmt.Formatter
	metrics   *Metrics
	logger    logging.Logger
	security  SecurityConfig
}

// Option configures a Server.
type Option func(*Server)

// WithFormatter sets the formatter used by /convert. Pass a formatter whose
// observer is Metrics.Collector() to export conversion metrics.
func WithFormatter(f *numfmt.Formatter) Option {
	return func(s *Server) { s.formatter = f }
}

// WithMetrics sets the metrics exported on /metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(c SecurityConfig) Option {
	return func(s *Server) { s.security = c }
}

// NewServer creates a server listening on addr once Start is called.
func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		logger:   logging.Nop,
		security: DefaultSecurityConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.formatter == nil {
		s.formatter = numfmt.New(numfmt.WithObserver(s.metrics.Collector()))
	}
	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/convert", s.wrap("/convert", s.handleConvert))
	mux.HandleFunc("/health", s.wrap("/health", s.handleHealth))
	mux.HandleFunc("/metrics", s.wrap("/metrics", s.handleMetrics))
	return mux
}

func (s *Server) wrap(path string, h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.metricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		s.metrics.ObserveRequest(path, rec.code, time.Since(start))
	}))
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		next(w, r)
	}
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	op := q.Get("op")
	if op == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'op' parameter")
		return
	}
	values := splitValues(q["v"])
	if s.security.MaxValues > 0 && len(values) > s.security.MaxValues {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("too many values: %d (max %d)", len(values), s.security.MaxValues))
		return
	}

	req, err := orchestration.ParseRequest(op, values)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := orchestration.Convert(s.formatter, req)
	if res.Err != nil {
		code := http.StatusInternalServerError
		if apperrors.IsAllocationError(res.Err) {
			code = http.StatusRequestEntityTooLarge
		}
		s.logger.Error("conversion failed", res.Err, logging.String("op", req.Op.String()), logging.Int("values", req.Len()))
		s.writeError(w, code, res.Err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, ConvertResponse{
		Op:       req.Op.String(),
		Result:   res.Value(),
		Duration: res.Duration.String(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil && s.logger != nil {
		s.logger.Error("failed to encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, ErrorResponse{Error: msg})
}

// splitValues accepts both repeated v parameters and comma-separated lists.
func splitValues(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
