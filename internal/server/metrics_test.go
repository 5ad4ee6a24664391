package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agbru/numfmt/internal/logging"
	"github.com/agbru/numfmt/internal/metrics"
	"github.com/agbru/numfmt/internal/numfmt"
)

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	// Each Metrics owns a registry, so repeated construction must not panic
	// with a duplicate registration.
	a, b := NewMetrics(), NewMetrics()
	a.IncrementActiveRequests()
	if got := testutil.ToFloat64(b.activeRequests); got != 0 {
		t.Errorf("second Metrics active_requests = %v, want 0", got)
	}
	if got := testutil.ToFloat64(a.activeRequests); got != 1 {
		t.Errorf("first Metrics active_requests = %v, want 1", got)
	}
}

func TestObserveRequest(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest("/convert", http.StatusOK, 2*time.Millisecond)
	m.ObserveRequest("/convert", http.StatusOK, time.Millisecond)
	m.ObserveRequest("/convert", http.StatusRequestEntityTooLarge, time.Millisecond)

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/convert", "200")); got != 2 {
		t.Errorf("requests_total{code=200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/convert", "413")); got != 1 {
		t.Errorf("requests_total{code=413} = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.requestDuration); n != 1 {
		t.Errorf("request_duration_seconds series = %d, want 1", n)
	}
}

func TestWritePrometheusSharesConversionRegistry(t *testing.T) {
	c := metrics.NewCollector()
	m := NewMetricsWithCollector(c)
	if m.Collector() != c {
		t.Fatal("Collector() should return the wrapped collector")
	}

	f := numfmt.New(numfmt.WithObserver(c))
	if _, err := f.ToStrInt(42); err != nil {
		t.Fatal(err)
	}
	m.ObserveRequest("/health", http.StatusOK, time.Millisecond)

	body := scrapeMetrics(t, m)
	for _, want := range []string{
		"numfmt_active_requests",
		`numfmt_requests_total{code="200",path="/health"} 1`,
		"numfmt_request_duration_seconds_bucket",
		`numfmt_conversions_total{op="to_str_int",status="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestMetricsMiddlewareTracksActiveRequests(t *testing.T) {
	s := &Server{metrics: NewMetrics()}

	var during float64
	s.metricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(s.metrics.activeRequests)
		w.WriteHeader(http.StatusAccepted)
	})(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/convert", http.NoBody))

	if during != 1 {
		t.Errorf("active requests while serving = %v, want 1", during)
	}
	if after := testutil.ToFloat64(s.metrics.activeRequests); after != 0 {
		t.Errorf("active requests after serving = %v, want 0", after)
	}
}

func TestWrapRecordsStatusCode(t *testing.T) {
	s := NewServer(":0", WithLogger(newTestLogger()))
	h := s.wrap("/convert", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/convert", http.NoBody))

	if got := testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("/convert", "400")); got != 1 {
		t.Errorf("requests_total{code=400} = %v, want 1", got)
	}
}

func TestHandleMetricsMethods(t *testing.T) {
	tests := []struct {
		method string
		want   int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusMethodNotAllowed},
		{http.MethodPut, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			s := &Server{metrics: NewMetrics(), logger: newTestLogger()}
			rec := httptest.NewRecorder()
			s.handleMetrics(rec, httptest.NewRequest(tt.method, "/metrics", http.NoBody))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && !strings.Contains(rec.Body.String(), "go_goroutines") {
				t.Error("exposition should include Go runtime collectors")
			}
		})
	}
}

func scrapeMetrics(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	return rec.Body.String()
}

// testLogger discards everything.
type testLogger struct{}

func newTestLogger() *testLogger                                  { return &testLogger{} }
func (l *testLogger) Info(_ string, _ ...logging.Field)           {}
func (l *testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (l *testLogger) Debug(_ string, _ ...logging.Field)          {}
func (l *testLogger) Printf(_ string, _ ...any)                   {}
func (l *testLogger) Println(_ ...any)                            {}
