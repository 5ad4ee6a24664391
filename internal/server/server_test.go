package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/agbru/numfmt/internal/numfmt"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rec
}

func TestHandleConvert(t *testing.T) {
	t.Parallel()
	h := NewServer(":0").Handler()

	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{"to_str_int", url.Values{"op": {"to_str_int"}, "v": {"-42"}}, "-42"},
		{"to_str_float", url.Values{"op": {"to_str_float"}, "v": {"3.14159265"}}, "3.141593"},
		{"overloaded int", url.Values{"op": {"to_str"}, "v": {"7"}}, "7"},
		{"overloaded float", url.Values{"op": {"to_str"}, "v": {"7.5"}}, "7.500000"},
		{"array repeated", url.Values{"op": {"array_to_str_int"}, "v": {"1", "-2", "3"}}, "[1, -2, 3]"},
		{"array comma list", url.Values{"op": {"array-to-str-float"}, "v": {"1.5,-2.25"}}, "[1.500000, -2.250000]"},
		{"array empty", url.Values{"op": {"array_to_str_int"}}, "[]"},
		{"to_int", url.Values{"op": {"to_int"}, "v": {"-3.9"}}, "-3"},
		{"to_float", url.Values{"op": {"to_float"}, "v": {"5"}}, "5.000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := get(t, h, "/convert?"+tt.query.Encode())
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var resp ConvertResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Result != tt.want {
				t.Errorf("result = %q, want %q", resp.Result, tt.want)
			}
		})
	}
}

func TestHandleConvertErrors(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	f := numfmt.New(numfmt.WithMaxBuffer(8), numfmt.WithObserver(m.Collector()))
	sec := DefaultSecurityConfig()
	sec.MaxValues = 3
	h := NewServer(":0", WithMetrics(m), WithFormatter(f), WithSecurityConfig(sec), WithLogger(newTestLogger())).Handler()

	tests := []struct {
		name   string
		target string
		code   int
	}{
		{"missing op", "/convert?v=1", http.StatusBadRequest},
		{"unknown op", "/convert?op=to_hex&v=1", http.StatusBadRequest},
		{"bad integer", "/convert?op=to_str_int&v=abc", http.StatusBadRequest},
		{"scalar arity", "/convert?op=to_str_int&v=1&v=2", http.StatusBadRequest},
		{"too many values", "/convert?op=array_to_str_int&v=1,2,3,4", http.StatusBadRequest},
		{"allocation failure", "/convert?op=array_to_str_int&v=100,200,300", http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := get(t, h, tt.target)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.code, rec.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestHandleConvertMethodNotAllowed(t *testing.T) {
	t.Parallel()
	h := NewServer(":0").Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/convert?op=to_int&v=1", http.NoBody))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()
	rec := get(t, NewServer(":0").Handler(), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("security headers should be applied to every route")
	}
}

func TestMetricsAfterConversions(t *testing.T) {
	t.Parallel()
	h := NewServer(":0").Handler()
	get(t, h, "/convert?op=array_to_str_int&v=1&v=2")
	get(t, h, "/convert?op=to_str_int&v=x")

	body := get(t, h, "/metrics").Body.String()
	for _, want := range []string{
		`numfmt_conversions_total{op="array_to_str_int",status="ok"} 1`,
		`numfmt_requests_total{code="200",path="/convert"} 1`,
		`numfmt_requests_total{code="400",path="/convert"} 1`,
		"numfmt_request_duration_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServeGracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	s := NewServer(ln.Addr().String(), WithLogger(newTestLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/convert?op=to_str_float&v=2.5"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "2.500000") {
		t.Errorf("body = %s", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestSplitValues(t *testing.T) {
	t.Parallel()
	got := splitValues([]string{"1, 2", "", "3,"})
	if strings.Join(got, "|") != "1|2|3" {
		t.Errorf("splitValues = %v", got)
	}
}
