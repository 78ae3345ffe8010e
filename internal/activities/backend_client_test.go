package activities

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPBackendClient_Invoke(t *testing.T) {
	t.Run("success payload passes through untouched", func(t *testing.T) {
		var gotEnvelope backendEnvelope
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &gotEnvelope); err != nil {
				t.Errorf("request body is not a valid envelope: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"trends":[{"name":"blue"}]}`)
		}))
		defer server.Close()
		t.Setenv("TREND_ANALYSIS_BACKEND_URL", server.URL)

		out := NewHTTPBackendClient().Invoke(context.Background(), BackendTrendAnalysis, map[string]string{
			"country": "us", "category": "denim jackets", "time_frame": "3",
		})

		if out.Payload == nil || out.Backend != nil || out.Transport != "" {
			t.Fatalf("expected a success outcome, got %+v", out)
		}
		if string(out.Payload) != `{"trends":[{"name":"blue"}]}` {
			t.Errorf("payload altered in transit: %s", out.Payload)
		}
		if gotEnvelope.Backend != BackendTrendAnalysis {
			t.Errorf("envelope backend = %q, want %q", gotEnvelope.Backend, BackendTrendAnalysis)
		}
		if gotEnvelope.Parameters["time_frame"] != "3" {
			t.Errorf("envelope parameters = %v", gotEnvelope.Parameters)
		}
	})

	t.Run("errorMessage field classifies as backend error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, `{"errorMessage":"unsupported category","code":422}`)
		}))
		defer server.Close()
		t.Setenv("MEGA_TRENDS_BACKEND_URL", server.URL)

		out := NewHTTPBackendClient().Invoke(context.Background(), BackendMegaTrends, nil)

		if out.Backend == nil {
			t.Fatalf("expected a backend error outcome, got %+v", out)
		}
		if out.Backend.Message != "unsupported category" {
			t.Errorf("message = %q", out.Backend.Message)
		}
		if !strings.Contains(string(out.Backend.Details), `"code":422`) {
			t.Errorf("expected the full body as details, got %s", out.Backend.Details)
		}
	})

	t.Run("non-200 status classifies as transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream exploded", http.StatusBadGateway)
		}))
		defer server.Close()
		t.Setenv("CHART_DETAILS_BACKEND_URL", server.URL)

		out := NewHTTPBackendClient().Invoke(context.Background(), BackendChartDetails, nil)

		if out.Transport == "" || out.Payload != nil || out.Backend != nil {
			t.Fatalf("expected a transport outcome, got %+v", out)
		}
		if !strings.Contains(out.Transport, "502") {
			t.Errorf("transport message should carry the status code: %q", out.Transport)
		}
	})

	t.Run("malformed body classifies as transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, "<html>not json</html>")
		}))
		defer server.Close()
		t.Setenv("TREND_ANALYSIS_BACKEND_URL", server.URL)

		out := NewHTTPBackendClient().Invoke(context.Background(), BackendTrendAnalysis, nil)
		if out.Transport == "" {
			t.Fatalf("expected a transport outcome, got %+v", out)
		}
	})

	t.Run("unknown backend never leaves the process", func(t *testing.T) {
		out := NewHTTPBackendClient().Invoke(context.Background(), "no_such_backend", nil)
		if out.Transport == "" || !strings.Contains(out.Transport, "unknown backend") {
			t.Fatalf("expected an unknown-backend transport outcome, got %+v", out)
		}
	})

	t.Run("cancelled context classifies as abandonment", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()
		t.Setenv("TREND_ANALYSIS_BACKEND_URL", server.URL)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		out := NewHTTPBackendClient().Invoke(ctx, BackendTrendAnalysis, nil)
		if out.Transport == "" || !strings.Contains(out.Transport, "abandoned") {
			t.Fatalf("expected an abandonment message, got %+v", out)
		}
	})
}

func TestGetBackendEndpoint(t *testing.T) {
	t.Run("env override wins", func(t *testing.T) {
		t.Setenv("TREND_ANALYSIS_BACKEND_URL", "http://override:9000/x")
		ep, ok := getBackendEndpoint(BackendTrendAnalysis)
		if !ok || ep.URL != "http://override:9000/x" {
			t.Fatalf("expected env override, got %+v", ep)
		}
	})

	t.Run("known backends have a local default", func(t *testing.T) {
		for _, name := range []string{BackendTrendAnalysis, BackendMegaTrends, BackendChartDetails} {
			ep, ok := getBackendEndpoint(name)
			if !ok || ep.URL == "" || ep.Timeout <= 0 {
				t.Errorf("backend %s: expected a usable endpoint, got %+v", name, ep)
			}
		}
	})

	t.Run("unknown name resolves to nothing", func(t *testing.T) {
		if _, ok := getBackendEndpoint("mystery"); ok {
			t.Error("expected no endpoint for an unregistered backend")
		}
	})
}
