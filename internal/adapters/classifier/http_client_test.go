package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikey/spam-console/internal/core"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/predict", srv.URL+"/health", 0, zaptest.NewLogger(t)), srv
}

func TestClassifySuccess(t *testing.T) {
	var gotBody map[string]string
	var gotHeaders http.Header
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prediction":"SPAM","confidence":0.97,"signals":{"keywordScore":82,"urlRisk":91,"capRatio":45,"entropy":3.9}}`))
	})

	text := "WIN FREE MONEY NOW!!! http://bit.ly/x"
	result, err := client.Classify(context.Background(), &core.AnalysisRequest{ID: "req-1", Text: text})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if gotBody["message"] != text {
		t.Errorf("message = %q, want %q", gotBody["message"], text)
	}
	if ct := gotHeaders.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if id := gotHeaders.Get("X-Request-ID"); id != "req-1" {
		t.Errorf("request id header = %q", id)
	}

	want := core.SignalSet{KeywordScore: 82, URLRisk: 91, CapRatio: 45, Entropy: 3.9}
	if result.Prediction != core.VerdictSpam || result.Confidence != 0.97 || result.Signals != want {
		t.Errorf("result = %+v", result)
	}
}

func TestClassifyHamIsNotSpam(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prediction":"HAM","confidence":0.88,"signals":{"keywordScore":0,"urlRisk":0,"capRatio":3.1,"entropy":4.2}}`))
	})

	result, err := client.Classify(context.Background(), &core.AnalysisRequest{Text: "lunch at noon?"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Prediction != core.VerdictNotSpam || result.Label != "HAM" {
		t.Errorf("prediction = %v (%s)", result.Prediction, result.Label)
	}
}

func TestClassifyErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"detail", http.StatusInternalServerError, `{"detail":"model unavailable"}`, "model unavailable"},
		{"no body", http.StatusBadGateway, ``, "Server error (502)"},
		{"html body", http.StatusServiceUnavailable, `<html>down</html>`, "Server error (503)"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","message"],"msg":"field required"}]}`, "Server error (422)"},
		{"empty detail", http.StatusBadRequest, `{"detail":""}`, "Server error (400)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Classify(context.Background(), &core.AnalysisRequest{Text: "hi"})
			var httpErr *core.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("err = %v, want *core.HTTPError", err)
			}
			if httpErr.Status != tt.status {
				t.Errorf("status = %d, want %d", httpErr.Status, tt.status)
			}
			if err.Error() != tt.message {
				t.Errorf("message = %q, want %q", err.Error(), tt.message)
			}
		})
	}
}

func TestClassifyMalformedResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"not json", `<!doctype html>`, ""},
		{"missing signals", `{"prediction":"SPAM","confidence":0.9}`, "response missing signals"},
		{"partial signals", `{"prediction":"SPAM","confidence":0.9,"signals":{"keywordScore":1,"urlRisk":2,"capRatio":3}}`, "response missing signals.entropy"},
		{"missing prediction", `{"confidence":0.9,"signals":{}}`, "response missing prediction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.Classify(context.Background(), &core.AnalysisRequest{Text: "hi"})
			if core.KindOf(err) != core.FailureMalformedResponse {
				t.Fatalf("err = %v, want malformed response", err)
			}
			if tt.message != "" && err.Error() != tt.message {
				t.Errorf("message = %q, want %q", err.Error(), tt.message)
			}
		})
	}
}

func TestClassifyTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/predict"
	srv.Close()

	client := NewHTTPClient(endpoint, "", 0, zaptest.NewLogger(t))
	_, err := client.Classify(context.Background(), &core.AnalysisRequest{Text: "hi"})

	var transportErr *core.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want *core.TransportError", err)
	}
	if err.Error() != core.FallbackErrorMessage {
		t.Errorf("message = %q", err.Error())
	}
	if transportErr.Unwrap() == nil {
		t.Error("transport error should keep its cause")
	}
}

func TestControllerScenarios(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		phase   core.Phase
		message string
	}{
		{
			name: "spam verdict",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"prediction":"SPAM","confidence":0.97,"signals":{"keywordScore":82,"urlRisk":91,"capRatio":45,"entropy":3.9}}`))
			},
			phase: core.PhaseSucceeded,
		},
		{
			name: "server detail",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"detail":"model unavailable"}`))
			},
			phase:   core.PhaseFailed,
			message: "model unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)
			c := core.NewController(client, zaptest.NewLogger(t), nil)

			if !c.Analyze(context.Background(), "WIN FREE MONEY NOW!!! http://bit.ly/x") {
				t.Fatal("Analyze did not issue a request")
			}
			c.Wait()

			state := c.State()
			if state.Phase != tt.phase {
				t.Fatalf("phase = %v, want %v", state.Phase, tt.phase)
			}
			if state.ErrorMessage != tt.message {
				t.Errorf("message = %q, want %q", state.ErrorMessage, tt.message)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"status":"ok","model":"LogisticRegression","version":"1.0.0"}`))
	})

	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if status.Status != "ok" || status.Model != "LogisticRegression" || status.Version != "1.0.0" {
		t.Errorf("status = %+v", status)
	}
}

func TestHealthErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if _, err := client.Health(context.Background()); err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("err = %v, want status error", err)
	}

	client, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	if _, err := client.Health(context.Background()); core.KindOf(err) != core.FailureMalformedResponse {
		t.Errorf("err = %v, want malformed response", err)
	}
}
