package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestSynthesizer(baseURL string) *OllamaSynthesizer {
	return NewOllamaSynthesizer(baseURL, "test-model", GenParams{}, 5*time.Second)
}

func serveResponse(t *testing.T, text string, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if capture != nil {
			*capture = req.Prompt
		}
		json.NewEncoder(w).Encode(generateResponse{Response: text, Done: true})
	}))
}

func TestGenerateResponse(t *testing.T) {
	var prompt string
	server := serveResponse(t, "  The sky is blue.  ", &prompt)
	defer server.Close()

	s := newTestSynthesizer(server.URL)

	answer, err := s.GenerateResponse("What color is the sky?", []string{"The sky is blue. Grass is green."})
	if err != nil {
		t.Fatal(err)
	}
	if answer != "The sky is blue." {
		t.Errorf("expected trimmed answer, got %q", answer)
	}

	if !strings.Contains(prompt, "The sky is blue. Grass is green.") {
		t.Error("prompt does not contain the context passage")
	}
	if !strings.Contains(prompt, "What color is the sky?") {
		t.Error("prompt does not contain the question")
	}
}

func TestGenerateResponseIncludesGenerationOptions(t *testing.T) {
	var opts generateOptions
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		json.NewDecoder(r.Body).Decode(&req)
		opts = req.Options
		json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true})
	}))
	defer server.Close()

	s := newTestSynthesizer(server.URL)
	if _, err := s.GenerateResponse("q", []string{"ctx"}); err != nil {
		t.Fatal(err)
	}

	if opts.Temperature != 0.1 || opts.TopP != 0.9 || opts.NumPredict != 500 {
		t.Errorf("unexpected default options: %+v", opts)
	}
}

func TestGenerateResponseServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	s := newTestSynthesizer(server.URL)

	answer, err := s.GenerateResponse("q", []string{"ctx"})
	if err == nil {
		t.Fatal("expected error for failing service")
	}
	if answer != "" {
		t.Errorf("failed call must not return answer text, got %q", answer)
	}
}

func TestGenerateResponseUnreachable(t *testing.T) {
	s := newTestSynthesizer("http://127.0.0.1:1")

	if _, err := s.GenerateResponse("q", []string{"ctx"}); err == nil {
		t.Error("expected error for unreachable service")
	}
}

func TestEvaluateEquivalence(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{"yes", "YES", true},
		{"yes lowercase", "yes", true},
		{"yes with period", "Yes.", true},
		{"no", "NO", false},
		{"no with explanation", "NO, they differ", false},
		{"garbage", "maybe?", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := serveResponse(t, tt.response, nil)
			defer server.Close()

			s := newTestSynthesizer(server.URL)
			got := s.EvaluateEquivalence("q", "expected", "actual")
			if got != tt.want {
				t.Errorf("response %q: got %v, want %v", tt.response, got, tt.want)
			}
		})
	}
}

func TestEvaluateEquivalenceFailureIsFalse(t *testing.T) {
	s := newTestSynthesizer("http://127.0.0.1:1")

	if s.EvaluateEquivalence("q", "a", "b") {
		t.Error("unreachable judge must yield false")
	}
}

func TestJudgePromptContainsAllParts(t *testing.T) {
	var prompt string
	server := serveResponse(t, "YES", &prompt)
	defer server.Close()

	s := newTestSynthesizer(server.URL)
	s.EvaluateEquivalence("the question", "the expected", "the actual")

	for _, part := range []string{"the question", "the expected", "the actual"} {
		if !strings.Contains(prompt, part) {
			t.Errorf("judge prompt missing %q", part)
		}
	}
}
