package llm

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

// GenParams are the fixed generation parameters sent with every call.
type GenParams struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// OllamaSynthesizer implements port.Synthesizer against the Ollama
// generate API.
type OllamaSynthesizer struct {
	baseURL    string
	model      string
	params     GenParams
	client     *http.Client
	answerTmpl *template.Template
	judgeTmpl  *template.Template
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewOllamaSynthesizer(baseURL, model string, params GenParams, timeout time.Duration) *OllamaSynthesizer {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2:3b"
	}
	if params.Temperature == 0 {
		params.Temperature = 0.1
	}
	if params.TopP == 0 {
		params.TopP = 0.9
	}
	if params.MaxTokens == 0 {
		params.MaxTokens = 500
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OllamaSynthesizer{
		baseURL:    baseURL,
		model:      model,
		params:     params,
		client:     &http.Client{Timeout: timeout},
		answerTmpl: template.Must(template.ParseFS(promptTemplates, "templates/answer_prompt.txt")),
		judgeTmpl:  template.Must(template.ParseFS(promptTemplates, "templates/judge_prompt.txt")),
	}
}

// GenerateResponse answers the question from the context passages,
// nearest-first. A service failure is returned as an error, never encoded
// into the answer text.
func (s *OllamaSynthesizer) GenerateResponse(question string, contexts []string) (string, error) {
	var prompt bytes.Buffer
	data := struct {
		Contexts []string
		Question string
	}{Contexts: contexts, Question: question}

	if err := s.answerTmpl.Execute(&prompt, data); err != nil {
		return "", fmt.Errorf("failed to build answer prompt: %w", err)
	}

	response, err := s.generate(prompt.String())
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}

	return strings.TrimSpace(response), nil
}

// EvaluateEquivalence asks the model to judge whether two answers convey the
// same information. Any failure is a conservative false; this is a
// best-effort oracle, not ground truth.
func (s *OllamaSynthesizer) EvaluateEquivalence(question, expected, actual string) bool {
	var prompt bytes.Buffer
	data := struct {
		Question string
		Expected string
		Actual   string
	}{Question: question, Expected: expected, Actual: actual}

	if err := s.judgeTmpl.Execute(&prompt, data); err != nil {
		return false
	}

	response, err := s.generate(prompt.String())
	if err != nil {
		return false
	}

	verdict := strings.ToUpper(strings.TrimSpace(response))
	verdict = strings.Trim(verdict, `."'!`)
	return strings.HasPrefix(verdict, "YES")
}

func (s *OllamaSynthesizer) ModelName() string {
	return s.model
}

func (s *OllamaSynthesizer) generate(prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  s.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: s.params.Temperature,
			TopP:        s.params.TopP,
			NumPredict:  s.params.MaxTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return "", fmt.Errorf("generate request timed out: %w", err)
		}
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate API returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return genResp.Response, nil
}
