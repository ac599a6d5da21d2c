package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OllamaService implements TodoClassifier using a local Ollama LLM
type OllamaService struct {
	getBaseURL func() string // Dynamic getter for BaseURL
	getModel   func() string // Dynamic getter for Model
}

// NewOllamaService creates a new Ollama service
func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &OllamaService{
		getBaseURL: func() string { return baseURL },
		getModel:   func() string { return model },
	}
}

func (o *OllamaService) Name() string { return "ollama" }

// IsActionable implements TodoClassifier
func (o *OllamaService) IsActionable(ctx context.Context, subject, body string) (bool, error) {
	url := o.getBaseURL() + "/api/generate"

	prompt := fmt.Sprintf(`다음 이메일이 수신자가 해야 할 일(제출, 회신, 마감 등 구체적인 행동 의무)을 담고 있는지 판단하세요.
광고, 뉴스, 단순 공지는 해당하지 않습니다.

제목: %s
본문: %s

"YES" 또는 "NO"로만 답하세요.`, subject, body)

	payload := map[string]interface{}{
		"model":  o.getModel(),
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.1,
			"num_predict": 5,
		},
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return false, fmt.Errorf("failed to parse response: %w", err)
	}

	return parseYesNo(result.Response)
}

// parseYesNo reads a YES/NO verdict out of a model response that may carry
// extra punctuation or whitespace
func parseYesNo(response string) (bool, error) {
	answer := strings.ToUpper(strings.TrimSpace(response))
	switch {
	case strings.HasPrefix(answer, "YES"):
		return true, nil
	case strings.HasPrefix(answer, "NO"):
		return false, nil
	default:
		return false, fmt.Errorf("unexpected model verdict: %q", response)
	}
}
