package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type GeminiService struct {
	ApiKey string
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{ApiKey: apiKey}
}

func (g *GeminiService) Name() string { return "gemini" }

// IsActionable asks Gemini whether an email carries a concrete obligation
// for the reader. Used only for emails the rule chain could not decide.
func (g *GeminiService) IsActionable(ctx context.Context, subject, body string) (bool, error) {
	// Use gemini-2.5-flash for fast classification
	url := "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent?key=" + g.ApiKey

	prompt := fmt.Sprintf(`다음 이메일이 수신자가 해야 할 일(제출, 회신, 마감 등 구체적인 행동 의무)을 담고 있는지 판단하세요.
광고, 뉴스, 단순 공지는 해당하지 않습니다.

제목: %s
본문: %s

"YES" 또는 "NO"로만 답하세요.`, subject, body)

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	reqBody, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return false, err
	}

	// Parse the verdict from the response
	if c, ok := result["candidates"].([]interface{}); ok && len(c) > 0 {
		if cand, ok := c[0].(map[string]interface{}); ok {
			if content, ok := cand["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if text, ok := part["text"].(string); ok {
							answer := strings.ToUpper(strings.TrimSpace(text))
							if strings.HasPrefix(answer, "YES") {
								return true, nil
							}
							if strings.HasPrefix(answer, "NO") {
								return false, nil
							}
							return false, fmt.Errorf("unexpected model verdict: %q", text)
						}
					}
				}
			}
		}
	}
	return false, fmt.Errorf("no verdict returned")
}
