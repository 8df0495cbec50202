package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Request struct {
	Provider     string
	BaseURL      string
	Model        string
	APIKey       string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
}

type Response struct {
	Text      string
	Usage     *Usage
	LatencyMS int64
}

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if provider == "" {
		provider = "openai"
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	start := time.Now()
	var (
		resp Response
		err  error
	)

	switch provider {
	case "openai":
		resp, err = c.generateOpenAI(ctx, req)
	case "deepseek":
		resp, err = c.generateDeepSeek(ctx, req)
	case "gemini":
		resp, err = c.generateGemini(ctx, req)
	case "claude":
		resp, err = c.generateClaude(ctx, req)
	default:
		err = fmt.Errorf("provider não suportado: %s", provider)
	}
	if err != nil {
		return Response{}, err
	}
	resp.Text = strings.TrimSpace(resp.Text)
	resp.LatencyMS = time.Since(start).Milliseconds()
	return resp, nil
}

func (c *Client) generateDeepSeek(ctx context.Context, req Request) (Response, error) {
	payload := map[string]any{
		"model": req.Model,
		"messages": []map[string]string{
			{"role": "system", "content": req.SystemPrompt},
			{"role": "user", "content": req.UserPrompt},
		},
		"temperature": req.Temperature,
		"stream":      false,
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage *struct {
			PromptTokens     int64 `json:"prompt_tokens"`
			CompletionTokens int64 `json:"completion_tokens"`
		} `json:"usage"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := c.doJSON(ctx, http.MethodPost, joinURL(req.BaseURL, "https://api.deepseek.com", "/chat/completions"), req.APIKey, nil, payload, &resp); err != nil {
		return Response{}, err
	}
	if resp.Error != nil {
		return Response{}, fmt.Errorf("deepseek chat completions erro: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("deepseek chat completions sem resposta")
	}
	out := Response{Text: resp.Choices[0].Message.Content}
	if resp.Usage != nil {
		out.Usage = &Usage{PromptTokens: resp.Usage.PromptTokens, CompletionTokens: resp.Usage.CompletionTokens}
	}
	return out, nil
}

func (c *Client) generateClaude(ctx context.Context, req Request) (Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	payload := map[string]any{
		"model":       req.Model,
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
		"system":      req.SystemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": req.UserPrompt},
		},
	}
	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage *struct {
			InputTokens  int64 `json:"input_tokens"`
			OutputTokens int64 `json:"output_tokens"`
		} `json:"usage"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	headers := map[string]string{
		"x-api-key":         req.APIKey,
		"anthropic-version": "2023-06-01",
	}
	if err := c.doJSON(ctx, http.MethodPost, joinURL(req.BaseURL, "https://api.anthropic.com", "/v1/messages"), "", headers, payload, &resp); err != nil {
		return Response{}, err
	}
	if resp.Error != nil {
		return Response{}, fmt.Errorf("claude API erro: %s", resp.Error.Message)
	}
	out := Response{}
	if resp.Usage != nil {
		out.Usage = &Usage{PromptTokens: resp.Usage.InputTokens, CompletionTokens: resp.Usage.OutputTokens}
	}
	for _, ctn := range resp.Content {
		if strings.TrimSpace(ctn.Text) != "" {
			out.Text = ctn.Text
			return out, nil
		}
	}
	return Response{}, fmt.Errorf("claude sem texto na resposta")
}

func (c *Client) doJSON(ctx context.Context, method, endpoint, bearer string, extraHeaders map[string]string, in any, out any) error {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return fmt.Errorf("codificando requisição: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, buf)
	if err != nil {
		return fmt.Errorf("criando requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(bearer) != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requisição falhou: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("lendo resposta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(strings.TrimSpace(string(body)), 800))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decodificando resposta: %w; corpo: %s", err, truncate(string(body), 800))
	}
	return nil
}

func joinURL(base, fallback, path string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = fallback
	}
	base = strings.TrimSuffix(base, "/")
	if strings.HasSuffix(base, "/v1") && strings.HasPrefix(path, "/v1/") {
		path = strings.TrimPrefix(path, "/v1")
	}
	if strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/" + path
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
