package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	gopt "google.golang.org/api/option"
)

func (c *Client) generateOpenAI(ctx context.Context, req Request) (Response, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(req.APIKey),
		option.WithHTTPClient(c.httpClient),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(req.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(joinURL(req.BaseURL, "", "/v1/")))
	}
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("openai chat completions: %w", err)
	}
	if len(completion.Choices) == 0 {
		return Response{}, fmt.Errorf("openai chat completions sem resposta")
	}
	return Response{
		Text: completion.Choices[0].Message.Content,
		Usage: &Usage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
		},
	}, nil
}

func (c *Client) generateGemini(ctx context.Context, req Request) (Response, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		return Response{}, fmt.Errorf("gemini: modelo não pode ser vazio")
	}
	opts := []gopt.ClientOption{gopt.WithAPIKey(req.APIKey)}
	if strings.TrimSpace(req.BaseURL) != "" {
		opts = append(opts, gopt.WithEndpoint(req.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return Response{}, fmt.Errorf("gemini: criando cliente: %w", err)
	}
	defer client.Close()

	m := client.GenerativeModel(model)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemPrompt)}}
	m.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	resp, err := m.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		return Response{}, fmt.Errorf("gemini: %w", err)
	}
	out := Response{}
	if resp.UsageMetadata != nil {
		out.Usage = &Usage{
			PromptTokens:     int64(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Response{}, fmt.Errorf("gemini sem resposta")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	out.Text = b.String()
	return out, nil
}
