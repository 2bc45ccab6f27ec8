package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hcp-suporte/helpdesk-service/internal/config"
	"github.com/hcp-suporte/helpdesk-service/internal/domain"
)

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint.
// The default configuration points at Gemini's compatibility API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI builds a client from the AI configuration section.
func NewOpenAI(cfg config.AIConfig) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.RequestTimeout(),
	}
}

// AnalyzeTicket requests a structured JSON classification for a new ticket.
func (c *OpenAIClient) AnalyzeTicket(ctx context.Context, title, description string, category domain.TicketCategory) (*Analysis, error) {
	prompt := fmt.Sprintf(`Analise o seguinte chamado de TI:
Título: %s
Descrição: %s
Categoria: %s

Forneça uma prioridade sugerida (Baixa, Média, Alta ou Crítica), um resumo curto e uma ação sugerida para o técnico.
Responda apenas com um objeto JSON com exatamente as chaves "suggestedPriority", "summary" e "suggestedAction".`,
		title, description, category)

	content, err := c.complete(ctx, []Message{{Role: RoleUser, Content: prompt}}, true)
	if err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if !analysis.SuggestedPriority.Valid() {
		return nil, fmt.Errorf("unknown suggested priority %q", analysis.SuggestedPriority)
	}
	return &analysis, nil
}

// SummarizeReport requests a free-text executive summary over the
// category/status pairs of the filtered ticket set.
func (c *OpenAIClient) SummarizeReport(ctx context.Context, entries []ReportEntry) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode report entries: %w", err)
	}
	prompt := fmt.Sprintf(`Abaixo estão os dados dos chamados de TI deste período:
%s

Gere um resumo executivo em português (máximo 3 parágrafos) analisando tendências, o tipo de problema mais comum e uma recomendação de melhoria para a infraestrutura.`,
		data)

	return c.complete(ctx, []Message{{Role: RoleUser, Content: prompt}}, false)
}

// Complete runs a plain chat completion over the given turns.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, messages, false)
}

func (c *OpenAIClient) complete(ctx context.Context, messages []Message, jsonOutput bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	if jsonOutput {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
