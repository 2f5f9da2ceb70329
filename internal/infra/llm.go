package infra

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nicoxroll/tecno-car-sub000/internal/config"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tidwall/gjson"
)

// ChatTurn is one prior message of a conversation. Rol is "user" or
// "model"/"assistant".
type ChatTurn struct {
	Rol   string
	Texto string
}

// ChatResult is the full reply once the stream has ended.
type ChatResult struct {
	Texto   string
	Fuentes []string
}

// LLMClient streams chat completions from an OpenAI-compatible endpoint with
// web-search grounding. Every call goes through a circuit breaker.
type LLMClient struct {
	client         openai.Client
	configured     bool
	model          string
	thinkingBudget int
	cb             *CircuitBreaker
}

// ErrLLMNotConfigured is returned when no LLM_API_KEY was provided.
var ErrLLMNotConfigured = errors.New("llm: not configured")

func NewLLMClient(cfg *config.Config, cb *CircuitBreaker) *LLMClient {
	client := openai.NewClient(
		option.WithAPIKey(cfg.LLMAPIKey),
		option.WithBaseURL(cfg.LLMBaseURL),
		option.WithMaxRetries(0),
	)
	return &LLMClient{
		client:         client,
		configured:     cfg.LLMAPIKey != "",
		model:          cfg.LLMModel,
		thinkingBudget: cfg.LLMThinkingBudget,
		cb:             cb,
	}
}

// State exposes the breaker state for the health endpoint.
func (l *LLMClient) State() CBState { return l.cb.State() }

// StreamChat sends the system prompt, history and the new message, calling
// onDelta for every text fragment as it arrives. Citation URLs found in the
// stream are deduplicated in first-seen order.
func (l *LLMClient) StreamChat(
	ctx context.Context,
	system string,
	history []ChatTurn,
	message string,
	onDelta func(string) error,
) (*ChatResult, error) {
	if !l.configured {
		return nil, ErrLLMNotConfigured
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	msgs = append(msgs, openai.SystemMessage(system))
	for _, t := range history {
		if t.Rol == "user" {
			msgs = append(msgs, openai.UserMessage(t.Texto))
		} else {
			msgs = append(msgs, openai.AssistantMessage(t.Texto))
		}
	}
	msgs = append(msgs, openai.UserMessage(message))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(l.model),
		Messages: msgs,
		WebSearchOptions: openai.ChatCompletionNewParamsWebSearchOptions{
			SearchContextSize: "medium",
		},
	}
	var opts []option.RequestOption
	if l.thinkingBudget > 0 {
		opts = append(opts, option.WithJSONSet("extra_body.google.thinking_config.thinking_budget", l.thinkingBudget))
	}

	var result ChatResult
	err := l.cb.Execute(ctx, func(ctx context.Context) error {
		stream := l.client.Chat.Completions.NewStreaming(ctx, params, opts...)
		defer stream.Close()

		var texto strings.Builder
		for stream.Next() {
			chunk := stream.Current()
			result.Fuentes = AppendCitations(result.Fuentes, chunk.RawJSON())
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			texto.WriteString(delta)
			if onDelta != nil {
				if err := onDelta(delta); err != nil {
					return err
				}
			}
		}
		if err := stream.Err(); err != nil {
			return fmt.Errorf("llm: stream: %w", err)
		}
		result.Texto = texto.String()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// citationPaths are the places a grounding URL can show up in a stream chunk.
var citationPaths = []string{
	"choices.0.delta.annotations.#.url_citation.url",
	"choices.0.message.annotations.#.url_citation.url",
	"citations",
}

// AppendCitations adds the citation URLs of one raw chunk to fuentes,
// skipping any URL already present.
func AppendCitations(fuentes []string, raw string) []string {
	if raw == "" {
		return fuentes
	}
	for _, path := range citationPaths {
		for _, v := range gjson.Get(raw, path).Array() {
			u := strings.TrimSpace(v.String())
			if u == "" || slices.Contains(fuentes, u) {
				continue
			}
			fuentes = append(fuentes, u)
		}
	}
	return fuentes
}
