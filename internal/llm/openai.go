package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ollamaBaseURL is Ollama's OpenAI-compatible endpoint
const ollamaBaseURL = "http://localhost:11434/v1"

var urlPattern = regexp.MustCompile(`https?://[^\s\)\]>"']+`)

// OpenAIProvider implements Provider for OpenAI and OpenAI-compatible servers
type OpenAIProvider struct {
	client *openai.Client
	name   string
	config Config
}

// NewOpenAIProvider creates a provider for the OpenAI API
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	return newCompatProvider("openai", config), nil
}

// NewOllamaProvider creates a provider for a local Ollama server through its
// OpenAI-compatible API. No key is needed.
func NewOllamaProvider(config Config) *OpenAIProvider {
	if config.BaseURL == "" {
		config.BaseURL = ollamaBaseURL
	}
	if config.Model == "" {
		config.Model = "llama3.1"
	}
	return newCompatProvider("ollama", config)
}

func newCompatProvider(name string, config Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.HTTPClient != nil {
		clientConfig.HTTPClient = config.HTTPClient
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		name:   name,
		config: config,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Summarize generates a narrative with the Chat Completions API and rejects
// it when it cites anything outside req.EvidenceURLs
func (p *OpenAIProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Report, req.EvidenceURLs)
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	timeout := p.config.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You explain fact-check results using only the evidence you are given.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("%s chat completion: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no choices", p.name)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	cited := ExtractURLs(summary)
	for _, u := range cited {
		if !slices.Contains(req.EvidenceURLs, u) {
			return nil, fmt.Errorf("%w: %s", ErrCitationLeak, u)
		}
	}

	return &SummarizeResponse{
		Summary:    summary,
		CitedURLs:  cited,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// ExtractURLs returns the distinct http(s) URLs in text, trailing punctuation trimmed
func ExtractURLs(text string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:!?")
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	return unique
}
