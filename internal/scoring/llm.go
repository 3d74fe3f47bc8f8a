package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const methodLLM = "llm"

var ErrLLMUnavailable = errors.New("scoring: language model unavailable")

type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type llmClient struct {
	client  chatCompleter
	model   string
	timeout time.Duration
}

func newLLMClient(cfg LLMConfig) (*llmClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("scoring: api key is required for the llm provider")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &llmClient{client: openai.NewClientWithConfig(oc), model: model, timeout: timeout}, nil
}

func (c *llmClient) complete(ctx context.Context, system, user string, schema *responseSchema) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schema.Name,
				Schema: json.RawMessage(def),
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrInvalidResponse)
	}

	content := []byte(strings.TrimSpace(resp.Choices[0].Message.Content))
	if err := schema.validate(content); err != nil {
		return nil, err
	}
	return content, nil
}

const evaluatorPrompt = `You assess soft skills from written self-reflections.
For each skill, rate the answer from 0 to 100 and give one or two sentences of
constructive feedback addressed to the author. Reward specific examples, clear
personal contribution, reflection on outcomes and relevance to the skill.`

// LLMEvaluator scores answers with an OpenAI-compatible chat model.
type LLMEvaluator struct {
	llm    *llmClient
	schema *responseSchema
}

func NewLLMEvaluator(cfg LLMConfig) (*LLMEvaluator, error) {
	c, err := newLLMClient(cfg)
	if err != nil {
		return nil, err
	}
	return &LLMEvaluator{llm: c, schema: skillResultsSchema()}, nil
}

func (e *LLMEvaluator) EvaluateAllSkills(ctx context.Context, responses Responses) (Results, error) {
	var b strings.Builder
	for _, s := range Skills {
		fmt.Fprintf(&b, "## %s (%s)\n%s\n\n", s.DisplayName(), s, responses.Get(s))
	}

	raw, err := e.llm.complete(ctx, evaluatorPrompt, b.String(), e.schema)
	if err != nil {
		return nil, err
	}

	var decoded map[Skill]SkillResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	results := Results(decoded)
	if err := results.Validate(); err != nil {
		return nil, err
	}
	return results, nil
}

const detectorPrompt = `You estimate whether a text was written by an AI language model.
Return the probability (0 to 1) that it is machine generated, a short explanation
for the author, and the list of stylistic signals you relied on.`

// LLMDetector estimates AI authorship with an OpenAI-compatible chat model.
type LLMDetector struct {
	llm    *llmClient
	schema *responseSchema
}

func NewLLMDetector(cfg LLMConfig) (*LLMDetector, error) {
	c, err := newLLMClient(cfg)
	if err != nil {
		return nil, err
	}
	return &LLMDetector{llm: c, schema: aiAnalysisSchema()}, nil
}

func (d *LLMDetector) AnalyzeText(ctx context.Context, text string) (*Analysis, error) {
	raw, err := d.llm.complete(ctx, detectorPrompt, text, d.schema)
	if err != nil {
		return nil, err
	}

	var out struct {
		Probability float64  `json:"probability"`
		Analysis    string   `json:"analysis"`
		Signals     []string `json:"signals"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	a := &Analysis{
		Probability: out.Probability,
		Analysis:    out.Analysis,
		Method:      methodLLM,
		Signals:     out.Signals,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}
