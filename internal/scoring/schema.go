package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var ErrInvalidResponse = errors.New("scoring: model response does not match schema")

type responseSchema struct {
	Name string
	// Definition goes out with the request, so it sticks to the keywords strict
	// structured outputs accept.
	Definition map[string]any
	// Local replaces Definition when validating replies, when set.
	Local map[string]any
}

func (s *responseSchema) localDefinition() map[string]any {
	if s.Local != nil {
		return s.Local
	}
	return s.Definition
}

var schemaCache sync.Map // name -> *jsonschema.Schema

func (s *responseSchema) compiled() (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	raw, err := json.Marshal(s.localDefinition())
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", s.Name, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", s.Name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", s.Name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", s.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", s.Name, err)
	}
	schemaCache.Store(s.Name, compiled)
	return compiled, nil
}

// validate checks raw against the schema and wraps any failure in ErrInvalidResponse.
func (s *responseSchema) validate(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	compiled, err := s.compiled()
	if err != nil {
		return err
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func skillResultsSchema() *responseSchema {
	return &responseSchema{
		Name:       "soft-skill-results",
		Definition: skillResultsDefinition(map[string]any{"type": "string"}),
		// strict mode rejects minLength, so empty feedback is only caught here
		Local: skillResultsDefinition(map[string]any{"type": "string", "minLength": 1}),
	}
}

func skillResultsDefinition(feedback map[string]any) map[string]any {
	skillProps := map[string]any{}
	required := make([]string, 0, len(Skills))
	for _, s := range Skills {
		skillProps[string(s)] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":    map[string]any{"type": "integer", "minimum": MinScore, "maximum": MaxScore},
				"feedback": feedback,
			},
			"required":             []string{"score", "feedback"},
			"additionalProperties": false,
		}
		required = append(required, string(s))
	}
	return map[string]any{
		"type":                 "object",
		"properties":           skillProps,
		"required":             required,
		"additionalProperties": false,
	}
}

func aiAnalysisSchema() *responseSchema {
	return &responseSchema{
		Name: "ai-text-analysis",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"probability": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
				"analysis":    map[string]any{"type": "string"},
				"signals":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"required":             []string{"probability", "analysis", "signals"},
			"additionalProperties": false,
		},
	}
}
