package scoring

import "fmt"

const (
	ProviderHeuristic = "heuristic"
	ProviderOpenAI    = "openai"
)

// New builds the evaluator and detector for the named provider. An empty name
// selects the heuristic implementations.
func New(provider string, llm LLMConfig) (SkillEvaluator, AIDetector, error) {
	switch provider {
	case "", ProviderHeuristic:
		return NewHeuristicEvaluator(), NewHeuristicDetector(), nil
	case ProviderOpenAI:
		ev, err := NewLLMEvaluator(llm)
		if err != nil {
			return nil, nil, err
		}
		det, err := NewLLMDetector(llm)
		if err != nil {
			return nil, nil, err
		}
		return ev, det, nil
	default:
		return nil, nil, fmt.Errorf("scoring: unknown provider %q", provider)
	}
}
