// Package scoring turns free-text answers into soft-skill scores and estimates how
// likely a piece of text was machine generated. Both capabilities sit behind small
// interfaces so the heuristic and LLM-backed implementations are interchangeable.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
)

type Skill string

const (
	Communication  Skill = "communication"
	Empathy        Skill = "empathy"
	Collaboration  Skill = "collaboration"
	Leadership     Skill = "leadership"
	ProblemSolving Skill = "problem_solving"
)

// Skills is the fixed evaluation order.
var Skills = []Skill{Communication, Empathy, Collaboration, Leadership, ProblemSolving}

func (s Skill) DisplayName() string {
	switch s {
	case Communication:
		return "Communication"
	case Empathy:
		return "Empathy"
	case Collaboration:
		return "Collaboration"
	case Leadership:
		return "Leadership"
	case ProblemSolving:
		return "Problem Solving"
	}
	return string(s)
}

const (
	MinScore = 0
	MaxScore = 100
)

var (
	ErrIncompleteResults = errors.New("scoring: evaluator did not return all skills")
	ErrScoreOutOfRange   = errors.New("scoring: skill score out of range")
	ErrProbability       = errors.New("scoring: probability out of range")
)

// Responses holds one free-text answer per skill.
type Responses struct {
	Communication  string
	Empathy        string
	Collaboration  string
	Leadership     string
	ProblemSolving string
}

func (r Responses) Get(s Skill) string {
	switch s {
	case Communication:
		return r.Communication
	case Empathy:
		return r.Empathy
	case Collaboration:
		return r.Collaboration
	case Leadership:
		return r.Leadership
	case ProblemSolving:
		return r.ProblemSolving
	}
	return ""
}

type SkillResult struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

type Results map[Skill]SkillResult

// Validate checks that every skill is present and scored within [MinScore, MaxScore].
func (r Results) Validate() error {
	for _, s := range Skills {
		res, ok := r[s]
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrIncompleteResults, s)
		}
		if res.Score < MinScore || res.Score > MaxScore {
			return fmt.Errorf("%w: %s=%d", ErrScoreOutOfRange, s, res.Score)
		}
	}
	return nil
}

// Analysis is the detector output. Everything besides Probability is informational
// and stored verbatim with the submission.
type Analysis struct {
	Probability float64            `json:"probability"`
	Analysis    string             `json:"analysis"`
	Method      string             `json:"method,omitempty"`
	Indicators  map[string]float64 `json:"indicators,omitempty"`
	Signals     []string           `json:"signals,omitempty"`
}

func (a *Analysis) Validate() error {
	if math.IsNaN(a.Probability) || a.Probability < 0 || a.Probability > 1 {
		return fmt.Errorf("%w: %v", ErrProbability, a.Probability)
	}
	return nil
}

type SkillEvaluator interface {
	EvaluateAllSkills(ctx context.Context, responses Responses) (Results, error)
}

type AIDetector interface {
	AnalyzeText(ctx context.Context, text string) (*Analysis, error)
}

func clampScore(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
