package scoring

import (
	"context"
	"strings"
)

var skillLexicon = map[Skill][]string{
	Communication: {
		"explain", "listen", "clarif", "question", "understand", "message", "audience",
		"present", "simplif", "analog", "feedback", "summar", "visual", "check",
	},
	Empathy: {
		"feel", "support", "listen", "understand", "perspective", "care", "comfort",
		"emotion", "patient", "kind", "compassion", "acknowledg", "respect", "trust",
	},
	Collaboration: {
		"team", "together", "role", "contribut", "share", "coordinat", "help",
		"collaborat", "meeting", "consensus", "divid", "responsib", "communicat", "goal",
	},
	Leadership: {
		"lead", "initiative", "motivat", "decision", "goal", "organiz", "deleg",
		"vision", "guide", "responsib", "mentor", "plan", "inspir", "accountab",
	},
	ProblemSolving: {
		"problem", "analy", "solution", "approach", "root", "test", "option", "data",
		"research", "step", "evaluat", "debug", "priorit", "alternativ",
	},
}

var exampleMarkers = []string{
	"for example", "for instance", "when i", "i remember", "once ", "last year",
	"at work", "in my ", "during ", "at university", "at school",
}

var outcomeMarkers = []string{
	"result", "learned", "learnt", "outcome", "improved", "realized", "realised",
	"succeed", "success", "achiev", "in the end", "eventually",
}

var skillAdvice = map[Skill]struct{ strength, tip string }{
	Communication: {
		"You adapt your message to the listener and check for understanding.",
		"Describe how you tailored the explanation and how you confirmed it landed.",
	},
	Empathy: {
		"You recognise other people's feelings and respond with real support.",
		"Say more about how you understood the other person's perspective and what support you offered.",
	},
	Collaboration: {
		"You describe a clear role and how your work connected with the team's.",
		"Clarify your own role, how work was shared and how the team reached agreement.",
	},
	Leadership: {
		"You take initiative and bring others along towards a shared goal.",
		"Highlight the decisions you made, how you motivated others and what the group achieved.",
	},
	ProblemSolving: {
		"You break the problem down and reason through options methodically.",
		"Walk through your analysis step by step, the options you weighed and how you verified the fix.",
	},
}

// HeuristicEvaluator scores answers with deterministic text features: length,
// coverage of a per-skill vocabulary, concrete examples, outcomes and structure.
type HeuristicEvaluator struct{}

func NewHeuristicEvaluator() *HeuristicEvaluator {
	return &HeuristicEvaluator{}
}

func (e *HeuristicEvaluator) EvaluateAllSkills(ctx context.Context, responses Responses) (Results, error) {
	results := make(Results, len(Skills))
	for _, skill := range Skills {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score := e.scoreResponse(skill, responses.Get(skill))
		results[skill] = SkillResult{Score: score, Feedback: feedbackFor(skill, score)}
	}
	return results, nil
}

func (e *HeuristicEvaluator) scoreResponse(skill Skill, text string) int {
	tokens := words(text)
	if len(tokens) == 0 {
		return 0
	}
	lower := strings.ToLower(text)

	score := 15

	wc := len(tokens)
	if wc >= 150 {
		score += 25
	} else {
		score += wc * 25 / 150
	}

	hits := 0
	for _, stem := range skillLexicon[skill] {
		for _, w := range tokens {
			if strings.HasPrefix(w, stem) {
				hits++
				break
			}
		}
	}
	kw := hits * 5
	if kw > 30 {
		kw = 30
	}
	score += kw

	if containsAny(lower, exampleMarkers) > 0 {
		score += 10
	}
	if containsAny(lower, outcomeMarkers) > 0 {
		score += 10
	}

	switch n := len(sentences(text)); {
	case n >= 5:
		score += 15
	case n >= 3:
		score += 10
	case n >= 2:
		score += 5
	}

	return clampScore(score)
}

func feedbackFor(skill Skill, score int) string {
	advice := skillAdvice[skill]
	switch {
	case score >= 85:
		return "Excellent. " + advice.strength
	case score >= 70:
		return "Strong response. " + advice.strength + " " + advice.tip
	case score >= 50:
		return "Solid foundation. " + advice.tip
	default:
		return "Needs development. Give a specific, detailed example. " + advice.tip
	}
}
