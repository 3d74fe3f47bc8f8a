package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

const methodHeuristic = "heuristic"

var stockPhrases = []string{
	"in conclusion", "furthermore", "moreover", "additionally", "it is important to note",
	"it is worth noting", "plays a crucial role", "in today's", "delve", "overall,",
	"a testament to", "navigate the", "in summary", "on the other hand", "ultimately",
	"a wide range of", "it is essential", "foster", "leverage", "seamless", "landscape",
}

var firstPerson = map[string]bool{
	"i": true, "me": true, "my": true, "mine": true, "i'm": true, "i've": true, "i'd": true, "i'll": true,
}

const (
	weightUniformity   = 0.30
	weightStockPhrases = 0.30
	weightContractions = 0.20
	weightImpersonal   = 0.20
)

// HeuristicDetector estimates AI authorship from stylometric signals. Machine text
// tends to have evenly sized sentences, stock transitions, few contractions and an
// impersonal voice.
type HeuristicDetector struct{}

func NewHeuristicDetector() *HeuristicDetector {
	return &HeuristicDetector{}
}

func (d *HeuristicDetector) AnalyzeText(ctx context.Context, text string) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := words(text)
	if len(tokens) == 0 {
		return &Analysis{Probability: 0, Analysis: "No analysable text.", Method: methodHeuristic}, nil
	}

	indicators := map[string]float64{
		"uniformity":       sentenceUniformity(text),
		"stock_phrases":    stockPhraseScore(text),
		"no_contractions":  contractionAbsence(tokens),
		"impersonal_voice": impersonalVoice(tokens),
	}

	p := weightUniformity*indicators["uniformity"] +
		weightStockPhrases*indicators["stock_phrases"] +
		weightContractions*indicators["no_contractions"] +
		weightImpersonal*indicators["impersonal_voice"]
	p = math.Round(clampUnit(p)*1000) / 1000

	return &Analysis{
		Probability: p,
		Analysis:    describe(p, indicators),
		Method:      methodHeuristic,
		Indicators:  indicators,
	}, nil
}

// sentenceUniformity is 1 when sentence lengths barely vary and 0 when they vary a lot.
// Texts with fewer than three sentences are reported as neutral.
func sentenceUniformity(text string) float64 {
	ss := sentences(text)
	if len(ss) < 3 {
		return 0.5
	}
	lengths := make([]float64, 0, len(ss))
	var sum float64
	for _, s := range ss {
		n := float64(len(words(s)))
		lengths = append(lengths, n)
		sum += n
	}
	mean := sum / float64(len(lengths))
	if mean == 0 {
		return 0.5
	}
	var variance float64
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	cv := math.Sqrt(variance/float64(len(lengths))) / mean
	return clampUnit((0.6 - cv) / 0.4)
}

func stockPhraseScore(text string) float64 {
	return clampUnit(float64(containsAny(strings.ToLower(text), stockPhrases)) / 3)
}

func contractionAbsence(tokens []string) float64 {
	n := 0
	for _, t := range tokens {
		if strings.Contains(t, "'") && !strings.HasSuffix(t, "'") {
			n++
		}
	}
	rate := float64(n) / float64(len(tokens))
	return 1 - clampUnit(rate/0.03)
}

func impersonalVoice(tokens []string) float64 {
	n := 0
	for _, t := range tokens {
		if firstPerson[t] {
			n++
		}
	}
	rate := float64(n) / float64(len(tokens))
	return 1 - clampUnit(rate/0.05)
}

var indicatorDescriptions = map[string]string{
	"uniformity":       "sentence lengths are unusually uniform",
	"stock_phrases":    "frequent stock transitional phrases",
	"no_contractions":  "almost no contractions",
	"impersonal_voice": "impersonal voice with little first-person perspective",
}

func describe(p float64, indicators map[string]float64) string {
	band := ClassifyRisk(p)
	var signals []string
	for name, v := range indicators {
		if v >= 0.6 {
			signals = append(signals, indicatorDescriptions[name])
		}
	}
	sort.Strings(signals)

	summary := fmt.Sprintf("Estimated AI likelihood %.0f%% (%s).", p*100, band.Label())
	if len(signals) == 0 {
		return summary + " No strong machine-generation signals were found."
	}
	return summary + " Signals: " + strings.Join(signals, "; ") + "."
}
