package scoring

type RiskBand string

const (
	RiskLow    RiskBand = "low"
	RiskMedium RiskBand = "medium"
	RiskHigh   RiskBand = "high"
)

const (
	HighRiskThreshold   = 0.7
	MediumRiskThreshold = 0.4
)

// ClassifyRisk maps an AI probability to its band. Lower bounds are inclusive.
func ClassifyRisk(p float64) RiskBand {
	switch {
	case p >= HighRiskThreshold:
		return RiskHigh
	case p >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

func IsAIGenerated(p float64) bool {
	return p >= HighRiskThreshold
}

func (b RiskBand) Label() string {
	switch b {
	case RiskHigh:
		return "High Risk"
	case RiskMedium:
		return "Medium Risk"
	}
	return "Low Risk"
}

func (b RiskBand) Status() string {
	switch b {
	case RiskHigh:
		return "High Risk - Likely AI Generated"
	case RiskMedium:
		return "Medium Risk - Possibly AI Generated"
	}
	return "Low Risk - Likely Human Written"
}

func (b RiskBand) CSSClass() string {
	switch b {
	case RiskHigh:
		return "danger"
	case RiskMedium:
		return "warning"
	}
	return "success"
}
