package model

import (
	"time"

	"softskill_backend/internal/scoring"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Submission struct {
	BaseModel
	UserID          uint           `gorm:"index;not null" json:"userId"`
	User            *User          `gorm:"foreignKey:UserID" json:"-"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	AIProbability   float64        `gorm:"column:ai_probability;default:0;index" json:"aiProbability"`
	IsAIGenerated   bool           `gorm:"column:is_ai_generated;default:false" json:"isAiGenerated"`
	AnalysisDetails datatypes.JSON `json:"analysisDetails"`
	SubmittedAt     time.Time      `gorm:"index" json:"submittedAt"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	return nil
}

func (s *Submission) RiskBand() scoring.RiskBand {
	return scoring.ClassifyRisk(s.AIProbability)
}

func (s *Submission) AIStatus() string {
	return s.RiskBand().Status()
}

func (s *Submission) StatusClass() string {
	return s.RiskBand().CSSClass()
}

// ProbabilityPercent is the probability rounded to a whole percentage for display.
func (s *Submission) ProbabilityPercent() int {
	return int(s.AIProbability*100 + 0.5)
}
