package model

import (
	"time"

	"softskill_backend/internal/scoring"

	"gorm.io/gorm"
)

const DefaultTestName = "Soft Skills Assessment"

type SoftSkillTest struct {
	BaseModel
	UserID   uint   `gorm:"index;not null" json:"userId"`
	User     *User  `gorm:"foreignKey:UserID" json:"-"`
	TestName string `gorm:"size:100;not null" json:"testName"`

	// 0-100 each
	CommunicationScore  int `gorm:"default:0" json:"communicationScore"`
	EmpathyScore        int `gorm:"default:0" json:"empathyScore"`
	CollaborationScore  int `gorm:"default:0" json:"collaborationScore"`
	LeadershipScore     int `gorm:"default:0" json:"leadershipScore"`
	ProblemSolvingScore int `gorm:"default:0" json:"problemSolvingScore"`

	TotalScore int `gorm:"default:0" json:"totalScore"`

	CommunicationResponse  string `gorm:"type:text" json:"communicationResponse"`
	EmpathyResponse        string `gorm:"type:text" json:"empathyResponse"`
	CollaborationResponse  string `gorm:"type:text" json:"collaborationResponse"`
	LeadershipResponse     string `gorm:"type:text" json:"leadershipResponse"`
	ProblemSolvingResponse string `gorm:"type:text" json:"problemSolvingResponse"`

	CompletedAt time.Time `gorm:"index" json:"completedAt"`
}

func (SoftSkillTest) TableName() string {
	return "soft_skill_tests"
}

func (t *SoftSkillTest) BeforeCreate(tx *gorm.DB) error {
	if t.CompletedAt.IsZero() {
		t.CompletedAt = time.Now()
	}
	return nil
}

// SkillScore is one row of the results chart.
type SkillScore struct {
	Skill scoring.Skill `json:"skill"`
	Name  string        `json:"name"`
	Score int           `json:"score"`
}

func (t *SoftSkillTest) scoreField(skill scoring.Skill) *int {
	switch skill {
	case scoring.Communication:
		return &t.CommunicationScore
	case scoring.Empathy:
		return &t.EmpathyScore
	case scoring.Collaboration:
		return &t.CollaborationScore
	case scoring.Leadership:
		return &t.LeadershipScore
	case scoring.ProblemSolving:
		return &t.ProblemSolvingScore
	}
	return nil
}

func (t *SoftSkillTest) Score(skill scoring.Skill) int {
	if p := t.scoreField(skill); p != nil {
		return *p
	}
	return 0
}

func (t *SoftSkillTest) SetScore(skill scoring.Skill, score int) {
	if p := t.scoreField(skill); p != nil {
		*p = score
	}
}

// ApplyResults copies every skill score from r and recomputes the total.
func (t *SoftSkillTest) ApplyResults(r scoring.Results) {
	for _, skill := range scoring.Skills {
		if res, ok := r[skill]; ok {
			t.SetScore(skill, res.Score)
		}
	}
	t.CalculateTotalScore()
}

// CalculateTotalScore stores and returns the floored mean of the five skill scores.
func (t *SoftSkillTest) CalculateTotalScore() int {
	sum := 0
	for _, skill := range scoring.Skills {
		sum += t.Score(skill)
	}
	t.TotalScore = sum / len(scoring.Skills)
	return t.TotalScore
}

func (t *SoftSkillTest) SkillScores() []SkillScore {
	out := make([]SkillScore, 0, len(scoring.Skills))
	for _, skill := range scoring.Skills {
		out = append(out, SkillScore{Skill: skill, Name: skill.DisplayName(), Score: t.Score(skill)})
	}
	return out
}
