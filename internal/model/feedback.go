package model

import (
	"errors"

	"gorm.io/gorm"
)

type FeedbackType string

const (
	FeedbackSkillTest   FeedbackType = "skill_test"
	FeedbackAIDetection FeedbackType = "ai_detection"
)

var ErrInvalidFeedbackTarget = errors.New("feedback must reference exactly one test or submission matching its type")

// Feedback belongs to exactly one skill test or one submission, selected by FeedbackType.
type Feedback struct {
	BaseModel
	UserID       uint           `gorm:"index;not null" json:"userId"`
	TestID       *uint          `gorm:"index;check:chk_feedback_target,(test_id IS NULL) <> (submission_id IS NULL)" json:"testId,omitempty"`
	Test         *SoftSkillTest `gorm:"foreignKey:TestID" json:"-"`
	SubmissionID *uint          `gorm:"index" json:"submissionId,omitempty"`
	Submission   *Submission    `gorm:"foreignKey:SubmissionID" json:"-"`
	FeedbackType FeedbackType   `gorm:"size:50;not null" json:"feedbackType"`
	Content      string         `gorm:"type:text;not null" json:"content"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

func NewSkillTestFeedback(userID, testID uint, content string) *Feedback {
	return &Feedback{
		UserID:       userID,
		TestID:       &testID,
		FeedbackType: FeedbackSkillTest,
		Content:      content,
	}
}

func NewDetectionFeedback(userID, submissionID uint, content string) *Feedback {
	return &Feedback{
		UserID:       userID,
		SubmissionID: &submissionID,
		FeedbackType: FeedbackAIDetection,
		Content:      content,
	}
}

// Validate checks that the set foreign key matches the feedback type.
func (f *Feedback) Validate() error {
	switch f.FeedbackType {
	case FeedbackSkillTest:
		if f.TestID == nil || f.SubmissionID != nil {
			return ErrInvalidFeedbackTarget
		}
	case FeedbackAIDetection:
		if f.SubmissionID == nil || f.TestID != nil {
			return ErrInvalidFeedbackTarget
		}
	default:
		return ErrInvalidFeedbackTarget
	}
	return nil
}

func (f *Feedback) BeforeSave(tx *gorm.DB) error {
	return f.Validate()
}
