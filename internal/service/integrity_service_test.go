package service

import (
	"context"
	"encoding/json"
	"testing"

	"softskill_backend/internal/model"
	"softskill_backend/internal/repository"
	"softskill_backend/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newIntegrityService(db *gorm.DB, det scoring.AIDetector) *IntegrityService {
	return NewIntegrityService(db, repository.NewSubmissionRepository(db), repository.NewFeedbackRepository(db), det)
}

func TestIntegrityServiceCheck(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	det := &stubDetector{analysis: &scoring.Analysis{Probability: 0.7, Analysis: "Uniform prose.", Method: "stub"}}

	res, err := newIntegrityService(db, det).Check(context.Background(), user.ID, "some text to analyze")
	require.NoError(t, err)

	sub := res.Submission
	assert.True(t, sub.IsAIGenerated)
	assert.Equal(t, "High Risk - Likely AI Generated", sub.AIStatus())
	assert.Equal(t, "AI Detection Analysis: Uniform prose.", res.Feedback.Content)

	var details scoring.Analysis
	require.NoError(t, json.Unmarshal(sub.AnalysisDetails, &details))
	assert.Equal(t, 0.7, details.Probability)
	assert.Equal(t, "stub", details.Method)

	var fbs []model.Feedback
	require.NoError(t, db.Where("submission_id = ?", sub.ID).Find(&fbs).Error)
	require.Len(t, fbs, 1)
	assert.Equal(t, model.FeedbackAIDetection, fbs[0].FeedbackType)
	assert.Nil(t, fbs[0].TestID)
}

func TestIntegrityServiceDefaultsAnalysisText(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	det := &stubDetector{analysis: &scoring.Analysis{Probability: 0.69}}

	res, err := newIntegrityService(db, det).Check(context.Background(), user.ID, "text")
	require.NoError(t, err)
	assert.False(t, res.Submission.IsAIGenerated)
	assert.Equal(t, "AI Detection Analysis: Analysis completed", res.Feedback.Content)
}

func TestIntegrityServiceFailuresWriteNothing(t *testing.T) {
	tests := map[string]*stubDetector{
		"detector error":        {err: assert.AnError},
		"probability above one": {analysis: &scoring.Analysis{Probability: 1.5}},
		"negative probability":  {analysis: &scoring.Analysis{Probability: -0.1}},
		"no analysis":           {},
	}
	for name, det := range tests {
		t.Run(name, func(t *testing.T) {
			db := newTestDB(t)
			user := seedUser(t, db, "alice")

			_, err := newIntegrityService(db, det).Check(context.Background(), user.ID, "text")
			assert.ErrorIs(t, err, ErrScoringFailed)
			assert.Zero(t, countRows(t, db, &model.Submission{}))
			assert.Zero(t, countRows(t, db, &model.Feedback{}))
		})
	}
}

func TestIntegrityServiceFeedbackFailureRollsBack(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	failInserts(t, db, "feedbacks")

	det := &stubDetector{analysis: &scoring.Analysis{Probability: 0.2, Analysis: "ok"}}
	_, err := newIntegrityService(db, det).Check(context.Background(), user.ID, "text")
	assert.ErrorIs(t, err, errInjected)
	assert.Zero(t, countRows(t, db, &model.Submission{}))
}
