package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"softskill_backend/internal/model"
	"softskill_backend/internal/repository"
	"softskill_backend/internal/scoring"
	"softskill_backend/pkg/logger"
	"softskill_backend/pkg/monitoring"
	"softskill_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTestNotFound  = errors.New("skill test not found")
	ErrScoringFailed = errors.New("scoring failed")
)

type SkillTestInput struct {
	UserID    uint
	TestName  string
	Responses scoring.Responses
}

type TestResult struct {
	Test      *model.SoftSkillTest
	Skills    []model.SkillScore
	Feedbacks []model.Feedback
}

type SkillTestService struct {
	DB           *gorm.DB
	TestRepo     *repository.SkillTestRepository
	FeedbackRepo *repository.FeedbackRepository
	Evaluator    scoring.SkillEvaluator
}

func NewSkillTestService(
	db *gorm.DB,
	testRepo *repository.SkillTestRepository,
	feedbackRepo *repository.FeedbackRepository,
	evaluator scoring.SkillEvaluator,
) *SkillTestService {
	return &SkillTestService{
		DB:           db,
		TestRepo:     testRepo,
		FeedbackRepo: feedbackRepo,
		Evaluator:    evaluator,
	}
}

func (s *SkillTestService) evaluate(ctx context.Context, responses scoring.Responses) (scoring.Results, error) {
	start := time.Now()
	results, err := s.Evaluator.EvaluateAllSkills(ctx, responses)
	if err == nil {
		err = results.Validate()
	}
	monitoring.ObserveScoring(monitoring.OpEvaluateSkills, start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScoringFailed, err)
	}
	return results, nil
}

// Submit scores the responses and stores the test with one feedback row per skill.
// Scoring runs before the transaction; nothing is written unless every row is.
func (s *SkillTestService) Submit(ctx context.Context, in SkillTestInput) (*model.SoftSkillTest, error) {
	ctx, span := tracing.Tracer.Start(ctx, "SkillTestService.Submit")
	defer span.End()
	span.SetAttributes(attribute.Int("user.id", int(in.UserID)))

	results, err := s.evaluate(ctx, in.Responses)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	name := in.TestName
	if name == "" {
		name = model.DefaultTestName
	}
	test := &model.SoftSkillTest{
		UserID:                 in.UserID,
		TestName:               name,
		CommunicationResponse:  in.Responses.Communication,
		EmpathyResponse:        in.Responses.Empathy,
		CollaborationResponse:  in.Responses.Collaboration,
		LeadershipResponse:     in.Responses.Leadership,
		ProblemSolvingResponse: in.Responses.ProblemSolving,
	}
	test.ApplyResults(results)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.TestRepo.WithTx(tx).Create(ctx, test); err != nil {
			return fmt.Errorf("create test: %w", err)
		}
		feedbacks := make([]*model.Feedback, 0, len(scoring.Skills))
		for _, skill := range scoring.Skills {
			content := fmt.Sprintf("%s: %s", skill.DisplayName(), results[skill].Feedback)
			feedbacks = append(feedbacks, model.NewSkillTestFeedback(in.UserID, test.ID, content))
		}
		if err := s.FeedbackRepo.WithTx(tx).CreateBatch(ctx, feedbacks); err != nil {
			return fmt.Errorf("create feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	monitoring.SkillTestsCompleted.Inc()
	span.SetAttributes(attribute.Int("test.id", int(test.ID)), attribute.Int("test.total_score", test.TotalScore))
	logger.Log.Info("Skill test completed",
		zap.Uint("user_id", in.UserID),
		zap.Uint("test_id", test.ID),
		zap.Int("total_score", test.TotalScore),
	)
	return test, nil
}

// GetResult loads a test owned by userID with its feedback.
func (s *SkillTestService) GetResult(ctx context.Context, userID, testID uint) (*TestResult, error) {
	test, err := s.TestRepo.FindForUser(ctx, testID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	feedbacks, err := s.FeedbackRepo.ListByTest(ctx, test.ID)
	if err != nil {
		return nil, err
	}
	return &TestResult{
		Test:      test,
		Skills:    test.SkillScores(),
		Feedbacks: feedbacks,
	}, nil
}
