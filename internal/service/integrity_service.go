package service

import (
	"context"
	"encoding/json"
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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultAnalysisText = "Analysis completed"

type IntegrityResult struct {
	Submission *model.Submission
	Analysis   *scoring.Analysis
	Feedback   *model.Feedback
}

type IntegrityService struct {
	DB             *gorm.DB
	SubmissionRepo *repository.SubmissionRepository
	FeedbackRepo   *repository.FeedbackRepository
	Detector       scoring.AIDetector
}

func NewIntegrityService(
	db *gorm.DB,
	submissionRepo *repository.SubmissionRepository,
	feedbackRepo *repository.FeedbackRepository,
	detector scoring.AIDetector,
) *IntegrityService {
	return &IntegrityService{
		DB:             db,
		SubmissionRepo: submissionRepo,
		FeedbackRepo:   feedbackRepo,
		Detector:       detector,
	}
}

func (s *IntegrityService) analyze(ctx context.Context, content string) (*scoring.Analysis, error) {
	start := time.Now()
	analysis, err := s.Detector.AnalyzeText(ctx, content)
	if err == nil {
		if analysis == nil {
			err = fmt.Errorf("detector returned no analysis")
		} else {
			err = analysis.Validate()
		}
	}
	monitoring.ObserveScoring(monitoring.OpAnalyzeText, start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScoringFailed, err)
	}
	return analysis, nil
}

// Check runs the detector on content and stores the submission with its feedback row.
func (s *IntegrityService) Check(ctx context.Context, userID uint, content string) (*IntegrityResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "IntegrityService.Check")
	defer span.End()
	span.SetAttributes(attribute.Int("user.id", int(userID)), attribute.Int("content.length", len(content)))

	analysis, err := s.analyze(ctx, content)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	details, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}

	sub := &model.Submission{
		UserID:          userID,
		Content:         content,
		AIProbability:   analysis.Probability,
		IsAIGenerated:   scoring.IsAIGenerated(analysis.Probability),
		AnalysisDetails: datatypes.JSON(details),
	}

	text := analysis.Analysis
	if text == "" {
		text = defaultAnalysisText
	}

	var fb *model.Feedback
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.SubmissionRepo.WithTx(tx).Create(ctx, sub); err != nil {
			return fmt.Errorf("create submission: %w", err)
		}
		fb = model.NewDetectionFeedback(userID, sub.ID, "AI Detection Analysis: "+text)
		if err := s.FeedbackRepo.WithTx(tx).Create(ctx, fb); err != nil {
			return fmt.Errorf("create feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	band := sub.RiskBand()
	monitoring.SubmissionsAnalyzed.WithLabelValues(string(band)).Inc()
	span.SetAttributes(attribute.Float64("ai.probability", sub.AIProbability), attribute.String("ai.risk", string(band)))
	logger.Log.Info("Submission analyzed",
		zap.Uint("user_id", userID),
		zap.Uint("submission_id", sub.ID),
		zap.Float64("ai_probability", sub.AIProbability),
		zap.String("risk", string(band)),
	)
	return &IntegrityResult{Submission: sub, Analysis: analysis, Feedback: fb}, nil
}
