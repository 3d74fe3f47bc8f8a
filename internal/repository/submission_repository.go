package repository

import (
	"context"

	"softskill_backend/internal/model"
	"softskill_backend/internal/scoring"

	"gorm.io/gorm"
)

const recentSubmissionsOrder = "submitted_at DESC, id DESC"

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) WithTx(tx *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: tx}
}

func (r *SubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	return r.DB.WithContext(ctx).Create(sub).Error
}

func (r *SubmissionRepository) RecentByUser(ctx context.Context, userID uint, limit int) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(recentSubmissionsOrder).
		Limit(limit).
		Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Submission{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *SubmissionRepository) Recent(ctx context.Context, limit int) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.WithContext(ctx).Preload("User").Order(recentSubmissionsOrder).Limit(limit).Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) All(ctx context.Context) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.WithContext(ctx).Preload("User").Order(recentSubmissionsOrder).Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Submission{}).Count(&count).Error
	return count, err
}

type RiskCounts struct {
	High   int64
	Medium int64
	Low    int64
}

// CountByRisk buckets every submission with the same thresholds as scoring.ClassifyRisk.
func (r *SubmissionRepository) CountByRisk(ctx context.Context) (*RiskCounts, error) {
	var rc RiskCounts
	db := r.DB.WithContext(ctx).Model(&model.Submission{})

	if err := db.Session(&gorm.Session{}).
		Where("ai_probability >= ?", scoring.HighRiskThreshold).
		Count(&rc.High).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("ai_probability >= ? AND ai_probability < ?", scoring.MediumRiskThreshold, scoring.HighRiskThreshold).
		Count(&rc.Medium).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("ai_probability < ?", scoring.MediumRiskThreshold).
		Count(&rc.Low).Error; err != nil {
		return nil, err
	}
	return &rc, nil
}
