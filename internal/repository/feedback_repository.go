package repository

import (
	"context"

	"softskill_backend/internal/model"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) WithTx(tx *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: tx}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *model.Feedback) error {
	return r.DB.WithContext(ctx).Create(fb).Error
}

func (r *FeedbackRepository) CreateBatch(ctx context.Context, fbs []*model.Feedback) error {
	if len(fbs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(fbs).Error
}

func (r *FeedbackRepository) ListByTest(ctx context.Context, testID uint) ([]model.Feedback, error) {
	var fbs []model.Feedback
	err := r.DB.WithContext(ctx).
		Where("test_id = ? AND feedback_type = ?", testID, model.FeedbackSkillTest).
		Order("id ASC").
		Find(&fbs).Error
	return fbs, err
}

func (r *FeedbackRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Feedback{}).Count(&count).Error
	return count, err
}
