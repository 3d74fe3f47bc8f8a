package repository

import (
	"context"

	"softskill_backend/internal/model"

	"gorm.io/gorm"
)

const recentTestsOrder = "completed_at DESC, id DESC"

type SkillTestRepository struct {
	DB *gorm.DB
}

func NewSkillTestRepository(db *gorm.DB) *SkillTestRepository {
	return &SkillTestRepository{DB: db}
}

func (r *SkillTestRepository) WithTx(tx *gorm.DB) *SkillTestRepository {
	return &SkillTestRepository{DB: tx}
}

func (r *SkillTestRepository) Create(ctx context.Context, test *model.SoftSkillTest) error {
	return r.DB.WithContext(ctx).Create(test).Error
}

// FindForUser only returns the test when it belongs to userID.
func (r *SkillTestRepository) FindForUser(ctx context.Context, id, userID uint) (*model.SoftSkillTest, error) {
	var test model.SoftSkillTest
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&test).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &test, nil
}

func (r *SkillTestRepository) RecentByUser(ctx context.Context, userID uint, limit int) ([]model.SoftSkillTest, error) {
	var tests []model.SoftSkillTest
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(recentTestsOrder).
		Limit(limit).
		Find(&tests).Error
	return tests, err
}

func (r *SkillTestRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.SoftSkillTest{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Recent lists tests across all users with their owner preloaded.
func (r *SkillTestRepository) Recent(ctx context.Context, limit int) ([]model.SoftSkillTest, error) {
	var tests []model.SoftSkillTest
	err := r.DB.WithContext(ctx).Preload("User").Order(recentTestsOrder).Limit(limit).Find(&tests).Error
	return tests, err
}

func (r *SkillTestRepository) All(ctx context.Context) ([]model.SoftSkillTest, error) {
	var tests []model.SoftSkillTest
	err := r.DB.WithContext(ctx).Preload("User").Order(recentTestsOrder).Find(&tests).Error
	return tests, err
}

func (r *SkillTestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.SoftSkillTest{}).Count(&count).Error
	return count, err
}

type SkillAverages struct {
	Communication  float64
	Empathy        float64
	Collaboration  float64
	Leadership     float64
	ProblemSolving float64
}

// Averages returns the mean of every skill score over all tests, zero when there are none.
func (r *SkillTestRepository) Averages(ctx context.Context) (*SkillAverages, error) {
	var avg SkillAverages
	err := r.DB.WithContext(ctx).Model(&model.SoftSkillTest{}).Select(
		"COALESCE(AVG(communication_score), 0) AS communication, " +
			"COALESCE(AVG(empathy_score), 0) AS empathy, " +
			"COALESCE(AVG(collaboration_score), 0) AS collaboration, " +
			"COALESCE(AVG(leadership_score), 0) AS leadership, " +
			"COALESCE(AVG(problem_solving_score), 0) AS problem_solving",
	).Scan(&avg).Error
	return &avg, err
}
