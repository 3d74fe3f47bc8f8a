package service

import (
	"context"

	"softskill_backend/internal/model"
	"softskill_backend/internal/repository"
	"softskill_backend/internal/util"
)

type DashboardService struct {
	TestRepo       *repository.SkillTestRepository
	SubmissionRepo *repository.SubmissionRepository
}

func NewDashboardService(
	testRepo *repository.SkillTestRepository,
	submissionRepo *repository.SubmissionRepository,
) *DashboardService {
	return &DashboardService{
		TestRepo:       testRepo,
		SubmissionRepo: submissionRepo,
	}
}

type Dashboard struct {
	RecentTests       []model.SoftSkillTest
	RecentSubmissions []model.Submission
	TotalTests        int64
	TotalSubmissions  int64
	// AvgScore is the mean total of RecentTests, 0 when there are none.
	AvgScore float64
}

func (s *DashboardService) GetUserDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	tests, err := s.TestRepo.RecentByUser(ctx, userID, util.RecentDashboardLimit)
	if err != nil {
		return nil, err
	}
	subs, err := s.SubmissionRepo.RecentByUser(ctx, userID, util.RecentDashboardLimit)
	if err != nil {
		return nil, err
	}
	totalTests, err := s.TestRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalSubs, err := s.SubmissionRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		RecentTests:       tests,
		RecentSubmissions: subs,
		TotalTests:        totalTests,
		TotalSubmissions:  totalSubs,
		AvgScore:          averageTotal(tests),
	}, nil
}

func averageTotal(tests []model.SoftSkillTest) float64 {
	if len(tests) == 0 {
		return 0
	}
	sum := 0
	for _, t := range tests {
		sum += t.TotalScore
	}
	return float64(sum) / float64(len(tests))
}
