package service

import (
	"context"

	"softskill_backend/internal/model"
	"softskill_backend/internal/repository"
	"softskill_backend/internal/scoring"
	"softskill_backend/internal/util"
)

type AdminService struct {
	UserRepo       *repository.UserRepository
	TestRepo       *repository.SkillTestRepository
	SubmissionRepo *repository.SubmissionRepository
	FeedbackRepo   *repository.FeedbackRepository
}

func NewAdminService(
	userRepo *repository.UserRepository,
	testRepo *repository.SkillTestRepository,
	submissionRepo *repository.SubmissionRepository,
	feedbackRepo *repository.FeedbackRepository,
) *AdminService {
	return &AdminService{
		UserRepo:       userRepo,
		TestRepo:       testRepo,
		SubmissionRepo: submissionRepo,
		FeedbackRepo:   feedbackRepo,
	}
}

type SkillAverage struct {
	Skill   scoring.Skill
	Name    string
	Average float64
}

type AdminStats struct {
	TotalUsers        int64
	TotalTests        int64
	TotalSubmissions  int64
	TotalFeedback     int64
	RecentUsers       []model.User
	RecentTests       []model.SoftSkillTest
	RecentSubmissions []model.Submission
	Risk              repository.RiskCounts
	// SkillAverages is empty when no tests exist.
	SkillAverages []SkillAverage
}

func (s *AdminService) GetStats(ctx context.Context) (*AdminStats, error) {
	var st AdminStats
	var err error

	if st.TotalUsers, err = s.UserRepo.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalTests, err = s.TestRepo.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalSubmissions, err = s.SubmissionRepo.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalFeedback, err = s.FeedbackRepo.Count(ctx); err != nil {
		return nil, err
	}
	if st.RecentUsers, err = s.UserRepo.Recent(ctx, util.RecentAdminLimit); err != nil {
		return nil, err
	}
	if st.RecentTests, err = s.TestRepo.Recent(ctx, util.RecentAdminLimit); err != nil {
		return nil, err
	}
	if st.RecentSubmissions, err = s.SubmissionRepo.Recent(ctx, util.RecentAdminLimit); err != nil {
		return nil, err
	}

	risk, err := s.SubmissionRepo.CountByRisk(ctx)
	if err != nil {
		return nil, err
	}
	st.Risk = *risk

	if st.TotalTests > 0 {
		avg, err := s.TestRepo.Averages(ctx)
		if err != nil {
			return nil, err
		}
		st.SkillAverages = skillAverages(avg)
	}
	return &st, nil
}

func skillAverages(avg *repository.SkillAverages) []SkillAverage {
	values := map[scoring.Skill]float64{
		scoring.Communication:  avg.Communication,
		scoring.Empathy:        avg.Empathy,
		scoring.Collaboration:  avg.Collaboration,
		scoring.Leadership:     avg.Leadership,
		scoring.ProblemSolving: avg.ProblemSolving,
	}
	out := make([]SkillAverage, 0, len(scoring.Skills))
	for _, skill := range scoring.Skills {
		out = append(out, SkillAverage{Skill: skill, Name: skill.DisplayName(), Average: values[skill]})
	}
	return out
}
