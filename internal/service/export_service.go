package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"softskill_backend/internal/repository"
	"softskill_backend/internal/util"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var ErrExportGenerateFail = errors.New("failed to generate spreadsheet")

const (
	sheetSummary     = "Summary"
	sheetAverages    = "Skill Averages"
	sheetTests       = "Skill Tests"
	sheetSubmissions = "Submissions"
)

type ExportService struct {
	Admin          *AdminService
	TestRepo       *repository.SkillTestRepository
	SubmissionRepo *repository.SubmissionRepository
	logger         *zap.Logger
}

func NewExportService(
	admin *AdminService,
	testRepo *repository.SkillTestRepository,
	submissionRepo *repository.SubmissionRepository,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		Admin:          admin,
		TestRepo:       testRepo,
		SubmissionRepo: submissionRepo,
		logger:         logger,
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		name, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, name, v)
	}
}

// ExportReport builds the admin workbook. It returns the file content and a suggested file name.
func (s *ExportService) ExportReport(ctx context.Context) (*bytes.Buffer, string, error) {
	stats, err := s.Admin.GetStats(ctx)
	if err != nil {
		return nil, "", err
	}
	tests, err := s.TestRepo.All(ctx)
	if err != nil {
		return nil, "", err
	}
	subs, err := s.SubmissionRepo.All(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, "", ErrExportGenerateFail
	}
	for _, name := range []string{sheetAverages, sheetTests, sheetSubmissions} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// summary
	writeRow(f, sheetSummary, 1, "Metric", "Value")
	writeRow(f, sheetSummary, 2, "Total users", stats.TotalUsers)
	writeRow(f, sheetSummary, 3, "Total skill tests", stats.TotalTests)
	writeRow(f, sheetSummary, 4, "Total submissions", stats.TotalSubmissions)
	writeRow(f, sheetSummary, 5, "Feedback entries", stats.TotalFeedback)
	writeRow(f, sheetSummary, 6, "High risk submissions", stats.Risk.High)
	writeRow(f, sheetSummary, 7, "Medium risk submissions", stats.Risk.Medium)
	writeRow(f, sheetSummary, 8, "Low risk submissions", stats.Risk.Low)
	f.SetCellStyle(sheetSummary, "A1", "B1", headerStyle)
	f.SetColWidth(sheetSummary, "A", "A", 26)

	writeRow(f, sheetAverages, 1, "Skill", "Average score")
	for i, avg := range stats.SkillAverages {
		writeRow(f, sheetAverages, i+2, avg.Name, avg.Average)
	}
	f.SetCellStyle(sheetAverages, "A1", "B1", headerStyle)
	f.SetColWidth(sheetAverages, "A", "A", 18)

	writeRow(f, sheetTests, 1, "ID", "User", "Test name", "Communication", "Empathy",
		"Collaboration", "Leadership", "Problem Solving", "Total", "Completed at")
	for i, t := range tests {
		username := ""
		if t.User != nil {
			username = t.User.Username
		}
		writeRow(f, sheetTests, i+2, t.ID, username, t.TestName, t.CommunicationScore, t.EmpathyScore,
			t.CollaborationScore, t.LeadershipScore, t.ProblemSolvingScore, t.TotalScore,
			t.CompletedAt.Format(util.TimeFormat))
	}
	f.SetCellStyle(sheetTests, "A1", cell("J", 1), headerStyle)

	writeRow(f, sheetSubmissions, 1, "ID", "User", "AI probability", "Risk", "Submitted at", "Excerpt")
	for i, sub := range subs {
		username := ""
		if sub.User != nil {
			username = sub.User.Username
		}
		writeRow(f, sheetSubmissions, i+2, sub.ID, username, sub.AIProbability, sub.RiskBand().Label(),
			sub.SubmittedAt.Format(util.TimeFormat), excerpt(sub.Content, 120))
	}
	f.SetCellStyle(sheetSubmissions, "A1", cell("F", 1), headerStyle)
	f.SetColWidth(sheetSubmissions, "F", "F", 60)

	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("Failed to write workbook", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("softskill_report_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf, filename, nil
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
