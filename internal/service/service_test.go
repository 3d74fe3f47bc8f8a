package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"softskill_backend/internal/config"
	"softskill_backend/internal/model"
	"softskill_backend/internal/repository"
	"softskill_backend/internal/scoring"
	"softskill_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "service.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

var errInjected = errors.New("injected failure")

// failInserts makes every INSERT into table fail.
func failInserts(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(errInjected)
		}
	}))
}

// insertRivalUser commits rival just before the next user insert, the way a
// concurrent registration that passed the same availability check would.
func insertRivalUser(t *testing.T, db *gorm.DB, rival *model.User) {
	t.Helper()
	inserted := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:rival_user", func(tx *gorm.DB) {
		if tx.Statement.Table != "users" || inserted {
			return
		}
		inserted = true
		require.NoError(t, db.Create(rival).Error)
	}))
}

func testConfig() *config.Config {
	return &config.Config{
		JWT:  config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Auth: config.AuthConfig{AllowAdminRegistration: true},
	}
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", Role: model.Student}
	require.NoError(t, u.SetPassword("password"))
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), u))
	return u
}

type stubEvaluator struct {
	results scoring.Results
	err     error
	calls   int
}

func (s *stubEvaluator) EvaluateAllSkills(context.Context, scoring.Responses) (scoring.Results, error) {
	s.calls++
	return s.results, s.err
}

type stubDetector struct {
	analysis *scoring.Analysis
	err      error
}

func (s *stubDetector) AnalyzeText(context.Context, string) (*scoring.Analysis, error) {
	return s.analysis, s.err
}

func fixedResults() scoring.Results {
	return scoring.Results{
		scoring.Communication:  {Score: 80, Feedback: "Clear."},
		scoring.Empathy:        {Score: 70, Feedback: "Warm."},
		scoring.Collaboration:  {Score: 90, Feedback: "Great teamwork."},
		scoring.Leadership:     {Score: 60, Feedback: "Lead more."},
		scoring.ProblemSolving: {Score: 100, Feedback: "Methodical."},
	}
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}
