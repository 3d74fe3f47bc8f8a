package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"softskill_backend/internal/config"
	"softskill_backend/internal/model"
	"softskill_backend/internal/scoring"
	"softskill_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var errScoring = errors.New("scoring backend down")

type stubEvaluator struct {
	results scoring.Results
	err     error
}

func (s *stubEvaluator) EvaluateAllSkills(context.Context, scoring.Responses) (scoring.Results, error) {
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
		scoring.Communication:  {Score: 80, Feedback: "Clear structure."},
		scoring.Empathy:        {Score: 70, Feedback: "Warm tone."},
		scoring.Collaboration:  {Score: 90, Feedback: "Strong teamwork."},
		scoring.Leadership:     {Score: 60, Feedback: "Take more initiative."},
		scoring.ProblemSolving: {Score: 100, Feedback: "Methodical approach."},
	}
}

func newTestApp(t *testing.T, scorers Scorers, opts ...func(*config.Config)) (*App, *testClient) {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver:   "sqlite",
			Path:     filepath.Join(t.TempDir(), "app.db"),
			LogLevel: "silent",
		},
		JWT:       config.JWTConfig{Secret: "integration-test-secret", ExpireTime: time.Hour},
		Session:   config.SessionConfig{CookieName: "session"},
		Scoring:   config.ScoringConfig{Provider: scoring.ProviderHeuristic},
		Auth:      config.AuthConfig{AllowAdminRegistration: true},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1, LoginMaxRequests: 10000},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := database.InitDB(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if scorers.Evaluator == nil {
		scorers.Evaluator = scoring.NewHeuristicEvaluator()
	}
	if scorers.Detector == nil {
		scorers.Detector = scoring.NewHeuristicDetector()
	}

	app, err := New(cfg, db, nil, scorers)
	require.NoError(t, err)

	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return app, newTestClient(t, srv)
}

type testClient struct {
	t      *testing.T
	server *httptest.Server
	base   *url.URL
	jar    *cookiejar.Jar
	http   *http.Client
}

func newTestClient(t *testing.T, srv *httptest.Server) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	base, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return &testClient{
		t:      t,
		server: srv,
		base:   base,
		jar:    jar,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *testClient) do(req *http.Request) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *testClient) get(path string) (*http.Response, string) {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.server.URL+path, nil)
	require.NoError(c.t, err)
	return c.do(req)
}

func (c *testClient) cookie(name string) *http.Cookie {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func (c *testClient) csrfToken() string {
	c.t.Helper()
	if ck := c.cookie("csrf_token"); ck != nil {
		return ck.Value
	}
	c.get("/index")
	ck := c.cookie("csrf_token")
	require.NotNil(c.t, ck, "csrf cookie not issued")
	return ck.Value
}

func (c *testClient) post(path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	form.Set("csrf_token", c.csrfToken())
	req, err := http.NewRequest(http.MethodPost, c.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *testClient) register(username, email, password, role string) (*http.Response, string) {
	c.t.Helper()
	return c.post("/register", url.Values{
		"username":  {username},
		"email":     {email},
		"password":  {password},
		"password2": {password},
		"role":      {role},
	})
}

func (c *testClient) login(username, password string) *http.Response {
	c.t.Helper()
	resp, _ := c.post("/login", url.Values{"username": {username}, "password": {password}})
	return resp
}

// signUp registers and logs in a fresh user on c.
func (c *testClient) signUp(username, role string) {
	c.t.Helper()
	resp, _ := c.register(username, username+"@example.com", "password123", role)
	require.Equal(c.t, http.StatusFound, resp.StatusCode)
	resp = c.login(username, "password123")
	require.Equal(c.t, http.StatusFound, resp.StatusCode)
	require.Equal(c.t, "/dashboard", resp.Header.Get("Location"))
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func answer(topic string) string {
	return strings.Repeat("I explained the "+topic+" plan to my team and listened to every concern. ", 2)
}

func skillTestForm() url.Values {
	return url.Values{
		"test_name":                {"Spring review"},
		"communication_response":   {answer("communication")},
		"empathy_response":         {answer("empathy")},
		"collaboration_response":   {answer("collaboration")},
		"leadership_response":      {answer("leadership")},
		"problem_solving_response": {answer("problem solving")},
	}
}

func TestPublicPages(t *testing.T) {
	_, c := newTestApp(t, Scorers{})

	resp, body := c.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Measure your soft skills")

	resp, _ = c.get("/index")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, body = c.get("/does-not-exist")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page Not Found")
}

func TestHealthAndMetrics(t *testing.T) {
	_, c := newTestApp(t, Scorers{})

	resp, body := c.get("/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var payload struct {
		Code int `json:"code"`
		Data struct {
			Status     string            `json:"status"`
			Components map[string]string `json:"components"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, http.StatusOK, payload.Code)
	assert.Equal(t, "ok", payload.Data.Status)
	assert.Equal(t, "up", payload.Data.Components["database"])

	resp, body = c.get("/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "softskill_tests_completed_total")
}

func TestRegisterLoginLogout(t *testing.T) {
	app, c := newTestApp(t, Scorers{})

	resp, _ := c.register("alice", "alice@example.com", "password123", "student")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	_, body := c.get("/login")
	assert.Contains(t, body, "Congratulations, you are now registered!")

	var user model.User
	require.NoError(t, app.DB.Where("username = ?", "alice").First(&user).Error)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, user.CheckPassword("password123"))
	assert.Equal(t, model.Student, user.Role)

	resp = c.login("alice", "password123")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	session := c.cookie("session")
	require.NotNil(t, session)

	resp, body = c.get("/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome back, alice!")
	assert.Contains(t, body, "Welcome, alice")

	// signed-in users are sent away from the guest pages
	resp, _ = c.get("/login")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	resp, _ = c.get("/register")
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, _ = c.get("/logout")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/index", resp.Header.Get("Location"))
	_, body = c.get("/index")
	assert.Contains(t, body, "You have been logged out.")

	resp, _ = c.get("/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fdashboard", resp.Header.Get("Location"))

	// replaying the old cookie after logout stays anonymous
	replay := newTestClient(t, c.server)
	replay.jar.SetCookies(replay.base, []*http.Cookie{{Name: "session", Value: session.Value, Path: "/"}})
	resp, _ = replay.get("/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login"))
}

func TestLoginFailures(t *testing.T) {
	_, c := newTestApp(t, Scorers{})
	c.register("alice", "alice@example.com", "password123", "student")

	for _, creds := range [][2]string{{"alice", "wrong-password"}, {"nobody", "password123"}, {"ALICE", "password123"}} {
		resp := c.login(creds[0], creds[1])
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
		_, body := c.get("/login")
		assert.Contains(t, body, "Invalid username or password")
		assert.Nil(t, c.cookie("session"))
	}

	resp, body := c.post("/login", url.Values{"username": {"  "}, "password": {""}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "This field is required.")
}

func TestLoginNextRedirect(t *testing.T) {
	_, c := newTestApp(t, Scorers{})
	c.register("alice", "alice@example.com", "password123", "student")

	resp, _ := c.get("/skill_test")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	next := resp.Header.Get("Location")
	assert.Equal(t, "/login?next=%2Fskill_test", next)

	_, body := c.get(next)
	assert.Contains(t, body, "Please log in to access this page.")

	resp, _ = c.post(next, url.Values{"username": {"alice"}, "password": {"password123"}})
	assert.Equal(t, "/skill_test", resp.Header.Get("Location"))

	evil := newTestClient(t, c.server)
	resp, _ = evil.post("/login?next="+url.QueryEscape("//evil.example.com/phish"),
		url.Values{"username": {"alice"}, "password": {"password123"}})
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	evil = newTestClient(t, c.server)
	resp, _ = evil.post("/login?next="+url.QueryEscape("https://evil.example.com"),
		url.Values{"username": {"alice"}, "password": {"password123"}})
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestRegisterValidation(t *testing.T) {
	app, c := newTestApp(t, Scorers{})

	resp, body := c.post("/register", url.Values{
		"username":  {"ab"},
		"email":     {"not-an-email"},
		"password":  {"12345"},
		"password2": {"54321"},
		"role":      {"student"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Field must be between 4 and 20 characters long.")
	assert.Contains(t, body, "Invalid email address.")
	assert.Contains(t, body, "Field must be at least 6 characters long.")
	assert.Contains(t, body, "Field must be equal to password.")
	assert.Zero(t, countRows(t, app.DB, &model.User{}))
}

func TestRegisterDuplicatesIgnoreCase(t *testing.T) {
	app, c := newTestApp(t, Scorers{})
	resp, _ := c.register("alice", "alice@example.com", "password123", "student")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, body := c.register("ALICE", "other@example.com", "password123", "admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Please use a different username.")

	resp, body = c.register("bobby", "Alice@Example.COM", "password123", "student")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Please use a different email address.")

	assert.Equal(t, int64(1), countRows(t, app.DB, &model.User{}))
}

func TestRegisterRaceShowsFieldError(t *testing.T) {
	app, c := newTestApp(t, Scorers{})
	// another request registers "Alice" after this one passed its availability check
	inserted := false
	require.NoError(t, app.DB.Callback().Create().Before("gorm:create").Register("test:rival_user", func(tx *gorm.DB) {
		if tx.Statement.Table != "users" || inserted {
			return
		}
		inserted = true
		require.NoError(t, app.DB.Create(&model.User{Username: "Alice", Email: "rival@example.com", Role: model.Student}).Error)
	}))

	resp, body := c.register("alice", "alice@example.com", "password123", "student")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Please use a different username.")
	assert.Equal(t, int64(1), countRows(t, app.DB, &model.User{}))
}

func TestAdminRegistrationCanBeDisabled(t *testing.T) {
	app, c := newTestApp(t, Scorers{}, func(cfg *config.Config) {
		cfg.Auth.AllowAdminRegistration = false
	})

	_, body := c.get("/register")
	assert.NotContains(t, body, `value="admin"`)

	resp, body := c.register("mallory", "mallory@example.com", "password123", "admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Not a valid choice.")
	assert.Zero(t, countRows(t, app.DB, &model.User{}))
}

func TestCSRFRequiredOnPost(t *testing.T) {
	_, c := newTestApp(t, Scorers{})
	c.get("/login")

	req, err := http.NewRequest(http.MethodPost, c.server.URL+"/login",
		strings.NewReader(url.Values{"username": {"alice"}, "password": {"password123"}}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body := c.do(req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "The CSRF token is missing or invalid.")
}

func TestAdminPanelAccess(t *testing.T) {
	_, student := newTestApp(t, Scorers{Detector: &stubDetector{analysis: &scoring.Analysis{Probability: 0.9, Analysis: "uniform"}}})
	student.signUp("student1", "student")

	for _, path := range []string{"/admin_panel", "/admin_panel/export"} {
		resp, body := student.get(path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/dashboard", resp.Header.Get("Location"), path)
		assert.NotContains(t, body, "Total")
		assert.Empty(t, resp.Header.Get("Content-Disposition"))
	}
	_, body := student.get("/dashboard")
	assert.Contains(t, body, "Access denied. Admin privileges required.")

	resp, _ := student.post("/integrity_checker", url.Values{"content": {answer("integrity")}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	admin := newTestClient(t, student.server)
	admin.signUp("admin1", "admin")

	resp, body = admin.get("/admin_panel")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Admin Panel")
	assert.Contains(t, body, "student1")
	assert.Contains(t, body, "High risk: 1")
	assert.Contains(t, body, "Feedback")

	resp, body = admin.get("/admin_panel/export")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "softskill_report_")
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")

	f, err := excelize.OpenReader(strings.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Skill Averages", "Skill Tests", "Submissions"}, f.GetSheetList())

	v, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestRoleChangeAppliesToLiveSession(t *testing.T) {
	app, c := newTestApp(t, Scorers{})
	c.signUp("alice", "student")

	resp, _ := c.get("/admin_panel")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	require.NoError(t, app.DB.Model(&model.User{}).Where("username = ?", "alice").Update("role", model.Admin).Error)
	resp, body := c.get("/admin_panel")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Admin Panel")

	require.NoError(t, app.DB.Model(&model.User{}).Where("username = ?", "alice").Update("role", model.Student).Error)
	resp, _ = c.get("/admin_panel")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestSkillTestSubmission(t *testing.T) {
	app, c := newTestApp(t, Scorers{Evaluator: &stubEvaluator{results: fixedResults()}})
	c.signUp("alice", "student")

	resp, body := c.get("/skill_test")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Describe a time when you had to explain a complex topic to someone.")
	assert.Contains(t, body, `value="Soft Skills Assessment"`)

	resp, _ = c.post("/skill_test", skillTestForm())
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var test model.SoftSkillTest
	require.NoError(t, app.DB.First(&test).Error)
	assert.Equal(t, fmt.Sprintf("/test_results/%d", test.ID), resp.Header.Get("Location"))
	assert.Equal(t, 80, test.TotalScore)
	assert.Equal(t, "Spring review", test.TestName)
	assert.Equal(t, int64(5), countRows(t, app.DB, &model.Feedback{}))

	resp, body = c.get(resp.Header.Get("Location"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Soft skills test completed successfully!")
	assert.Contains(t, body, "Problem Solving: Methodical approach.")
	assert.Contains(t, body, "Spring review")

	_, body = c.get("/dashboard")
	assert.Contains(t, body, "Spring review")
	assert.Contains(t, body, "80.0")
}

func TestSkillTestValidation(t *testing.T) {
	app, c := newTestApp(t, Scorers{Evaluator: &stubEvaluator{results: fixedResults()}})
	c.signUp("alice", "student")

	form := skillTestForm()
	form.Set("empathy_response", "Too short.")
	form.Set("leadership_response", "")
	resp, body := c.post("/skill_test", form)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Field must be between 50 and 1000 characters long.")
	assert.Contains(t, body, "This field is required.")
	assert.Contains(t, body, "listened to every concern")
	assert.Zero(t, countRows(t, app.DB, &model.SoftSkillTest{}))
}

func TestSkillTestFailuresPersistNothing(t *testing.T) {
	t.Run("scoring error", func(t *testing.T) {
		app, c := newTestApp(t, Scorers{Evaluator: &stubEvaluator{err: errScoring}})
		c.signUp("alice", "student")

		resp, _ := c.post("/skill_test", skillTestForm())
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/skill_test", resp.Header.Get("Location"))
		_, body := c.get("/skill_test")
		assert.Contains(t, body, "Error processing your test. Please try again.")

		assert.Zero(t, countRows(t, app.DB, &model.SoftSkillTest{}))
		assert.Zero(t, countRows(t, app.DB, &model.Feedback{}))
	})

	t.Run("incomplete results", func(t *testing.T) {
		partial := fixedResults()
		delete(partial, scoring.Leadership)
		app, c := newTestApp(t, Scorers{Evaluator: &stubEvaluator{results: partial}})
		c.signUp("alice", "student")

		resp, _ := c.post("/skill_test", skillTestForm())
		assert.Equal(t, "/skill_test", resp.Header.Get("Location"))
		assert.Zero(t, countRows(t, app.DB, &model.SoftSkillTest{}))
	})

	t.Run("feedback insert error", func(t *testing.T) {
		app, c := newTestApp(t, Scorers{Evaluator: &stubEvaluator{results: fixedResults()}})
		c.signUp("alice", "student")
		require.NoError(t, app.DB.Callback().Create().Before("gorm:create").Register("test:fail_feedbacks", func(tx *gorm.DB) {
			if tx.Statement.Table == "feedbacks" {
				tx.AddError(errors.New("disk full"))
			}
		}))

		resp, _ := c.post("/skill_test", skillTestForm())
		assert.Equal(t, "/skill_test", resp.Header.Get("Location"))
		assert.Zero(t, countRows(t, app.DB, &model.SoftSkillTest{}))
		assert.Zero(t, countRows(t, app.DB, &model.Feedback{}))
	})
}

func TestTestResultsAreOwnerOnly(t *testing.T) {
	app, alice := newTestApp(t, Scorers{Evaluator: &stubEvaluator{results: fixedResults()}})
	alice.signUp("alice", "student")
	resp, _ := alice.post("/skill_test", skillTestForm())
	require.Equal(t, http.StatusFound, resp.StatusCode)
	location := resp.Header.Get("Location")

	bob := newTestClient(t, alice.server)
	bob.signUp("bobby", "admin")

	resp, body := bob.get(location)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, body, "Spring review")
	assert.NotContains(t, body, "Methodical approach")

	for _, path := range []string{"/test_results/abc", "/test_results/0", "/test_results/999"} {
		resp, _ = alice.get(path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	assert.Equal(t, int64(1), countRows(t, app.DB, &model.SoftSkillTest{}))
}

func TestIntegrityChecker(t *testing.T) {
	detector := &stubDetector{analysis: &scoring.Analysis{
		Probability: 0.85,
		Analysis:    "Uniform sentence lengths.",
		Method:      "stub",
	}}
	app, c := newTestApp(t, Scorers{Detector: detector})
	c.signUp("alice", "student")

	resp, body := c.get("/integrity_checker")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Paste or type the text you want to analyze")

	text := answer("integrity")
	resp, body = c.post("/integrity_checker", url.Values{"content": {text}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Content analysis completed!")
	assert.Contains(t, body, "High Risk - Likely AI Generated")
	assert.Contains(t, body, "85%")
	assert.NotContains(t, body, "listened to every concern", "form should be fresh after success")

	var sub model.Submission
	require.NoError(t, app.DB.First(&sub).Error)
	assert.True(t, sub.IsAIGenerated)
	assert.InDelta(t, 0.85, sub.AIProbability, 1e-9)

	var fb model.Feedback
	require.NoError(t, app.DB.First(&fb).Error)
	assert.Equal(t, model.FeedbackAIDetection, fb.FeedbackType)
	assert.Equal(t, "AI Detection Analysis: Uniform sentence lengths.", fb.Content)
	require.NotNil(t, fb.SubmissionID)
	assert.Nil(t, fb.TestID)

	_, body = c.get("/dashboard")
	assert.Contains(t, body, "85%")
}

func TestIntegrityCheckerFailures(t *testing.T) {
	t.Run("detector error keeps input", func(t *testing.T) {
		app, c := newTestApp(t, Scorers{Detector: &stubDetector{err: errScoring}})
		c.signUp("alice", "student")

		resp, body := c.post("/integrity_checker", url.Values{"content": {answer("integrity")}})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Error analyzing content. Please try again.")
		assert.Contains(t, body, "listened to every concern")
		assert.Zero(t, countRows(t, app.DB, &model.Submission{}))
		assert.Zero(t, countRows(t, app.DB, &model.Feedback{}))
	})

	t.Run("probability out of range", func(t *testing.T) {
		app, c := newTestApp(t, Scorers{Detector: &stubDetector{analysis: &scoring.Analysis{Probability: 1.5}}})
		c.signUp("alice", "student")

		_, body := c.post("/integrity_checker", url.Values{"content": {answer("integrity")}})
		assert.Contains(t, body, "Error analyzing content. Please try again.")
		assert.Zero(t, countRows(t, app.DB, &model.Submission{}))
	})

	t.Run("too short", func(t *testing.T) {
		app, c := newTestApp(t, Scorers{})
		c.signUp("alice", "student")

		resp, body := c.post("/integrity_checker", url.Values{"content": {"short text"}})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Field must be between 50 and 5000 characters long.")
		assert.Zero(t, countRows(t, app.DB, &model.Submission{}))
	})
}

func TestHeuristicScoringEndToEnd(t *testing.T) {
	app, c := newTestApp(t, Scorers{})
	c.signUp("alice", "student")

	resp, _ := c.post("/skill_test", skillTestForm())
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var test model.SoftSkillTest
	require.NoError(t, app.DB.First(&test).Error)
	for _, s := range test.SkillScores() {
		assert.GreaterOrEqual(t, s.Score, scoring.MinScore)
		assert.LessOrEqual(t, s.Score, scoring.MaxScore)
	}
	assert.Equal(t, test.CalculateTotalScore(), test.TotalScore)
}
