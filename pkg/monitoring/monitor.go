package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	SkillTestsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "softskill_tests_completed_total",
			Help: "Soft skill tests scored and stored",
		},
	)

	SubmissionsAnalyzed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "softskill_submissions_analyzed_total",
			Help: "Integrity submissions stored, by risk band",
		},
		[]string{"risk"},
	)

	ScoringFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "softskill_scoring_failures_total",
			Help: "Evaluator or detector calls that failed",
		},
		[]string{"operation"},
	)

	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "softskill_scoring_duration_seconds",
			Help:    "Duration of evaluator and detector calls",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30},
		},
		[]string{"operation"},
	)
)

const (
	OpEvaluateSkills = "evaluate_skills"
	OpAnalyzeText    = "analyze_text"
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			SkillTestsCompleted,
			SubmissionsAnalyzed,
			ScoringFailures,
			ScoringDuration,
		)
	})
}

// ObserveScoring records the duration of a scoring call and counts it as failed when err is set.
func ObserveScoring(operation string, start time.Time, err error) {
	ScoringDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		ScoringFailures.WithLabelValues(operation).Inc()
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
