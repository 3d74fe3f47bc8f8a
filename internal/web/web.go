// Package web holds the server-rendered pages. Every page template defines itself
// under its file name and pulls in the shared header and footer.
package web

import (
	"embed"
	"html/template"
	"math"
	"time"

	"softskill_backend/internal/util"
)

//go:embed templates/*.html
var templateFS embed.FS

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(util.TimeFormat)
		},
		"percent": func(p float64) int {
			return int(math.Round(p * 100))
		},
		"scoreClass": func(score int) string {
			switch {
			case score >= 80:
				return "success"
			case score >= 60:
				return "info"
			case score >= 40:
				return "warning"
			}
			return "danger"
		},
		"excerpt": func(s string, n int) string {
			r := []rune(s)
			if len(r) <= n {
				return s
			}
			return string(r[:n]) + "..."
		},
	}
}

// Templates parses every embedded page into one set.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
