package util

const TimeFormat = "2006-01-02 15:04"

// Flash categories, used as CSS alert classes.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashDanger  = "danger"
)

const (
	RecentDashboardLimit = 5
	RecentAdminLimit     = 10
)

// Context keys shared by middleware and handlers.
const (
	RequestIDKey = "request_id"
	CSRFTokenKey = "csrf_token"
)
