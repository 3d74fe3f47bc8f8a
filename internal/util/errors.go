package util

import "errors"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrCSRFToken        = errors.New("the CSRF token is missing or invalid")
)
