package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"softskill_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	csrfCookie = "csrf_token"
	csrfField  = "csrf_token"
	csrfHeader = "X-CSRF-Token"
)

// CSRF implements the double-submit cookie pattern: every unsafe request must echo
// the token from the csrf cookie in a form field or header.
func CSRF(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(csrfCookie)
		if err != nil || token == "" {
			token = strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(csrfCookie, token, 0, "/", "", secure, true)
		}
		c.Set(util.CSRFTokenKey, token)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		sent := c.PostForm(csrfField)
		if sent == "" {
			sent = c.GetHeader(csrfHeader)
		}
		if err != nil || subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
			_ = c.Error(util.ErrCSRFToken)
			util.RenderBadRequest(c, "The CSRF token is missing or invalid.")
			c.Abort()
			return
		}
		c.Next()
	}
}
