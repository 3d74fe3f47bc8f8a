package middleware

import (
	"context"
	"net/http"
	"time"

	"softskill_backend/internal/config"
	"softskill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves a session token into claims, failing for invalid or revoked tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*util.Claims, error)
}

// Session loads the user from the session cookie. Requests without a valid
// session continue anonymously and a stale cookie is cleared.
func Session(auth Authenticator, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.Session.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			ClearSession(c, cfg)
			c.Next()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// SetSession stores token in an HttpOnly cookie that lives as long as the token.
func SetSession(c *gin.Context, cfg *config.Config, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Session.CookieName, token, int(cfg.JWT.ExpireTime/time.Second), "/", "", cfg.Session.Secure, true)
}

func ClearSession(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Session.CookieName, "", -1, "/", "", cfg.Session.Secure, true)
}
