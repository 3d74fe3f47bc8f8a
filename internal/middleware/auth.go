package middleware

import (
	"net/http"
	"net/url"

	"softskill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LoginRequired sends anonymous visitors to the login page, remembering where they were going.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if util.GetUserFromContext(c) == nil {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			util.RedirectWithFlash(c, "/login?next="+next, util.FlashInfo, "Please log in to access this page.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired must run after LoginRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil || !user.IsAdmin() {
			_ = c.Error(util.ErrPermissionDenied)
			util.RedirectWithFlash(c, "/dashboard", util.FlashDanger, "Access denied. Admin privileges required.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GuestOnly keeps signed-in users away from the login and registration pages.
func GuestOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if util.GetUserFromContext(c) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
