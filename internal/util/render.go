package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Render executes a page template with the data every layout needs: the current
// user, pending flashes and the CSRF token.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["current_user"] = GetUserFromContext(c)
	data["flashes"] = PopFlashes(c)
	data["csrf_token"] = c.GetString(CSRFTokenKey)
	c.HTML(status, name, data)
}

func RenderNotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "404.html", gin.H{"title": "Page Not Found"})
}

func RenderServerError(c *gin.Context) {
	Render(c, http.StatusInternalServerError, "500.html", gin.H{"title": "Server Error"})
}

func RenderBadRequest(c *gin.Context, reason string) {
	Render(c, http.StatusBadRequest, "400.html", gin.H{"title": "Bad Request", "reason": reason})
}

// RedirectWithFlash queues a flash and answers with 302 to location.
func RedirectWithFlash(c *gin.Context, location, category, message string) {
	AddFlash(c, category, message)
	c.Redirect(http.StatusFound, location)
}
