package util

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie   = "flash"
	flashQueueKey = "flash_queue"
)

type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// queue returns the flashes not yet shown: those carried in by the request cookie
// followed by the ones added during this request.
func queue(c *gin.Context) []Flash {
	if v, ok := c.Get(flashQueueKey); ok {
		return v.([]Flash)
	}
	var flashes []Flash
	if v, err := c.Cookie(flashCookie); err == nil && v != "" {
		if raw, err := base64.RawURLEncoding.DecodeString(v); err == nil {
			_ = json.Unmarshal(raw, &flashes)
		}
	}
	c.Set(flashQueueKey, flashes)
	return flashes
}

// AddFlash queues a message for the next rendered page, which may be in this
// response or after a redirect.
func AddFlash(c *gin.Context, category, message string) {
	flashes := append(queue(c), Flash{Category: category, Message: message})
	c.Set(flashQueueKey, flashes)

	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	setCookie(c, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns every queued flash and expires the cookie.
func PopFlashes(c *gin.Context) []Flash {
	flashes := queue(c)
	c.Set(flashQueueKey, []Flash{})

	_, err := c.Cookie(flashCookie)
	if err == nil || len(flashes) > 0 {
		setCookie(c, &http.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

// setCookie replaces any Set-Cookie header already written for the same name.
func setCookie(c *gin.Context, cookie *http.Cookie) {
	h := c.Writer.Header()
	prefix := cookie.Name + "="
	var kept []string
	for _, v := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
	http.SetCookie(c.Writer, cookie)
}
