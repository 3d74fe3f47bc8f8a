package controller

import (
	"net/http"

	"softskill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HomeController struct{}

func NewHomeController() *HomeController {
	return &HomeController{}
}

func (c *HomeController) Index(ctx *gin.Context) {
	util.Render(ctx, http.StatusOK, "index.html", gin.H{"title": "Home"})
}

// NotFound answers unmatched routes.
func (c *HomeController) NotFound(ctx *gin.Context) {
	util.RenderNotFound(ctx)
}
