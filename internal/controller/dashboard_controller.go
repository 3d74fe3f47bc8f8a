package controller

import (
	"net/http"

	"softskill_backend/internal/service"
	"softskill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	dashboard, err := c.DashboardService.GetUserDashboard(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogError(ctx, "Failed to load dashboard", err)
		util.RenderServerError(ctx)
		return
	}

	util.Render(ctx, http.StatusOK, "dashboard.html", gin.H{
		"title":     "Dashboard",
		"dashboard": dashboard,
	})
}
