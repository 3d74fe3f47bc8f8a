package controller

import (
	"fmt"
	"net/http"

	"softskill_backend/internal/service"
	"softskill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminController struct {
	AdminService  *service.AdminService
	ExportService *service.ExportService
}

func NewAdminController(adminService *service.AdminService, exportService *service.ExportService) *AdminController {
	return &AdminController{
		AdminService:  adminService,
		ExportService: exportService,
	}
}

func (c *AdminController) ShowPanel(ctx *gin.Context) {
	stats, err := c.AdminService.GetStats(ctx.Request.Context())
	if err != nil {
		util.LogError(ctx, "Failed to load admin stats", err)
		util.RenderServerError(ctx)
		return
	}

	util.Render(ctx, http.StatusOK, "admin_panel.html", gin.H{
		"title": "Admin Panel",
		"stats": stats,
	})
}

func (c *AdminController) Export(ctx *gin.Context) {
	buf, filename, err := c.ExportService.ExportReport(ctx.Request.Context())
	if err != nil {
		util.LogError(ctx, "Export failed", err)
		util.RedirectWithFlash(ctx, "/admin_panel", util.FlashDanger, "Export failed. Please try again.")
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
