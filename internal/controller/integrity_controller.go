package controller

import (
	"net/http"

	"softskill_backend/internal/service"
	"softskill_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IntegrityController struct {
	IntegrityService *service.IntegrityService
}

func NewIntegrityController(integrityService *service.IntegrityService) *IntegrityController {
	return &IntegrityController{IntegrityService: integrityService}
}

type IntegrityForm struct {
	Content string `form:"content" binding:"required,notblank,min=50,max=5000"`
}

func (c *IntegrityController) render(ctx *gin.Context, data gin.H) {
	data["title"] = "AI Integrity Checker"
	if _, ok := data["errors"]; !ok {
		data["errors"] = util.FieldErrors{}
	}
	util.Render(ctx, http.StatusOK, "integrity_checker.html", data)
}

func (c *IntegrityController) ShowChecker(ctx *gin.Context) {
	c.render(ctx, gin.H{"form": &IntegrityForm{}})
}

// Check analyzes the submitted text. Both outcomes re-render the page: a fresh form
// with the analysis on success, the user's input on failure.
func (c *IntegrityController) Check(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var form IntegrityForm
	errs, err := util.BindForm(ctx, &form)
	if err != nil {
		util.RenderBadRequest(ctx, "The submitted form could not be read.")
		return
	}
	if len(errs) > 0 {
		c.render(ctx, gin.H{"form": &form, "errors": errs})
		return
	}

	result, err := c.IntegrityService.Check(ctx.Request.Context(), user.UserID, form.Content)
	if err != nil {
		util.LogError(ctx, "Integrity check failed", err, zap.Uint("user_id", user.UserID))
		util.AddFlash(ctx, util.FlashDanger, "Error analyzing content. Please try again.")
		c.render(ctx, gin.H{"form": &form})
		return
	}

	util.AddFlash(ctx, util.FlashSuccess, "Content analysis completed!")
	c.render(ctx, gin.H{
		"form":       &IntegrityForm{},
		"submission": result.Submission,
		"analysis":   result.Analysis,
	})
}
