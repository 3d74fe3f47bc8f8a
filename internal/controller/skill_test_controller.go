package controller

import (
	"errors"
	"fmt"
	"net/http"

	"softskill_backend/internal/model"
	"softskill_backend/internal/scoring"
	"softskill_backend/internal/service"
	"softskill_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SkillTestController struct {
	SkillTestService *service.SkillTestService
}

func NewSkillTestController(skillTestService *service.SkillTestService) *SkillTestController {
	return &SkillTestController{SkillTestService: skillTestService}
}

type SkillTestForm struct {
	TestName               string `form:"test_name" binding:"required,notblank,max=100"`
	CommunicationResponse  string `form:"communication_response" binding:"required,notblank,min=50,max=1000"`
	EmpathyResponse        string `form:"empathy_response" binding:"required,notblank,min=50,max=1000"`
	CollaborationResponse  string `form:"collaboration_response" binding:"required,notblank,min=50,max=1000"`
	LeadershipResponse     string `form:"leadership_response" binding:"required,notblank,min=50,max=1000"`
	ProblemSolvingResponse string `form:"problem_solving_response" binding:"required,notblank,min=50,max=1000"`
}

func (f *SkillTestForm) responses() scoring.Responses {
	return scoring.Responses{
		Communication:  f.CommunicationResponse,
		Empathy:        f.EmpathyResponse,
		Collaboration:  f.CollaborationResponse,
		Leadership:     f.LeadershipResponse,
		ProblemSolving: f.ProblemSolvingResponse,
	}
}

type prompt struct {
	Label       string
	Placeholder string
}

var skillPrompts = map[scoring.Skill]prompt{
	scoring.Communication: {
		Label:       "Communication: Describe a time when you had to explain a complex topic to someone. How did you ensure they understood?",
		Placeholder: "Share your experience with clear communication...",
	},
	scoring.Empathy: {
		Label:       "Empathy: Tell us about a situation where you had to understand and support someone going through a difficult time.",
		Placeholder: "Describe how you showed empathy and understanding...",
	},
	scoring.Collaboration: {
		Label:       "Collaboration: Describe a successful team project you were part of. What was your role and how did you contribute?",
		Placeholder: "Share your collaborative experience...",
	},
	scoring.Leadership: {
		Label:       "Leadership: Give an example of when you took initiative or led others towards a common goal.",
		Placeholder: "Describe your leadership experience...",
	},
	scoring.ProblemSolving: {
		Label:       "Problem Solving: Describe a challenging problem you faced and how you approached solving it.",
		Placeholder: "Explain your problem-solving approach...",
	},
}

type question struct {
	Field       string
	Label       string
	Placeholder string
	Value       string
	Errors      []string
}

func questions(form *SkillTestForm, errs util.FieldErrors) []question {
	answers := form.responses()
	out := make([]question, 0, len(scoring.Skills))
	for _, skill := range scoring.Skills {
		field := fmt.Sprintf("%s_response", skill)
		p := skillPrompts[skill]
		out = append(out, question{
			Field:       field,
			Label:       p.Label,
			Placeholder: p.Placeholder,
			Value:       answers.Get(skill),
			Errors:      errs[field],
		})
	}
	return out
}

func (c *SkillTestController) render(ctx *gin.Context, form *SkillTestForm, errs util.FieldErrors) {
	util.Render(ctx, http.StatusOK, "skill_test.html", gin.H{
		"title":     "Soft Skills Test",
		"form":      form,
		"errors":    errs,
		"questions": questions(form, errs),
	})
}

func (c *SkillTestController) ShowTest(ctx *gin.Context) {
	c.render(ctx, &SkillTestForm{TestName: model.DefaultTestName}, util.FieldErrors{})
}

func (c *SkillTestController) SubmitTest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	util.TrimFormFields(ctx, "test_name")
	var form SkillTestForm
	errs, err := util.BindForm(ctx, &form)
	if err != nil {
		util.RenderBadRequest(ctx, "The submitted form could not be read.")
		return
	}
	if len(errs) > 0 {
		c.render(ctx, &form, errs)
		return
	}

	test, err := c.SkillTestService.Submit(ctx.Request.Context(), service.SkillTestInput{
		UserID:    user.UserID,
		TestName:  form.TestName,
		Responses: form.responses(),
	})
	if err != nil {
		util.LogError(ctx, "Skill test submission failed", err, zap.Uint("user_id", user.UserID))
		util.RedirectWithFlash(ctx, "/skill_test", util.FlashDanger, "Error processing your test. Please try again.")
		return
	}

	util.RedirectWithFlash(ctx, fmt.Sprintf("/test_results/%d", test.ID),
		util.FlashSuccess, "Soft skills test completed successfully!")
}

// ShowResults renders a test owned by the caller. Other users' tests are reported as missing.
func (c *SkillTestController) ShowResults(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.RenderNotFound(ctx)
		return
	}

	result, err := c.SkillTestService.GetResult(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			util.RenderNotFound(ctx)
			return
		}
		util.LogError(ctx, "Failed to load test results", err, zap.Uint("test_id", id))
		util.RenderServerError(ctx)
		return
	}

	util.Render(ctx, http.StatusOK, "test_results.html", gin.H{
		"title":  "Test Results",
		"result": result,
	})
}
