package controller

import (
	"errors"
	"net/http"

	"softskill_backend/internal/config"
	"softskill_backend/internal/middleware"
	"softskill_backend/internal/model"
	"softskill_backend/internal/service"
	"softskill_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	AuthService *service.AuthService
	Cfg         *config.Config
}

func NewAuthController(authService *service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{
		AuthService: authService,
		Cfg:         cfg,
	}
}

type LoginForm struct {
	Username string `form:"username" binding:"required,notblank"`
	Password string `form:"password" binding:"required"`
}

type RegisterForm struct {
	Username  string `form:"username" binding:"required,notblank,min=4,max=20"`
	Email     string `form:"email" binding:"required,email"`
	Password  string `form:"password" binding:"required,min=6"`
	Password2 string `form:"password2" binding:"required,eqfield=Password"`
	Role      string `form:"role" binding:"omitempty,oneof=student admin"`
}

type roleOption struct {
	Value string
	Label string
}

func (c *AuthController) roleOptions() []roleOption {
	roles := c.AuthService.AllowedRoles()
	out := make([]roleOption, 0, len(roles))
	for _, r := range roles {
		label := "Student"
		if r == model.Admin {
			label = "Admin"
		}
		out = append(out, roleOption{Value: string(r), Label: label})
	}
	return out
}

func (c *AuthController) renderLogin(ctx *gin.Context, form *LoginForm, errs util.FieldErrors) {
	util.Render(ctx, http.StatusOK, "login.html", gin.H{
		"title":  "Sign In",
		"form":   form,
		"errors": errs,
		"next":   ctx.Query("next"),
	})
}

func (c *AuthController) ShowLogin(ctx *gin.Context) {
	c.renderLogin(ctx, &LoginForm{}, util.FieldErrors{})
}

func (c *AuthController) Login(ctx *gin.Context) {
	util.TrimFormFields(ctx, "username")
	var form LoginForm
	errs, err := util.BindForm(ctx, &form)
	if err != nil {
		util.RenderBadRequest(ctx, "The submitted form could not be read.")
		return
	}
	if len(errs) > 0 {
		form.Password = ""
		c.renderLogin(ctx, &form, errs)
		return
	}

	user, token, err := c.AuthService.Login(ctx.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			util.RedirectWithFlash(ctx, "/login", util.FlashDanger, "Invalid username or password")
			return
		}
		util.LogError(ctx, "Login failed", err)
		util.RenderServerError(ctx)
		return
	}

	middleware.SetSession(ctx, c.Cfg, token)
	util.RedirectWithFlash(ctx, util.SafeNext(ctx.Query("next"), "/dashboard"),
		util.FlashSuccess, "Welcome back, "+user.Username+"!")
}

func (c *AuthController) renderRegister(ctx *gin.Context, form *RegisterForm, errs util.FieldErrors) {
	form.Password, form.Password2 = "", ""
	util.Render(ctx, http.StatusOK, "register.html", gin.H{
		"title":  "Register",
		"form":   form,
		"errors": errs,
		"roles":  c.roleOptions(),
	})
}

func (c *AuthController) ShowRegister(ctx *gin.Context) {
	c.renderRegister(ctx, &RegisterForm{Role: string(model.Student)}, util.FieldErrors{})
}

func (c *AuthController) Register(ctx *gin.Context) {
	util.TrimFormFields(ctx, "username", "email")
	var form RegisterForm
	errs, err := util.BindForm(ctx, &form)
	if err != nil {
		util.RenderBadRequest(ctx, "The submitted form could not be read.")
		return
	}
	if form.Role == "" {
		form.Role = string(model.Student)
	}

	if !errs.Has("role") {
		allowed := false
		for _, r := range c.AuthService.AllowedRoles() {
			allowed = allowed || string(r) == form.Role
		}
		if !allowed {
			errs.Add("role", "Not a valid choice.")
		}
	}

	usernameErr, emailErr, err := c.AuthService.CheckAvailability(ctx.Request.Context(), form.Username, form.Email)
	if err != nil {
		util.LogError(ctx, "Availability check failed", err)
		util.RenderServerError(ctx)
		return
	}
	if usernameErr != nil && form.Username != "" {
		errs.Add("username", "Please use a different username.")
	}
	if emailErr != nil && form.Email != "" {
		errs.Add("email", "Please use a different email address.")
	}
	if len(errs) > 0 {
		c.renderRegister(ctx, &form, errs)
		return
	}

	_, err = c.AuthService.Register(ctx.Request.Context(), service.RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Role:     model.UserRole(form.Role),
	})
	switch {
	case err == nil:
		util.RedirectWithFlash(ctx, "/login", util.FlashSuccess, "Congratulations, you are now registered!")
	case errors.Is(err, service.ErrUsernameTaken):
		errs.Add("username", "Please use a different username.")
		c.renderRegister(ctx, &form, errs)
	case errors.Is(err, service.ErrEmailTaken):
		errs.Add("email", "Please use a different email address.")
		c.renderRegister(ctx, &form, errs)
	case errors.Is(err, service.ErrRoleNotAllowed):
		errs.Add("role", "Not a valid choice.")
		c.renderRegister(ctx, &form, errs)
	default:
		util.LogError(ctx, "Registration failed", err, zap.String("username", form.Username))
		util.RenderServerError(ctx)
	}
}

// Logout always drops the cookie. A revocation failure is logged but does not keep
// the user signed in on this browser.
func (c *AuthController) Logout(ctx *gin.Context) {
	if claims := util.GetUserFromContext(ctx); claims != nil {
		if err := c.AuthService.Logout(ctx.Request.Context(), claims); err != nil {
			util.LogError(ctx, "Token revocation failed", err, zap.Uint("user_id", claims.UserID))
		}
	}
	middleware.ClearSession(ctx, c.Cfg)
	util.RedirectWithFlash(ctx, "/index", util.FlashInfo, "You have been logged out.")
}
