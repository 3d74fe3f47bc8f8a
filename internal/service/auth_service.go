package service

import (
	"context"
	"errors"
	"fmt"

	"softskill_backend/internal/config"
	"softskill_backend/internal/model"
	"softskill_backend/internal/repository"
	"softskill_backend/internal/util"
	"softskill_backend/pkg/logger"
	"softskill_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRoleNotAllowed     = errors.New("role not allowed")
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     model.UserRole
}

type AuthService struct {
	UserRepo  *repository.UserRepository
	Blacklist TokenBlacklist
	Cfg       *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, blacklist TokenBlacklist, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:  userRepo,
		Blacklist: blacklist,
		Cfg:       cfg,
	}
}

// AllowedRoles lists the roles a visitor may pick on the registration form.
func (s *AuthService) AllowedRoles() []model.UserRole {
	if s.Cfg.Auth.AllowAdminRegistration {
		return []model.UserRole{model.Student, model.Admin}
	}
	return []model.UserRole{model.Student}
}

func (s *AuthService) roleAllowed(role model.UserRole) bool {
	for _, r := range s.AllowedRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// CheckAvailability reports which of username and email are already in use. Both are
// checked so the form can show every conflict at once.
func (s *AuthService) CheckAvailability(ctx context.Context, username, email string) (usernameErr, emailErr error, err error) {
	taken, err := s.UserRepo.UsernameTaken(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		usernameErr = ErrUsernameTaken
	}
	taken, err = s.UserRepo.EmailTaken(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		emailErr = ErrEmailTaken
	}
	return usernameErr, emailErr, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	ctx, span := tracing.Tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	if in.Role == "" {
		in.Role = model.Student
	}
	if !in.Role.Valid() || !s.roleAllowed(in.Role) {
		return nil, ErrRoleNotAllowed
	}

	usernameErr, emailErr, err := s.CheckAvailability(ctx, in.Username, in.Email)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if usernameErr != nil {
		return nil, usernameErr
	}
	if emailErr != nil {
		return nil, emailErr
	}

	user := &model.User{
		Username: in.Username,
		Email:    in.Email,
		Role:     in.Role,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent registration
			return nil, s.duplicateCause(ctx, in.Username, in.Email)
		}
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	span.SetAttributes(attribute.Int("user.id", int(user.ID)), attribute.String("user.role", string(user.Role)))
	logger.Log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login verifies the credentials and issues a signed session token.
func (s *AuthService) duplicateCause(ctx context.Context, username, email string) error {
	usernameErr, emailErr, err := s.CheckAvailability(ctx, username, email)
	switch {
	case err != nil:
		return err
	case emailErr != nil && usernameErr == nil:
		return emailErr
	default:
		return ErrUsernameTaken
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	ctx, span := tracing.Tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		tracing.RecordError(span, err)
		return nil, "", err
	}
	if !user.CheckPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes the session behind claims. Nil claims are a no-op.
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil {
		return nil
	}
	return s.Blacklist.Revoke(ctx, claims.ID, claims.TTL())
}

// Authenticate parses a session token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	revoked, err := s.Blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, util.ErrInvalidToken
	}

	// role changes made after login apply to the live session
	user, err := s.UserRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.ErrInvalidToken
		}
		return nil, err
	}
	claims.Username = user.Username
	claims.Role = user.Role
	return claims, nil
}
