package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"questrpg/internal/notify"
	"questrpg/pkg/models"
	"questrpg/pkg/utils"
)

// Session persists the credential and user snapshot.
type Session interface {
	Save(ctx context.Context, tok *models.TokenResponse) error
	Logout(ctx context.Context) error
}

// Auth signs the user in and out on top of a Service.
type Auth struct {
	svc     *Service
	session Session
}

// NewAuth creates the authentication flow for svc.
func NewAuth(svc *Service, session Session) *Auth {
	return &Auth{svc: svc, session: session}
}

// Login exchanges credentials for a token and stores the session. Cached
// views of any previous user are dropped.
func (a *Auth) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, models.NewValidationError("password", "password is required")
	}

	tok, err := a.svc.backend.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		// a 401 here means bad credentials, not an expired session
		if errors.Is(err, models.ErrUnauthorized) {
			a.svc.notify(notify.LevelError, models.UserMessage(err, "Invalid email or password"))
		} else {
			a.svc.fail("login", err, "Login failed")
		}
		return nil, err
	}
	return a.start(ctx, tok)
}

// Register creates an account and signs in with it.
func (a *Auth) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	for _, err := range []error{
		utils.ValidateUsername(req.Username),
		utils.ValidateEmail(req.Email),
		utils.ValidatePassword(req.Password),
	} {
		if err != nil {
			return nil, err
		}
	}

	tok, err := a.svc.backend.Register(ctx, req)
	if err != nil {
		a.svc.fail("register", err, "Registration failed")
		return nil, err
	}
	return a.start(ctx, tok)
}

func (a *Auth) start(ctx context.Context, tok *models.TokenResponse) (*models.User, error) {
	if err := a.session.Save(ctx, tok); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.svc.Reset()
	user := tok.User
	a.svc.notify(notify.LevelSuccess, "Welcome back, %s!", user.Username)
	return &user, nil
}

// Logout clears the stored session and every cached view.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.svc.Reset()
	return nil
}

// Me returns the signed-in user from the backend.
func (a *Auth) Me(ctx context.Context) (*models.User, error) {
	return a.svc.backend.Me(ctx)
}

// Onboard stores the goal categories that pick the user's daily quests.
func (a *Auth) Onboard(ctx context.Context, categories []string) (*models.User, error) {
	if len(categories) == 0 {
		return nil, models.NewValidationError("goal_categories", "pick at least one category")
	}
	for _, c := range categories {
		if !models.IsGoalCategory(c) {
			return nil, models.NewValidationError("goal_categories", "category must be one of "+strings.Join(models.GoalCategories, ", "))
		}
	}
	u, err := a.svc.backend.Onboard(ctx, models.OnboardingRequest{GoalCategories: categories})
	if err != nil {
		a.svc.fail("onboarding", err, "Onboarding failed")
		return nil, err
	}
	a.svc.store.Invalidate(KeyProfile, KeyTodayRun)
	return u, nil
}
