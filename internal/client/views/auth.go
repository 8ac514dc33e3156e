package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/client/state"
)

const (
	msgAuthFailed       = "Authentication failed. Please try again."
	msgIdentityConflict = "Name does not match the email address in our records."
	msgLoggedOut        = "Logged out successfully."
	msgConfirmLogout    = "Are you sure you want to logout?"
)

// Auth owns login and logout. Login finds the user by email or creates a
// new account, then loads the user's profile.
type Auth struct {
	deps      Deps
	nav       Navigator
	presenter AuthPresenter
	guard     inflight
	unsubs    []func()
}

func NewAuth(deps Deps, nav Navigator, presenter AuthPresenter) *Auth {
	deps.Logger = deps.Logger.With("component", "auth")
	a := &Auth{deps: deps, nav: nav, presenter: presenter}
	a.unsubs = append(a.unsubs, state.Subscribe(deps.Store, state.TopicUser, func(u *models.User) error {
		if u != nil {
			a.presenter.ShowUser(*u)
		}
		return nil
	}))
	return a
}

// SubmitLogin authenticates name and email. An existing account whose name
// differs (ignoring case) is an identity conflict, not an update.
func (a *Auth) SubmitLogin(ctx context.Context, name, email string) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)

	if problem := models.LoginProblem(name, email); problem != "" {
		a.deps.Alerts.Alert(AlertError, problem)
		return &ValidationError{Message: problem}
	}

	done, err := a.guard.start(ctx, a.deps, "login")
	if err != nil {
		return err
	}
	defer done()

	defer loading(ctx, a.deps.Store, "Authenticating...")()

	user, created, err := a.findOrCreateUser(ctx, name, email)
	if err != nil {
		a.deps.Logger.Warn(ctx, "login failed", "email", email, "error", err)
		if errors.Is(err, ErrIdentityConflict) {
			a.deps.Alerts.Alert(AlertError, msgIdentityConflict)
		} else {
			a.deps.Alerts.Alert(AlertError, msgAuthFailed)
		}
		return err
	}

	a.completeLogin(ctx, user)

	a.deps.Logger.Info(ctx, "logged in", "user_id", user.ID, "created", created)
	if created {
		a.deps.Alerts.Alert(AlertSuccess, fmt.Sprintf("Welcome to Covy, %s!", user.Name))
	} else {
		a.deps.Alerts.Alert(AlertSuccess, fmt.Sprintf("Welcome back, %s!", user.Name))
	}
	return nil
}

func (a *Auth) findOrCreateUser(ctx context.Context, name, email string) (*models.User, bool, error) {
	users, err := a.deps.API.ListUsers(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("look up user: %w", err)
	}

	for _, u := range users {
		if !foldEqual(u.Email, email) {
			continue
		}
		if !foldEqual(u.Name, name) {
			return nil, false, ErrIdentityConflict
		}
		return &u, false, nil
	}

	created, err := a.deps.API.CreateUser(ctx, models.UserInput{Name: name, Email: email})
	if err != nil {
		return nil, false, fmt.Errorf("create account: %w", err)
	}
	if created == nil {
		return nil, false, errors.New("create account: empty response")
	}
	return created, true, nil
}

// completeLogin installs the user, drops anything left from a previous
// session and loads the user's profile.
func (a *Auth) completeLogin(ctx context.Context, user *models.User) {
	store := a.deps.Store
	store.SetCurrentUser(ctx, user)
	store.SetCurrentCoverLetter(ctx, nil)
	store.SetCoverLetterHistory(ctx, nil)

	profile, err := a.deps.API.GetUserProfile(ctx, user.ID)
	if err != nil {
		a.deps.Logger.Debug(ctx, "no existing profile", "user_id", user.ID, "error", err)
		profile = nil
	}
	store.SetCurrentProfile(ctx, profile)

	a.nav.ShowSection(ctx, SectionProfile)
}

// Logout asks for confirmation, then clears the session.
func (a *Auth) Logout(ctx context.Context) error {
	if !a.deps.Confirm.Confirm(ctx, msgConfirmLogout) {
		return ErrCancelled
	}

	a.deps.Store.ClearUserSession(ctx)
	a.presenter.ClearForms()
	a.nav.ShowSection(ctx, SectionLogin)

	a.deps.Logger.Info(ctx, "logged out")
	a.deps.Alerts.Alert(AlertInfo, msgLoggedOut)
	return nil
}

// RequireAuthentication reports whether a user is logged in, redirecting
// to login with a notice when not.
func (a *Auth) RequireAuthentication(ctx context.Context) bool {
	return requireAuth(ctx, a.deps, a.nav) == nil
}

type AuthState string

const (
	StateAnonymous      AuthState = "anonymous"
	StateAuthenticating AuthState = "authenticating"
	StateAuthenticated  AuthState = "authenticated"
)

func (a *Auth) State() AuthState {
	switch {
	case a.guard.active("login"):
		return StateAuthenticating
	case a.deps.Store.IsUserLoggedIn():
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

func (a *Auth) Close() { unsubscribeAll(a.unsubs) }

func foldEqual(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}
