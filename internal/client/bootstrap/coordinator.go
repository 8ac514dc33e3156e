package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"

	"github.com/covyhq/covy/internal/client/client"
	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/client/state"
	"github.com/covyhq/covy/internal/client/views"
	"github.com/covyhq/covy/internal/logging"
)

const (
	msgUnexpected   = "An unexpected error occurred. Please try again."
	msgConfirmReset = "This will reset the entire application. Are you sure?"
	msgReset        = "Application reset successfully."
)

var (
	ErrMissingComponents = errors.New("missing required components")
	ErrPanic             = errors.New("command panicked")
)

// MissingComponentsError names every component absent from Components.
type MissingComponentsError struct {
	Names []string
}

func (e *MissingComponentsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingComponents, strings.Join(e.Names, ", "))
}

func (e *MissingComponentsError) Is(target error) bool { return target == ErrMissingComponents }

// Purger wipes local storage beyond the session snapshot.
type Purger interface {
	Purge(ctx context.Context)
}

// Components are the parts the coordinator starts. Storage is optional.
type Components struct {
	Store       *state.Store
	API         client.Client
	Alerts      views.Alerter
	Confirm     views.Confirmer
	Navigation  *views.Navigation
	Auth        *views.Auth
	Profile     *views.Profile
	CoverLetter *views.CoverLetter
	Logger      logging.Logger
	Storage     Purger
}

func (c Components) missing() []string {
	checks := []struct {
		name    string
		present bool
	}{
		{"store", c.Store != nil},
		{"api", !isNil(c.API)},
		{"alerts", !isNil(c.Alerts)},
		{"confirm", !isNil(c.Confirm)},
		{"navigation", c.Navigation != nil},
		{"auth", c.Auth != nil},
		{"profile", c.Profile != nil},
		{"coverLetter", c.CoverLetter != nil},
		{"logger", !isNil(c.Logger)},
	}

	var names []string
	for _, chk := range checks {
		if !chk.present {
			names = append(names, chk.name)
		}
	}
	return names
}

// isNil also catches an interface holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

type Coordinator struct {
	c      Components
	logger logging.Logger
	unsubs []func()
}

// New checks that every component is present.
func New(c Components) (*Coordinator, error) {
	if names := c.missing(); len(names) > 0 {
		return nil, &MissingComponentsError{Names: names}
	}
	return &Coordinator{c: c, logger: c.Logger.With("component", "bootstrap")}, nil
}

// Start installs the loading handler and performs the initial navigation.
func (co *Coordinator) Start(ctx context.Context) {
	co.logger.Info(ctx, "initializing")

	co.unsubs = append(co.unsubs, state.Subscribe(co.c.Store, state.TopicLoading, func(ls models.LoadingState) error {
		if ls.IsLoading {
			co.logger.Debug(ctx, "loading", "message", ls.Message)
		}
		return nil
	}))

	co.initialNavigation(ctx)
	co.logger.Info(ctx, "initialized")
}

func (co *Coordinator) initialNavigation(ctx context.Context) {
	store := co.c.Store

	switch {
	case store.IsUserLoggedIn() && store.HasValidUser():
		user := store.CurrentUser()
		co.logger.Info(ctx, "restoring session", "user_id", user.ID)
		store.Republish(ctx)
		co.c.Navigation.ShowSection(ctx, views.SectionProfile)
		co.c.Alerts.Alert(views.AlertSuccess, fmt.Sprintf("Welcome back, %s!", user.Name))

	case store.IsUserLoggedIn():
		co.logger.Warn(ctx, "invalid session found, clearing")
		store.ClearUserSession(ctx)
		co.c.Navigation.ShowSection(ctx, views.SectionLogin)

	default:
		co.logger.Debug(ctx, "no existing session")
		co.c.Navigation.RefreshMenu()
		co.c.Navigation.ShowSection(ctx, views.SectionLogin)
	}
}

// Guard runs fn, turning a panic into a logged error and the generic
// notice. Errors returned by fn are passed through untouched; components
// have already reported them.
func (co *Coordinator) Guard(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			co.logger.Error(ctx, "unhandled panic", "panic", r, "stack", string(debug.Stack()))
			co.c.Alerts.Alert(views.AlertError, msgUnexpected)
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(ctx)
}

// Reset clears all session data after confirmation, and wipes local
// storage when Storage is set.
func (co *Coordinator) Reset(ctx context.Context) error {
	if !co.c.Confirm.Confirm(ctx, msgConfirmReset) {
		return views.ErrCancelled
	}
	co.c.Store.ClearUserSession(ctx)
	if !isNil(co.c.Storage) {
		co.c.Storage.Purge(ctx)
	}
	co.c.Navigation.ShowSection(ctx, views.SectionLogin)
	co.logger.Info(ctx, "application reset")
	co.c.Alerts.Alert(views.AlertInfo, msgReset)
	return nil
}

// Snapshot returns everything the store holds, for debugging.
func (co *Coordinator) Snapshot() state.AppState {
	return co.c.Store.State()
}

// Close detaches every component from the store and releases the API
// client.
func (co *Coordinator) Close() error {
	for _, u := range co.unsubs {
		u()
	}
	co.unsubs = nil

	co.c.CoverLetter.Close()
	co.c.Profile.Close()
	co.c.Auth.Close()
	co.c.Navigation.Close()
	return co.c.API.Close()
}
