package views

import (
	"context"
	"errors"
	"strings"

	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/client/state"
)

const (
	msgProfileSaved     = "Profile saved successfully!"
	msgProfileSaveError = "Error saving profile. Please try again."
)

type Profile struct {
	deps      Deps
	nav       Navigator
	presenter ProfilePresenter
	guard     inflight
	unsubs    []func()
}

func NewProfile(deps Deps, nav Navigator, presenter ProfilePresenter) *Profile {
	deps.Logger = deps.Logger.With("component", "profile")
	p := &Profile{deps: deps, nav: nav, presenter: presenter}
	p.unsubs = append(p.unsubs, state.Subscribe(deps.Store, state.TopicProfile, func(pr *models.Profile) error {
		if pr != nil {
			p.presenter.ShowProfile(models.FormFromProfile(pr))
		}
		return nil
	}))
	nav.RegisterLoader(SectionProfile, p.PopulateFromState)
	return p
}

// SubmitProfile creates the user's profile, or replaces it wholesale when
// one is already saved.
func (p *Profile) SubmitProfile(ctx context.Context, form models.ProfileForm) error {
	if err := requireAuth(ctx, p.deps, p.nav); err != nil {
		return err
	}
	store := p.deps.Store
	user := store.CurrentUser()

	in := form.Input(user.ID)
	if problems := models.ProfileProblems(in); len(problems) > 0 {
		msg := strings.Join(problems, ". ")
		p.deps.Alerts.Alert(AlertError, msg)
		return &ValidationError{Message: msg}
	}

	done, err := p.guard.start(ctx, p.deps, "save")
	if err != nil {
		return err
	}
	defer done()

	defer loading(ctx, store, "Saving profile...")()

	var saved *models.Profile
	if existing := store.CurrentProfile(); existing.HasID() {
		saved, err = p.deps.API.UpdateProfile(ctx, existing.ID, in)
	} else {
		saved, err = p.deps.API.CreateProfile(ctx, in)
	}
	if err == nil && saved == nil {
		err = errors.New("save profile: empty response")
	}
	if err != nil {
		p.deps.Logger.Error(ctx, "failed to save profile", "user_id", user.ID, "error", err)
		p.deps.Alerts.Alert(AlertError, msgProfileSaveError)
		return err
	}

	store.SetCurrentProfile(ctx, saved)
	p.deps.Logger.Info(ctx, "profile saved", "profile_id", saved.ID, "user_id", user.ID)
	p.deps.Alerts.Alert(AlertSuccess, msgProfileSaved)
	return nil
}

// PopulateFromState shows the held profile, if any.
func (p *Profile) PopulateFromState(_ context.Context) {
	if pr := p.deps.Store.CurrentProfile(); pr != nil {
		p.presenter.ShowProfile(models.FormFromProfile(pr))
	}
}

// Form returns the held profile as a form, or an empty form.
func (p *Profile) Form() models.ProfileForm {
	return models.FormFromProfile(p.deps.Store.CurrentProfile())
}

func (p *Profile) Close() { unsubscribeAll(p.unsubs) }
