package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/covyhq/covy/internal/client/export"
	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/client/state"
)

const (
	msgProfileFirst      = "Please save your CV profile first before generating a cover letter."
	msgRequiredFields    = "Please fill in all required fields."
	msgGenerated         = "Cover letter generated successfully!"
	msgGenerateError     = "Error generating cover letter. Please try again."
	msgHistoryError      = "Error loading cover letter history."
	msgLoadLetterError   = "Error loading cover letter."
	msgConfirmDelete     = "Are you sure you want to delete this cover letter?"
	msgDeleted           = "Cover letter deleted successfully!"
	msgDeleteError       = "Error deleting cover letter."
	msgNoLetter          = "No cover letter selected."
	msgEmptyContent      = "Cover letter content cannot be empty."
	msgUpdated           = "Cover letter updated successfully!"
	msgUpdateError       = "Error saving cover letter. Please try again."
	msgExportError       = "Error exporting cover letter."
	msgNoExportTargetSet = "Export is not configured."
)

// GenerateForm is the input of a generation request.
type GenerateForm struct {
	JobTitle       string
	CompanyName    string
	JobDescription string
}

type CoverLetter struct {
	deps      Deps
	nav       Navigator
	presenter CoverLetterPresenter
	exporter  export.Exporter
	guard     inflight
	unsubs    []func()
}

// NewCoverLetter builds the component. exporter may be nil, in which case
// ExportLetter is refused.
func NewCoverLetter(deps Deps, nav Navigator, presenter CoverLetterPresenter, exporter export.Exporter) *CoverLetter {
	deps.Logger = deps.Logger.With("component", "cover_letter")
	c := &CoverLetter{deps: deps, nav: nav, presenter: presenter, exporter: exporter}

	c.unsubs = append(c.unsubs,
		state.Subscribe(deps.Store, state.TopicCoverLetter, func(cl *models.CoverLetter) error {
			if cl != nil {
				c.presenter.FillGenerateForm(GenerateForm{
					JobTitle:       cl.JobTitle,
					CompanyName:    cl.CompanyName,
					JobDescription: cl.JobDescription,
				})
				c.presenter.ShowCoverLetter(*cl)
			}
			return nil
		}),
		state.Subscribe(deps.Store, state.TopicHistory, func(items []models.CoverLetter) error {
			if c.deps.Store.IsUserLoggedIn() {
				c.presenter.ShowHistory(items)
			}
			return nil
		}),
	)
	nav.RegisterLoader(SectionHistory, func(ctx context.Context) { _ = c.LoadHistory(ctx) })
	return c
}

// Generate asks the server for a new letter. It needs a logged-in user
// with a saved profile and makes no request otherwise.
func (c *CoverLetter) Generate(ctx context.Context, f GenerateForm) error {
	if err := requireAuth(ctx, c.deps, c.nav); err != nil {
		return err
	}
	store := c.deps.Store
	if !store.HasValidProfile() {
		c.deps.Alerts.Alert(AlertError, msgProfileFirst)
		c.nav.ShowSection(ctx, SectionProfile)
		return ErrProfileRequired
	}

	f = GenerateForm{
		JobTitle:       strings.TrimSpace(f.JobTitle),
		CompanyName:    strings.TrimSpace(f.CompanyName),
		JobDescription: strings.TrimSpace(f.JobDescription),
	}
	if f.JobTitle == "" || f.CompanyName == "" || f.JobDescription == "" {
		c.deps.Alerts.Alert(AlertError, msgRequiredFields)
		return &ValidationError{Message: msgRequiredFields}
	}

	done, err := c.guard.start(ctx, c.deps, "generate")
	if err != nil {
		return err
	}
	defer done()

	defer loading(ctx, store, "Generating cover letter...")()

	user := store.CurrentUser()
	letter, err := c.deps.API.GenerateCoverLetter(ctx, models.GenerateRequest{
		UserID:         user.ID,
		JobTitle:       f.JobTitle,
		CompanyName:    f.CompanyName,
		JobDescription: f.JobDescription,
		Title:          models.LetterTitle(f.JobTitle, f.CompanyName),
	})
	if err == nil && letter == nil {
		err = errors.New("generate: empty response")
	}
	if err != nil {
		c.deps.Logger.Error(ctx, "failed to generate cover letter", "user_id", user.ID, "error", err)
		c.deps.Alerts.Alert(AlertError, msgGenerateError)
		return err
	}

	store.SetCurrentCoverLetter(ctx, letter)
	c.deps.Logger.Info(ctx, "cover letter generated", "letter_id", letter.ID)
	c.deps.Alerts.Alert(AlertSuccess, msgGenerated)
	return nil
}

// LoadHistory fetches the user's letters. It does nothing until the user
// has a server-assigned id.
func (c *CoverLetter) LoadHistory(ctx context.Context) error {
	store := c.deps.Store
	if !store.HasValidUser() {
		return nil
	}

	defer loading(ctx, store, "Loading cover letter history...")()

	user := store.CurrentUser()
	list, err := c.deps.API.ListUserCoverLetters(ctx, user.ID)
	if err != nil {
		c.deps.Logger.Error(ctx, "failed to load history", "user_id", user.ID, "error", err)
		c.deps.Alerts.Alert(AlertError, msgHistoryError)
		return err
	}

	items := []models.CoverLetter{}
	if list != nil && list.Items != nil {
		items = list.Items
	}
	store.SetCoverLetterHistory(ctx, items)
	return nil
}

// ViewLetter loads a letter and switches to the generate section, where
// the form shows its job data.
func (c *CoverLetter) ViewLetter(ctx context.Context, id int64) error {
	if err := requireAuth(ctx, c.deps, c.nav); err != nil {
		return err
	}

	defer loading(ctx, c.deps.Store, "Loading cover letter...")()

	letter, err := c.deps.API.GetCoverLetter(ctx, id)
	if err == nil && letter == nil {
		err = fmt.Errorf("cover letter %d: empty response", id)
	}
	if err != nil {
		c.deps.Logger.Error(ctx, "failed to load cover letter", "letter_id", id, "error", err)
		c.deps.Alerts.Alert(AlertError, msgLoadLetterError)
		return err
	}

	c.deps.Store.SetCurrentCoverLetter(ctx, letter)
	c.nav.ShowSection(ctx, SectionGenerate)
	return nil
}

// DeleteLetter removes a letter after confirmation and reloads the history.
func (c *CoverLetter) DeleteLetter(ctx context.Context, id int64) error {
	if err := requireAuth(ctx, c.deps, c.nav); err != nil {
		return err
	}
	if !c.deps.Confirm.Confirm(ctx, msgConfirmDelete) {
		return ErrCancelled
	}

	done, err := c.guard.start(ctx, c.deps, fmt.Sprintf("delete:%d", id))
	if err != nil {
		return err
	}
	defer done()

	if err := c.deleteLetter(ctx, id); err != nil {
		c.deps.Logger.Error(ctx, "failed to delete cover letter", "letter_id", id, "error", err)
		c.deps.Alerts.Alert(AlertError, msgDeleteError)
		return err
	}

	store := c.deps.Store
	if cur := store.CurrentCoverLetter(); cur != nil && cur.ID == id {
		store.SetCurrentCoverLetter(ctx, nil)
	}
	c.deps.Logger.Info(ctx, "cover letter deleted", "letter_id", id)
	c.deps.Alerts.Alert(AlertSuccess, msgDeleted)

	_ = c.LoadHistory(ctx)
	return nil
}

func (c *CoverLetter) deleteLetter(ctx context.Context, id int64) error {
	defer loading(ctx, c.deps.Store, "Deleting cover letter...")()
	return c.deps.API.DeleteCoverLetter(ctx, id)
}

// UpdateLetter replaces the content of the letter on display.
func (c *CoverLetter) UpdateLetter(ctx context.Context, content string) error {
	if err := requireAuth(ctx, c.deps, c.nav); err != nil {
		return err
	}
	store := c.deps.Store
	current := store.CurrentCoverLetter()
	if current == nil || current.ID == 0 {
		c.deps.Alerts.Alert(AlertError, msgNoLetter)
		return ErrNoCoverLetter
	}

	content = strings.TrimSpace(content)
	if content == "" {
		c.deps.Alerts.Alert(AlertError, msgEmptyContent)
		return &ValidationError{Message: msgEmptyContent}
	}
	if utf8.RuneCountInString(content) > models.MaxCoverLetterContent {
		msg := fmt.Sprintf("Cover letter content must be at most %d characters.", models.MaxCoverLetterContent)
		c.deps.Alerts.Alert(AlertError, msg)
		return &ValidationError{Message: msg}
	}

	done, err := c.guard.start(ctx, c.deps, "update")
	if err != nil {
		return err
	}
	defer done()

	defer loading(ctx, store, "Saving cover letter...")()

	updated, err := c.deps.API.UpdateCoverLetter(ctx, current.ID, models.CoverLetterUpdate{Content: &content})
	if err == nil && updated == nil {
		err = errors.New("update cover letter: empty response")
	}
	if err != nil {
		c.deps.Logger.Error(ctx, "failed to update cover letter", "letter_id", current.ID, "error", err)
		c.deps.Alerts.Alert(AlertError, msgUpdateError)
		return err
	}

	store.SetCurrentCoverLetter(ctx, updated)
	c.deps.Alerts.Alert(AlertSuccess, msgUpdated)
	return nil
}

// ExportLetter writes the letter on display to the export target and
// returns its location.
func (c *CoverLetter) ExportLetter(ctx context.Context) (string, error) {
	if err := requireAuth(ctx, c.deps, c.nav); err != nil {
		return "", err
	}
	current := c.deps.Store.CurrentCoverLetter()
	if current == nil {
		c.deps.Alerts.Alert(AlertError, msgNoLetter)
		return "", ErrNoCoverLetter
	}
	if c.exporter == nil {
		c.deps.Alerts.Alert(AlertError, msgNoExportTargetSet)
		return "", export.ErrUnknownTarget
	}

	done, err := c.guard.start(ctx, c.deps, "export")
	if err != nil {
		return "", err
	}
	defer done()

	defer loading(ctx, c.deps.Store, "Exporting cover letter...")()

	location, err := c.exporter.Export(ctx, *current)
	if err != nil {
		c.deps.Logger.Error(ctx, "failed to export cover letter", "letter_id", current.ID, "error", err)
		c.deps.Alerts.Alert(AlertError, msgExportError)
		return "", err
	}

	c.deps.Logger.Info(ctx, "cover letter exported", "letter_id", current.ID, "location", location)
	c.deps.Alerts.Alert(AlertSuccess, "Cover letter exported to "+location)
	return location, nil
}

func (c *CoverLetter) Close() { unsubscribeAll(c.unsubs) }
