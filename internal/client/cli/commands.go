package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/client/views"
)

// Guard runs a command, turning a panic into the generic notice.
func (a *App) Guard(ctx context.Context, fn func(context.Context) error) error {
	return a.coord.Guard(ctx, fn)
}

// Login prompts for a name and an email and signs in, creating the account
// when the email is new.
func (a *App) Login(ctx context.Context) error {
	a.nav.ShowSection(ctx, views.SectionLogin)

	name, err := GetSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	return a.auth.SubmitLogin(ctx, name, email)
}

func (a *App) Logout(ctx context.Context) error {
	return a.auth.Logout(ctx)
}

// EditProfile walks through the profile form. Empty answers keep the
// current values; saved section entries are kept unless the user chooses
// to replace them.
func (a *App) EditProfile(ctx context.Context) error {
	if !a.nav.ShowSection(ctx, views.SectionProfile) {
		return views.ErrNotAuthenticated
	}
	form := a.profile.Form()

	var err error
	if form.Phone, err = GetWithDefault(a.reader, "Phone", form.Phone, a.out); err != nil {
		return err
	}
	if form.Summary, err = GetWithDefault(a.reader, "Professional summary", form.Summary, a.out); err != nil {
		return err
	}
	if form.Skills, err = GetWithDefault(a.reader, "Skills (comma-separated)", form.Skills, a.out); err != nil {
		return err
	}

	sections := []struct {
		kind   models.SectionKind
		groups *[]models.FieldGroup
	}{
		{models.SectionExperience, &form.Experience},
		{models.SectionProjects, &form.Projects},
		{models.SectionEducation, &form.Education},
	}
	for _, s := range sections {
		if len(*s.groups) > 0 {
			replace, err := GetYesNo(a.reader, fmt.Sprintf("Replace the %d saved %s entries?", len(*s.groups), s.kind), a.out)
			if err != nil {
				return err
			}
			if !replace {
				continue
			}
		}
		groups, err := GetFieldGroups(a.reader, s.kind, a.out)
		if err != nil {
			return err
		}
		*s.groups = groups
	}

	return a.profile.SubmitProfile(ctx, form)
}

// Show draws the current section again.
func (a *App) Show(context.Context) error {
	a.screen.Render()
	return nil
}

// Generate prompts for the job and asks the server for a letter. Fields
// left empty reuse the job last viewed. Without a saved profile nothing is
// asked and the component reports the problem.
func (a *App) Generate(ctx context.Context) error {
	if !a.nav.ShowSection(ctx, views.SectionGenerate) {
		return views.ErrNotAuthenticated
	}
	if !a.store.HasValidProfile() {
		return a.letters.Generate(ctx, views.GenerateForm{})
	}
	job := a.screen.Job()

	var err error
	if job.JobTitle, err = GetWithDefault(a.reader, "Job title", job.JobTitle, a.out); err != nil {
		return err
	}
	if job.CompanyName, err = GetWithDefault(a.reader, "Company name", job.CompanyName, a.out); err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Job description", a.out)
	if err != nil {
		return err
	}
	if description != "" {
		job.JobDescription = description
	}

	return a.letters.Generate(ctx, job)
}

func (a *App) History(ctx context.Context) error {
	if !a.nav.ShowSection(ctx, views.SectionHistory) {
		return views.ErrNotAuthenticated
	}
	return nil
}

func (a *App) View(ctx context.Context, id int64) error {
	return a.letters.ViewLetter(ctx, id)
}

func (a *App) Delete(ctx context.Context, id int64) error {
	return a.letters.DeleteLetter(ctx, id)
}

// Edit replaces the content of the letter on display.
func (a *App) Edit(ctx context.Context) error {
	if a.store.CurrentCoverLetter() == nil {
		return a.letters.UpdateLetter(ctx, "")
	}
	content, err := GetMultiline(a.reader, fmt.Sprintf("New content (max %d characters)", models.MaxCoverLetterContent), a.out)
	if err != nil {
		return err
	}
	return a.letters.UpdateLetter(ctx, content)
}

func (a *App) Export(ctx context.Context) error {
	_, err := a.letters.ExportLetter(ctx)
	return err
}

func (a *App) Navigate(ctx context.Context, name string) error {
	s, err := views.ParseSection(name)
	if err != nil {
		return err
	}
	a.nav.ShowSection(ctx, s)
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	return a.coord.Reset(ctx)
}

// State prints the whole application state as JSON.
func (a *App) State(context.Context) error {
	data, err := json.MarshalIndent(a.coord.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	a.console.Printf("%s\n", data)
	return nil
}
