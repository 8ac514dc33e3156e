package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/covyhq/covy/internal/client/models"
)

type Section string

const (
	SectionLogin    Section = "login"
	SectionProfile  Section = "profile"
	SectionGenerate Section = "generate"
	SectionHistory  Section = "history"
)

var Sections = []Section{SectionLogin, SectionProfile, SectionGenerate, SectionHistory}

func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == strings.ToLower(strings.TrimSpace(s)) {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Protected reports whether the section requires a logged-in user.
func (s Section) Protected() bool { return s != SectionLogin }

type AlertLevel string

const (
	AlertSuccess AlertLevel = "success"
	AlertError   AlertLevel = "error"
	AlertInfo    AlertLevel = "info"
)

// Alerter shows a short notice to the user.
type Alerter interface {
	Alert(level AlertLevel, message string)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) bool
}

type NavigationPresenter interface {
	ShowSection(s Section)
	// ShowNavigation lists the sections reachable from the menu and whether
	// logout is offered.
	ShowNavigation(sections []Section, canLogout bool)
}

type AuthPresenter interface {
	ShowUser(u models.User)
	ClearForms()
}

type ProfilePresenter interface {
	ShowProfile(form models.ProfileForm)
}

type CoverLetterPresenter interface {
	ShowCoverLetter(c models.CoverLetter)
	ShowHistory(items []models.CoverLetter)
	FillGenerateForm(f GenerateForm)
}

// Navigator switches sections. Components register loaders that run when
// their section is entered.
type Navigator interface {
	ShowSection(ctx context.Context, s Section) bool
	RegisterLoader(s Section, load func(ctx context.Context))
}
