package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/client/views"
)

const previewLength = 100

var sectionTitles = map[views.Section]string{
	views.SectionLogin:    "Login",
	views.SectionProfile:  "CV Profile",
	views.SectionGenerate: "Generate Cover Letter",
	views.SectionHistory:  "Cover Letter History",
}

// Presenter renders the views on a terminal. It keeps the last value of
// every view so the current section can be drawn again on demand; a view
// is printed as it changes only while its section is on screen.
type Presenter struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time

	section   views.Section
	menu      []views.Section
	canLogout bool
	user      *models.User
	profile   *models.ProfileForm
	letter    *models.CoverLetter
	history   []models.CoverLetter
	job       *views.GenerateForm
}

var (
	_ views.NavigationPresenter  = (*Presenter)(nil)
	_ views.AuthPresenter        = (*Presenter)(nil)
	_ views.ProfilePresenter     = (*Presenter)(nil)
	_ views.CoverLetterPresenter = (*Presenter)(nil)
)

func NewPresenter(w io.Writer) *Presenter {
	return &Presenter{w: w, now: time.Now}
}

func (p *Presenter) ShowSection(s views.Section) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.section = s
	fmt.Fprintf(p.w, "\n== %s ==\n", sectionTitles[s])

	switch s {
	case views.SectionLogin:
		fmt.Fprintln(p.w, "Use 'login' to sign in or create an account.")
	case views.SectionProfile:
		if p.profile == nil {
			fmt.Fprintln(p.w, "No profile saved yet. Use 'profile' to create one.")
		}
	case views.SectionGenerate:
		p.renderJob()
		if p.letter != nil {
			p.renderLetter()
		}
	}
}

func (p *Presenter) ShowNavigation(sections []views.Section, canLogout bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.menu, p.canLogout = sections, canLogout
}

func (p *Presenter) ShowUser(u models.User) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.user != nil && p.user.ID != u.ID {
		p.clearLocked()
	}
	p.user = &u
}

// ClearForms forgets everything shown for the previous session.
func (p *Presenter) ClearForms() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
	p.user = nil
}

func (p *Presenter) clearLocked() {
	p.profile, p.letter, p.history, p.job = nil, nil, nil, nil
}

func (p *Presenter) ShowProfile(form models.ProfileForm) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profile = &form
	if p.section == views.SectionProfile {
		p.renderProfile()
	}
}

func (p *Presenter) ShowCoverLetter(c models.CoverLetter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.letter = &c
	if p.section == views.SectionGenerate {
		p.renderLetter()
	}
}

func (p *Presenter) ShowHistory(items []models.CoverLetter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = items
	if p.section == views.SectionHistory {
		p.renderHistory()
	}
}

func (p *Presenter) FillGenerateForm(f views.GenerateForm) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.job = &f
}

// Render draws the current section again.
func (p *Presenter) Render() {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.section {
	case views.SectionProfile:
		p.renderProfile()
	case views.SectionGenerate:
		p.renderJob()
		p.renderLetter()
	case views.SectionHistory:
		p.renderHistory()
	default:
		fmt.Fprintln(p.w, "Nothing to show.")
	}
}

// Menu is the command hint for the sections currently reachable.
func (p *Presenter) Menu() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.menu)+1)
	for _, s := range p.menu {
		names = append(names, string(s))
	}
	if p.canLogout {
		names = append(names, "logout")
	}
	return strings.Join(names, " | ")
}

func (p *Presenter) Section() views.Section {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.section
}

// Job returns the job data last filled into the generate form, if any.
func (p *Presenter) Job() views.GenerateForm {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.job == nil {
		return views.GenerateForm{}
	}
	return *p.job
}

func (p *Presenter) renderProfile() {
	if p.profile == nil {
		fmt.Fprintln(p.w, "No profile saved yet. Use 'profile' to create one.")
		return
	}
	f := p.profile
	if p.user != nil {
		fmt.Fprintf(p.w, "%s <%s>\n", p.user.Name, p.user.Email)
	}
	fmt.Fprintf(p.w, "Phone:   %s\n", orDash(f.Phone))
	fmt.Fprintf(p.w, "Summary: %s\n", orDash(f.Summary))
	fmt.Fprintf(p.w, "Skills:  %s\n", orDash(f.Skills))

	for _, e := range f.Experience {
		fmt.Fprintf(p.w, "Experience: %s at %s (%s - %s)\n",
			e[models.FieldExperiencePosition], e[models.FieldExperienceCompany],
			orDash(e[models.FieldExperienceStartDate]), orDash(e[models.FieldExperienceEndDate]))
	}
	for _, pr := range f.Projects {
		fmt.Fprintf(p.w, "Project: %s [%s]\n", pr[models.FieldProjectName], pr[models.FieldProjectTechnologies])
	}
	for _, e := range f.Education {
		fmt.Fprintf(p.w, "Education: %s, %s\n", e[models.FieldEducationDegree], e[models.FieldEducationInstitution])
	}
}

func (p *Presenter) renderJob() {
	if p.job == nil {
		return
	}
	fmt.Fprintf(p.w, "Job: %s at %s\n", p.job.JobTitle, p.job.CompanyName)
}

func (p *Presenter) renderLetter() {
	if p.letter == nil {
		fmt.Fprintln(p.w, "No cover letter yet. Use 'generate' to create one.")
		return
	}
	title := p.letter.Title
	if title == "" {
		title = models.LetterTitle(p.letter.JobTitle, p.letter.CompanyName)
	}
	fmt.Fprintf(p.w, "--- %s (#%d) ---\n%s\n", title, p.letter.ID, p.letter.Content)
}

func (p *Presenter) renderHistory() {
	if len(p.history) == 0 {
		fmt.Fprintln(p.w, "No cover letters yet.")
		return
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tJOB\tCOMPANY\tCREATED\tPREVIEW")
	for _, c := range p.history {
		created := "-"
		if !c.CreatedAt.IsZero() {
			created = humanize.RelTime(c.CreatedAt.Time, p.now(), "ago", "from now")
		}
		preview := strings.ReplaceAll(c.Preview(previewLength), "\n", " ")
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.JobTitle, c.CompanyName, created, preview)
	}
	_ = tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
