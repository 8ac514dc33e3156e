package views

import (
	"context"
	"sync"
	"testing"

	"github.com/covyhq/covy/internal/client/client"
	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/client/state"
	"github.com/covyhq/covy/internal/logging"
)

type memPersister struct {
	snap *models.Snapshot
}

func (m *memPersister) Save(_ context.Context, s models.Snapshot) { m.snap = &s }
func (m *memPersister) Load(context.Context) (models.Snapshot, bool) {
	if m.snap == nil {
		return models.Snapshot{}, false
	}
	return *m.snap, true
}
func (m *memPersister) Clear(context.Context) { m.snap = nil }

// fakeAPI records calls and returns canned results.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	users      []models.User
	listErr    error
	created    *models.User
	createErr  error
	profile    *models.Profile
	profileErr error
	saved      *models.Profile
	saveErr    error
	letter     *models.CoverLetter
	letterErr  error
	list       *models.CoverLetterList
	listLErr   error
	deleteErr  error

	lastProfileInput models.ProfileInput
	lastGenerate     models.GenerateRequest
	lastUpdate       models.CoverLetterUpdate

	// block, when set, is waited on inside GenerateCoverLetter.
	block chan struct{}
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Close() error { return nil }
func (f *fakeAPI) Ping(ctx context.Context) error { f.record("Ping"); return nil }

func (f *fakeAPI) ListUsers(context.Context) ([]models.User, error) {
	f.record("ListUsers")
	return f.users, f.listErr
}

func (f *fakeAPI) CreateUser(_ context.Context, in models.UserInput) (*models.User, error) {
	f.record("CreateUser")
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &models.User{ID: 100, Name: in.Name, Email: in.Email}, nil
}

func (f *fakeAPI) GetUserProfile(context.Context, int64) (*models.Profile, error) {
	f.record("GetUserProfile")
	return f.profile, f.profileErr
}

func (f *fakeAPI) CreateProfile(_ context.Context, in models.ProfileInput) (*models.Profile, error) {
	f.record("CreateProfile")
	f.lastProfileInput = in
	return f.saved, f.saveErr
}

func (f *fakeAPI) UpdateProfile(_ context.Context, _ int64, in models.ProfileInput) (*models.Profile, error) {
	f.record("UpdateProfile")
	f.lastProfileInput = in
	return f.saved, f.saveErr
}

func (f *fakeAPI) GenerateCoverLetter(_ context.Context, in models.GenerateRequest) (*models.CoverLetter, error) {
	f.record("GenerateCoverLetter")
	f.lastGenerate = in
	if f.block != nil {
		<-f.block
	}
	return f.letter, f.letterErr
}

func (f *fakeAPI) GetCoverLetter(context.Context, int64) (*models.CoverLetter, error) {
	f.record("GetCoverLetter")
	return f.letter, f.letterErr
}

func (f *fakeAPI) UpdateCoverLetter(_ context.Context, _ int64, in models.CoverLetterUpdate) (*models.CoverLetter, error) {
	f.record("UpdateCoverLetter")
	f.lastUpdate = in
	return f.letter, f.letterErr
}

func (f *fakeAPI) DeleteCoverLetter(context.Context, int64) error {
	f.record("DeleteCoverLetter")
	return f.deleteErr
}

func (f *fakeAPI) ListUserCoverLetters(context.Context, int64) (*models.CoverLetterList, error) {
	f.record("ListUserCoverLetters")
	return f.list, f.listLErr
}

type alert struct {
	Level   AlertLevel
	Message string
}

type recordingAlerts struct {
	mu     sync.Mutex
	alerts []alert
}

func (r *recordingAlerts) Alert(level AlertLevel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert{level, message})
}

func (r *recordingAlerts) All() []alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]alert(nil), r.alerts...)
}

type fixedConfirm bool

func (c fixedConfirm) Confirm(context.Context, string) bool { return bool(c) }

// screen implements every presenter and records what was rendered.
type screen struct {
	sections   []Section
	menu       []Section
	canLogout  bool
	user       *models.User
	profile    *models.ProfileForm
	letter     *models.CoverLetter
	history    []models.CoverLetter
	historyN   int
	generate   *GenerateForm
	formsClear int
}

func (s *screen) ShowSection(sec Section) { s.sections = append(s.sections, sec) }
func (s *screen) ShowNavigation(items []Section, canLogout bool) {
	s.menu, s.canLogout = items, canLogout
}
func (s *screen) ShowUser(u models.User) { s.user = &u }
func (s *screen) ClearForms() { s.formsClear++ }
func (s *screen) ShowProfile(f models.ProfileForm) { s.profile = &f }
func (s *screen) ShowCoverLetter(c models.CoverLetter) { s.letter = &c }
func (s *screen) ShowHistory(items []models.CoverLetter) { s.history = items; s.historyN++ }
func (s *screen) FillGenerateForm(f GenerateForm) { s.generate = &f }
func (s *screen) lastSection() Section {
	if len(s.sections) == 0 {
		return ""
	}
	return s.sections[len(s.sections)-1]
}

type harness struct {
	store   *state.Store
	api     *fakeAPI
	alerts  *recordingAlerts
	screen  *screen
	nav     *Navigation
	auth    *Auth
	profile *Profile
	letters *CoverLetter
	persist *memPersister
}

func newHarness(t *testing.T, confirm bool) *harness {
	t.Helper()
	ctx := context.Background()
	h := &harness{
		api:     &fakeAPI{},
		alerts:  &recordingAlerts{},
		screen:  &screen{},
		persist: &memPersister{},
	}
	h.store = state.New(ctx, h.persist, logging.Discard())
	deps := Deps{
		Store:   h.store,
		API:     h.api,
		Alerts:  h.alerts,
		Confirm: fixedConfirm(confirm),
		Logger:  logging.Discard(),
	}
	h.nav = NewNavigation(h.store, h.screen, h.alerts, logging.Discard())
	h.auth = NewAuth(deps, h.nav, h.screen)
	h.profile = NewProfile(deps, h.nav, h.screen)
	h.letters = NewCoverLetter(deps, h.nav, h.screen, nil)
	return h
}

// loggedIn seeds the store with a user, bypassing the API.
func (h *harness) loggedIn(profile *models.Profile) {
	ctx := context.Background()
	h.store.SetCurrentUser(ctx, &models.User{ID: 1, Name: "Ada", Email: "ada@x.com"})
	h.store.SetCurrentProfile(ctx, profile)
}
