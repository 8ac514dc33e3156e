package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covyhq/covy/internal/client/client"
	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/client/state"
	"github.com/covyhq/covy/internal/client/views"
	"github.com/covyhq/covy/internal/logging"
)

type memPersister struct{ snap *models.Snapshot }

func (m *memPersister) Save(_ context.Context, s models.Snapshot) { m.snap = &s }
func (m *memPersister) Load(context.Context) (models.Snapshot, bool) {
	if m.snap == nil {
		return models.Snapshot{}, false
	}
	return *m.snap, true
}
func (m *memPersister) Clear(context.Context) { m.snap = nil }

// nopAPI panics on any remote call; bootstrap never makes one.
type nopAPI struct {
	client.Client
	closed bool
}

func (a *nopAPI) Close() error { a.closed = true; return nil }

type purger struct{ calls int }

func (p *purger) Purge(context.Context) { p.calls++ }

type alerts struct{ got []string }

func (a *alerts) Alert(level views.AlertLevel, msg string) {
	a.got = append(a.got, string(level)+": "+msg)
}

type confirm bool

func (c confirm) Confirm(context.Context, string) bool { return bool(c) }

type screen struct {
	sections []views.Section
	menu     []views.Section
	users    []string
	profiles int
}

func (s *screen) ShowSection(sec views.Section) { s.sections = append(s.sections, sec) }
func (s *screen) ShowNavigation(items []views.Section, _ bool) { s.menu = items }
func (s *screen) ShowUser(u models.User) { s.users = append(s.users, u.Name) }
func (s *screen) ClearForms() {}
func (s *screen) ShowProfile(models.ProfileForm) { s.profiles++ }
func (s *screen) ShowCoverLetter(models.CoverLetter) {}
func (s *screen) ShowHistory([]models.CoverLetter) {}
func (s *screen) FillGenerateForm(views.GenerateForm) {}

type fixture struct {
	co      *Coordinator
	store   *state.Store
	persist *memPersister
	alerts  *alerts
	screen  *screen
	api     *nopAPI
	storage *purger
}

func newFixture(t *testing.T, snap *models.Snapshot, ok bool) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{persist: &memPersister{snap: snap}, alerts: &alerts{}, screen: &screen{}, api: &nopAPI{}, storage: &purger{}}
	log := logging.Discard()

	f.store = state.New(ctx, f.persist, log)
	deps := views.Deps{Store: f.store, API: f.api, Alerts: f.alerts, Confirm: confirm(ok), Logger: log}
	nav := views.NewNavigation(f.store, f.screen, f.alerts, log)

	co, err := New(Components{
		Store:       f.store,
		API:         f.api,
		Alerts:      f.alerts,
		Confirm:     confirm(ok),
		Navigation:  nav,
		Auth:        views.NewAuth(deps, nav, f.screen),
		Profile:     views.NewProfile(deps, nav, f.screen),
		CoverLetter: views.NewCoverLetter(deps, nav, f.screen, nil),
		Logger:      log,
		Storage:     f.storage,
	})
	require.NoError(t, err)
	f.co = co
	return f
}

func TestNew_ListsMissingComponents(t *testing.T) {
	_, err := New(Components{Logger: logging.Discard(), Alerts: &alerts{}})

	require.ErrorIs(t, err, ErrMissingComponents)
	var mce *MissingComponentsError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"store", "api", "confirm", "navigation", "auth", "profile", "coverLetter"}, mce.Names)
	assert.Contains(t, err.Error(), "store, api, confirm")
}

func TestNew_RejectsTypedNilInterfaces(t *testing.T) {
	var api *client.HTTPClient
	var al *alerts

	_, err := New(Components{Store: &state.Store{}, API: api, Alerts: al, Confirm: confirm(true), Logger: logging.Discard()})

	var mce *MissingComponentsError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"api", "alerts", "navigation", "auth", "profile", "coverLetter"}, mce.Names)
}

func TestStart_NoSessionShowsLogin(t *testing.T) {
	f := newFixture(t, nil, true)

	f.co.Start(context.Background())

	assert.Equal(t, []views.Section{views.SectionLogin}, f.screen.sections)
	assert.Equal(t, []views.Section{views.SectionLogin}, f.screen.menu)
	assert.Empty(t, f.alerts.got)
}

func TestStart_RestoresSession(t *testing.T) {
	f := newFixture(t, &models.Snapshot{
		CurrentUser:    &models.User{ID: 1, Name: "Ada", Email: "ada@x.com"},
		CurrentProfile: &models.Profile{ID: 9, UserID: 1},
		IsLoggedIn:     true,
	}, true)

	f.co.Start(context.Background())

	assert.Equal(t, []views.Section{views.SectionProfile}, f.screen.sections)
	assert.Equal(t, []string{"Ada"}, f.screen.users)
	assert.Positive(t, f.screen.profiles)
	assert.Len(t, f.screen.menu, 3)
	assert.Equal(t, []string{"success: Welcome back, Ada!"}, f.alerts.got)
}

func TestStart_ClearsSessionWithoutUserID(t *testing.T) {
	f := newFixture(t, &models.Snapshot{
		CurrentUser: &models.User{Name: "Ada", Email: "ada@x.com"},
		IsLoggedIn:  true,
	}, true)

	f.co.Start(context.Background())

	assert.False(t, f.store.IsUserLoggedIn())
	assert.Nil(t, f.persist.snap)
	assert.Equal(t, []views.Section{views.SectionLogin}, f.screen.sections)
}

func TestGuard_RecoversPanic(t *testing.T) {
	f := newFixture(t, nil, true)

	err := f.co.Guard(context.Background(), func(context.Context) error {
		var m map[string]int
		m["boom"]++
		return nil
	})

	require.ErrorIs(t, err, ErrPanic)
	assert.Equal(t, []string{"error: " + msgUnexpected}, f.alerts.got)
}

func TestGuard_PassesErrorsThrough(t *testing.T) {
	f := newFixture(t, nil, true)

	err := f.co.Guard(context.Background(), func(context.Context) error { return views.ErrCancelled })

	require.ErrorIs(t, err, views.ErrCancelled)
	assert.Empty(t, f.alerts.got)
}

func TestReset(t *testing.T) {
	f := newFixture(t, &models.Snapshot{CurrentUser: &models.User{ID: 1, Name: "Ada"}, IsLoggedIn: true}, true)

	require.NoError(t, f.co.Reset(context.Background()))

	assert.False(t, f.store.IsUserLoggedIn())
	assert.Nil(t, f.persist.snap)
	assert.Equal(t, views.SectionLogin, f.screen.sections[len(f.screen.sections)-1])
	assert.Equal(t, []string{"info: " + msgReset}, f.alerts.got)
	assert.Equal(t, 1, f.storage.calls)
}

func TestReset_Declined(t *testing.T) {
	f := newFixture(t, &models.Snapshot{CurrentUser: &models.User{ID: 1, Name: "Ada"}, IsLoggedIn: true}, false)

	require.ErrorIs(t, f.co.Reset(context.Background()), views.ErrCancelled)
	assert.True(t, f.store.IsUserLoggedIn())
	assert.Zero(t, f.storage.calls)
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, &models.Snapshot{CurrentUser: &models.User{ID: 1, Name: "Ada"}, IsLoggedIn: true}, true)

	st := f.co.Snapshot()
	assert.True(t, st.IsLoggedIn)
	assert.Equal(t, "Ada", st.CurrentUser.Name)
}

func TestClose(t *testing.T) {
	f := newFixture(t, nil, true)
	f.co.Start(context.Background())

	require.NoError(t, f.co.Close())
	assert.True(t, f.api.closed)

	f.store.SetCurrentUser(context.Background(), &models.User{ID: 1, Name: "Ada"})
	assert.Empty(t, f.screen.users)
}
