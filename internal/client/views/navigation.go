package views

import (
	"context"
	"sync"

	"github.com/covyhq/covy/internal/client/state"
	"github.com/covyhq/covy/internal/logging"
)

type Navigation struct {
	store     *state.Store
	presenter NavigationPresenter
	alerts    Alerter
	logger    logging.Logger

	mu      sync.Mutex
	current Section
	loaders map[Section]func(ctx context.Context)

	unsubs []func()
}

var _ Navigator = (*Navigation)(nil)

func NewNavigation(store *state.Store, presenter NavigationPresenter, alerts Alerter, logger logging.Logger) *Navigation {
	n := &Navigation{
		store:     store,
		presenter: presenter,
		alerts:    alerts,
		logger:    logger.With("component", "navigation"),
		loaders:   make(map[Section]func(ctx context.Context)),
	}
	n.unsubs = append(n.unsubs, state.Subscribe(store, state.TopicAuth, func(loggedIn bool) error {
		n.presenter.ShowNavigation(VisibleSections(loggedIn), loggedIn)
		return nil
	}))
	return n
}

// VisibleSections are the menu entries for an anonymous or a logged-in
// user.
func VisibleSections(loggedIn bool) []Section {
	if loggedIn {
		return []Section{SectionProfile, SectionGenerate, SectionHistory}
	}
	return []Section{SectionLogin}
}

func (n *Navigation) RegisterLoader(s Section, load func(ctx context.Context)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loaders[s] = load
}

// ShowSection switches to s. A protected section is refused for an
// anonymous user, who is sent to login instead.
func (n *Navigation) ShowSection(ctx context.Context, s Section) bool {
	loggedIn := n.store.IsUserLoggedIn()
	if s.Protected() && !loggedIn {
		n.alerts.Alert(AlertError, msgLoginFirst)
		n.ShowSection(ctx, SectionLogin)
		return false
	}

	n.mu.Lock()
	n.current = s
	load := n.loaders[s]
	n.mu.Unlock()

	n.logger.Debug(ctx, "section shown", "section", string(s))
	n.presenter.ShowSection(s)
	if load != nil && loggedIn {
		load(ctx)
	}
	return true
}

func (n *Navigation) Current() Section {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// RefreshMenu re-renders the menu for the current session.
func (n *Navigation) RefreshMenu() {
	loggedIn := n.store.IsUserLoggedIn()
	n.presenter.ShowNavigation(VisibleSections(loggedIn), loggedIn)
}

func (n *Navigation) Close() { unsubscribeAll(n.unsubs) }
