package views

import (
	"context"
	"sync"

	"github.com/covyhq/covy/internal/client/client"
	"github.com/covyhq/covy/internal/client/state"
	"github.com/covyhq/covy/internal/logging"
)

// Deps are the collaborators every component needs.
type Deps struct {
	Store   *state.Store
	API     client.Client
	Alerts  Alerter
	Confirm Confirmer
	Logger  logging.Logger
}

const (
	msgLoginFirst = "Please login first."
	msgPending    = "Please wait for the current request to finish."
)

// requireAuth alerts and redirects to login when nobody is logged in.
func requireAuth(ctx context.Context, d Deps, nav Navigator) error {
	if d.Store.IsUserLoggedIn() {
		return nil
	}
	d.Alerts.Alert(AlertError, msgLoginFirst)
	nav.ShowSection(ctx, SectionLogin)
	return ErrNotAuthenticated
}

// inflight rejects a second start of an operation that is still running.
type inflight struct {
	mu      sync.Mutex
	running map[string]bool
}

func (g *inflight) begin(op string) (done func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running == nil {
		g.running = make(map[string]bool)
	}
	if g.running[op] {
		return nil, false
	}
	g.running[op] = true
	return func() {
		g.mu.Lock()
		delete(g.running, op)
		g.mu.Unlock()
	}, true
}

func (g *inflight) active(op string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running[op]
}

// start claims op or alerts that it is already running.
func (g *inflight) start(ctx context.Context, d Deps, op string) (func(), error) {
	done, ok := g.begin(op)
	if !ok {
		d.Logger.Info(ctx, "duplicate submission rejected", "operation", op)
		d.Alerts.Alert(AlertInfo, msgPending)
		return nil, ErrOperationPending
	}
	return done, nil
}

// loading shows message until the returned func runs.
func loading(ctx context.Context, store *state.Store, message string) func() {
	store.SetLoadingState(ctx, true, message)
	return func() { store.SetLoadingState(ctx, false, "") }
}

func unsubscribeAll(unsubs []func()) {
	for _, u := range unsubs {
		u()
	}
}
