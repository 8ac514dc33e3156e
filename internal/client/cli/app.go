package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/covyhq/covy/internal/client/bootstrap"
	"github.com/covyhq/covy/internal/client/client"
	"github.com/covyhq/covy/internal/client/config"
	"github.com/covyhq/covy/internal/client/export"
	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/client/persistence"
	"github.com/covyhq/covy/internal/client/repositories/metadata"
	"github.com/covyhq/covy/internal/client/state"
	"github.com/covyhq/covy/internal/client/views"
	"github.com/covyhq/covy/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	api     client.Client
	store   *state.Store
	nav     *views.Navigation
	auth    *views.Auth
	profile *views.Profile
	letters *views.CoverLetter
	coord   *bootstrap.Coordinator

	reader      *bufio.Reader
	out         io.Writer
	console     *Console
	screen      *Presenter
	interactive bool

	unsubs []func()

	modeMu sync.Mutex
	mode   Mode
}

// NewApp opens the local session database and wires every component
// against the terminal.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := persistence.InitDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("init session database: %w", err)
	}

	api := client.NewHTTPClient(cfg.APIBaseURL, cfg.HealthURL, cfg.RequestTimeout, logger)

	exporter, err := export.New(cfg.ExportTarget, cfg.ExportDir, cfg.S3())
	if err != nil {
		logger.Warn(ctx, "export disabled", "target", cfg.ExportTarget, "error", err)
		exporter = nil
	}

	adapter := persistence.NewAdapter(metadata.NewSQLiteRepository(db), logger)
	if at, ok := adapter.SavedAt(ctx); ok {
		logger.Debug(ctx, "found saved session", "saved_at", at)
	}

	a, err := newApp(ctx, cfg, logger, adapter, api, exporter, os.Stdin, os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.db = db
	a.interactive = isTerminal(int(os.Stdin.Fd()))
	return a, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger, persister state.Persister,
	api client.Client, exporter export.Exporter, in io.Reader, out io.Writer) (*App, error) {

	reader := bufio.NewReader(in)
	a := &App{
		config:  cfg,
		logger:  logger.With("component", "cli"),
		api:     api,
		reader:  reader,
		out:     out,
		console: NewConsole(reader, out),
		screen:  NewPresenter(out),
	}

	a.store = state.New(ctx, persister, logger)
	deps := views.Deps{
		Store:   a.store,
		API:     api,
		Alerts:  a.console,
		Confirm: a.console,
		Logger:  logger,
	}
	a.nav = views.NewNavigation(a.store, a.screen, a.console, logger)
	a.auth = views.NewAuth(deps, a.nav, a.screen)
	a.profile = views.NewProfile(deps, a.nav, a.screen)

	a.letters = views.NewCoverLetter(deps, a.nav, a.screen, exporter)

	storage, _ := persister.(bootstrap.Purger)
	coord, err := bootstrap.New(bootstrap.Components{
		Store:       a.store,
		API:         api,
		Alerts:      a.console,
		Confirm:     a.console,
		Navigation:  a.nav,
		Auth:        a.auth,
		Profile:     a.profile,
		CoverLetter: a.letters,
		Logger:      logger,
		Storage:     storage,
	})
	if err != nil {
		return nil, err
	}
	a.coord = coord

	a.unsubs = append(a.unsubs, state.Subscribe(a.store, state.TopicLoading, func(ls models.LoadingState) error {
		if ls.IsLoading && ls.Message != "" {
			a.console.Printf("%s\n", ls.Message)
		}
		return nil
	}))
	return a, nil
}

// Run starts the session, the connectivity watcher and the REPL. It
// returns when the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.console.Printf("Welcome to covy (type 'help' for commands)\n")
	a.coord.Start(ctx)

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		runREPL(ctx, a, a.getStatus, a.reader, a.out, a.interactive)
		return nil
	})

	return g.Wait()
}

func (a *App) Close() {
	for _, u := range a.unsubs {
		u()
	}
	a.unsubs = nil

	if err := a.coord.Close(); err != nil {
		a.logger.Warn(context.Background(), "close api client", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(context.Background(), "close session database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.IsUserLoggedIn()
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	s := ""
	if u := a.store.CurrentUser(); u != nil {
		s = u.Name + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// probe pings the server, retrying briefly so a single dropped request
// does not flip the indicator.
func (a *App) probe(ctx context.Context) error {
	backoff := retry.WithMaxRetries(2, retry.NewConstant(200*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := a.api.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// StartOnlineStatusWatcher probes the server immediately and then every
// interval until ctx is done. The result only feeds the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	check := func() {
		if err := a.probe(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			a.setMode(ModeOffline)
			return
		}
		a.setMode(ModeOnline)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}
