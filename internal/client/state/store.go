// Package state holds the single mutable application state of the client
// and fans out changes to subscribers.
//
// Every mutation goes through a setter. A setter updates the in-memory
// field, writes the session snapshot when the field is persisted and then
// notifies subscribers, all before it returns and without another mutation
// interleaving. A setter called from a callback is queued and applied once
// the running change has finished notifying.
package state

import (
	"context"
	"sync"

	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/logging"
)

// Persister stores the session snapshot. Implementations swallow their own
// failures.
type Persister interface {
	Save(ctx context.Context, snap models.Snapshot)
	Load(ctx context.Context) (models.Snapshot, bool)
	Clear(ctx context.Context)
}

// AppState is a copy of everything the store holds.
type AppState struct {
	CurrentUser        *models.User         `json:"currentUser"`
	CurrentProfile     *models.Profile      `json:"currentProfile"`
	CurrentCoverLetter *models.CoverLetter  `json:"currentCoverLetter"`
	History            []models.CoverLetter `json:"history"`
	IsLoggedIn         bool                 `json:"isLoggedIn"`
	Loading            models.LoadingState  `json:"loading"`
}

type Store struct {
	persister Persister
	logger    logging.Logger

	// mu serializes mutate, persist and notify sequences.
	mu sync.Mutex

	// pendingMu guards running and pending: changes requested while a
	// sequence runs, including from subscriber callbacks.
	pendingMu sync.Mutex
	running   bool
	pending   []func()

	fieldsMu    sync.RWMutex
	user        *models.User
	profile     *models.Profile
	coverLetter *models.CoverLetter
	history     []models.CoverLetter
	isLoggedIn  bool
	loading     models.LoadingState

	subMu     sync.RWMutex
	subs      map[string][]subscriber
	nextSubID uint64
}

// New builds a store seeded from the persisted snapshot, if any.
func New(ctx context.Context, persister Persister, logger logging.Logger) *Store {
	s := &Store{
		persister: persister,
		logger:    logger.With("component", "state"),
		subs:      make(map[string][]subscriber),
	}

	snap, ok := persister.Load(ctx)
	if !ok {
		return s
	}
	s.user = snap.CurrentUser
	s.profile = snap.CurrentProfile
	s.isLoggedIn = snap.CurrentUser != nil
	if snap.IsLoggedIn != s.isLoggedIn {
		s.logger.Warn(ctx, "stored session flag disagrees with stored user, using user",
			"stored_logged_in", snap.IsLoggedIn)
	}
	s.logger.Debug(ctx, "session restored", "logged_in", s.isLoggedIn)
	return s
}

func (s *Store) CurrentUser() *models.User {
	s.fieldsMu.RLock()
	defer s.fieldsMu.RUnlock()
	return s.user.Clone()
}

func (s *Store) CurrentProfile() *models.Profile {
	s.fieldsMu.RLock()
	defer s.fieldsMu.RUnlock()
	return s.profile.Clone()
}

func (s *Store) CurrentCoverLetter() *models.CoverLetter {
	s.fieldsMu.RLock()
	defer s.fieldsMu.RUnlock()
	return s.coverLetter.Clone()
}

func (s *Store) History() []models.CoverLetter {
	s.fieldsMu.RLock()
	defer s.fieldsMu.RUnlock()
	return cloneLetters(s.history)
}

func (s *Store) IsUserLoggedIn() bool {
	s.fieldsMu.RLock()
	defer s.fieldsMu.RUnlock()
	return s.isLoggedIn
}

func (s *Store) LoadingState() models.LoadingState {
	s.fieldsMu.RLock()
	defer s.fieldsMu.RUnlock()
	return s.loading
}

// HasValidUser reports whether the held user has a server-assigned id.
func (s *Store) HasValidUser() bool {
	s.fieldsMu.RLock()
	defer s.fieldsMu.RUnlock()
	return s.user.HasID()
}

// HasValidProfile reports whether the held profile has a server-assigned id.
func (s *Store) HasValidProfile() bool {
	s.fieldsMu.RLock()
	defer s.fieldsMu.RUnlock()
	return s.profile.HasID()
}

func (s *Store) State() AppState {
	s.fieldsMu.RLock()
	defer s.fieldsMu.RUnlock()
	return AppState{
		CurrentUser:        s.user.Clone(),
		CurrentProfile:     s.profile.Clone(),
		CurrentCoverLetter: s.coverLetter.Clone(),
		History:            cloneLetters(s.history),
		IsLoggedIn:         s.isLoggedIn,
		Loading:            s.loading,
	}
}

// SetCurrentUser replaces the user; the logged-in flag follows from it.
// Subscribers of TopicUser are notified before those of TopicAuth.
func (s *Store) SetCurrentUser(ctx context.Context, u *models.User) {
	s.mutate(ctx, "SetCurrentUser", func() {
		s.fieldsMu.Lock()
		s.user = u.Clone()
		s.isLoggedIn = u != nil
		snap := s.snapshotLocked()
		s.fieldsMu.Unlock()

		s.persister.Save(ctx, snap)

		_ = Notify(ctx, s, TopicUser, u.Clone())
		_ = Notify(ctx, s, TopicAuth, u != nil)
	})
}

// SetCurrentProfile replaces the profile wholesale.
func (s *Store) SetCurrentProfile(ctx context.Context, p *models.Profile) {
	s.mutate(ctx, "SetCurrentProfile", func() {
		s.fieldsMu.Lock()
		s.profile = p.Clone()
		snap := s.snapshotLocked()
		s.fieldsMu.Unlock()

		s.persister.Save(ctx, snap)

		_ = Notify(ctx, s, TopicProfile, p.Clone())
	})
}

// SetCurrentCoverLetter replaces the letter on display. It is not persisted.
func (s *Store) SetCurrentCoverLetter(ctx context.Context, c *models.CoverLetter) {
	s.mutate(ctx, "SetCurrentCoverLetter", func() {
		s.fieldsMu.Lock()
		s.coverLetter = c.Clone()
		s.fieldsMu.Unlock()

		_ = Notify(ctx, s, TopicCoverLetter, c.Clone())
	})
}

// SetCoverLetterHistory replaces the listed letters. It is not persisted.
func (s *Store) SetCoverLetterHistory(ctx context.Context, items []models.CoverLetter) {
	s.mutate(ctx, "SetCoverLetterHistory", func() {
		s.fieldsMu.Lock()
		s.history = cloneLetters(items)
		s.fieldsMu.Unlock()

		_ = Notify(ctx, s, TopicHistory, cloneLetters(items))
	})
}

func (s *Store) SetLoadingState(ctx context.Context, isLoading bool, message string) {
	s.mutate(ctx, "SetLoadingState", func() {
		ls := models.LoadingState{IsLoading: isLoading, Message: message}
		s.fieldsMu.Lock()
		s.loading = ls
		s.fieldsMu.Unlock()

		_ = Notify(ctx, s, TopicLoading, ls)
	})
}

// ClearUserSession drops the user, profile, current letter and history and
// erases the stored snapshot.
func (s *Store) ClearUserSession(ctx context.Context) {
	s.mutate(ctx, "ClearUserSession", func() {
		s.fieldsMu.Lock()
		s.user = nil
		s.profile = nil
		s.coverLetter = nil
		s.history = nil
		s.isLoggedIn = false
		s.fieldsMu.Unlock()

		s.persister.Clear(ctx)

		_ = Notify(ctx, s, TopicAuth, false)
		_ = Notify[*models.User](ctx, s, TopicUser, nil)
		_ = Notify[*models.Profile](ctx, s, TopicProfile, nil)
		_ = Notify[*models.CoverLetter](ctx, s, TopicCoverLetter, nil)
		_ = Notify[[]models.CoverLetter](ctx, s, TopicHistory, nil)

		s.logger.Info(ctx, "session cleared")
	})
}

// Republish notifies the auth, user and profile topics with the values
// currently held, so subscribers registered after New catch up with a
// restored session. A nil profile is not published.
func (s *Store) Republish(ctx context.Context) {
	s.mutate(ctx, "Republish", func() {
		s.fieldsMu.RLock()
		loggedIn, user, profile := s.isLoggedIn, s.user.Clone(), s.profile.Clone()
		s.fieldsMu.RUnlock()

		_ = Notify(ctx, s, TopicAuth, loggedIn)
		_ = Notify(ctx, s, TopicUser, user)
		if profile != nil {
			_ = Notify(ctx, s, TopicProfile, profile)
		}
	})
}

// mutate runs fn while holding mu. A change requested while another one
// runs is queued and applied, in order, before mu is released; the
// requesting call returns without waiting for it.
func (s *Store) mutate(ctx context.Context, op string, fn func()) {
	if !s.mu.TryLock() {
		s.pendingMu.Lock()
		if s.running {
			s.pending = append(s.pending, fn)
			s.pendingMu.Unlock()
			s.logger.Warn(ctx, "state change deferred until the running one completes", "op", op)
			return
		}
		s.pendingMu.Unlock()
		s.mu.Lock()
	}
	defer func() {
		s.pendingMu.Lock()
		if s.running {
			s.running = false
			s.pending = nil
		}
		s.pendingMu.Unlock()
		s.mu.Unlock()
	}()

	s.pendingMu.Lock()
	s.running = true
	s.pendingMu.Unlock()

	fn()
	for {
		s.pendingMu.Lock()
		if len(s.pending) == 0 {
			s.running = false
			s.pendingMu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.pendingMu.Unlock()
		next()
	}
}

func (s *Store) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		CurrentUser:    s.user.Clone(),
		CurrentProfile: s.profile.Clone(),
		IsLoggedIn:     s.isLoggedIn,
	}
}
