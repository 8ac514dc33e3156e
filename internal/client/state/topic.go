package state

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/covyhq/covy/internal/client/models"
)

// Topic identifies a category of state change together with the type of
// value its subscribers receive. The set of topics is fixed by this
// package.
type Topic[T any] struct {
	name  string
	clone func(T) T
}

func (t Topic[T]) String() string { return t.name }

var (
	TopicUser        = Topic[*models.User]{name: "user", clone: (*models.User).Clone}
	TopicAuth        = Topic[bool]{name: "auth"}
	TopicProfile     = Topic[*models.Profile]{name: "profile", clone: (*models.Profile).Clone}
	TopicCoverLetter = Topic[*models.CoverLetter]{name: "coverLetter", clone: (*models.CoverLetter).Clone}
	TopicHistory     = Topic[[]models.CoverLetter]{name: "history", clone: cloneLetters}
	TopicLoading     = Topic[models.LoadingState]{name: "loading"}
)

// Callback receives a topic's new value. A returned error, like a panic, is
// logged and does not stop delivery to the other subscribers.
type Callback[T any] func(T) error

type subscriber struct {
	id uint64
	fn func(any) error
}

// SubscriberError is reported for every callback that failed during a
// notification.
type SubscriberError struct {
	Topic string
	Err   error
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber of %q failed: %v", e.Topic, e.Err)
}

func (e *SubscriberError) Unwrap() error { return e.Err }

// Subscribe registers fn under topic and returns a function that removes
// exactly that registration. Calling the returned function more than once
// is harmless.
func Subscribe[T any](s *Store, topic Topic[T], fn Callback[T]) (unsubscribe func()) {
	s.subMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[topic.name] = append(s.subs[topic.name], subscriber{
		id: id,
		fn: func(v any) error { return fn(v.(T)) },
	})
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		s.subs[topic.name] = slices.DeleteFunc(s.subs[topic.name], func(sub subscriber) bool {
			return sub.id == id
		})
	}
}

// Notify delivers v to every callback currently subscribed to topic. Each
// callback gets its own copy of v. Failures are logged and returned joined.
func Notify[T any](ctx context.Context, s *Store, topic Topic[T], v T) error {
	s.subMu.RLock()
	subs := slices.Clone(s.subs[topic.name])
	s.subMu.RUnlock()

	var errs []error
	for _, sub := range subs {
		arg := v
		if topic.clone != nil {
			arg = topic.clone(v)
		}
		if err := invoke(sub, arg); err != nil {
			s.logger.Error(ctx, "subscriber failed", "topic", topic.name, "error", err)
			errs = append(errs, &SubscriberError{Topic: topic.name, Err: err})
		}
	}
	return errors.Join(errs...)
}

func invoke(sub subscriber, v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return sub.fn(v)
}

func cloneLetters(items []models.CoverLetter) []models.CoverLetter {
	if items == nil {
		return nil
	}
	return slices.Clone(items)
}
