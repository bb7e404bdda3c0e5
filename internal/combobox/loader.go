package combobox

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// ErrLazyLoadDisabled is returned by Fetch on a loader without a fetch function
var ErrLazyLoadDisabled = errors.New("lazy loading is disabled")

// FetchFunc loads more items for a query
type FetchFunc[T any] func(ctx context.Context, query string) ([]T, error)

// Request is an in-flight lazy load
type Request struct {
	Token   string
	Query   string
	Started time.Time
}

// Outcome describes how a finished request changes the option set
type Outcome int

const (
	OutcomeNone   Outcome = iota // unknown or stale token, nothing applied
	OutcomeMerged                // fetched items are appended
	OutcomeEmpty                 // fetch found nothing
	OutcomeFailed                // fetch returned an error
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMerged:
		return "merged"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

// Loader coordinates lazy loads. At most one request is in flight; Begin
// while one is pending is dropped, whatever the query.
type Loader[T any] struct {
	fetch    FetchFunc[T]
	inflight *Request
	calls    int
	now      func() time.Time
}

// NewLoader creates a loader; a nil fetch disables lazy loading
func NewLoader[T any](fetch FetchFunc[T]) *Loader[T] {
	return &Loader[T]{
		fetch: fetch,
		now:   time.Now,
	}
}

// Enabled reports whether a fetch function was supplied
func (l *Loader[T]) Enabled() bool {
	return l.fetch != nil
}

// Loading reports whether a request is in flight
func (l *Loader[T]) Loading() bool {
	return l.inflight != nil
}

// InFlight returns the pending request, or nil
func (l *Loader[T]) InFlight() *Request {
	return l.inflight
}

// Calls returns how many requests have been started
func (l *Loader[T]) Calls() int {
	return l.calls
}

// Begin starts a request for query unless loading is disabled or another
// request is pending.
func (l *Loader[T]) Begin(query string) (*Request, bool) {
	if l.fetch == nil || l.inflight != nil {
		return nil, false
	}

	req := &Request{
		Token:   uuid.NewString(),
		Query:   query,
		Started: l.now(),
	}
	l.inflight = req
	l.calls++
	log.Printf("Lazy load %s started for %q", req.Token, query)
	return req, true
}

// Fetch runs the fetch function for req. It may run on any goroutine and
// does not touch loader state. A panicking fetch is reported as an error.
func (l *Loader[T]) Fetch(ctx context.Context, req *Request) (items []T, err error) {
	if l.fetch == nil {
		return nil, ErrLazyLoadDisabled
	}
	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	return l.fetch(ctx, req.Query)
}

// Finish clears the pending request matching token and classifies the
// result. It returns false for a token that is not in flight.
func (l *Loader[T]) Finish(token string, items []T, err error) (Outcome, bool) {
	if l.inflight == nil || l.inflight.Token != token {
		log.Printf("Lazy load %s finished but is not in flight, ignoring", token)
		return OutcomeNone, false
	}

	req := l.inflight
	l.inflight = nil
	elapsed := l.now().Sub(req.Started)

	switch {
	case err != nil:
		log.Printf("Lazy load %s for %q failed after %s: %v", token, req.Query, elapsed, err)
		return OutcomeFailed, true
	case len(items) == 0:
		log.Printf("Lazy load %s for %q returned no items after %s", token, req.Query, elapsed)
		return OutcomeEmpty, true
	default:
		log.Printf("Lazy load %s for %q returned %d items after %s", token, req.Query, len(items), elapsed)
		return OutcomeMerged, true
	}
}
