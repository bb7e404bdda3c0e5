package combobox

import (
	"reflect"

	"github.com/google/uuid"

	"select2/internal/eventbus"
)

// Options configures a Selection
type Options[T any] struct {
	ID        string        // component id used in events; generated when empty
	Items     []T           // initial option set
	Selected  *T            // initial selection; first item when nil
	Fetch     FetchFunc[T]  // lazy loader; nil disables lazy loading
	Serialize Serializer[T] // filter text; JSON when nil
	Matcher   Matcher       // substring when nil
	Equal     func(a, b T) bool
	Bus       eventbus.Publisher
}

// Selection holds the whole state of one combobox. It is not safe for
// concurrent use; drive it from a single event loop.
type Selection[T any] struct {
	id          string
	options     []T
	filtered    []T
	selected    T
	hasSelected bool
	query       string
	phase       Phase
	loader      *Loader[T]
	lastErr     error

	serialize Serializer[T]
	matcher   Matcher
	equal     func(a, b T) bool
	bus       eventbus.Publisher
}

// New creates a closed Selection
func New[T any](opts Options[T]) *Selection[T] {
	s := &Selection[T]{
		id:        opts.ID,
		options:   append([]T(nil), opts.Items...),
		phase:     PhaseClosed,
		loader:    NewLoader(opts.Fetch),
		serialize: opts.Serialize,
		matcher:   opts.Matcher,
		equal:     opts.Equal,
		bus:       opts.Bus,
	}

	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.serialize == nil {
		s.serialize = JSONSerializer[T]
	}
	if s.matcher == nil {
		s.matcher = SubstringMatcher{}
	}
	if s.equal == nil {
		s.equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	if s.bus == nil {
		s.bus = eventbus.NullBus{}
	}

	switch {
	case opts.Selected != nil:
		s.selected = *opts.Selected
		s.hasSelected = true
	case len(s.options) > 0:
		s.selected = s.options[0]
		s.hasSelected = true
	}

	s.refilter()
	return s
}

// ID returns the component id
func (s *Selection[T]) ID() string {
	return s.id
}

// Toggle opens a closed panel and closes an open one
func (s *Selection[T]) Toggle() Transition {
	if s.phase == PhaseOpen {
		return s.Close()
	}
	return s.Open()
}

// Open opens the panel
func (s *Selection[T]) Open() Transition {
	if s.phase == PhaseOpen {
		return TransitionNone
	}
	s.phase = PhaseOpen
	s.bus.Publish(eventbus.ComboboxOpenedEvent{ComponentID: s.id})
	return TransitionOpened
}

// Close closes the panel. The query is kept.
func (s *Selection[T]) Close() Transition {
	if s.phase == PhaseClosed {
		return TransitionNone
	}
	s.phase = PhaseClosed
	s.bus.Publish(eventbus.ComboboxClosedEvent{ComponentID: s.id})
	return TransitionClosed
}

// SetQuery updates the search text and recomputes the filtered view. When
// nothing matches a non-empty query a lazy load is started; the returned
// request must then be fetched and handed back to Complete. It returns nil
// when no fetch is needed or one is already pending.
func (s *Selection[T]) SetQuery(query string) *Request {
	s.query = query
	s.lastErr = nil
	s.refilter()

	s.bus.Publish(eventbus.QueryChangedEvent{
		ComponentID: s.id,
		Query:       query,
		Matches:     len(s.filtered),
	})

	if len(s.filtered) > 0 || query == "" {
		return nil
	}

	req, ok := s.loader.Begin(query)
	if !ok {
		return nil
	}
	s.bus.Publish(eventbus.FetchStartedEvent{
		ComponentID: s.id,
		Token:       req.Token,
		Query:       req.Query,
	})
	return req
}

// Complete applies the result of the request identified by token. Results
// apply even when the query changed in the meantime. A merge recomputes
// the view but never starts another fetch.
func (s *Selection[T]) Complete(token string, items []T, err error) Outcome {
	req := s.loader.InFlight()
	outcome, ok := s.loader.Finish(token, items, err)
	if !ok {
		return OutcomeNone
	}

	switch outcome {
	case OutcomeMerged:
		s.options = append(s.options, items...)
		s.refilter()
		s.bus.Publish(eventbus.FetchCompletedEvent{
			ComponentID: s.id,
			Token:       token,
			Query:       req.Query,
			Loaded:      len(items),
		})
	case OutcomeEmpty:
		s.bus.Publish(eventbus.FetchCompletedEvent{
			ComponentID: s.id,
			Token:       token,
			Query:       req.Query,
		})
	case OutcomeFailed:
		s.lastErr = err
		s.bus.Publish(eventbus.FetchFailedEvent{
			ComponentID: s.id,
			Token:       token,
			Query:       req.Query,
			Err:         err,
		})
	}
	return outcome
}

// Pick selects item. The query and the panel stay as they are.
func (s *Selection[T]) Pick(item T) {
	s.selected = item
	s.hasSelected = true
	s.bus.Publish(eventbus.OptionPickedEvent{ComponentID: s.id, Item: item})
}

// IsSelected reports whether item equals the selected item
func (s *Selection[T]) IsSelected(item T) bool {
	return s.hasSelected && s.equal(item, s.selected)
}

// Display derives the panel content from the current state
func (s *Selection[T]) Display() Display[T] {
	if len(s.filtered) > 0 {
		rows := make([]Row[T], len(s.filtered))
		for i, item := range s.filtered {
			rows[i] = Row[T]{Item: item, Selected: s.IsSelected(item)}
		}
		return Display[T]{Mode: DisplayOptions, Rows: rows}
	}
	if s.loader.Loading() {
		return Display[T]{Mode: DisplayLoading}
	}
	if s.lastErr != nil {
		return Display[T]{Mode: DisplayError, Err: s.lastErr}
	}
	return Display[T]{Mode: DisplayEmpty}
}

// Options returns the option set
func (s *Selection[T]) Options() []T {
	return s.options
}

// Filtered returns the options matching the query
func (s *Selection[T]) Filtered() []T {
	return s.filtered
}

// Query returns the search text
func (s *Selection[T]) Query() string {
	return s.query
}

// Selected returns the selected item, if any
func (s *Selection[T]) Selected() (T, bool) {
	return s.selected, s.hasSelected
}

// Phase returns whether the panel is open
func (s *Selection[T]) Phase() Phase {
	return s.phase
}

// IsOpen reports whether the panel is open
func (s *Selection[T]) IsOpen() bool {
	return s.phase == PhaseOpen
}

// Loading reports whether a lazy load is in flight
func (s *Selection[T]) Loading() bool {
	return s.loader.Loading()
}

// Err returns the error of the last failed fetch, cleared on query change
func (s *Selection[T]) Err() error {
	return s.lastErr
}

// FetchStatus summarises the lazy load dimension
func (s *Selection[T]) FetchStatus() FetchStatus {
	switch {
	case s.loader.Loading():
		return FetchLoading
	case s.lastErr != nil:
		return FetchFailed
	default:
		return FetchIdle
	}
}

// Loader exposes the lazy load coordinator
func (s *Selection[T]) Loader() *Loader[T] {
	return s.loader
}

func (s *Selection[T]) refilter() {
	s.filtered = FilterWith(s.options, s.query, s.serialize, s.matcher)
}
