package combobox

// Phase is the open/closed state of the panel
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpen
)

func (p Phase) String() string {
	if p == PhaseOpen {
		return "open"
	}
	return "closed"
}

// Transition reports what a toggle did. The view reacts to TransitionOpened
// by focusing its search input.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionOpened
	TransitionClosed
)

// FetchStatus is the lazy load dimension of the state
type FetchStatus int

const (
	FetchIdle FetchStatus = iota
	FetchLoading
	FetchFailed
)

func (f FetchStatus) String() string {
	switch f {
	case FetchLoading:
		return "loading"
	case FetchFailed:
		return "failed"
	default:
		return "idle"
	}
}

// DisplayMode selects what the open panel shows
type DisplayMode int

const (
	DisplayOptions DisplayMode = iota
	DisplayLoading
	DisplayEmpty
	DisplayError
)

func (d DisplayMode) String() string {
	switch d {
	case DisplayLoading:
		return "loading"
	case DisplayEmpty:
		return "empty"
	case DisplayError:
		return "error"
	default:
		return "options"
	}
}

// Row is one visible option
type Row[T any] struct {
	Item     T
	Selected bool
}

// Display is the derived content of the panel
type Display[T any] struct {
	Mode DisplayMode
	Rows []Row[T] // only set in DisplayOptions
	Err  error    // only set in DisplayError
}
