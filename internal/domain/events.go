package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventComboboxOpened EventType = "ComboboxOpened"
	EventComboboxClosed EventType = "ComboboxClosed"
	EventQueryChanged   EventType = "QueryChanged"
	EventOptionPicked   EventType = "OptionPicked"
	EventFetchStarted   EventType = "FetchStarted"
	EventFetchCompleted EventType = "FetchCompleted"
	EventFetchFailed    EventType = "FetchFailed"
	EventConfigLoaded   EventType = "ConfigLoaded"
	EventConfigSaved    EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ComboboxOpenedEvent is emitted when a combobox panel opens
type ComboboxOpenedEvent struct {
	ComponentID string
}

func (e ComboboxOpenedEvent) Type() EventType { return EventComboboxOpened }

// ComboboxClosedEvent is emitted when a combobox panel closes
type ComboboxClosedEvent struct {
	ComponentID string
}

func (e ComboboxClosedEvent) Type() EventType { return EventComboboxClosed }

// QueryChangedEvent is emitted on every change of the search text
type QueryChangedEvent struct {
	ComponentID string
	Query       string
	Matches     int
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// OptionPickedEvent is emitted when the user picks an item
type OptionPickedEvent struct {
	ComponentID string
	Item        any
}

func (e OptionPickedEvent) Type() EventType { return EventOptionPicked }

// FetchStartedEvent is emitted when a lazy load request is dispatched
type FetchStartedEvent struct {
	ComponentID string
	Token       string
	Query       string
}

func (e FetchStartedEvent) Type() EventType { return EventFetchStarted }

// FetchCompletedEvent is emitted when a lazy load request succeeds
type FetchCompletedEvent struct {
	ComponentID string
	Token       string
	Query       string
	Loaded      int // 0 when the fetch came back empty
}

func (e FetchCompletedEvent) Type() EventType { return EventFetchCompleted }

// FetchFailedEvent is emitted when a lazy load request returns an error
type FetchFailedEvent struct {
	ComponentID string
	Token       string
	Query       string
	Err         error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path    string
	Options int
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
