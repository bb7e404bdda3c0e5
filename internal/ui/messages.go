package ui

import (
	"select2/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// quitMsg signals that the application should quit
type quitMsg struct {
	saveConfig bool
}
