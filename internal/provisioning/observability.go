package provisioning

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	// Printf emits a plain log line.
	Printf(format string, v ...interface{})

	// Event emits a structured event
	Event(event Event)
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType // Type of event
	Step      string    // Step name (e.g., "create", "validate")
	Message   string    // Human-readable message
	Resource  string    // Resource name/ID if applicable
	Timestamp time.Time // When the event occurred
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventStepStarted indicates a provisioning step has started.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted indicates a provisioning step completed successfully.
	EventStepCompleted EventType = "step.completed"
	// EventStepFailed indicates a provisioning step failed.
	EventStepFailed EventType = "step.failed"

	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceDeleted indicates a resource was deleted successfully.
	EventResourceDeleted EventType = "resource.deleted"

	// EventWarning indicates a degraded but non-fatal condition.
	EventWarning EventType = "warning"
)

// ConsoleObserver implements Observer using standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	log.Print(o.formatEvent(event))
}

// formatEvent formats an event for console output.
func (o *ConsoleObserver) formatEvent(event Event) string {
	var parts []string
	parts = append(parts, string(event.Type))
	if event.Step != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Step))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)
	return strings.Join(parts, " ")
}

// LogStepStart logs a step start event.
func LogStepStart(observer Observer, step string) {
	observer.Event(Event{
		Type:    EventStepStarted,
		Step:    step,
		Message: "starting",
	})
}

// LogStepComplete logs a step completion event.
func LogStepComplete(observer Observer, step string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventStepCompleted,
		Step:    step,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogStepFailed logs a step failure event.
func LogStepFailed(observer Observer, step string, err error) {
	observer.Event(Event{
		Type:    EventStepFailed,
		Step:    step,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogWarning logs a degraded-but-continuing condition.
func LogWarning(observer Observer, step, message string) {
	observer.Event(Event{
		Type:    EventWarning,
		Step:    step,
		Message: message,
	})
}
