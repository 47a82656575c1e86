// Package audit provides structured event logging for environment lifecycle events.
// Events are stored as JSON Lines (JSONL) files, one per environment name.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/google/uuid"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventRegister EventType = "register"
	EventUpdate   EventType = "update"
	EventCreate   EventType = "create"
	EventRemove   EventType = "remove"
	EventActivate EventType = "activate"
	EventRun      EventType = "run"
	EventMismatch EventType = "mismatch"
	EventGC       EventType = "gc"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	Environment string    `json:"environment"`
	ID          string    `json:"id,omitempty"`
	Host        string    `json:"host,omitempty"`
	Details     string    `json:"details,omitempty"`
	Invocation  string    `json:"invocation"`
}

// Logger writes and reads audit events for environments.
// Events are stored in {eventsDir}/{name}.events.jsonl.
type Logger struct {
	eventsDir  string
	invocation string
}

// NewLogger creates a new audit logger rooted at eventsDir. Every event it
// writes carries the same freshly generated invocation id.
func NewLogger(eventsDir string) *Logger {
	return &Logger{eventsDir: eventsDir, invocation: uuid.NewString()}
}

// Invocation returns the id stamped on events from this logger.
func (l *Logger) Invocation() string {
	return l.invocation
}

// eventPath returns the path to the JSONL event log for an environment,
// confined to the events directory.
func (l *Logger) eventPath(env string) (string, error) {
	path, err := securejoin.SecureJoin(l.eventsDir, env+".events.jsonl")
	if err != nil {
		return "", fmt.Errorf("invalid audit log path for %q: %w", env, err)
	}
	return path, nil
}

// Log appends an event to the environment's audit log.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Invocation == "" {
		event.Invocation = l.invocation
	}

	path, err := l.eventPath(event.Environment)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, env, id, details string) error {
	return l.Log(Event{
		Timestamp:   time.Now(),
		Type:        eventType,
		Environment: env,
		ID:          id,
		Details:     details,
	})
}

// Events reads all events for an environment in chronological order.
func (l *Logger) Events(env string) ([]Event, error) {
	path, err := l.eventPath(env)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}

// Remove deletes the audit log for an environment.
func (l *Logger) Remove(env string) error {
	path, err := l.eventPath(env)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
