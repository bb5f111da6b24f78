// Package notify defines the user-visible notification channel.
package notify

import (
	"context"
	"log/slog"
)

// Kind classifies a notification.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Notifier delivers a short message to the user.
type Notifier interface {
	Notify(message string, kind Kind)
}

// Func adapts an ordinary function to the Notifier interface.
type Func func(message string, kind Kind)

// Notify calls f(message, kind).
func (f Func) Notify(message string, kind Kind) {
	f(message, kind)
}

// LogNotifier records notifications in the structured log. It is used when no
// terminal is attached.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a notifier that writes to the given logger.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (ln *LogNotifier) Notify(message string, kind Kind) {
	level := slog.LevelInfo
	if kind == Error {
		level = slog.LevelError
	}

	ln.log.Log(context.Background(), level, message, "kind", string(kind))
}

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(message string, kind Kind) {
	for _, n := range m {
		n.Notify(message, kind)
	}
}
