package notify

import (
	"context"
	"errors"
	"log/slog"
)

// Notifier delivers an alert. Delivery is best-effort: callers log returned
// errors and continue, they never abort a poll cycle over one.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Func is a function adapter for Notifier.
type Func func(ctx context.Context, title, body string) error

func (f Func) Notify(ctx context.Context, title, body string) error {
	return f(ctx, title, body)
}

// Multi fans an alert out to several notifiers. Every notifier is attempted
// regardless of earlier failures; the joined error reports any that failed.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, title, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Slog logs alerts through the structured logger. It doubles as the
// always-available delivery channel when desktop notifications are off.
type Slog struct {
	Logger *slog.Logger
}

func (s *Slog) Notify(ctx context.Context, title, body string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification", "title", title, "body", body)
	return nil
}
