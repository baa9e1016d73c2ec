package scheduler

import (
	"log/slog"
	"time"

	"github.com/mwhitt/haltwatch/internal/state"
)

// Escalation policy for synthetic resumes. The plateau at the second step is
// a deliberate business rule: repeated halts on the same symbol never push
// the synthetic resume past ten minutes.
const (
	FirstHaltDelay  = 5 * time.Minute
	RepeatHaltDelay = 10 * time.Minute
)

// Scheduler manages the pending-resume queue and per-ticker halt counters
// inside the shared process state. It owns those two sub-collections; the
// seen-event set stays with the poll loop.
type Scheduler struct {
	state  *state.State
	now    func() time.Time
	logger *slog.Logger
}

// New creates a scheduler over the given state. now may be nil for the real
// clock.
func New(st *state.State, now func() time.Time, logger *slog.Logger) *Scheduler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{state: st, now: now, logger: logger}
}

// Schedule records a new halt for ticker and enqueues a synthetic resume.
// The delay escalates with the ticker's unresolved-halt streak: 5 minutes
// for the first halt, 10 for every one after that.
func (s *Scheduler) Schedule(ticker, haltDate, reason, eventID string) state.PendingResume {
	count := s.state.HaltCounts[ticker] + 1
	s.state.HaltCounts[ticker] = count

	delay := delayForCount(count)
	pending := state.PendingResume{
		Ticker:       ticker,
		HaltDate:     haltDate,
		Reason:       reason,
		DelayMinutes: int(delay.Minutes()),
		DueAt:        s.now().Add(delay).Unix(),
		EventID:      eventID,
	}
	s.state.PendingResumes = append(s.state.PendingResumes, pending)

	s.logger.Info("scheduled synthetic resume",
		"ticker", ticker,
		"halt_count", count,
		"delay", delay,
	)
	return pending
}

// CancelForSymbol removes every pending resume for ticker and resets its
// halt counter. Called when a real resume arrives from the feed: the live
// signal supersedes the synthetic one.
func (s *Scheduler) CancelForSymbol(ticker string) int {
	remaining := s.state.PendingResumes[:0]
	cancelled := 0
	for _, p := range s.state.PendingResumes {
		if p.Ticker == ticker {
			cancelled++
			continue
		}
		remaining = append(remaining, p)
	}
	s.state.PendingResumes = remaining
	s.state.ResetHaltCount(ticker)

	if cancelled > 0 {
		s.logger.Info("cancelled pending resumes",
			"ticker", ticker,
			"cancelled", cancelled,
		)
	}
	return cancelled
}

// ProcessDue fires every pending resume whose due time has elapsed, calling
// fire for each and resetting the ticker's halt counter. Fired entries are
// removed before fire returns control to the caller, so a repeated call in
// the same instant fires nothing. Returns the number fired.
func (s *Scheduler) ProcessDue(fire func(state.PendingResume)) int {
	now := s.now()

	remaining := s.state.PendingResumes[:0]
	var due []state.PendingResume
	for _, p := range s.state.PendingResumes {
		if p.Due(now) {
			due = append(due, p)
			continue
		}
		remaining = append(remaining, p)
	}
	s.state.PendingResumes = remaining

	for _, p := range due {
		s.state.ResetHaltCount(p.Ticker)
		if fire != nil {
			fire(p)
		}
	}
	return len(due)
}

func delayForCount(count int) time.Duration {
	if count <= 1 {
		return FirstHaltDelay
	}
	return RepeatHaltDelay
}
