package poller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mwhitt/haltwatch/internal/enrich"
	"github.com/mwhitt/haltwatch/internal/event"
	"github.com/mwhitt/haltwatch/internal/feed"
	"github.com/mwhitt/haltwatch/internal/metrics"
	"github.com/mwhitt/haltwatch/internal/notify"
	"github.com/mwhitt/haltwatch/internal/scheduler"
	"github.com/mwhitt/haltwatch/internal/state"
)

// FeedSource provides the halt-feed entries for a cycle.
type FeedSource interface {
	Fetch(ctx context.Context) ([]feed.Entry, error)
}

// QuoteSource provides best-effort market data for a ticker.
type QuoteSource interface {
	Lookup(ctx context.Context, ticker string) enrich.Quote
}

// NewsSource provides best-effort headlines for a ticker.
type NewsSource interface {
	Lookup(ctx context.Context, ticker string) enrich.Headlines
}

// Config holds poll-loop configuration.
type Config struct {
	Interval time.Duration // time between cycle starts (default: 60s)
	SeenTTL  time.Duration // dedup-key retention window (default: 7d)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 60 * time.Second,
		SeenTTL:  7 * 24 * time.Hour,
	}
}

// Deps are the collaborators a Poller orchestrates each cycle.
type Deps struct {
	Feed     FeedSource
	Quotes   QuoteSource
	News     NewsSource
	Notifier notify.Notifier
	Store    state.Store
	State    *state.State
	Logger   *slog.Logger
	Now      func() time.Time // nil for the real clock
}

// Poller runs the fixed-interval poll loop: fire due synthetic resumes,
// fetch the feed, process new events, persist mutated state. It is the sole
// writer of the seen-event set; pending resumes and halt counters are
// mutated through the scheduler it owns.
type Poller struct {
	cfg      Config
	feed     FeedSource
	quotes   QuoteSource
	news     NewsSource
	notifier notify.Notifier
	store    state.Store
	st       *state.State
	sched    *scheduler.Scheduler
	logger   *slog.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Poller over the given dependencies.
func New(cfg Config, deps Deps) *Poller {
	if cfg.Interval == 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.SeenTTL == 0 {
		cfg.SeenTTL = DefaultConfig().SeenTTL
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Poller{
		cfg:      cfg,
		feed:     deps.Feed,
		quotes:   deps.Quotes,
		news:     deps.News,
		notifier: deps.Notifier,
		store:    deps.Store,
		st:       deps.State,
		sched:    scheduler.New(deps.State, now, logger),
		logger:   logger,
		now:      now,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("poll loop started",
		"interval", p.cfg.Interval,
		"seen_ttl", p.cfg.SeenTTL,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("poll loop stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop. Ticks are anchored to cycle starts, so a
// slow cycle delays but never compresses the interval.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.runCycle(p.ctx)

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.runCycle(p.ctx)
		}
	}
}

// runCycle executes one poll cycle. Due synthetic resumes fire before the
// live feed is read, so a real resume arriving in the same cycle window can
// still cancel pending ones that are not yet due. No failure inside a cycle
// stops the loop.
func (p *Poller) runCycle(ctx context.Context) {
	start := p.now()

	fired := p.sched.ProcessDue(func(pending state.PendingResume) {
		title := "RESUME: " + pending.Ticker
		p.deliver(ctx, title, p.buildScheduledResumeBody(ctx, pending))
		p.logger.Info("sent scheduled resume", "ticker", pending.Ticker)
		metrics.ResumesFired.Inc()
	})

	processed := 0
	entries, err := p.feed.Fetch(ctx)
	if err != nil {
		p.logger.Warn("feed fetch failed, skipping this cycle's entries", "error", err)
		metrics.FeedErrors.Inc()
	} else {
		for _, e := range entries {
			if p.processEntry(ctx, e) {
				processed++
			}
		}
	}

	if fired+processed > 0 {
		if pruned := p.st.PruneSeen(p.now().Add(-p.cfg.SeenTTL)); pruned > 0 {
			p.logger.Debug("pruned aged dedup keys", "pruned", pruned)
		}
		if err := p.store.Save(ctx, p.st); err != nil {
			// In-memory state stays authoritative; the next mutating
			// cycle retries the write.
			p.logger.Warn("failed to persist state", "error", err)
		}
		p.logger.Info("cycle processed events",
			"new_events", processed,
			"resumes_fired", fired,
			"duration", p.now().Sub(start),
		)
	}

	metrics.Cycles.Inc()
	metrics.SeenKeys.Set(float64(p.st.SeenCount()))
	metrics.PendingResumes.Set(float64(len(p.st.PendingResumes)))
}

// processEntry handles one feed entry, returning true if it was new.
func (p *Poller) processEntry(ctx context.Context, e feed.Entry) bool {
	eventType := event.Classify(e)
	key := event.IdentityKey(e, eventType)
	if p.st.Seen(key) {
		metrics.Duplicates.Inc()
		return false
	}

	ticker := event.Symbol(e, "UNKNOWN")
	title := fmt.Sprintf("%s: %s", eventType, ticker)
	p.deliver(ctx, title, p.buildEntryBody(ctx, e, eventType))
	p.logger.Info("notified event", "type", eventType, "ticker", ticker)

	p.st.MarkSeen(key, p.now())
	metrics.Events.WithLabelValues(string(eventType)).Inc()

	switch eventType {
	case event.TypeHalt:
		p.sched.Schedule(ticker, event.HaltDate(e, enrich.NA), event.Reason(e, enrich.NA), key)
		metrics.ResumesScheduled.Inc()
	case event.TypeResume:
		cancelled := p.sched.CancelForSymbol(ticker)
		metrics.ResumesCancelled.Add(float64(cancelled))
	}
	return true
}

// deliver sends a notification, logging rather than propagating failures.
func (p *Poller) deliver(ctx context.Context, title, body string) {
	if err := p.notifier.Notify(ctx, title, body); err != nil {
		p.logger.Warn("notification delivery failed",
			"title", title,
			"error", err,
		)
		metrics.NotifyFailures.Inc()
	}
}

// buildEntryBody renders the notification body for a live feed event.
func (p *Poller) buildEntryBody(ctx context.Context, e feed.Entry, eventType event.Type) string {
	ticker := event.Symbol(e, enrich.NA)
	news := p.news.Lookup(ctx, ticker)
	market := p.quotes.Lookup(ctx, ticker)

	lines := []string{
		"Ticker: " + ticker,
		"Halt date: " + event.HaltDate(e, enrich.NA),
		"Reason: " + event.Reason(e, enrich.NA),
		"News: " + news.Link,
		"News summary: " + news.Summary,
		"Price: " + market.Price,
		"Market cap: " + market.MarketCap,
		"Float: " + market.Float,
	}
	if eventType == event.TypeResume {
		resume := strings.TrimSpace("Resume: " + event.ResumeDate(e, enrich.NA) + " " + event.ResumeTime(e, enrich.NA))
		lines = append(lines[:2], append([]string{resume}, lines[2:]...)...)
	}
	return strings.Join(lines, "\n")
}

// buildScheduledResumeBody renders the notification body for a synthetic
// resume, from the fields stored when its halt was scheduled.
func (p *Poller) buildScheduledResumeBody(ctx context.Context, pending state.PendingResume) string {
	news := p.news.Lookup(ctx, pending.Ticker)
	market := p.quotes.Lookup(ctx, pending.Ticker)

	lines := []string{
		"Ticker: " + pending.Ticker,
		"Halt date: " + pending.HaltDate,
		"Reason: " + pending.Reason,
		fmt.Sprintf("Resume: scheduled after %d minutes", pending.DelayMinutes),
		"News: " + news.Link,
		"News summary: " + news.Summary,
		"Price: " + market.Price,
		"Market cap: " + market.MarketCap,
		"Float: " + market.Float,
	}
	return strings.Join(lines, "\n")
}
