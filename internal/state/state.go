package state

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

// PendingResume is a scheduled synthetic resume notification awaiting its
// due time. Entries live exclusively in State.PendingResumes; nothing else
// holds them across poll cycles.
type PendingResume struct {
	Ticker       string `json:"ticker"`
	HaltDate     string `json:"halt_date"`
	Reason       string `json:"reason"`
	DelayMinutes int    `json:"delay_minutes"`
	DueAt        int64  `json:"due_at"` // epoch seconds
	EventID      string `json:"event_id"`
}

// Due reports whether the entry's due time has elapsed.
func (p PendingResume) Due(now time.Time) bool {
	return p.DueAt != 0 && p.DueAt <= now.Unix()
}

// State is the process's in-memory aggregate: the dedup set, the
// pending-resume queue, and the per-ticker halt counters. It is loaded once
// at startup and owned by the poll loop; the scheduler mutates only
// PendingResumes and HaltCounts, the poll loop mutates only the seen set.
// Single-threaded access by design, so no locking.
type State struct {
	// seen maps identity keys to the epoch second they were last observed,
	// which bounds the set by age instead of growing forever.
	seen map[string]int64

	PendingResumes []PendingResume
	HaltCounts     map[string]int
}

// New returns an empty State.
func New() *State {
	return &State{
		seen:           make(map[string]int64),
		PendingResumes: nil,
		HaltCounts:     make(map[string]int),
	}
}

// Seen reports whether the identity key has been processed before.
func (s *State) Seen(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// MarkSeen records an identity key as processed at the given time.
func (s *State) MarkSeen(id string, now time.Time) {
	s.seen[id] = now.Unix()
}

// SeenCount returns the number of identity keys currently retained.
func (s *State) SeenCount() int {
	return len(s.seen)
}

// PruneSeen drops identity keys last observed before cutoff and returns how
// many were removed. Feed entries roll off within days, so pruning is safe:
// an aged-out entry that somehow reappears is simply notified again.
func (s *State) PruneSeen(cutoff time.Time) int {
	limit := cutoff.Unix()
	removed := 0
	for id, at := range s.seen {
		if at < limit {
			delete(s.seen, id)
			removed++
		}
	}
	return removed
}

// HaltCount returns the consecutive-halt counter for a ticker.
func (s *State) HaltCount(ticker string) int {
	return s.HaltCounts[ticker]
}

// ResetHaltCount zeroes the consecutive-halt counter for a ticker.
func (s *State) ResetHaltCount(ticker string) {
	s.HaltCounts[ticker] = 0
}

// durableState is the JSON layout of the state file. seen_at carries the
// per-key timestamps that make pruning possible; loaders from older files
// without it stamp every key at load time.
type durableState struct {
	SeenIDs        []string         `json:"seen_ids"`
	SeenAt         map[string]int64 `json:"seen_at,omitempty"`
	PendingResumes []PendingResume  `json:"pending_resumes"`
	HaltCounts     map[string]int   `json:"halt_counts"`
}

// MarshalJSON encodes the state in its durable layout with sorted seen_ids.
func (s *State) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pending := s.PendingResumes
	if pending == nil {
		pending = []PendingResume{}
	}
	counts := s.HaltCounts
	if counts == nil {
		counts = map[string]int{}
	}

	return json.Marshal(durableState{
		SeenIDs:        ids,
		SeenAt:         s.seen,
		PendingResumes: pending,
		HaltCounts:     counts,
	})
}

// UnmarshalJSON decodes the durable layout, tolerating absent keys.
func (s *State) UnmarshalJSON(data []byte) error {
	var d durableState
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}

	now := time.Now().Unix()
	s.seen = make(map[string]int64, len(d.SeenIDs))
	for _, id := range d.SeenIDs {
		if at, ok := d.SeenAt[id]; ok {
			s.seen[id] = at
		} else {
			s.seen[id] = now
		}
	}
	s.PendingResumes = d.PendingResumes
	s.HaltCounts = d.HaltCounts
	if s.HaltCounts == nil {
		s.HaltCounts = make(map[string]int)
	}
	return nil
}

// Store persists and reloads the process state. Load never fails on a
// missing or unreadable snapshot: corrupt durable state means starting
// fresh, not refusing to start.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s *State) error
}
