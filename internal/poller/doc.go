// Package poller implements the poll-loop orchestrator.
//
// Each cycle, strictly in order:
//   - fires synthetic resumes whose due time elapsed
//   - fetches the halt feed and deduplicates entries by identity key
//   - notifies new events and updates the resume scheduler
//   - persists process state when the cycle mutated it
//
// Every failure inside a cycle is logged and survived; the loop only stops
// on shutdown.
package poller
