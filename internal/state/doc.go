// Package state holds the process's durable aggregate: the seen-event dedup
// set, the pending-resume queue, and the per-ticker halt counters.
//
// The aggregate is loaded once at startup and flushed after every poll cycle
// that mutated it. Both store backends treat missing or corrupt durable data
// as "start fresh" rather than a startup failure.
package state
