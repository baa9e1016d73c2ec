// Package scheduler implements the delayed-resume state machine: new halts
// enqueue a synthetic resume with a per-ticker escalating delay, real
// resumes cancel the synthetic ones, and due entries fire exactly once.
package scheduler
