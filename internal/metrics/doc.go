// Package metrics exposes Prometheus collectors for the poll loop, the
// dedup set, and the resume scheduler.
package metrics
