// Package event classifies halt-feed entries and derives their
// deduplication identity keys.
package event
