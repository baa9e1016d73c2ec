// Package enrich provides best-effort market-quote and news lookups for
// notification bodies. Every failure degrades to "n/a" placeholders with a
// warning log; enrichment never aborts a poll cycle.
package enrich
