package event

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/mwhitt/haltwatch/internal/feed"
)

// Type distinguishes halt events from resume events.
type Type string

const (
	TypeHalt   Type = "HALT"
	TypeResume Type = "RESUME"
)

// FallbackPrefix marks identity keys derived from a content hash rather than
// structured fields, so they are visually distinguishable in the state file.
const FallbackPrefix = "fallback:"

// Ordered alias lists for the logical fields carried by halt feeds. The
// first non-empty alias wins; order matters and must not be changed without
// checking the live feed.
var (
	symbolAliases     = []string{"symbol", "ticker"}
	haltDateAliases   = []string{"haltdate", "halt_date", "date"}
	haltTimeAliases   = []string{"halttime", "halt_time"}
	resumeDateAliases = []string{"resumedate", "resume_date"}
	resumeTimeAliases = []string{"resumetime", "resume_time"}
	reasonAliases     = []string{"reasoncode", "reason_code", "reason"}

	// Classification additionally accepts the _est-suffixed resume-time
	// variants some feed revisions emit.
	classifyResumeTimeAliases = []string{"resumetime", "resume_time", "resumetime_est", "resume_time_est"}
)

// Symbol returns the entry's ticker symbol, or def when absent.
func Symbol(e feed.Entry, def string) string {
	return e.FirstOr(def, symbolAliases...)
}

// HaltDate returns the entry's halt date, or def when absent.
func HaltDate(e feed.Entry, def string) string {
	return e.FirstOr(def, haltDateAliases...)
}

// Reason returns the entry's halt reason code, or def when absent.
func Reason(e feed.Entry, def string) string {
	return e.FirstOr(def, reasonAliases...)
}

// ResumeDate returns the entry's resume date, or def when absent.
func ResumeDate(e feed.Entry, def string) string {
	return e.FirstOr(def, resumeDateAliases...)
}

// ResumeTime returns the entry's resume time, or def when absent.
func ResumeTime(e feed.Entry, def string) string {
	return e.FirstOr(def, resumeTimeAliases...)
}

// Classify determines whether an entry reports a halt or a resume.
//
// An entry with any resume time or date is a resume. Failing that, a reason
// code containing "RESUME" (any case) is a resume. Everything else,
// including an entry with no recognizable fields at all, is a halt.
func Classify(e feed.Entry) Type {
	if e.First(classifyResumeTimeAliases...) != "" || e.First(resumeDateAliases...) != "" {
		return TypeResume
	}
	if strings.Contains(strings.ToUpper(e.First(reasonAliases...)), "RESUME") {
		return TypeResume
	}
	return TypeHalt
}

// IdentityKey derives the deduplication key for an entry.
//
// The key is the pipe-joined non-empty values of
// [type, symbol, halt date, halt time, resume date, resume time, reason],
// which is stable across feed re-deliveries of the same logical event. When
// every structured field is empty the key falls back to a SHA-1 of the
// entry's generic identity fields.
func IdentityKey(e feed.Entry, t Type) string {
	fields := []string{
		e.First(symbolAliases...),
		e.First(haltDateAliases...),
		e.First(haltTimeAliases...),
		e.First(resumeDateAliases...),
		e.First(resumeTimeAliases...),
		e.First(reasonAliases...),
	}

	parts := []string{string(t)}
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	// The type alone identifies nothing; only structured fields make the
	// joined key usable.
	if len(parts) > 1 {
		return strings.Join(parts, "|")
	}

	raw := strings.Join([]string{
		e.First("id", "guid"),
		e.First("title"),
		e.First("link"),
		e.First("published", "updated"),
	}, "|")
	digest := sha1.Sum([]byte(raw))
	return FallbackPrefix + hex.EncodeToString(digest[:])
}
