package feed

import "strings"

// Entry is a single feed item flattened to a case-normalized
// field-name -> value mapping. Standard syndication fields (id, guid, title,
// link, published, updated) and any source-specific elements all appear as
// lowercased keys.
type Entry map[string]string

// First returns the first non-empty value among the given field aliases,
// trimmed of surrounding whitespace. Source feeds name the same logical
// field inconsistently, so callers pass aliases in preference order.
func (e Entry) First(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(e[key]); v != "" {
			return v
		}
	}
	return ""
}

// FirstOr is First with a fallback for when every alias is empty.
func (e Entry) FirstOr(def string, keys ...string) string {
	if v := e.First(keys...); v != "" {
		return v
	}
	return def
}
