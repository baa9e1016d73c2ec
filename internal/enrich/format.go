package enrich

import "fmt"

// NA is the placeholder for any enrichment value that could not be fetched.
const NA = "n/a"

// shortenLimit caps headline length in news summaries.
const shortenLimit = 80

// FormatPrice renders a quote price as dollars, or NA when absent.
func FormatPrice(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("$%.2f", *v)
}

// FormatCompact renders a large number with a T/B/M/K suffix, or NA when
// absent.
func FormatCompact(v *float64) string {
	if v == nil {
		return NA
	}

	num := *v
	abs := num
	if abs < 0 {
		abs = -abs
	}

	units := []struct {
		threshold float64
		suffix    string
	}{
		{1e12, "T"},
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "K"},
	}
	for _, u := range units {
		if abs >= u.threshold {
			return fmt.Sprintf("%.2f%s", num/u.threshold, u.suffix)
		}
	}
	return fmt.Sprintf("%.2f", num)
}

// Shorten truncates text to the headline limit, replacing the tail with an
// ellipsis.
func Shorten(text string) string {
	runes := []rune(text)
	if len(runes) <= shortenLimit {
		return text
	}
	cut := runes[:shortenLimit-3]
	for len(cut) > 0 && cut[len(cut)-1] == ' ' {
		cut = cut[:len(cut)-1]
	}
	return string(cut) + "..."
}
