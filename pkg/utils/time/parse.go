// ABOUTME: Flexible timestamp parsing for search provider result fields
// ABOUTME: Handles JSON API publishedAt values and raw RSS pubDate strings

package time

import (
	"strings"
	"time"
)

// Layouts observed across provider responses. JSON search APIs emit
// ISO 8601 variants with varying precision; RSS feeds emit RFC 1123 /
// RFC 822 style pubDates, sometimes with a one-digit day.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 MST",
}

// ParseFlexibleTime parses a provider timestamp against the known
// layouts, first match wins. The zero time means "no usable timestamp";
// callers leave the record's timestamp unset rather than inventing one.
func ParseFlexibleTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	return time.Time{}
}

// ParseWithDefault parses a provider timestamp, substituting the given
// default when no layout matches.
func ParseWithDefault(value string, def time.Time) time.Time {
	if t := ParseFlexibleTime(value); !t.IsZero() {
		return t
	}
	return def
}
