package protocol

import "time"

// timestampLayout renders ISO-8601 UTC with millisecond precision
// (spec.md §4.C: "Timestamps are ISO-8601 UTC with millisecond precision").
const timestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t per the wire protocol's timestamp convention.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
