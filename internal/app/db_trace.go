package app

import "strings"

// Traced statements are collapsed to one line and capped so appended
// row payloads never blow up span attributes.
const maxTracedQueryLength = 512

func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
