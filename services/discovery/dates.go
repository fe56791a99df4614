package discovery

// Date inputs may arrive as bare YYYY-MM-DD dates from user-facing search
// forms. The upstream filter wants full timestamps, so bare dates are widened
// to cover the whole day. Already-full timestamps pass through unchanged,
// which makes both helpers idempotent.

const bareDateLen = len("2006-01-02")

// NormalizeRangeStart widens a bare date to 00:00:00.000Z of that day.
func NormalizeRangeStart(date string) string {
	if len(date) == bareDateLen {
		return date + "T00:00:00.000Z"
	}
	return date
}

// NormalizeRangeEnd widens a bare date to 23:59:59.999Z of that day.
func NormalizeRangeEnd(date string) string {
	if len(date) == bareDateLen {
		return date + "T23:59:59.999Z"
	}
	return date
}
