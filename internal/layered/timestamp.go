package layered

import "time"

// Timestamps are lossy in both directions: encode truncates to whole epoch
// seconds, decode always renders UTC with a literal Z regardless of the
// offset the source text carried.

const naiveLayout = "2006-01-02T15:04:05"

// epochFromISO converts an ISO-8601 timestamp to epoch seconds. Empty input
// yields (nil, true); input that fails to parse yields (nil, false) so the
// caller can record the degradation.
func epochFromISO(ts string) (*int64, bool) {
	if ts == "" {
		return nil, true
	}

	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		// Zone-less timestamps are read as UTC.
		parsed, err = time.Parse(naiveLayout, ts)
		if err != nil {
			return nil, false
		}
	}

	epoch := parsed.Unix()
	return &epoch, true
}

func isoFromEpoch(epoch *int64) string {
	if epoch == nil {
		return ""
	}

	return time.Unix(*epoch, 0).UTC().Format(time.RFC3339)
}
