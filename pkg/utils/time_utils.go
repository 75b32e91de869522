package utils

import (
	"time"
)

// Timestamps are stored as unix seconds.
func NowUnixSeconds() int64 { return time.Now().Unix() }

func UnixPtr(t time.Time) *int64 {
	v := t.Unix()
	return &v
}

// FromUnixMillis converts an epoch value in milliseconds to seconds.
// Returns 0 for non-positive input.
func FromUnixMillis(ms int64) int64 {
	if ms <= 0 {
		return 0
	}
	return ms / 1000
}

// MonthRange is one calendar month, [Start, End] inclusive in seconds.
type MonthRange struct {
	Label string
	Start int64
	End   int64
}

// LastMonths returns n calendar months ending with the month of now, oldest first.
func LastMonths(now time.Time, n int) []MonthRange {
	if n <= 0 {
		return nil
	}
	out := make([]MonthRange, 0, n)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := n - 1; i >= 0; i-- {
		start := first.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0).Add(-time.Second)
		out = append(out, MonthRange{
			Label: start.Format("Jan 2006"),
			Start: start.Unix(),
			End:   end.Unix(),
		})
	}
	return out
}

// DaysAgo returns the unix seconds of now minus days.
func DaysAgo(now time.Time, days int) int64 {
	return now.AddDate(0, 0, -days).Unix()
}

// ParseDateParam accepts RFC3339 or YYYY-MM-DD. endOfDay moves a bare date
// to its last second so it can bound a range inclusively.
func ParseDateParam(s string, endOfDay bool) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t.Unix(), true
}

// DayLabel formats unix seconds as YYYY-MM-DD in UTC.
func DayLabel(sec int64) string {
	return time.Unix(sec, 0).UTC().Format("2006-01-02")
}
