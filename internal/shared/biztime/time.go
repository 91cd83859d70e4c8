// Package biztime computes calendar boundaries in the business timezone.
// Storage and transport stay in UTC; the business timezone only decides
// where a day or month starts.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const DefaultTimezone = "Europe/Madrid"

var (
	mu          sync.RWMutex
	bizLocation *time.Location
)

// Init sets the business timezone. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("biztime: load location %q: %w", tz, err)
	}
	mu.Lock()
	bizLocation = loc
	mu.Unlock()
	return nil
}

// Location returns the business timezone, initialising the default on first use.
func Location() *time.Location {
	mu.RLock()
	loc := bizLocation
	mu.RUnlock()
	if loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		// tzdata missing: fall back to UTC rather than refusing to serve.
		mu.Lock()
		bizLocation = time.UTC
		mu.Unlock()
		return time.UTC
	}
	return Location()
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfMonthUTC returns 00:00 on the first day of t's business month, in UTC.
func StartOfMonthUTC(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), 1, 0, 0, 0, 0, Location()).UTC()
}

// MonthKey formats t's business month as "2006-01".
func MonthKey(t time.Time) string {
	return t.In(Location()).Format("2006-01")
}

// RecentMonths returns the keys of the last n business months ending with the
// month containing now, oldest first.
func RecentMonths(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	b := now.In(Location())
	first := time.Date(b.Year(), b.Month(), 1, 12, 0, 0, 0, Location())
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = first.AddDate(0, i-(n-1), 0).Format("2006-01")
	}
	return keys
}

// FormatInBizTimezone formats t in the business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
