package stats

import (
	"sort"
	"time"

	"github.com/mrwolf/journaly/internal/models"
)

// dayNumber maps t to a count of calendar days in loc. Consecutive local
// dates differ by exactly one regardless of DST shifts.
func dayNumber(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// distinctDays returns the local days that have at least one entry, most recent first
func distinctDays(entries []models.JournalEntry, loc *time.Location) []int {
	seen := make(map[int]bool, len(entries))
	var days []int
	for _, e := range entries {
		n := dayNumber(e.CreatedAt, loc)
		if !seen[n] {
			seen[n] = true
			days = append(days, n)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(days)))
	return days
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
