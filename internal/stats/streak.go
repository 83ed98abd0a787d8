package stats

import (
	"time"

	"github.com/mrwolf/journaly/internal/models"
)

// Streak counts consecutive journaling days ending at the most recent entry.
// The streak is broken (0) once the latest entry is older than yesterday.
func Streak(entries []models.JournalEntry, now time.Time, loc *time.Location) int {
	loc = location(loc)
	days := distinctDays(entries, loc)
	if len(days) == 0 {
		return 0
	}

	if dayNumber(now, loc)-days[0] > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] != 1 {
			break
		}
		streak++
	}
	return streak
}
