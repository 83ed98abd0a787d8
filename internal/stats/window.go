package stats

import (
	"errors"
	"strings"
	"time"

	"github.com/mrwolf/journaly/internal/models"
)

// ErrUnknownRange is returned by ParseRange
var ErrUnknownRange = errors.New("unknown range")

// Range is an insights time window
type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
	RangeAll   Range = "all"
)

// days is the number of local calendar days the range spans, today included
func (r Range) days() int {
	switch r {
	case RangeWeek:
		return 7
	case RangeMonth:
		return 30
	case RangeYear:
		return 365
	default:
		return 0
	}
}

// ParseRange parses a range name; empty means month
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeMonth, nil
	case RangeWeek, RangeMonth, RangeYear, RangeAll:
		return r, nil
	default:
		return "", ErrUnknownRange
	}
}

// Window returns the entries whose local day falls within r, ending today
func Window(entries []models.JournalEntry, r Range, now time.Time, loc *time.Location) []models.JournalEntry {
	n := r.days()
	if n == 0 {
		return append([]models.JournalEntry(nil), entries...)
	}

	loc = location(loc)
	first := dayNumber(now, loc) - (n - 1)
	var out []models.JournalEntry
	for _, e := range entries {
		if dayNumber(e.CreatedAt, loc) >= first {
			out = append(out, e)
		}
	}
	return out
}

// Summary is the insights view over a range
type Summary struct {
	Range        Range            `json:"range"`
	Streak       int              `json:"streak"`
	TotalEntries int              `json:"total_entries"`
	TopMood      *models.MoodInfo `json:"top_mood"`
	Distribution []MoodShare      `json:"distribution"`
	Themes       []Theme          `json:"themes"`
}

const summaryThemes = 5

// Summarize builds insights for r. The streak always spans every entry.
func Summarize(entries []models.JournalEntry, r Range, now time.Time, loc *time.Location) Summary {
	windowed := Window(entries, r, now, loc)

	s := Summary{
		Range:        r,
		Streak:       Streak(entries, now, loc),
		TotalEntries: len(windowed),
		Distribution: Distribution(windowed),
		Themes:       Themes(windowed, summaryThemes),
	}
	if len(s.Distribution) > 0 {
		info := s.Distribution[0].Mood.Info()
		s.TopMood = &info
	}
	return s
}
