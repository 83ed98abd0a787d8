package stats

import (
	"fmt"
	"time"

	"github.com/mrwolf/journaly/internal/models"
)

// DayCell is one square of a month calendar. Blank cells pad the first week.
type DayCell struct {
	Day     int              `json:"day,omitempty"`
	Blank   bool             `json:"blank,omitempty"`
	Today   bool             `json:"today,omitempty"`
	Mood    *models.MoodInfo `json:"mood,omitempty"`
	EntryID string           `json:"entry_id,omitempty"`
}

// MonthCalendar is the history view for one month
type MonthCalendar struct {
	Year    int              `json:"year"`
	Month   time.Month       `json:"month"`
	Title   string           `json:"title"`
	Cells   []DayCell        `json:"cells"`
	Entries int              `json:"entries"`
	TopMood *models.MoodInfo `json:"top_mood,omitempty"`
}

// MonthView lays out a month starting on Sunday. Each day shows the mood of
// the first entry found for it in the order entries are given.
func MonthView(entries []models.JournalEntry, year int, month time.Month, now time.Time, loc *time.Location) (MonthCalendar, error) {
	if month < time.January || month > time.December {
		return MonthCalendar{}, fmt.Errorf("month %d out of range", month)
	}
	loc = location(loc)

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysIn := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	lead := int(first.Weekday())

	var inMonth []models.JournalEntry
	byDay := make(map[int]models.JournalEntry)
	for _, e := range entries {
		y, m, d := e.CreatedAt.In(loc).Date()
		if y != year || m != month {
			continue
		}
		inMonth = append(inMonth, e)
		if _, ok := byDay[d]; !ok {
			byDay[d] = e
		}
	}

	ny, nm, nd := now.In(loc).Date()
	cells := make([]DayCell, 0, lead+daysIn)
	for i := 0; i < lead; i++ {
		cells = append(cells, DayCell{Blank: true})
	}
	for d := 1; d <= daysIn; d++ {
		cell := DayCell{Day: d, Today: ny == year && nm == month && nd == d}
		if e, ok := byDay[d]; ok {
			info := models.CoerceMood(string(e.Mood)).Info()
			cell.Mood = &info
			cell.EntryID = e.ID
		}
		cells = append(cells, cell)
	}

	cal := MonthCalendar{
		Year:    year,
		Month:   month,
		Title:   first.Format("January 2006"),
		Cells:   cells,
		Entries: len(inMonth),
	}
	if top, ok := TopMood(inMonth); ok {
		info := top.Info()
		cal.TopMood = &info
	}
	return cal, nil
}
