package journal

import (
	"time"

	"github.com/mrwolf/journaly/internal/models"
)

const day = 24 * time.Hour

// DemoEntries returns a few sample entries around now for local development
func DemoEntries(now time.Time) []models.JournalEntry {
	seeds := []struct {
		id      string
		ago     time.Duration
		mood    models.Mood
		summary string
		text    string
		reply   string
	}{
		{
			id:      "demo-1",
			mood:    models.MoodHappy,
			summary: "Crushed the presentation at work today!",
			text:    "I was so nervous about the presentation but it went really well. My boss said it was the best one this quarter.",
			reply:   "That's amazing! All that prep paid off. How are you celebrating? 🎉",
		},
		{
			id:      "demo-2",
			ago:     day,
			mood:    models.MoodTired,
			summary: "Long day, just need some sleep.",
			text:    "Back to back meetings and then the gym. I'm wiped out.",
			reply:   "Sounds like a full tank day. Rest is productive too! 😴",
		},
		{
			id:      "demo-3",
			ago:     2 * day,
			mood:    models.MoodAnxious,
			summary: "Worried about the upcoming deadline.",
			text:    "The project is due Friday and we're behind. I keep thinking about everything that could go wrong.",
			reply:   "That's a lot to carry. What's one small thing you could finish today? 💭",
		},
		{
			id:      "demo-4",
			ago:     5 * day,
			mood:    models.MoodExcited,
			summary: "Booked tickets for the summer trip!",
			text:    "We finally booked the trip! Two weeks by the sea.",
			reply:   "Yesss! Vacation mode loading... 🏖️",
		},
	}

	entries := make([]models.JournalEntry, 0, len(seeds))
	for _, s := range seeds {
		at := now.Add(-s.ago)
		entries = append(entries, models.JournalEntry{
			ID:        s.id,
			CreatedAt: at,
			Summary:   s.summary,
			FullText:  s.text,
			Mood:      s.mood,
			Turns: []models.Turn{
				{ID: s.id + "-u", Sender: models.SenderUser, Text: s.text, Timestamp: at},
				{ID: s.id + "-a", Sender: models.SenderAssistant, Text: s.reply, Timestamp: at},
			},
		})
	}
	return entries
}
