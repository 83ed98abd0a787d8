package stats

import (
	"time"

	"github.com/mrwolf/journaly/internal/models"
)

// Greeting picks a time-of-day greeting for the home screen
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning ☀️"
	case h < 18:
		return "Good afternoon 👋"
	default:
		return "Good evening ✨"
	}
}

// VibeLabel is the home card caption for a mood
func VibeLabel(mood models.Mood) string {
	switch mood {
	case models.MoodHappy:
		return "Main Character Energy"
	case models.MoodSad:
		return "In My Feels"
	case models.MoodExcited:
		return "Hype Mode"
	default:
		return "Just Vibing"
	}
}
