package stats

import (
	"math"
	"sort"

	"github.com/mrwolf/journaly/internal/models"
)

// MoodShare is one row of a mood distribution
type MoodShare struct {
	Mood    models.Mood `json:"mood"`
	Emoji   string      `json:"emoji"`
	Label   string      `json:"label"`
	Count   int         `json:"count"`
	Percent int         `json:"percent"`
}

// Distribution counts entries per mood. Rows are ordered by count, highest
// first; equal counts keep the order in which the mood was first seen.
// Percentages are rounded to the nearest integer and need not sum to 100.
func Distribution(entries []models.JournalEntry) []MoodShare {
	if len(entries) == 0 {
		return []MoodShare{}
	}

	index := make(map[models.Mood]int)
	var shares []MoodShare
	for _, e := range entries {
		mood := models.CoerceMood(string(e.Mood))
		i, ok := index[mood]
		if !ok {
			info := mood.Info()
			i = len(shares)
			index[mood] = i
			shares = append(shares, MoodShare{Mood: mood, Emoji: info.Emoji, Label: info.Label})
		}
		shares[i].Count++
	}

	total := float64(len(entries))
	for i := range shares {
		shares[i].Percent = int(math.Round(float64(shares[i].Count) / total * 100))
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Count > shares[j].Count
	})
	return shares
}

// TopMood returns the most frequent mood, or false for no entries
func TopMood(entries []models.JournalEntry) (models.Mood, bool) {
	shares := Distribution(entries)
	if len(shares) == 0 {
		return "", false
	}
	return shares[0].Mood, true
}
