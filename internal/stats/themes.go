package stats

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mrwolf/journaly/internal/models"
)

// Theme is a term that keeps coming up across entries
type Theme struct {
	Term    string `json:"term"`
	Entries int    `json:"entries"`
}

var wordRegex = regexp.MustCompile(`[a-z']+`)

// themeMinEntries is how many entries a term must appear in to count as recurring
const themeMinEntries = 2

// terms returns the distinct non-stopword terms of text, lower-cased
func terms(text string) map[string]bool {
	out := make(map[string]bool)
	for _, word := range wordRegex.FindAllString(strings.ToLower(text), -1) {
		word = strings.ReplaceAll(word, "'", "")
		if len(word) < 3 || isStopword(word) {
			continue
		}
		out[word] = true
	}
	return out
}

// Themes finds terms from the user's own words that recur across entries.
// At most limit themes are returned, most widespread first.
func Themes(entries []models.JournalEntry, limit int) []Theme {
	counts := make(map[string]int)
	for _, e := range entries {
		for term := range terms(e.FullText) {
			counts[term]++
		}
	}

	themes := []Theme{}
	for term, n := range counts {
		if n >= themeMinEntries {
			themes = append(themes, Theme{Term: term, Entries: n})
		}
	}
	sort.Slice(themes, func(i, j int) bool {
		if themes[i].Entries != themes[j].Entries {
			return themes[i].Entries > themes[j].Entries
		}
		return themes[i].Term < themes[j].Term
	})

	if limit > 0 && len(themes) > limit {
		themes = themes[:limit]
	}
	return themes
}
