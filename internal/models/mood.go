package models

import "strings"

// Mood is the closed set of tags an entry can carry
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodAnxious Mood = "anxious"
	MoodExcited Mood = "excited"
	MoodTired   Mood = "tired"
	MoodNeutral Mood = "neutral"
	MoodAngry   Mood = "angry"
)

// MoodInfo is the display data for a mood
type MoodInfo struct {
	Mood  Mood   `json:"type"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// Catalog order is the order moods are offered to the user.
var moodCatalog = []MoodInfo{
	{Mood: MoodHappy, Emoji: "😊", Label: "Happy"},
	{Mood: MoodExcited, Emoji: "🥳", Label: "Excited"},
	{Mood: MoodNeutral, Emoji: "😐", Label: "Neutral"},
	{Mood: MoodTired, Emoji: "🥱", Label: "Tired"},
	{Mood: MoodSad, Emoji: "😔", Label: "Sad"},
	{Mood: MoodAnxious, Emoji: "😬", Label: "Anxious"},
	{Mood: MoodAngry, Emoji: "😡", Label: "Angry"},
}

// Moods returns the mood catalog in display order
func Moods() []MoodInfo {
	out := make([]MoodInfo, len(moodCatalog))
	copy(out, moodCatalog)
	return out
}

// MoodNames returns the bare mood values, in the order used when prompting the model
func MoodNames() []string {
	return []string{
		string(MoodHappy),
		string(MoodSad),
		string(MoodAnxious),
		string(MoodExcited),
		string(MoodTired),
		string(MoodNeutral),
		string(MoodAngry),
	}
}

// Info returns the catalog entry for m. Unknown moods get the neutral entry.
func (m Mood) Info() MoodInfo {
	for _, info := range moodCatalog {
		if info.Mood == m {
			return info
		}
	}
	return moodCatalog[2]
}

// Valid reports whether m is exactly one of the known moods
func (m Mood) Valid() bool {
	p, ok := ParseMood(string(m))
	return ok && p == m
}

// ParseMood normalizes s and reports whether it names a known mood
func ParseMood(s string) (Mood, bool) {
	switch Mood(strings.ToLower(strings.TrimSpace(s))) {
	case MoodHappy:
		return MoodHappy, true
	case MoodSad:
		return MoodSad, true
	case MoodAnxious:
		return MoodAnxious, true
	case MoodExcited:
		return MoodExcited, true
	case MoodTired:
		return MoodTired, true
	case MoodNeutral:
		return MoodNeutral, true
	case MoodAngry:
		return MoodAngry, true
	default:
		return "", false
	}
}

// CoerceMood maps anything outside the known set to neutral
func CoerceMood(s string) Mood {
	if m, ok := ParseMood(s); ok {
		return m
	}
	return MoodNeutral
}
