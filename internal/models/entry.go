package models

import (
	"errors"
	"strings"
	"time"
)

// ErrEntryNotFound is returned by entry stores for unknown ids
var ErrEntryNotFound = errors.New("entry not found")

// Sender identifies who wrote a turn
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Turn is one message in a conversation
type Turn struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// JournalEntry is a finished conversation
type JournalEntry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"date"`
	Summary   string    `json:"summary"`
	FullText  string    `json:"full_text"`
	Mood      Mood      `json:"mood"`
	Turns     []Turn    `json:"messages"`
}

// UserText joins the text of every user turn, in order, one per line
func UserText(turns []Turn) string {
	var parts []string
	for _, t := range turns {
		if t.Sender == SenderUser {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// CopyTurns returns a copy of turns that shares no backing array
func CopyTurns(turns []Turn) []Turn {
	if turns == nil {
		return nil
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Clone returns a deep copy of e
func (e JournalEntry) Clone() JournalEntry {
	e.Turns = CopyTurns(e.Turns)
	return e
}
