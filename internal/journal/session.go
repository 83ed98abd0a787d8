package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrwolf/journaly/internal/llm"
	"github.com/mrwolf/journaly/internal/models"
)

// Greeting opens a session that has no initial text
const Greeting = "Hey bestie! 👋 What's the vibe today?"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrComposing       = errors.New("assistant is still composing a reply")
	ErrInvalidState    = errors.New("operation not allowed in current session state")
	ErrEmptyMessage    = errors.New("message text is empty")
	ErrInvalidMood     = errors.New("unknown mood")
)

// Assistant is what a session needs from the model gateway
type Assistant interface {
	Continue(ctx context.Context, history []llm.Message, message string) string
	ClassifyMood(ctx context.Context, text string) models.Mood
	Summarize(ctx context.Context, text string) string
}

// State is the lifecycle position of a session
type State int

const (
	StateEmpty State = iota
	StateAwaitingFirstReply
	StateActive
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAwaitingFirstReply:
		return "awaiting_first_reply"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for st := StateEmpty; st <= StateFinished; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", text)
}

// StartInput selects how a session begins. Existing wins over InitialText.
type StartInput struct {
	InitialText string
	Existing    *models.JournalEntry
}

// Snapshot is a read-only view of a session
type Snapshot struct {
	ID                string        `json:"id"`
	State             State         `json:"state"`
	Turns             []models.Turn `json:"messages"`
	MoodPromptVisible bool          `json:"show_mood_prompt"`
	Composing         bool          `json:"is_typing"`
	ChosenMood        models.Mood   `json:"selected_mood,omitempty"`
	SourceEntryID     string        `json:"entry_id,omitempty"`
}

// Session holds the turn history of one in-progress entry
type Session struct {
	id        string
	assistant Assistant
	now       func() time.Time
	newID     func() string

	mu                sync.Mutex
	state             State
	turns             []models.Turn
	chosenMood        models.Mood
	source            *models.JournalEntry
	moodPromptVisible bool
	composing         bool
	lastActivity      time.Time
}

// NewSession creates an empty session
func NewSession(assistant Assistant) *Session {
	return newSession(assistant, time.Now, uuid.NewString)
}

func newSession(assistant Assistant, now func() time.Time, newID func() string) *Session {
	return &Session{
		id:           newID(),
		assistant:    assistant,
		now:          now,
		newID:        newID,
		state:        StateEmpty,
		lastActivity: now(),
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Start loads an existing entry, sends the initial text, or greets the user
func (s *Session) Start(ctx context.Context, in StartInput) error {
	s.mu.Lock()
	if s.state != StateEmpty {
		s.mu.Unlock()
		return ErrInvalidState
	}

	if in.Existing != nil {
		existing := in.Existing.Clone()
		s.source = &existing
		s.turns = models.CopyTurns(existing.Turns)
		s.chosenMood = existing.Mood
		s.moodPromptVisible = true
		s.state = StateActive
		s.touch()
		s.mu.Unlock()
		return nil
	}

	if strings.TrimSpace(in.InitialText) == "" {
		s.turns = append(s.turns, models.Turn{
			ID:        s.newID(),
			Sender:    models.SenderAssistant,
			Text:      Greeting,
			Timestamp: s.now(),
		})
		s.state = StateAwaitingFirstReply
		s.touch()
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	_, _, err := s.SendUserMessage(ctx, in.InitialText)
	return err
}

// SendUserMessage appends a user turn, asks the assistant for a reply and
// appends that too. Only one send may be in flight per session.
func (s *Session) SendUserMessage(ctx context.Context, text string) (models.Turn, models.Turn, error) {
	if strings.TrimSpace(text) == "" {
		return models.Turn{}, models.Turn{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state == StateFinished {
		s.mu.Unlock()
		return models.Turn{}, models.Turn{}, ErrInvalidState
	}
	if s.composing {
		s.mu.Unlock()
		return models.Turn{}, models.Turn{}, ErrComposing
	}

	history := historyOf(s.turns)
	userTurn := models.Turn{
		ID:        s.newID(),
		Sender:    models.SenderUser,
		Text:      text,
		Timestamp: s.now(),
	}
	s.turns = append(s.turns, userTurn)
	if s.state == StateEmpty {
		s.state = StateAwaitingFirstReply
	}
	s.composing = true
	s.touch()
	s.mu.Unlock()

	reply := s.assistant.Continue(ctx, history, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	replyTurn := models.Turn{
		ID:        s.newID(),
		Sender:    models.SenderAssistant,
		Text:      reply,
		Timestamp: s.now(),
	}
	s.turns = append(s.turns, replyTurn)
	s.composing = false
	s.moodPromptVisible = true
	if s.state == StateAwaitingFirstReply {
		s.state = StateActive
	}
	s.touch()

	return userTurn, replyTurn, nil
}

// ChooseMood records the user's own mood pick. Legal only while Active
// and not while a reply or finish is in flight.
func (s *Session) ChooseMood(mood models.Mood) error {
	if !mood.Valid() {
		return ErrInvalidMood
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrInvalidState
	}
	if s.composing {
		return ErrComposing
	}
	s.chosenMood = mood
	s.touch()
	return nil
}

// Cancel discards the session without producing an entry
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateFinished
	s.composing = false
}

// Composing reports whether a reply is being generated
func (s *Session) Composing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composing
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the session's visible state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:                s.id,
		State:             s.state,
		Turns:             models.CopyTurns(s.turns),
		MoodPromptVisible: s.moodPromptVisible,
		Composing:         s.composing,
		ChosenMood:        s.chosenMood,
	}
	if s.source != nil {
		snap.SourceEntryID = s.source.ID
	}
	return snap
}

// LastActivity is when the session last changed
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// draft is what the finalizer needs from a session
type draft struct {
	turns      []models.Turn
	chosenMood models.Mood
	source     *models.JournalEntry
}

// beginFinish blocks further sends and returns the session content
func (s *Session) beginFinish() (draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.state == StateFinished:
		return draft{}, ErrInvalidState
	case s.composing:
		return draft{}, ErrComposing
	}

	s.composing = true
	d := draft{
		turns:      models.CopyTurns(s.turns),
		chosenMood: s.chosenMood,
		source:     s.source,
	}
	return d, nil
}

func (s *Session) endFinish(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.composing = false
	if ok {
		s.state = StateFinished
	}
	s.touch()
}

// touch must be called with mu held
func (s *Session) touch() {
	s.lastActivity = s.now()
}

func historyOf(turns []models.Turn) []llm.Message {
	history := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		role := llm.RoleModel
		if t.Sender == models.SenderUser {
			role = llm.RoleUser
		}
		history = append(history, llm.Message{Role: role, Content: t.Text})
	}
	return history
}
