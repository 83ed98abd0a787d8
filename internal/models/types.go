package models

// StartSessionRequest opens a conversation. EntryID reopens an existing entry.
type StartSessionRequest struct {
	Text    string `json:"text" validate:"omitempty,max=4000"`
	EntryID string `json:"entry_id" validate:"omitempty,max=64"`
}

// SendMessageRequest carries one user message
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

// ChooseMoodRequest records the user's own mood pick
type ChooseMoodRequest struct {
	Mood string `json:"mood" validate:"required,oneof=happy sad anxious excited tired neutral angry"`
}

// SendMessageResponse is returned after the assistant replied
type SendMessageResponse struct {
	UserTurn       Turn `json:"user_message"`
	AssistantTurn  Turn `json:"assistant_message"`
	ShowMoodPrompt bool `json:"show_mood_prompt"`
}

// EntriesResponse lists journal entries, most recent first
type EntriesResponse struct {
	Entries []JournalEntry `json:"entries"`
}

// MoodsResponse is the mood catalog
type MoodsResponse struct {
	Moods []MoodInfo `json:"moods"`
}

// CurrentVibe is the home screen card for the latest entry
type CurrentVibe struct {
	Mood  Mood   `json:"mood"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// HomeResponse is returned by the home endpoint
type HomeResponse struct {
	Greeting string         `json:"greeting"`
	Vibe     *CurrentVibe   `json:"current_vibe,omitempty"`
	Recent   []JournalEntry `json:"recent"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	LLM     string `json:"llm"`
	Store   string `json:"store"`
	Version string `json:"version"`
}
