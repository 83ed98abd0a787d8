package llm

import (
	"fmt"
	"strings"

	"github.com/mrwolf/journaly/internal/models"
)

// SystemInstruction defines the assistant persona for conversations
const SystemInstruction = `You are Aura, a friendly, supportive, and insightful AI journaling assistant for a Gen-Z user.
Your goal is to help the user reflect on their day, offer empathy, and ask gentle follow-up questions.
Keep your responses concise (under 50 words usually), conversational, and warm.
Use emojis occasionally but don't overdo it.
Never be judgmental. If the user is in distress, suggest seeking professional help gently.`

const (
	moodPromptLead    = "Analyze the sentiment of this journal entry and return ONLY ONE word from this list: "
	summaryPromptLead = "Summarize this journal entry into one short, engaging sentence (max 15 words) that captures the core vibe."
)

func moodPrompt(text string) string {
	return fmt.Sprintf(`%s%s. Entry: "%s"`, moodPromptLead, strings.Join(models.MoodNames(), ", "), text)
}

func summaryPrompt(text string) string {
	return fmt.Sprintf(`%s Entry: "%s"`, summaryPromptLead, text)
}

// IsMoodPrompt reports whether prompt was built by ClassifyMood
func IsMoodPrompt(prompt string) bool {
	return strings.HasPrefix(prompt, moodPromptLead)
}

// IsSummaryPrompt reports whether prompt was built by Summarize
func IsSummaryPrompt(prompt string) bool {
	return strings.HasPrefix(prompt, summaryPromptLead)
}
