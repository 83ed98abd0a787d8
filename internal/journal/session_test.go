package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwolf/journaly/internal/llm"
	"github.com/mrwolf/journaly/internal/models"
)

var errOffline = errors.New("network unreachable")

// stubAssistant records calls and returns fixed values
type stubAssistant struct {
	mu sync.Mutex

	reply   string
	mood    models.Mood
	summary string

	continueCalls []string
	classifyCalls []string
	summaryCalls  []string
	histories     [][]llm.Message

	// block, when set, holds Continue until closed
	block   chan struct{}
	entered chan struct{}
}

func (a *stubAssistant) Continue(ctx context.Context, history []llm.Message, message string) string {
	a.mu.Lock()
	a.continueCalls = append(a.continueCalls, message)
	a.histories = append(a.histories, history)
	block, entered := a.block, a.entered
	a.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return a.reply
}

func (a *stubAssistant) ClassifyMood(ctx context.Context, text string) models.Mood {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.classifyCalls = append(a.classifyCalls, text)
	return a.mood
}

func (a *stubAssistant) Summarize(ctx context.Context, text string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.summaryCalls = append(a.summaryCalls, text)
	return a.summary
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestSession(a Assistant) *Session {
	return newSession(a, fixedClock(testNow), sequentialIDs("id"))
}

func TestStartWithoutTextGreets(t *testing.T) {
	a := &stubAssistant{reply: "hi"}
	s := newTestSession(a)

	require.NoError(t, s.Start(context.Background(), StartInput{}))

	snap := s.Snapshot()
	assert.Equal(t, StateAwaitingFirstReply, snap.State)
	require.Len(t, snap.Turns, 1)
	assert.Equal(t, models.SenderAssistant, snap.Turns[0].Sender)
	assert.Equal(t, Greeting, snap.Turns[0].Text)
	assert.False(t, snap.MoodPromptVisible)
	assert.Empty(t, a.continueCalls, "greeting is local")
}

func TestStartWithTextSendsIt(t *testing.T) {
	a := &stubAssistant{reply: "Tell me more!"}
	s := newTestSession(a)

	require.NoError(t, s.Start(context.Background(), StartInput{InitialText: "rough morning"}))

	snap := s.Snapshot()
	assert.Equal(t, StateActive, snap.State)
	require.Len(t, snap.Turns, 2)
	assert.Equal(t, models.SenderUser, snap.Turns[0].Sender)
	assert.Equal(t, "rough morning", snap.Turns[0].Text)
	assert.Equal(t, "Tell me more!", snap.Turns[1].Text)
	assert.True(t, snap.MoodPromptVisible)
	assert.Equal(t, []string{"rough morning"}, a.continueCalls)
	assert.Empty(t, a.histories[0])
}

func TestStartFromExistingEntry(t *testing.T) {
	a := &stubAssistant{}
	s := newTestSession(a)
	existing := models.JournalEntry{
		ID:        "entry-1",
		CreatedAt: testNow.Add(-48 * time.Hour),
		Mood:      models.MoodSad,
		Turns: []models.Turn{
			{ID: "t1", Sender: models.SenderUser, Text: "lost my keys"},
			{ID: "t2", Sender: models.SenderAssistant, Text: "oh no"},
		},
	}

	require.NoError(t, s.Start(context.Background(), StartInput{InitialText: "ignored", Existing: &existing}))

	snap := s.Snapshot()
	assert.Equal(t, StateActive, snap.State)
	assert.Equal(t, existing.Turns, snap.Turns)
	assert.True(t, snap.MoodPromptVisible)
	assert.Equal(t, models.MoodSad, snap.ChosenMood)
	assert.Equal(t, "entry-1", snap.SourceEntryID)
	assert.Empty(t, a.continueCalls)

	// the caller's entry is not aliased
	existing.Turns[0].Text = "changed"
	assert.Equal(t, "lost my keys", s.Snapshot().Turns[0].Text)
}

func TestStartTwiceFails(t *testing.T) {
	s := newTestSession(&stubAssistant{})
	require.NoError(t, s.Start(context.Background(), StartInput{}))
	assert.ErrorIs(t, s.Start(context.Background(), StartInput{}), ErrInvalidState)
}

func TestSendUserMessageHistoryExcludesNewMessage(t *testing.T) {
	a := &stubAssistant{reply: "ok"}
	s := newTestSession(a)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx, StartInput{}))
	_, _, err := s.SendUserMessage(ctx, "first")
	require.NoError(t, err)
	userTurn, reply, err := s.SendUserMessage(ctx, "second")
	require.NoError(t, err)

	assert.Equal(t, "second", userTurn.Text)
	assert.Equal(t, models.SenderAssistant, reply.Sender)
	require.Len(t, a.histories, 2)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleModel, Content: Greeting},
	}, a.histories[0])
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleModel, Content: Greeting},
		{Role: llm.RoleUser, Content: "first"},
		{Role: llm.RoleModel, Content: "ok"},
	}, a.histories[1])
	assert.Len(t, s.Snapshot().Turns, 5)
}

func TestSendUserMessageRejectsBlank(t *testing.T) {
	s := newTestSession(&stubAssistant{})
	_, _, err := s.SendUserMessage(context.Background(), "   \n")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, StateEmpty, s.State())
}

func TestSendWhileComposingIsRejected(t *testing.T) {
	a := &stubAssistant{
		reply:   "done",
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	s := newTestSession(a)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx, StartInput{}))

	done := make(chan error, 1)
	go func() {
		_, _, err := s.SendUserMessage(ctx, "first")
		done <- err
	}()
	<-a.entered

	assert.True(t, s.Composing())
	_, _, err := s.SendUserMessage(ctx, "second")
	assert.ErrorIs(t, err, ErrComposing)
	_, err = s.beginFinish()
	assert.ErrorIs(t, err, ErrComposing)

	close(a.block)
	require.NoError(t, <-done)
	assert.False(t, s.Composing())

	snap := s.Snapshot()
	require.Len(t, snap.Turns, 3)
	assert.Equal(t, "first", snap.Turns[1].Text)
	assert.Equal(t, "done", snap.Turns[2].Text)
}

func TestChooseMood(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected before first reply", func(t *testing.T) {
		s := newTestSession(&stubAssistant{})
		require.NoError(t, s.Start(ctx, StartInput{}))
		assert.ErrorIs(t, s.ChooseMood(models.MoodHappy), ErrInvalidState)
	})

	t.Run("unknown mood", func(t *testing.T) {
		s := newTestSession(&stubAssistant{reply: "hi"})
		require.NoError(t, s.Start(ctx, StartInput{InitialText: "hey"}))
		assert.ErrorIs(t, s.ChooseMood(models.Mood("ecstatic")), ErrInvalidMood)
	})

	t.Run("recorded while active", func(t *testing.T) {
		s := newTestSession(&stubAssistant{reply: "hi"})
		require.NoError(t, s.Start(ctx, StartInput{InitialText: "hey"}))
		require.NoError(t, s.ChooseMood(models.MoodExcited))
		assert.Equal(t, models.MoodExcited, s.Snapshot().ChosenMood)
	})

	t.Run("rejected while composing", func(t *testing.T) {
		a := &stubAssistant{reply: "hi"}
		s := newTestSession(a)
		require.NoError(t, s.Start(ctx, StartInput{InitialText: "hey"}))
		require.NoError(t, s.ChooseMood(models.MoodTired))

		a.block = make(chan struct{})
		a.entered = make(chan struct{}, 1)
		done := make(chan error, 1)
		go func() {
			_, _, err := s.SendUserMessage(ctx, "still there?")
			done <- err
		}()
		<-a.entered

		assert.ErrorIs(t, s.ChooseMood(models.MoodAngry), ErrComposing)
		close(a.block)
		require.NoError(t, <-done)

		require.NoError(t, s.ChooseMood(models.MoodAngry))
		assert.Equal(t, models.MoodAngry, s.Snapshot().ChosenMood)
	})
}

func TestCancelEndsSession(t *testing.T) {
	s := newTestSession(&stubAssistant{reply: "hi"})
	ctx := context.Background()
	require.NoError(t, s.Start(ctx, StartInput{InitialText: "hey"}))

	s.Cancel()

	assert.Equal(t, StateFinished, s.State())
	_, _, err := s.SendUserMessage(ctx, "again")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, s.ChooseMood(models.MoodHappy), ErrInvalidState)
}

func TestSessionUsesGatewayFallback(t *testing.T) {
	g := llm.NewGateway(llm.NewFailingBackend(errOffline), nil, nil)
	s := newTestSession(g)

	require.NoError(t, s.Start(context.Background(), StartInput{InitialText: "had a great day!"}))

	snap := s.Snapshot()
	require.Len(t, snap.Turns, 2)
	assert.Equal(t, llm.ContinueFallback, snap.Turns[1].Text)
	assert.Equal(t, StateActive, snap.State)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_first_reply", StateAwaitingFirstReply.String())
	assert.Equal(t, "state(9)", State(9).String())
	b, err := StateActive.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "active", string(b))

	var st State
	require.NoError(t, st.UnmarshalText([]byte("finished")))
	assert.Equal(t, StateFinished, st)
	assert.Error(t, st.UnmarshalText([]byte("paused")))
}
