package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwolf/journaly/internal/llm"
	"github.com/mrwolf/journaly/internal/models"
)

func newTestFinalizer(a Assistant, store EntryStore) *Finalizer {
	f := NewFinalizer(a, store, nil)
	f.now = fixedClock(testNow)
	f.newID = sequentialIDs("entry")
	return f
}

func TestFinalizeAllGatewayCallsFail(t *testing.T) {
	ctx := context.Background()
	g := llm.NewGateway(llm.NewFailingBackend(errOffline), nil, nil)
	store := NewMemoryCollection()
	f := newTestFinalizer(g, store)

	s := newTestSession(g)
	require.NoError(t, s.Start(ctx, StartInput{InitialText: "had a great day!"}))

	entry, err := f.Finalize(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, models.MoodNeutral, entry.Mood)
	assert.Equal(t, "had a great day!...", entry.Summary)
	assert.Equal(t, "had a great day!", entry.FullText)
	assert.Equal(t, "entry-1", entry.ID)
	assert.Equal(t, testNow, entry.CreatedAt)
	assert.Len(t, entry.Turns, 2)
	assert.Equal(t, StateFinished, s.State())

	stored, err := store.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry, stored)
}

func TestFinalizeChosenMoodSkipsClassifier(t *testing.T) {
	ctx := context.Background()
	a := &stubAssistant{reply: "yay", mood: models.MoodSad, summary: "Big news day."}
	f := newTestFinalizer(a, NewMemoryCollection())

	s := newTestSession(a)
	require.NoError(t, s.Start(ctx, StartInput{InitialText: "got the job"}))
	require.NoError(t, s.ChooseMood(models.MoodExcited))

	entry, err := f.Finalize(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, models.MoodExcited, entry.Mood)
	assert.Empty(t, a.classifyCalls)
	assert.Equal(t, []string{"got the job"}, a.summaryCalls)
	assert.Equal(t, "Big news day.", entry.Summary)
}

func TestFinalizeClassifiesWhenNoMoodChosen(t *testing.T) {
	ctx := context.Background()
	a := &stubAssistant{reply: "hmm", mood: models.MoodAnxious, summary: "Nervous."}
	f := newTestFinalizer(a, NewMemoryCollection())

	s := newTestSession(a)
	require.NoError(t, s.Start(ctx, StartInput{InitialText: "exam tomorrow"}))

	entry, err := f.Finalize(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, models.MoodAnxious, entry.Mood)
	assert.Equal(t, []string{"exam tomorrow"}, a.classifyCalls)
}

func TestFinalizeCoercesUnknownMood(t *testing.T) {
	ctx := context.Background()
	a := &stubAssistant{reply: "hmm", mood: models.Mood("melancholy"), summary: "x"}
	f := newTestFinalizer(a, NewMemoryCollection())

	s := newTestSession(a)
	require.NoError(t, s.Start(ctx, StartInput{InitialText: "meh"}))

	entry, err := f.Finalize(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, models.MoodNeutral, entry.Mood)
}

func TestFinalizeFullTextExcludesAssistantTurns(t *testing.T) {
	ctx := context.Background()
	a := &stubAssistant{reply: "assistant says things", mood: models.MoodHappy, summary: "s"}
	f := newTestFinalizer(a, NewMemoryCollection())

	s := newTestSession(a)
	require.NoError(t, s.Start(ctx, StartInput{}))
	_, _, err := s.SendUserMessage(ctx, "line one")
	require.NoError(t, err)
	_, _, err = s.SendUserMessage(ctx, "line two")
	require.NoError(t, err)

	entry, err := f.Finalize(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, "line one\nline two", entry.FullText)
	assert.Len(t, entry.Turns, 5)
}

func TestRefinalizePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCollection()
	created := testNow.Add(-72 * time.Hour)
	original := models.JournalEntry{
		ID:        "entry-abc",
		CreatedAt: created,
		Summary:   "old summary",
		FullText:  "first visit",
		Mood:      models.MoodTired,
		Turns: []models.Turn{
			{ID: "t1", Sender: models.SenderUser, Text: "first visit", Timestamp: created},
			{ID: "t2", Sender: models.SenderAssistant, Text: "welcome", Timestamp: created},
		},
	}
	require.NoError(t, store.Upsert(ctx, original))

	a := &stubAssistant{reply: "nice", mood: models.MoodSad, summary: "new summary"}
	f := newTestFinalizer(a, store)

	s := newTestSession(a)
	require.NoError(t, s.Start(ctx, StartInput{Existing: &original}))
	_, _, err := s.SendUserMessage(ctx, "coming back")
	require.NoError(t, err)
	require.NoError(t, s.ChooseMood(models.MoodHappy))

	entry, err := f.Finalize(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, "entry-abc", entry.ID)
	assert.Equal(t, created, entry.CreatedAt)
	assert.Equal(t, models.MoodHappy, entry.Mood)
	assert.Equal(t, "new summary", entry.Summary)
	assert.Equal(t, "first visit\ncoming back", entry.FullText)
	assert.Len(t, entry.Turns, 4)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, entry, all[0])
}

func TestFinalizeTwiceFails(t *testing.T) {
	ctx := context.Background()
	a := &stubAssistant{reply: "ok", mood: models.MoodHappy, summary: "s"}
	f := newTestFinalizer(a, NewMemoryCollection())

	s := newTestSession(a)
	require.NoError(t, s.Start(ctx, StartInput{InitialText: "hi"}))
	_, err := f.Finalize(ctx, s)
	require.NoError(t, err)

	_, err = f.Finalize(ctx, s)
	assert.ErrorIs(t, err, ErrInvalidState)
}

type failingStore struct {
	*MemoryCollection
}

func (failingStore) Upsert(context.Context, models.JournalEntry) error {
	return errors.New("disk full")
}

func TestFinalizeStoreFailureKeepsSessionOpen(t *testing.T) {
	ctx := context.Background()
	a := &stubAssistant{reply: "ok", mood: models.MoodHappy, summary: "s"}
	f := newTestFinalizer(a, failingStore{NewMemoryCollection()})

	s := newTestSession(a)
	require.NoError(t, s.Start(ctx, StartInput{InitialText: "hi"}))

	_, err := f.Finalize(ctx, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, StateActive, s.State())
	assert.False(t, s.Composing())
}

// slowSummary holds Summarize until release is closed
type slowSummary struct {
	*stubAssistant
	entered chan struct{}
	release chan struct{}
}

func (a *slowSummary) Summarize(ctx context.Context, text string) string {
	a.entered <- struct{}{}
	<-a.release
	return a.stubAssistant.Summarize(ctx, text)
}

func TestChooseMoodDuringFinalizeIsRejected(t *testing.T) {
	ctx := context.Background()
	a := &slowSummary{
		stubAssistant: &stubAssistant{reply: "nice", summary: "A good one."},
		entered:       make(chan struct{}, 1),
		release:       make(chan struct{}),
	}
	f := newTestFinalizer(a, NewMemoryCollection())

	s := newTestSession(a)
	require.NoError(t, s.Start(ctx, StartInput{InitialText: "went hiking"}))
	require.NoError(t, s.ChooseMood(models.MoodHappy))

	done := make(chan models.JournalEntry, 1)
	go func() {
		entry, err := f.Finalize(ctx, s)
		assert.NoError(t, err)
		done <- entry
	}()
	<-a.entered

	assert.ErrorIs(t, s.ChooseMood(models.MoodAngry), ErrComposing)
	assert.Equal(t, models.MoodHappy, s.Snapshot().ChosenMood)

	close(a.release)
	entry := <-done
	assert.Equal(t, models.MoodHappy, entry.Mood)
}
