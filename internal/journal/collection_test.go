package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwolf/journaly/internal/models"
)

func TestMemoryCollectionUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection()

	e := models.JournalEntry{ID: "a", CreatedAt: testNow, Mood: models.MoodHappy, Summary: "one"}
	require.NoError(t, c.Upsert(ctx, e))
	e.Summary = "two"
	require.NoError(t, c.Upsert(ctx, e))

	all, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "two", all[0].Summary)
}

func TestMemoryCollectionListOrder(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection()

	seeds := []struct {
		id  string
		ago time.Duration
	}{
		{"old", 48 * time.Hour},
		{"newest", 0},
		{"middle", 24 * time.Hour},
	}
	for _, s := range seeds {
		require.NoError(t, c.Upsert(ctx, models.JournalEntry{ID: s.id, CreatedAt: testNow.Add(-s.ago)}))
	}

	all, err := c.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, e := range all {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"newest", "middle", "old"}, ids)
}

func TestMemoryCollectionGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrEntryNotFound)

	turns := []models.Turn{{ID: "t", Sender: models.SenderUser, Text: "hello"}}
	require.NoError(t, c.Upsert(ctx, models.JournalEntry{ID: "x", Turns: turns}))

	got, err := c.Get(ctx, "x")
	require.NoError(t, err)
	got.Turns[0].Text = "mutated"

	again, err := c.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "hello", again.Turns[0].Text)
}

func TestRegistrySweepSkipsComposing(t *testing.T) {
	a := &stubAssistant{
		reply:   "ok",
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	idle := newTestSession(&stubAssistant{})
	busy := newTestSession(a)
	busy.id = "busy"

	r := NewRegistry()
	r.Add(idle)
	r.Add(busy)

	done := make(chan struct{})
	go func() {
		_, _, _ = busy.SendUserMessage(context.Background(), "hi")
		close(done)
	}()
	<-a.entered

	removed := r.SweepIdle(testNow.Add(time.Minute))
	assert.Equal(t, []string{idle.ID()}, removed)
	assert.Equal(t, StateFinished, idle.State())

	_, err := r.Get("busy")
	assert.NoError(t, err)

	close(a.block)
	<-done
}
