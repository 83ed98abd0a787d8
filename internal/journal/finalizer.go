package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrwolf/journaly/internal/models"
)

// EntryStore is the entry collection: upsert by id and snapshot reads
type EntryStore interface {
	Upsert(ctx context.Context, entry models.JournalEntry) error
	Get(ctx context.Context, id string) (models.JournalEntry, error)
	List(ctx context.Context) ([]models.JournalEntry, error)
}

// Finalizer turns a finished session into a journal entry
type Finalizer struct {
	assistant Assistant
	store     EntryStore
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewFinalizer creates a finalizer writing to store
func NewFinalizer(assistant Assistant, store EntryStore, logger *zap.Logger) *Finalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finalizer{
		assistant: assistant,
		store:     store,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Finalize resolves mood and summary for the session and upserts the entry.
// A chosen mood skips classification; the summary is always generated.
// Reopened entries keep their id and creation date.
func (f *Finalizer) Finalize(ctx context.Context, s *Session) (models.JournalEntry, error) {
	d, err := s.beginFinish()
	if err != nil {
		return models.JournalEntry{}, err
	}

	entry := f.build(ctx, d)

	if err := f.store.Upsert(ctx, entry); err != nil {
		s.endFinish(false)
		return models.JournalEntry{}, fmt.Errorf("saving entry %s: %w", entry.ID, err)
	}
	s.endFinish(true)

	f.logger.Info("journal entry saved",
		zap.String("entry_id", entry.ID),
		zap.String("session_id", s.ID()),
		zap.String("mood", string(entry.Mood)),
		zap.Bool("updated", d.source != nil),
		zap.Int("turns", len(entry.Turns)),
	)
	return entry.Clone(), nil
}

func (f *Finalizer) build(ctx context.Context, d draft) models.JournalEntry {
	fullText := models.UserText(d.turns)

	mood := d.chosenMood
	if !mood.Valid() {
		mood = models.CoerceMood(string(f.assistant.ClassifyMood(ctx, fullText)))
	}

	summary := f.assistant.Summarize(ctx, fullText)

	entry := models.JournalEntry{
		Summary:  summary,
		FullText: fullText,
		Mood:     mood,
		Turns:    d.turns,
	}
	if d.source != nil {
		entry.ID = d.source.ID
		entry.CreatedAt = d.source.CreatedAt
	} else {
		entry.ID = f.newID()
		entry.CreatedAt = f.now()
	}
	return entry
}
