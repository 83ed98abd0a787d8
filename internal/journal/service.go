package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mrwolf/journaly/internal/models"
)

// Service wires sessions, the finalizer and the entry store together
type Service struct {
	assistant Assistant
	store     EntryStore
	finalizer *Finalizer
	sessions  *Registry
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a journal service
func NewService(assistant Assistant, store EntryStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		assistant: assistant,
		store:     store,
		finalizer: NewFinalizer(assistant, store, logger),
		sessions:  NewRegistry(),
		logger:    logger,
		now:       time.Now,
	}
}

// Sessions exposes the live session registry
func (s *Service) Sessions() *Registry {
	return s.sessions
}

// StartSession opens a new session. A non-empty entryID reopens that entry.
func (s *Service) StartSession(ctx context.Context, text, entryID string) (Snapshot, error) {
	in := StartInput{InitialText: text}
	if entryID != "" {
		entry, err := s.store.Get(ctx, entryID)
		if err != nil {
			return Snapshot{}, fmt.Errorf("loading entry %s: %w", entryID, err)
		}
		in.Existing = &entry
	}

	sess := NewSession(s.assistant)
	s.sessions.Add(sess)

	if err := sess.Start(ctx, in); err != nil {
		s.sessions.Remove(sess.ID())
		return Snapshot{}, err
	}

	s.logger.Debug("session started",
		zap.String("session_id", sess.ID()),
		zap.String("entry_id", entryID),
	)
	return sess.Snapshot(), nil
}

// Session returns a snapshot of a live session
func (s *Service) Session(id string) (Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// SendMessage sends a user message and waits for the assistant's reply
func (s *Service) SendMessage(ctx context.Context, id, text string) (models.SendMessageResponse, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return models.SendMessageResponse{}, err
	}

	userTurn, reply, err := sess.SendUserMessage(ctx, text)
	if err != nil {
		return models.SendMessageResponse{}, err
	}
	return models.SendMessageResponse{
		UserTurn:       userTurn,
		AssistantTurn:  reply,
		ShowMoodPrompt: sess.Snapshot().MoodPromptVisible,
	}, nil
}

// ChooseMood records the user's mood pick for a session
func (s *Service) ChooseMood(id string, mood models.Mood) (Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := sess.ChooseMood(mood); err != nil {
		return Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Finish finalizes a session into an entry and drops the session
func (s *Service) Finish(ctx context.Context, id string) (models.JournalEntry, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return models.JournalEntry{}, err
	}

	entry, err := s.finalizer.Finalize(ctx, sess)
	if err != nil {
		return models.JournalEntry{}, err
	}
	s.sessions.Remove(id)
	return entry, nil
}

// Cancel discards a session without saving anything
func (s *Service) Cancel(id string) error {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return err
	}
	sess.Cancel()
	s.sessions.Remove(id)
	return nil
}

// Entries lists every entry, most recent first
func (s *Service) Entries(ctx context.Context) ([]models.JournalEntry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

// Entry returns a single entry
func (s *Service) Entry(ctx context.Context, id string) (models.JournalEntry, error) {
	return s.store.Get(ctx, id)
}

// SweepIdle discards sessions that have been idle longer than timeout
func (s *Service) SweepIdle(timeout time.Duration) int {
	removed := s.sessions.SweepIdle(s.now().Add(-timeout))
	if len(removed) > 0 {
		s.logger.Info("discarded idle sessions",
			zap.Int("count", len(removed)),
			zap.Duration("timeout", timeout),
		)
	}
	return len(removed)
}

// SeedDemo stores the demo entries unless the store already holds entries
func (s *Service) SeedDemo(ctx context.Context) error {
	existing, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("checking store before seeding: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	var errs []error
	for _, e := range DemoEntries(s.now()) {
		if err := s.store.Upsert(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("seeding entry %s: %w", e.ID, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.logger.Info("seeded demo entries")
	return nil
}
