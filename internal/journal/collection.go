package journal

import (
	"context"
	"sort"
	"sync"

	"github.com/mrwolf/journaly/internal/models"
)

// MemoryCollection is an in-memory EntryStore. Nothing survives a restart.
type MemoryCollection struct {
	mu      sync.RWMutex
	entries map[string]models.JournalEntry
}

// NewMemoryCollection creates an empty collection
func NewMemoryCollection() *MemoryCollection {
	return &MemoryCollection{
		entries: make(map[string]models.JournalEntry),
	}
}

// Upsert inserts entry or replaces the entry with the same id
func (c *MemoryCollection) Upsert(ctx context.Context, entry models.JournalEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.ID] = entry.Clone()
	return nil
}

// Get returns the entry with id
func (c *MemoryCollection) Get(ctx context.Context, id string) (models.JournalEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok {
		return models.JournalEntry{}, models.ErrEntryNotFound
	}
	return e.Clone(), nil
}

// List returns every entry, most recent first
func (c *MemoryCollection) List(ctx context.Context) ([]models.JournalEntry, error) {
	c.mu.RLock()
	out := make([]models.JournalEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Clone())
	}
	c.mu.RUnlock()

	SortRecentFirst(out)
	return out, nil
}

// SortRecentFirst orders entries by creation time, newest first, ids breaking ties
func SortRecentFirst(entries []models.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
