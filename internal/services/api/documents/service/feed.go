package service

import (
	"cmp"
	"slices"
	"sync"

	"bluebird/internal/services/api/documents/domain"
)

// Feed is the realtime documents list: newest first, one entry per id
type Feed struct {
	mu     sync.RWMutex
	items  []domain.Document
	seeded bool
	limit  int
}

// NewFeed returns an empty feed holding at most limit rows
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = DefaultFeedSize
	}
	return &Feed{items: []domain.Document{}, limit: limit}
}

// Seed replaces the contents with a freshly loaded page
func (f *Feed) Seed(docs []domain.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = f.items[:0]
	f.seeded = true
	for _, d := range docs {
		f.upsert(d)
	}
}

// Seeded reports whether Seed ran
func (f *Feed) Seeded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.seeded
}

// Apply merges one change
func (f *Feed) Apply(c domain.Change) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch c.Kind {
	case domain.ChangeUpsert:
		f.upsert(c.Document)
	case domain.ChangeDelete:
		f.items = slices.DeleteFunc(f.items, func(d domain.Document) bool { return d.ID == c.Document.ID })
	}
}

func (f *Feed) upsert(doc domain.Document) {
	if i := slices.IndexFunc(f.items, func(d domain.Document) bool { return d.ID == doc.ID }); i >= 0 {
		f.items[i] = doc
	} else {
		f.items = append(f.items, doc)
	}
	slices.SortStableFunc(f.items, func(a, b domain.Document) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if len(f.items) > f.limit {
		f.items = f.items[:f.limit]
	}
}

// Items returns a copy of the current list
func (f *Feed) Items() []domain.Document {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.items)
}
