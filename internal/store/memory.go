package store

import (
	"context"
	"sync"

	"github.com/AngelCh415/CampaignKPI_GO/internal/models"
)

// MemoryStore is an in-process Source. Load hands out copies, so later
// Upserts never change a snapshot already in use.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []models.Campaign
}

func NewMemoryStore(rows ...models.Campaign) *MemoryStore {
	s := &MemoryStore{}
	s.Upsert(rows...)
	return s
}

func (s *MemoryStore) Upsert(rows ...models.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		if r.YearQuarter == "" {
			r.YearQuarter = YearQuarter(r.Date)
		}
		s.rows = append(s.rows, r)
	}
}

func (s *MemoryStore) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewSnapshot(s.rows), nil
}
