package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AngelCh415/CampaignKPI_GO/internal/models"
)

// ErrDataUnavailable means the campaign dataset could not be produced: the
// source is missing, unreachable or does not match the expected schema.
var ErrDataUnavailable = errors.New("campaign data unavailable")

// Source produces a read-only snapshot of the campaign dataset. Each call
// returns an independent snapshot.
type Source interface {
	Load(ctx context.Context) (Snapshot, error)
}

// Snapshot is an immutable view of the dataset.
type Snapshot struct{ rows []models.Campaign }

func NewSnapshot(rows []models.Campaign) Snapshot {
	cp := make([]models.Campaign, len(rows))
	copy(cp, rows)
	for i := range cp {
		if cp[i].YearQuarter == "" {
			cp[i].YearQuarter = YearQuarter(cp[i].Date)
		}
	}
	return Snapshot{rows: cp}
}

func (s Snapshot) Len() int { return len(s.rows) }

// At returns a copy of row i.
func (s Snapshot) At(i int) models.Campaign { return s.rows[i] }

// Where returns the rows matching f, in dataset order.
func (s Snapshot) Where(f func(models.Campaign) bool) []models.Campaign {
	out := make([]models.Campaign, 0, len(s.rows))
	for _, r := range s.rows {
		if f == nil || f(r) {
			out = append(out, r)
		}
	}
	return out
}

// YearQuarter formats t as "<year>Q<quarter>" using calendar quarters.
func YearQuarter(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%dQ%d", t.Year(), q)
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataUnavailable, fmt.Sprintf(format, args...))
}
