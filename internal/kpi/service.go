package kpi

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/AngelCh415/CampaignKPI_GO/internal/models"
	"github.com/AngelCh415/CampaignKPI_GO/internal/store"
)

// Decimal places per metric. Ratio metrics keep four, score-like metrics two.
const (
	roiPlaces        = 2
	conversionPlaces = 4
	engagementPlaces = 2
	ctrPlaces        = 4
)

type Service struct {
	src store.Source
	log *slog.Logger
}

func NewService(src store.Source, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{src: src, log: log}
}

// Compute loads a fresh snapshot, applies f and aggregates the matching rows.
// Errors come only from the source and are returned as is.
func (s *Service) Compute(ctx context.Context, f models.Filters) (models.KPIResult, error) {
	// snapshot nuevo por consulta
	snap, err := s.src.Load(ctx)
	if err != nil {
		return models.KPIResult{}, err
	}
	rows := snap.Where(Match(f))
	s.log.DebugContext(ctx, "kpi query", slog.Int("matched", len(rows)), slog.Int("total", snap.Len()))
	return Aggregate(rows), nil
}

// Aggregate builds the bundle for an already filtered set of rows.
func Aggregate(rows []models.Campaign) models.KPIResult {
	if len(rows) == 0 {
		return NoMatch()
	}
	byChannel := func(c models.Campaign) string { return c.Channel }
	byLocation := func(c models.Campaign) string { return c.Location }

	return models.KPIResult{
		Message:                models.MessageSuccess,
		AverageROI:             ptr(round(mean(rows, roi), roiPlaces)),
		AverageConversionRate:  ptr(round(mean(rows, conversion), conversionPlaces)),
		AverageEngagementScore: ptr(round(mean(rows, engagement), engagementPlaces)),
		AverageCTR:             ptr(round(mean(rows, ctr), ctrPlaces)),

		ROIByChannel:        groupMean(rows, byChannel, roi, roiPlaces),
		ConversionByChannel: groupMean(rows, byChannel, conversion, conversionPlaces),

		EngagementByAudience: groupMean(rows, func(c models.Campaign) string { return c.Audience }, engagement, engagementPlaces),
		CTRByQuarter:         groupMean(rows, func(c models.Campaign) string { return c.YearQuarter }, ctr, ctrPlaces),

		ROIByLocation:        groupMean(rows, byLocation, roi, roiPlaces),
		ConversionByLocation: groupMean(rows, byLocation, conversion, conversionPlaces),
		EngagementByLocation: groupMean(rows, byLocation, engagement, engagementPlaces),
		CTRByLocation:        groupMean(rows, byLocation, ctr, ctrPlaces),
	}
}

// NoMatch is the bundle returned when no row survives filtering.
func NoMatch() models.KPIResult {
	return models.KPIResult{
		Message:              models.MessageNoMatch,
		ROIByChannel:         map[string]float64{},
		ConversionByChannel:  map[string]float64{},
		EngagementByAudience: map[string]float64{},
		CTRByQuarter:         map[string]float64{},
		ROIByLocation:        map[string]float64{},
		ConversionByLocation: map[string]float64{},
		EngagementByLocation: map[string]float64{},
		CTRByLocation:        map[string]float64{},
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Ready pings the source when it supports it and then loads a snapshot.
func (s *Service) Ready(ctx context.Context) error {
	if p, ok := s.src.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	_, err := s.src.Load(ctx)
	return err
}

// Options returns the sorted distinct values of every filterable column.
func (s *Service) Options(ctx context.Context) (models.FilterOptions, error) {
	snap, err := s.src.Load(ctx)
	if err != nil {
		return models.FilterOptions{}, err
	}
	rows := snap.Where(nil)
	return models.FilterOptions{
		Channel:  distinct(rows, func(c models.Campaign) string { return c.Channel }),
		Goal:     distinct(rows, func(c models.Campaign) string { return c.Goal }),
		Audience: distinct(rows, func(c models.Campaign) string { return c.Audience }),
		Segment:  distinct(rows, func(c models.Campaign) string { return c.Segment }),
		Quarter:  distinct(rows, func(c models.Campaign) string { return c.YearQuarter }),
		Location: distinct(rows, func(c models.Campaign) string { return c.Location }),
	}, nil
}

type metric func(models.Campaign) float64

func roi(c models.Campaign) float64        { return c.ROI }
func conversion(c models.Campaign) float64 { return c.ConversionRate }
func engagement(c models.Campaign) float64 { return c.EngagementScore }
func ctr(c models.Campaign) float64        { return c.CTR }

func mean(rows []models.Campaign, m metric) float64 {
	var sum float64
	for _, r := range rows {
		sum += m(r)
	}
	return sum / float64(len(rows))
}

// groupMean only creates a bucket when a row carries the key, so every
// bucket has n >= 1.
func groupMean(rows []models.Campaign, key func(models.Campaign) string, m metric, places int) map[string]float64 {
	type acc struct {
		sum float64
		n   int
	}
	buckets := make(map[string]*acc)
	for _, r := range rows {
		k := key(r)
		b, ok := buckets[k]
		if !ok {
			b = &acc{}
			buckets[k] = b
		}
		b.sum += m(r)
		b.n++
	}
	out := make(map[string]float64, len(buckets))
	for k, b := range buckets {
		out[k] = round(b.sum/float64(b.n), places)
	}
	return out
}

func distinct(rows []models.Campaign, key func(models.Campaign) string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// round uses round-half-to-even on v*10^places.
func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.RoundToEven(v*p) / p
}

func ptr(f float64) *float64 { return &f }
