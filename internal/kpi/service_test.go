package kpi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/CampaignKPI_GO/internal/models"
	"github.com/AngelCh415/CampaignKPI_GO/internal/store"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixture() []models.Campaign {
	return []models.Campaign{
		{Date: day("2022-01-10"), Channel: "Instagram", Goal: "Brand Awareness", Audience: "Men 18-24", Segment: "Health", Location: "Miami",
			ROI: 4.0, ConversionRate: 0.05, EngagementScore: 5, CTR: 0.1},
		{Date: day("2022-05-15"), Channel: "Instagram", Goal: "Increase Sales", Audience: "Women 25-34", Segment: "Fashion", Location: "Austin",
			ROI: 6.0, ConversionRate: 0.07, EngagementScore: 7, CTR: 0.2},
		{Date: day("2022-08-01"), Channel: "Facebook", Goal: "Brand Awareness", Audience: "Men 18-24", Segment: "Health", Location: "Miami",
			ROI: 2.0, ConversionRate: 0.03, EngagementScore: 3, CTR: 0.3},
	}
}

func newSvc(rows ...models.Campaign) *Service {
	return NewService(store.NewMemoryStore(rows...), nil)
}

func TestComputeNoFilters(t *testing.T) {
	res, err := newSvc(fixture()...).Compute(context.Background(), models.Filters{})
	require.NoError(t, err)

	assert.Equal(t, models.MessageSuccess, res.Message)
	require.NotNil(t, res.AverageROI)
	assert.Equal(t, 4.0, *res.AverageROI)
	assert.Equal(t, 0.05, *res.AverageConversionRate)
	assert.Equal(t, 5.0, *res.AverageEngagementScore)
	assert.Equal(t, 0.2, *res.AverageCTR)

	assert.Equal(t, map[string]float64{"Instagram": 5.0, "Facebook": 2.0}, res.ROIByChannel)
	assert.Equal(t, map[string]float64{"Instagram": 0.06, "Facebook": 0.03}, res.ConversionByChannel)
	assert.Equal(t, map[string]float64{"Men 18-24": 4.0, "Women 25-34": 7.0}, res.EngagementByAudience)
	assert.Equal(t, map[string]float64{"2022Q1": 0.1, "2022Q2": 0.2, "2022Q3": 0.3}, res.CTRByQuarter)
	assert.Equal(t, map[string]float64{"Miami": 3.0, "Austin": 6.0}, res.ROIByLocation)
	assert.Equal(t, map[string]float64{"Miami": 0.04, "Austin": 0.07}, res.ConversionByLocation)
	assert.Equal(t, map[string]float64{"Miami": 4.0, "Austin": 7.0}, res.EngagementByLocation)
	assert.Equal(t, map[string]float64{"Miami": 0.2, "Austin": 0.2}, res.CTRByLocation)
}

func TestComputeChannelScenario(t *testing.T) {
	res, err := newSvc(fixture()...).Compute(context.Background(), models.Filters{Channel: []string{"Instagram"}})
	require.NoError(t, err)

	assert.Equal(t, 5.0, *res.AverageROI)
	assert.Equal(t, map[string]float64{"Instagram": 5.0}, res.ROIByChannel)
	assert.NotContains(t, res.ROIByLocation, "Facebook")
}

func TestComputeNoMatch(t *testing.T) {
	cases := map[string]models.Filters{
		"unknown channel":  {Channel: []string{"MySpace"}},
		"unknown goal":     {Goal: "World Domination"},
		"disjoint filters": {Channel: []string{"Facebook"}, Location: []string{"Austin"}},
		"unknown quarter":  {Quarter: []string{"1999Q1"}},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := newSvc(fixture()...).Compute(context.Background(), f)
			require.NoError(t, err)

			assert.Equal(t, "No campaigns match the selected filters.", res.Message)
			assert.Nil(t, res.AverageROI)
			assert.Nil(t, res.AverageConversionRate)
			assert.Nil(t, res.AverageEngagementScore)
			assert.Nil(t, res.AverageCTR)
			for _, m := range []map[string]float64{
				res.ROIByChannel, res.ConversionByChannel, res.EngagementByAudience, res.CTRByQuarter,
				res.ROIByLocation, res.ConversionByLocation, res.EngagementByLocation, res.CTRByLocation,
			} {
				require.NotNil(t, m)
				assert.Empty(t, m)
			}
		})
	}
}

func TestComputeEmptyDataset(t *testing.T) {
	res, err := newSvc().Compute(context.Background(), models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, models.MessageNoMatch, res.Message)
}

func TestEmptySetsAreNoConstraint(t *testing.T) {
	svc := newSvc(fixture()...)
	all, err := svc.Compute(context.Background(), models.Filters{})
	require.NoError(t, err)
	empty, err := svc.Compute(context.Background(), models.Filters{
		Channel: []string{}, Audience: []string{}, Quarter: []string{}, Location: []string{},
	})
	require.NoError(t, err)
	if diff := cmp.Diff(all, empty); diff != "" {
		t.Fatalf("empty sets changed the result (-want +got):\n%s", diff)
	}
}

func TestPredicateOrderDoesNotMatter(t *testing.T) {
	f := models.Filters{Channel: []string{"Instagram"}, Segment: "Health"}
	preds := predicates(f)
	require.Len(t, preds, 2)

	apply := func(ps []predicate) []models.Campaign {
		var out []models.Campaign
		for _, r := range fixture() {
			ok := true
			for _, p := range ps {
				ok = ok && p(r)
			}
			if ok {
				out = append(out, r)
			}
		}
		return out
	}
	forward := apply(preds)
	reverse := apply([]predicate{preds[1], preds[0]})
	if diff := cmp.Diff(Aggregate(forward), Aggregate(reverse)); diff != "" {
		t.Fatalf("predicate order changed result:\n%s", diff)
	}
	require.Len(t, forward, 1)
	assert.Equal(t, 4.0, forward[0].ROI)
}

func TestAddingPredicatesNeverGrows(t *testing.T) {
	steps := []models.Filters{
		{},
		{Goal: "Brand Awareness"},
		{Goal: "Brand Awareness", Audience: []string{"Men 18-24"}},
		{Goal: "Brand Awareness", Audience: []string{"Men 18-24"}, Location: []string{"Miami"}},
		{Goal: "Brand Awareness", Audience: []string{"Men 18-24"}, Location: []string{"Miami"}, Quarter: []string{"2022Q3"}},
	}
	snap := store.NewSnapshot(fixture())
	prev := snap.Len()
	for i, f := range steps {
		rows := snap.Where(Match(f))
		assert.LessOrEqual(t, len(rows), prev, "step %d", i)
		for _, r := range rows {
			assert.True(t, Match(f)(r))
		}
		prev = len(rows)
	}
	assert.Equal(t, 1, prev)
}

func TestGroupKeysCoverFilteredSubset(t *testing.T) {
	res, err := newSvc(fixture()...).Compute(context.Background(), models.Filters{Location: []string{"Miami"}})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Instagram", "Facebook"}, keys(res.ROIByChannel))
	assert.ElementsMatch(t, []string{"Instagram", "Facebook"}, keys(res.ConversionByChannel))
	assert.ElementsMatch(t, []string{"Men 18-24"}, keys(res.EngagementByAudience))
	assert.ElementsMatch(t, []string{"2022Q1", "2022Q3"}, keys(res.CTRByQuarter))
	assert.ElementsMatch(t, []string{"Miami"}, keys(res.ROIByLocation))
	assert.ElementsMatch(t, []string{"Miami"}, keys(res.CTRByLocation))
}

func TestRoundingPrecision(t *testing.T) {
	rows := []models.Campaign{
		{Date: day("2022-02-01"), Channel: "Twitter", ROI: 2.001, ConversionRate: 2.001, EngagementScore: 0.125, CTR: 0.12345},
		{Date: day("2022-02-02"), Channel: "Twitter", ROI: 2.002, ConversionRate: 2.002, EngagementScore: 0.125, CTR: 0.12345},
	}
	res := Aggregate(rows)

	assert.Equal(t, 2.0, *res.AverageROI)
	assert.Equal(t, 2.0015, *res.AverageConversionRate)
	// Exact ties go to the even neighbour.
	assert.Equal(t, 0.12, *res.AverageEngagementScore)
	assert.Equal(t, 0.1234, *res.AverageCTR)
	assert.Equal(t, map[string]float64{"Twitter": 2.0}, res.ROIByChannel)
}

func TestComputeSurfacesSourceError(t *testing.T) {
	svc := NewService(store.NewCSVSource("testdata/does-not-exist.csv"), nil)
	_, err := svc.Compute(context.Background(), models.Filters{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrDataUnavailable))
}

func TestOptions(t *testing.T) {
	opts, err := newSvc(fixture()...).Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Facebook", "Instagram"}, opts.Channel)
	assert.Equal(t, []string{"Brand Awareness", "Increase Sales"}, opts.Goal)
	assert.Equal(t, []string{"2022Q1", "2022Q2", "2022Q3"}, opts.Quarter)
	assert.Equal(t, []string{"Austin", "Miami"}, opts.Location)
}

func keys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
