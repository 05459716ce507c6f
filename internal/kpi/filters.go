package kpi

import "github.com/AngelCh415/CampaignKPI_GO/internal/models"

type predicate func(models.Campaign) bool

// Match returns a predicate accepting the rows that satisfy every active
// filter. Values are compared exactly; an unknown value matches nothing.
func Match(f models.Filters) func(models.Campaign) bool {
	preds := predicates(f)
	return func(c models.Campaign) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}
}

func predicates(f models.Filters) []predicate {
	var preds []predicate
	if set := toSet(f.Channel); set != nil {
		preds = append(preds, func(c models.Campaign) bool { return set.has(c.Channel) })
	}
	if f.Goal != "" {
		preds = append(preds, func(c models.Campaign) bool { return c.Goal == f.Goal })
	}
	if set := toSet(f.Audience); set != nil {
		preds = append(preds, func(c models.Campaign) bool { return set.has(c.Audience) })
	}
	if f.Segment != "" {
		preds = append(preds, func(c models.Campaign) bool { return c.Segment == f.Segment })
	}
	if set := toSet(f.Quarter); set != nil {
		preds = append(preds, func(c models.Campaign) bool { return set.has(c.YearQuarter) })
	}
	if set := toSet(f.Location); set != nil {
		preds = append(preds, func(c models.Campaign) bool { return set.has(c.Location) })
	}
	return preds
}

type stringSet map[string]struct{}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

// toSet returns nil for an empty list: no constraint.
func toSet(vals []string) stringSet {
	if len(vals) == 0 {
		return nil
	}
	out := make(stringSet, len(vals))
	for _, v := range vals {
		out[v] = struct{}{}
	}
	return out
}
