package store

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/CampaignKPI_GO/internal/models"
)

// Column names of the cleaned campaign export.
const (
	ColDate            = "Date"
	ColYearQuarter     = "Year_Quarter"
	ColChannel         = "Channel_Used"
	ColGoal            = "Campaign_Goal"
	ColAudience        = "Target_Audience"
	ColSegment         = "Customer_Segment"
	ColLocation        = "Location"
	ColROI             = "ROI"
	ColConversionRate  = "Conversion_Rate"
	ColEngagementScore = "Engagement_Score"
	ColCTR             = "CTR"
)

var requiredColumns = []string{
	ColDate, ColChannel, ColGoal, ColAudience, ColSegment, ColLocation,
	ColROI, ColConversionRate, ColEngagementScore, ColCTR,
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "1/2/2006"}

// CSVSource re-reads the file on every Load.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource { return &CSVSource{Path: path} }

func (c *CSVSource) Load(ctx context.Context) (Snapshot, error) {
	if c.Path == "" {
		return Snapshot{}, unavailable("no data path configured")
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return Snapshot{}, unavailable("open %s: %v", c.Path, err)
	}
	defer f.Close()
	rows, err := ReadCSV(ctx, f)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(rows), nil
}

// ReadCSV parses campaign rows. Any schema or value problem fails the whole
// read; a half-loaded dataset would look like a legitimate filter result.
func ReadCSV(ctx context.Context, r io.Reader) ([]models.Campaign, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, unavailable("read header: %v", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, unavailable("missing column %q", col)
		}
	}
	yq, hasYQ := idx[ColYearQuarter] // opcional

	var out []models.Campaign
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, unavailable("line %d: %v", line, err)
		}
		get := func(col string) string { return strings.TrimSpace(rec[idx[col]]) }

		d, err := parseDate(get(ColDate))
		if err != nil {
			return nil, unavailable("line %d: bad %s %q", line, ColDate, get(ColDate))
		}
		c := models.Campaign{
			Date:     d,
			Channel:  get(ColChannel),
			Goal:     get(ColGoal),
			Audience: get(ColAudience),
			Segment:  get(ColSegment),
			Location: get(ColLocation),
		}
		if hasYQ {
			c.YearQuarter = strings.TrimSpace(rec[yq])
		}
		if c.YearQuarter == "" {
			c.YearQuarter = YearQuarter(d)
		}
		for _, m := range []struct {
			col string
			dst *float64
		}{
			{ColROI, &c.ROI},
			{ColConversionRate, &c.ConversionRate},
			{ColEngagementScore, &c.EngagementScore},
			{ColCTR, &c.CTR},
		} {
			v, err := strconv.ParseFloat(get(m.col), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, unavailable("line %d: bad %s %q", line, m.col, get(m.col))
			}
			*m.dst = v
		}
		out = append(out, c)
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
