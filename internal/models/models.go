package models

import "time"

// Campaign is one row of the campaign dataset.
type Campaign struct {
	Date            time.Time
	YearQuarter     string
	Channel         string
	Goal            string
	Audience        string
	Segment         string
	Location        string
	ROI             float64
	ConversionRate  float64
	EngagementScore float64
	CTR             float64
}

// Filters narrows the dataset before aggregation. Set-valued fields with no
// entries and empty single-value fields impose no constraint.
type Filters struct {
	Channel  []string `json:"channel"`
	Goal     string   `json:"goal"`
	Audience []string `json:"audience"`
	Segment  string   `json:"segment"`
	Quarter  []string `json:"quarter"`
	Location []string `json:"location"`
}

const (
	MessageSuccess = "Success"
	MessageNoMatch = "No campaigns match the selected filters."
)

// KPIResult is the aggregate bundle. Scalars are nil when nothing matched;
// the grouped maps are never nil.
type KPIResult struct {
	Message                string   `json:"message"`
	AverageROI             *float64 `json:"average_roi"`
	AverageConversionRate  *float64 `json:"average_conversion_rate"`
	AverageEngagementScore *float64 `json:"average_engagement_score"`
	AverageCTR             *float64 `json:"average_ctr"`

	ROIByChannel        map[string]float64 `json:"roi_by_channel"`
	ConversionByChannel map[string]float64 `json:"conversion_by_channel"`

	EngagementByAudience map[string]float64 `json:"engagement_by_audience"`
	CTRByQuarter         map[string]float64 `json:"ctr_by_quarter"`

	ROIByLocation        map[string]float64 `json:"roi_by_location"`
	ConversionByLocation map[string]float64 `json:"conversion_by_location"`
	EngagementByLocation map[string]float64 `json:"engagement_by_location"`
	CTRByLocation        map[string]float64 `json:"ctr_by_location"`
}

// FilterOptions lists the distinct values available for each filter.
type FilterOptions struct {
	Channel  []string `json:"channel"`
	Goal     []string `json:"goal"`
	Audience []string `json:"audience"`
	Segment  []string `json:"segment"`
	Quarter  []string `json:"quarter"`
	Location []string `json:"location"`
}

type PredictRequest struct {
	Description string `json:"description"`
}

type PredictResponse struct {
	Prediction string `json:"prediction"`
}
