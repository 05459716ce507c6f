package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"github.com/AngelCh415/CampaignKPI_GO/internal/models"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresSource reads the campaign table on every Load. Column names are
// the CSV headers lower-cased; Year_Quarter is always derived from date.
type PostgresSource struct {
	db    *sql.DB
	query string
}

func NewPostgresSource(dsn, table string) (*PostgresSource, error) {
	q, err := selectCampaigns(table)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &PostgresSource{db: db, query: q}, nil
}

// NewPostgresSourceDB uses an already opened handle.
func NewPostgresSourceDB(db *sql.DB, table string) (*PostgresSource, error) {
	q, err := selectCampaigns(table)
	if err != nil {
		return nil, err
	}
	return &PostgresSource{db: db, query: q}, nil
}

func selectCampaigns(table string) (string, error) {
	if !identRe.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(part)
	}
	return `SELECT date, channel_used, campaign_goal, target_audience, customer_segment,
	location, roi, conversion_rate, engagement_score, ctr FROM ` + strings.Join(parts, "."), nil
}

func (p *PostgresSource) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return unavailable("ping postgres: %v", err)
	}
	return nil
}

func (p *PostgresSource) Close() error { return p.db.Close() }

func (p *PostgresSource) Load(ctx context.Context) (Snapshot, error) {
	rows, err := p.db.QueryContext(ctx, p.query)
	if err != nil {
		return Snapshot{}, unavailable("query campaigns: %v", err)
	}
	defer rows.Close()

	var out []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.Date, &c.Channel, &c.Goal, &c.Audience, &c.Segment,
			&c.Location, &c.ROI, &c.ConversionRate, &c.EngagementScore, &c.CTR); err != nil {
			return Snapshot{}, unavailable("scan campaign: %v", err)
		}
		c.YearQuarter = YearQuarter(c.Date)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, unavailable("iterate campaigns: %v", err)
	}
	return NewSnapshot(out), nil
}
