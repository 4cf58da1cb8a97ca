package forecast

import (
	"time"

	"github.com/parttracker/backend-go/internal/domain"
)

// Inputs holds the already-materialized warehouse row sets a single
// forecast run consumes. The engine never issues queries itself.
type Inputs struct {
	Snapshots      []domain.SnapshotRow
	Deliveries     []domain.DeliveryRow
	Demand         []domain.DemandRow // forward-looking consumption
	Usage          []domain.DemandRow // trailing usage window
	PartPrices     []domain.PartPriceRow
	SafetyStocks   []domain.SafetyStockRow
	PriceOverrides []domain.PriceOverrideRow
}

// Config holds the engine settings that are deployment configuration
// rather than per-request input.
type Config struct {
	// SiteSnapshotLags maps a site to the number of days its inventory
	// snapshot trails the as-of date (data latency, not business logic).
	SiteSnapshotLags map[string]int

	DefaultHorizonMonths int
	MaxHorizonMonths     int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DefaultHorizonMonths: 3,
		MaxHorizonMonths:     14,
	}
}

// partKey is the compound identity for all per-part aggregation.
type partKey struct {
	Site       string
	PartNumber string
}

func (k partKey) less(other partKey) bool {
	if k.Site != other.Site {
		return k.Site < other.Site
	}
	return k.PartNumber < other.PartNumber
}

// dateOnly truncates a timestamp to its calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}
