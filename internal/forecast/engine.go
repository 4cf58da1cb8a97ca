// Package forecast reconstructs a continuous daily timeline of
// goods-in-transit and work-in-process balances per (site, part) from
// sparse supply and demand events, then derives stockout and
// capital-at-risk metrics from the reconstructed state.
package forecast

import (
	"fmt"
	"time"

	"github.com/parttracker/backend-go/internal/domain"
)

// Engine runs the timeline reconstruction. It is stateless apart from its
// configuration: a run is a pure function of the inputs, the as-of date
// and the horizon, so retries after transient warehouse failures are
// always safe.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.DefaultHorizonMonths <= 0 {
		cfg.DefaultHorizonMonths = DefaultConfig().DefaultHorizonMonths
	}
	if cfg.MaxHorizonMonths <= 0 {
		cfg.MaxHorizonMonths = DefaultConfig().MaxHorizonMonths
	}
	return &Engine{cfg: cfg}
}

// Run computes the forecast rows for every valid (site, part) pair and
// every calendar day from asOf through the horizon. horizonMonths 0 means
// the configured default. Output is ordered by (site, part, date)
// ascending and is stable across reruns with equal inputs.
func (e *Engine) Run(asOf time.Time, horizonMonths int, in Inputs) ([]domain.ForecastRow, error) {
	if horizonMonths == 0 {
		horizonMonths = e.cfg.DefaultHorizonMonths
	}
	if horizonMonths < 0 || horizonMonths > e.cfg.MaxHorizonMonths {
		return nil, fmt.Errorf("horizon %d months out of range (1..%d)", horizonMonths, e.cfg.MaxHorizonMonths)
	}

	asOf = dateOnly(asOf)

	events := extractEvents(asOf, e.cfg.SiteSnapshotLags, in)
	events = filterValidParts(events)
	events = attachPrices(events, in.PartPrices)

	balanced := accumulateBalances(events)
	timeline := resampleDaily(balanced, buildCalendar(asOf, horizonMonths))

	rows := deriveRisk(timeline, in.SafetyStocks, averageDailyUsage(in.Usage))
	rows = applyPriceOverrides(rows, in.PriceOverrides)

	return rows, nil
}
