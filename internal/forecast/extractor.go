package forecast

import (
	"sort"
	"strings"
	"time"

	"github.com/parttracker/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// extractEvents turns the raw warehouse rows into a uniform stream of
// typed events. The result is deterministically ordered by
// (site, part, date, type rank) so downstream stages are repeatable.
func extractEvents(asOf time.Time, siteLags map[string]int, in Inputs) []domain.Event {
	asOf = dateOnly(asOf)

	events := make([]domain.Event, 0,
		len(in.Snapshots)+2*len(in.Deliveries)+len(in.Demand))

	events = append(events, startingBalanceEvents(asOf, siteLags, in.Snapshots)...)
	events = append(events, transitEvents(asOf, in.Deliveries)...)
	events = append(events, consumptionEvents(asOf, in.Demand)...)

	sortEvents(events)
	return events
}

// startingBalanceEvents seeds one WIP starting balance per (site, part)
// from the snapshot row whose production day matches the site's expected
// reporting day (as-of date minus the configured per-site lag). The event
// itself is dated as-of regardless of the lag.
func startingBalanceEvents(asOf time.Time, siteLags map[string]int, rows []domain.SnapshotRow) []domain.Event {
	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		expected := asOf.AddDate(0, 0, -snapshotLag(siteLags, row.Site))
		if !sameDate(row.ProductionDay, expected) {
			continue
		}
		e := domain.NewEvent(row.Site, row.PartNumber, asOf, domain.EventStartingBalance, row.AvailableQty)
		e.Price = decimal.NullDecimal{Decimal: row.StandardPrice, Valid: true}
		events = append(events, e)
	}
	return events
}

// transitEvents emits a Pickup/Arrival pair for every shipment that has
// not yet arrived as of the run date: in-transit shipments keep their
// past departure date, planned shipments are dated fully in the future.
// Shipments that already arrived are part of the inventory snapshot.
func transitEvents(asOf time.Time, rows []domain.DeliveryRow) []domain.Event {
	events := make([]domain.Event, 0, 2*len(rows))
	for _, row := range rows {
		arrival := dateOnly(row.Arrival)
		if !arrival.After(asOf) {
			continue
		}
		departure := dateOnly(row.Departure)
		events = append(events,
			domain.NewEvent(row.Site, row.PartNumber, departure, domain.EventPickup, row.Quantity),
			domain.NewEvent(row.Site, row.PartNumber, arrival, domain.EventArrival, row.Quantity),
		)
	}
	return events
}

// consumptionEvents aggregates forward-looking demand into one event per
// (site, part, day); multiple demand rows can exist for the same day.
func consumptionEvents(asOf time.Time, rows []domain.DemandRow) []domain.Event {
	type demandKey struct {
		partKey
		day time.Time
	}

	totals := make(map[demandKey]decimal.Decimal)
	for _, row := range rows {
		day := dateOnly(row.ProductionDay)
		if !day.After(asOf) {
			continue
		}
		key := demandKey{partKey{row.Site, row.PartNumber}, day}
		totals[key] = totals[key].Add(row.Quantity)
	}

	events := make([]domain.Event, 0, len(totals))
	for key, qty := range totals {
		events = append(events, domain.NewEvent(key.Site, key.PartNumber, key.day, domain.EventConsumption, qty))
	}
	return events
}

func snapshotLag(siteLags map[string]int, site string) int {
	if siteLags == nil {
		return 0
	}
	return siteLags[strings.ToUpper(strings.TrimSpace(site))]
}

// sortEvents orders events by (site, part, date, type rank). The sort is
// stable so same-type same-day events keep their extraction order.
func sortEvents(events []domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Site != b.Site {
			return a.Site < b.Site
		}
		if a.PartNumber != b.PartNumber {
			return a.PartNumber < b.PartNumber
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Type.Rank() < b.Type.Rank()
	})
}
