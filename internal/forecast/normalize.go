package forecast

import (
	"github.com/parttracker/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// filterValidParts keeps only events of parts that have both a supply
// side (Pickup/Arrival) and a consumption side. A supply-only or
// consumption-only part cannot produce a meaningful stockout estimate and
// is silently excluded.
func filterValidParts(events []domain.Event) []domain.Event {
	type counts struct {
		supply      int
		consumption int
	}

	perPart := make(map[partKey]*counts)
	for _, e := range events {
		key := partKey{e.Site, e.PartNumber}
		c := perPart[key]
		if c == nil {
			c = &counts{}
			perPart[key] = c
		}
		switch e.Type {
		case domain.EventPickup, domain.EventArrival:
			c.supply++
		case domain.EventConsumption:
			c.consumption++
		}
	}

	kept := make([]domain.Event, 0, len(events))
	for _, e := range events {
		c := perPart[partKey{e.Site, e.PartNumber}]
		if c.supply > 0 && c.consumption > 0 {
			kept = append(kept, e)
		}
	}
	return kept
}

// attachPrices makes every event carry a price: the event's own price when
// present, otherwise the part reference price, otherwise zero. The balance
// accumulator assumes this has already run.
func attachPrices(events []domain.Event, refs []domain.PartPriceRow) []domain.Event {
	refPrices := make(map[partKey]decimal.Decimal, len(refs))
	for _, ref := range refs {
		refPrices[partKey{ref.Site, ref.PartNumber}] = ref.StandardPrice
	}

	priced := make([]domain.Event, len(events))
	for i, e := range events {
		if !e.Price.Valid {
			price := refPrices[partKey{e.Site, e.PartNumber}] // zero when absent
			e.Price = decimal.NullDecimal{Decimal: price, Valid: true}
		}
		priced[i] = e
	}
	return priced
}
