package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EventType identifies one of the four inventory-affecting event kinds.
type EventType string

const (
	EventStartingBalance EventType = "Starting Balance"
	EventPickup          EventType = "Pickup"
	EventArrival         EventType = "Arrival"
	EventConsumption     EventType = "Consumption"
)

var eventTypeRanks = map[EventType]int{
	EventStartingBalance: 1,
	EventPickup:          2,
	EventArrival:         3,
	EventConsumption:     4,
}

// Rank returns the intra-day processing order of the event type: a day's
// starting position is established first, goods are then picked up, then
// arrive, and only then are consumed. Unknown types sort last.
func (t EventType) Rank() int {
	if r, ok := eventTypeRanks[t]; ok {
		return r
	}
	return len(eventTypeRanks) + 1
}

// Valid reports whether t is one of the four known event types.
func (t EventType) Valid() bool {
	_, ok := eventTypeRanks[t]
	return ok
}

// ParseEventType returns the event type for a label (case-insensitive).
func ParseEventType(label string) (EventType, bool) {
	for t := range eventTypeRanks {
		if strings.EqualFold(string(t), label) {
			return t, true
		}
	}
	return "", false
}

// Event is one atomic inventory-affecting fact for a (site, part) pair.
// Quantity is the non-negative magnitude; GitImpact and WipImpact carry
// the signed deltas derived from the event type.
type Event struct {
	Site       string
	PartNumber string
	Date       time.Time
	Type       EventType
	Quantity   decimal.Decimal
	GitImpact  decimal.Decimal
	WipImpact  decimal.Decimal

	// Price is per-unit and optional at extraction; only starting-balance
	// events carry one. Normalization makes it mandatory.
	Price decimal.NullDecimal
}

// NewEvent builds an event with the impact deltas implied by its type:
//
//	Starting Balance: git 0,    wip +qty
//	Pickup:           git +qty, wip 0
//	Arrival:          git -qty, wip +qty
//	Consumption:      git 0,    wip -qty
func NewEvent(site, partNumber string, date time.Time, typ EventType, quantity decimal.Decimal) Event {
	e := Event{
		Site:       site,
		PartNumber: partNumber,
		Date:       date,
		Type:       typ,
		Quantity:   quantity,
	}
	switch typ {
	case EventStartingBalance:
		e.WipImpact = quantity
	case EventPickup:
		e.GitImpact = quantity
	case EventArrival:
		e.GitImpact = quantity.Neg()
		e.WipImpact = quantity
	case EventConsumption:
		e.WipImpact = quantity.Neg()
	}
	return e
}

// BalancedEvent is an Event enriched with the cumulative balances as of
// and including that event.
type BalancedEvent struct {
	Event
	GitBalance decimal.Decimal
	WipBalance decimal.Decimal
}
