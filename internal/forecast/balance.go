package forecast

import (
	"github.com/parttracker/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// accumulateBalances computes the running GIT and WIP balances per
// (site, part) as inclusive prefix sums of the impact columns. Events must
// already be sorted by sortEvents; within a day the fixed rank order
// (Starting Balance, Pickup, Arrival, Consumption) guarantees balances do
// not dip transiently negative when same-day data is consistent. Negative
// balances from inconsistent source data are passed through untouched.
func accumulateBalances(events []domain.Event) []domain.BalancedEvent {
	balanced := make([]domain.BalancedEvent, 0, len(events))

	var (
		current partKey
		git     decimal.Decimal
		wip     decimal.Decimal
	)
	for i, e := range events {
		key := partKey{e.Site, e.PartNumber}
		if i == 0 || key != current {
			current = key
			git = decimal.Zero
			wip = decimal.Zero
		}
		git = git.Add(e.GitImpact)
		wip = wip.Add(e.WipImpact)
		balanced = append(balanced, domain.BalancedEvent{
			Event:      e,
			GitBalance: git,
			WipBalance: wip,
		})
	}
	return balanced
}
