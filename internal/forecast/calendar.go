package forecast

import (
	"sort"
	"time"

	"github.com/parttracker/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

var million = decimal.NewFromInt(1_000_000)

// buildCalendar returns every day from the as-of date through the horizon
// (whole months), inclusive on both ends.
func buildCalendar(asOf time.Time, horizonMonths int) []time.Time {
	start := dateOnly(asOf)
	end := start.AddDate(0, horizonMonths, 0)

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// resampleDaily projects the sparse event balances onto every calendar day
// with as-of (last observation carried forward) semantics: for each day the
// balance of the latest event with date <= day, where "latest" follows the
// same intra-day rank order the accumulator used. Days before a part's
// first event get zero balances and a zero price, never nulls. Values
// step-change on event dates and hold flat between them.
func resampleDaily(balanced []domain.BalancedEvent, calendar []time.Time) []domain.TimelineRow {
	if len(calendar) == 0 {
		return nil
	}

	perPart := make(map[partKey][]domain.BalancedEvent)
	for _, be := range balanced {
		key := partKey{be.Site, be.PartNumber}
		perPart[key] = append(perPart[key], be)
	}

	keys := make([]partKey, 0, len(perPart))
	for key := range perPart {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	rows := make([]domain.TimelineRow, 0, len(keys)*len(calendar))
	for _, key := range keys {
		events := perPart[key]
		idx := 0
		for _, day := range calendar {
			for idx < len(events) && !events[idx].Date.After(day) {
				idx++
			}

			git, wip, price := decimal.Zero, decimal.Zero, decimal.Zero
			if idx > 0 {
				last := events[idx-1]
				git, wip, price = last.GitBalance, last.WipBalance, last.Price.Decimal
			}
			rows = append(rows, newTimelineRow(key, day, git, wip, price))
		}
	}
	return rows
}

func newTimelineRow(key partKey, day time.Time, git, wip, price decimal.Decimal) domain.TimelineRow {
	gitValue := git.Mul(price)
	wipValue := wip.Mul(price)
	total := gitValue.Add(wipValue)
	return domain.TimelineRow{
		Site:          key.Site,
		PartNumber:    key.PartNumber,
		Date:          day,
		GitBalance:    git,
		WipBalance:    wip,
		Price:         price,
		GitValue:      gitValue,
		WipValue:      wipValue,
		GitValueM:     inMillions(gitValue),
		WipValueM:     inMillions(wipValue),
		TotalCapital:  total,
		TotalCapitalM: inMillions(total),
	}
}

func inMillions(value decimal.Decimal) decimal.Decimal {
	return value.Div(million).Round(2)
}
