package forecast

import (
	"testing"

	"github.com/parttracker/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCalendarInclusiveBothEnds(t *testing.T) {
	days := buildCalendar(day(0), 1)
	require.NotEmpty(t, days)
	assert.True(t, days[0].Equal(day(0)))
	assert.True(t, days[len(days)-1].Equal(day(0).AddDate(0, 1, 0)))
	assert.Len(t, days, 32, "2026-01-05 through 2026-02-05")
}

func makeBalanced(events []domain.Event) []domain.BalancedEvent {
	sortEvents(events)
	priced := attachPrices(events, nil)
	return accumulateBalances(priced)
}

func TestResampleDailyForwardFill(t *testing.T) {
	sb := domain.NewEvent("S1", "P1", day(0), domain.EventStartingBalance, d("100"))
	sb.Price = decimal.NullDecimal{Decimal: d("10"), Valid: true}
	balanced := makeBalanced([]domain.Event{
		sb,
		domain.NewEvent("S1", "P1", day(2), domain.EventConsumption, d("30")),
	})

	rows := resampleDaily(balanced, buildCalendar(day(0), 1))
	require.Len(t, rows, 32)

	// Day 1 has no event of its own: the balance holds flat from day 0.
	assert.True(t, rows[1].Date.Equal(day(1)))
	assert.True(t, rows[1].WipBalance.Equal(d("100")))

	// The consumption steps the balance down on day 2 and it holds after.
	assert.True(t, rows[2].WipBalance.Equal(d("70")))
	assert.True(t, rows[31].WipBalance.Equal(d("70")))
}

func TestResampleDailyZeroBeforeFirstEvent(t *testing.T) {
	balanced := makeBalanced([]domain.Event{
		domain.NewEvent("S1", "P1", day(2), domain.EventPickup, d("50")),
	})

	rows := resampleDaily(balanced, buildCalendar(day(0), 1))
	require.Len(t, rows, 32)

	for i := 0; i < 2; i++ {
		assert.True(t, rows[i].GitBalance.IsZero(), "day %d before first event", i)
		assert.True(t, rows[i].WipBalance.IsZero())
		assert.True(t, rows[i].Price.IsZero())
	}
	assert.True(t, rows[2].GitBalance.Equal(d("50")))
}

func TestResampleDailyUsesLastEventOfDay(t *testing.T) {
	// Three events on the same day: the day's row reflects the final
	// balance after all of them, in rank order.
	balanced := makeBalanced([]domain.Event{
		domain.NewEvent("S1", "P1", day(0), domain.EventStartingBalance, d("100")),
		domain.NewEvent("S1", "P1", day(0), domain.EventArrival, d("20")),
		domain.NewEvent("S1", "P1", day(0), domain.EventConsumption, d("30")),
	})

	rows := resampleDaily(balanced, buildCalendar(day(0), 1))
	require.NotEmpty(t, rows)
	assert.True(t, rows[0].WipBalance.Equal(d("90")))
	assert.True(t, rows[0].GitBalance.Equal(d("-20")))
}

func TestNewTimelineRowValues(t *testing.T) {
	row := newTimelineRow(partKey{"S1", "P1"}, day(0), d("3"), d("4"), d("500000"))

	assert.True(t, row.GitValue.Equal(d("1500000")))
	assert.True(t, row.WipValue.Equal(d("2000000")))
	assert.True(t, row.TotalCapital.Equal(d("3500000")))
	assert.True(t, row.GitValueM.Equal(d("1.5")))
	assert.True(t, row.WipValueM.Equal(d("2")))
	assert.True(t, row.TotalCapitalM.Equal(d("3.5")))
}

func TestResampleDailyEmptyCalendar(t *testing.T) {
	assert.Nil(t, resampleDaily(nil, nil))
}
