package forecast

import (
	"testing"

	"github.com/parttracker/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageDailyUsageDistinctDays(t *testing.T) {
	usage := []domain.DemandRow{
		// Two rows on the same day count as one consumption day.
		{Site: "S1", PartNumber: "P1", ProductionDay: day(-1), Quantity: d("10")},
		{Site: "S1", PartNumber: "P1", ProductionDay: day(-1), Quantity: d("20")},
		{Site: "S1", PartNumber: "P1", ProductionDay: day(-3), Quantity: d("30")},
	}

	averages := averageDailyUsage(usage)
	require.Len(t, averages, 1)
	avg := averages[partKey{"S1", "P1"}]
	assert.True(t, avg.Equal(d("30")), "60 consumed over 2 distinct days: got %s", avg)
}

func TestAverageDailyUsageNoDataMeansAbsent(t *testing.T) {
	averages := averageDailyUsage(nil)
	_, known := averages[partKey{"S1", "P1"}]
	assert.False(t, known, "no usage data means unknown, never zero")
}

func TestDeriveRiskWithSafetyStockReference(t *testing.T) {
	rows := []domain.TimelineRow{
		newTimelineRow(partKey{"S1", "P1"}, day(0), d("0"), d("70"), d("5")),
	}
	refs := []domain.SafetyStockRow{
		{
			Site: "S1", PartNumber: "P1",
			Quantity:        d("80"),
			LeadTime:        decimal.NullDecimal{Decimal: d("12"), Valid: true},
			MfgSupplierCode: "SUP1",
		},
	}

	out := deriveRisk(rows, refs, nil)
	require.Len(t, out, 1)
	fr := out[0]

	assert.Equal(t, "SUP1", fr.MfgSupplierCode)
	require.True(t, fr.SafetyStockQty.Valid)
	assert.True(t, fr.SafetyStockQty.Decimal.Equal(d("80")))
	require.True(t, fr.WipMinusSafetyStock.Valid)
	assert.True(t, fr.WipMinusSafetyStock.Decimal.Equal(d("-10")))
	assert.True(t, fr.CapitalAtRisk.Equal(d("50")), "(80-70)*5")
	assert.Equal(t, domain.DeviationBelowSS, fr.DeviationFlag)
}

func TestDeriveRiskWithoutSafetyStockReference(t *testing.T) {
	rows := []domain.TimelineRow{
		newTimelineRow(partKey{"S1", "P1"}, day(0), d("0"), d("-5"), d("5")),
	}

	out := deriveRisk(rows, nil, nil)
	require.Len(t, out, 1)
	fr := out[0]

	// No reference: the safety-stock columns stay null rather than being
	// treated as a zero target, and there is no exposure to report.
	assert.False(t, fr.SafetyStockQty.Valid)
	assert.False(t, fr.SafetyStockLeadTime.Valid)
	assert.False(t, fr.WipMinusSafetyStock.Valid)
	assert.True(t, fr.CapitalAtRisk.IsZero())
	assert.Equal(t, domain.DeviationAboveSS, fr.DeviationFlag)
}

func TestDeviationFlag(t *testing.T) {
	tests := []struct {
		name string
		wip  string
		ss   string
		want domain.DeviationFlag
	}{
		{"below", "70", "80", domain.DeviationBelowSS},
		{"exactly at", "80", "80", domain.DeviationAtSS},
		{"above", "90", "80", domain.DeviationAboveSS},
		{"negative wip", "-10", "0", domain.DeviationBelowSS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deviationFlag(d(tt.wip), d(tt.ss)))
		})
	}
}

func TestCapitalAtRiskNeverNegative(t *testing.T) {
	tests := []struct {
		name  string
		wip   string
		ss    string
		price string
		want  string
	}{
		{"below target", "70", "80", "5", "50"},
		{"at target", "80", "80", "5", "0"},
		{"above target", "200", "80", "5", "0"},
		{"negative wip widens the gap", "-10", "80", "2", "180"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capitalAtRisk(d(tt.wip), d(tt.ss), d(tt.price))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
			assert.False(t, got.IsNegative())
		})
	}
}

func TestDaysUntilStockout(t *testing.T) {
	key := partKey{"S1", "P1"}
	usage := map[partKey]decimal.Decimal{key: d("20")}

	t.Run("depleted wip is zero days", func(t *testing.T) {
		got := daysUntilStockout(d("0"), usage, key)
		require.True(t, got.Valid)
		assert.True(t, got.Decimal.IsZero())

		got = daysUntilStockout(d("-5"), usage, key)
		require.True(t, got.Valid)
		assert.True(t, got.Decimal.IsZero())
	})

	t.Run("known usage divides", func(t *testing.T) {
		got := daysUntilStockout(d("100"), usage, key)
		require.True(t, got.Valid)
		assert.True(t, got.Decimal.Equal(d("5")))
	})

	t.Run("unknown usage is null", func(t *testing.T) {
		got := daysUntilStockout(d("100"), nil, key)
		assert.False(t, got.Valid, "no usage history means unknown, not infinite")
	})

	t.Run("zero usage is null", func(t *testing.T) {
		got := daysUntilStockout(d("100"), map[partKey]decimal.Decimal{key: decimal.Zero}, key)
		assert.False(t, got.Valid)
	})
}
