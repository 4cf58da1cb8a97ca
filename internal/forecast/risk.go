package forecast

import (
	"time"

	"github.com/parttracker/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// averageDailyUsage computes the trailing-window average daily usage per
// (site, part): total consumed quantity divided by the count of distinct
// days that actually have consumption data. Parts with no such days are
// absent from the map; their usage is unknown, not zero.
func averageDailyUsage(usage []domain.DemandRow) map[partKey]decimal.Decimal {
	totals := make(map[partKey]decimal.Decimal)
	days := make(map[partKey]map[time.Time]struct{})

	for _, row := range usage {
		key := partKey{row.Site, row.PartNumber}
		totals[key] = totals[key].Add(row.Quantity)
		if days[key] == nil {
			days[key] = make(map[time.Time]struct{})
		}
		days[key][dateOnly(row.ProductionDay)] = struct{}{}
	}

	averages := make(map[partKey]decimal.Decimal, len(totals))
	for key, total := range totals {
		if n := len(days[key]); n > 0 {
			averages[key] = total.Div(decimal.NewFromInt(int64(n)))
		}
	}
	return averages
}

// deriveRisk joins each timeline row with the safety-stock reference and
// the average daily usage and computes the risk columns. The safety-stock
// join is outer: rows without a reference keep null safety-stock fields,
// zero capital at risk and an Above SS flag.
func deriveRisk(rows []domain.TimelineRow, refs []domain.SafetyStockRow, avgUsage map[partKey]decimal.Decimal) []domain.ForecastRow {
	ssRefs := make(map[partKey]domain.SafetyStockRow, len(refs))
	for _, ref := range refs {
		ssRefs[partKey{ref.Site, ref.PartNumber}] = ref
	}

	out := make([]domain.ForecastRow, 0, len(rows))
	for _, row := range rows {
		key := partKey{row.Site, row.PartNumber}
		fr := domain.ForecastRow{
			Site:          row.Site,
			PartNumber:    row.PartNumber,
			Date:          row.Date,
			GitBalance:    row.GitBalance,
			WipBalance:    row.WipBalance,
			Price:         row.Price,
			GitValue:      row.GitValue,
			WipValue:      row.WipValue,
			GitValueM:     row.GitValueM,
			WipValueM:     row.WipValueM,
			TotalCapital:  row.TotalCapital,
			TotalCapitalM: row.TotalCapitalM,
			DeviationFlag: domain.DeviationAboveSS,
		}

		ref, hasSS := ssRefs[key]
		if hasSS {
			fr.MfgSupplierCode = ref.MfgSupplierCode
			fr.SafetyStockQty = decimal.NullDecimal{Decimal: ref.Quantity, Valid: true}
			fr.SafetyStockLeadTime = ref.LeadTime
			fr.WipMinusSafetyStock = decimal.NullDecimal{
				Decimal: row.WipBalance.Sub(ref.Quantity),
				Valid:   true,
			}
			fr.CapitalAtRisk = capitalAtRisk(row.WipBalance, ref.Quantity, row.Price)
			fr.DeviationFlag = deviationFlag(row.WipBalance, ref.Quantity)
		}

		fr.DaysUntilStockout = daysUntilStockout(row.WipBalance, avgUsage, key)
		out = append(out, fr)
	}
	return out
}

// daysUntilStockout is 0 when WIP is already depleted, WIP/usage when the
// average usage is known and positive, and null otherwise (unknown, not
// infinite and not zero).
func daysUntilStockout(wip decimal.Decimal, avgUsage map[partKey]decimal.Decimal, key partKey) decimal.NullDecimal {
	if wip.Sign() <= 0 {
		return decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
	}
	usage, known := avgUsage[key]
	if !known || usage.Sign() <= 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: wip.Div(usage), Valid: true}
}

// capitalAtRisk is the monetary exposure of being below the safety-stock
// target: max(0, ss - wip) * price. It floors at zero by construction.
func capitalAtRisk(wip, safetyStock, price decimal.Decimal) decimal.Decimal {
	if wip.Cmp(safetyStock) >= 0 {
		return decimal.Zero
	}
	return safetyStock.Sub(wip).Mul(price)
}

func deviationFlag(wip, safetyStock decimal.Decimal) domain.DeviationFlag {
	switch wip.Cmp(safetyStock) {
	case -1:
		return domain.DeviationBelowSS
	case 0:
		return domain.DeviationAtSS
	default:
		return domain.DeviationAboveSS
	}
}
