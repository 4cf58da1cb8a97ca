package forecast

import (
	"github.com/parttracker/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// applyPriceOverrides replaces the warehouse price with the authoritative
// per-part price where one exists and is strictly positive, and recomputes
// every price-derived field. Quantity-only fields (balances, stockout days,
// wip minus safety stock, deviation flag) are untouched. Applying the
// override twice with the same reference yields the same result as once.
func applyPriceOverrides(rows []domain.ForecastRow, overrides []domain.PriceOverrideRow) []domain.ForecastRow {
	prices := make(map[string]decimal.Decimal, len(overrides))
	for _, o := range overrides {
		if o.StandardPrice.Sign() > 0 {
			prices[o.PartNumber] = o.StandardPrice
		}
	}
	if len(prices) == 0 {
		return rows
	}

	out := make([]domain.ForecastRow, len(rows))
	for i, row := range rows {
		if price, ok := prices[row.PartNumber]; ok {
			row.Price = price
			row.GitValue = row.GitBalance.Mul(price)
			row.WipValue = row.WipBalance.Mul(price)
			row.GitValueM = inMillions(row.GitValue)
			row.WipValueM = inMillions(row.WipValue)
			row.TotalCapital = row.GitValue.Add(row.WipValue)
			row.TotalCapitalM = inMillions(row.TotalCapital)
			if row.SafetyStockQty.Valid {
				row.CapitalAtRisk = capitalAtRisk(row.WipBalance, row.SafetyStockQty.Decimal, price)
			}
		}
		out[i] = row
	}
	return out
}
