package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeviationFlag classifies a WIP balance against the safety-stock target.
type DeviationFlag string

const (
	DeviationBelowSS DeviationFlag = "Below SS"
	DeviationAtSS    DeviationFlag = "At SS"
	DeviationAboveSS DeviationFlag = "Above SS"
)

// TimelineRow is one (site, part, calendar day) row with balances and
// price forward-filled from the most recent event on or before that day.
type TimelineRow struct {
	Site       string
	PartNumber string
	Date       time.Time
	GitBalance decimal.Decimal
	WipBalance decimal.Decimal
	Price      decimal.Decimal

	GitValue      decimal.Decimal
	WipValue      decimal.Decimal
	GitValueM     decimal.Decimal
	WipValueM     decimal.Decimal
	TotalCapital  decimal.Decimal
	TotalCapitalM decimal.Decimal
}

// ForecastRow is the final output row: a TimelineRow joined with the
// safety-stock reference and the trailing average daily usage.
type ForecastRow struct {
	Site       string          `json:"site"`
	PartNumber string          `json:"part_number"`
	Date       time.Time       `json:"date"`
	GitBalance decimal.Decimal `json:"git_balance"`
	WipBalance decimal.Decimal `json:"wip_balance"`
	Price      decimal.Decimal `json:"price"`

	GitValue      decimal.Decimal `json:"git_value"`
	WipValue      decimal.Decimal `json:"wip_value"`
	GitValueM     decimal.Decimal `json:"git_value_m"`
	WipValueM     decimal.Decimal `json:"wip_value_m"`
	TotalCapital  decimal.Decimal `json:"total_capital"`
	TotalCapitalM decimal.Decimal `json:"total_capital_m"`

	MfgSupplierCode     string              `json:"mfg_supplier_code"`
	SafetyStockQty      decimal.NullDecimal `json:"safety_stock_quantity"`
	SafetyStockLeadTime decimal.NullDecimal `json:"safety_stock_lead_time"`
	WipMinusSafetyStock decimal.NullDecimal `json:"wip_minus_safety_stock"`
	DaysUntilStockout   decimal.NullDecimal `json:"days_until_stockout"`
	CapitalAtRisk       decimal.Decimal     `json:"capital_at_risk"`
	DeviationFlag       DeviationFlag       `json:"deviation_flag"`
}

// ForecastFilter carries the optional request parameters. Zero values mean
// "no filter"; HorizonMonths 0 means the configured default.
type ForecastFilter struct {
	Site          string `json:"site"`
	PartNumber    string `json:"part_number"`
	SupplierCode  string `json:"supplier_code"`
	HorizonMonths int    `json:"horizon_months"`
}
