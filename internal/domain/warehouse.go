package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotRow is one line of the latest inventory snapshot: the available
// on-hand quantity for a (site, part) as of a production day.
type SnapshotRow struct {
	Site          string          `db:"site"`
	PartNumber    string          `db:"part_number"`
	ProductionDay time.Time       `db:"production_day"`
	AvailableQty  decimal.Decimal `db:"available_inventory"`
	StandardPrice decimal.Decimal `db:"standard_price"`
}

// DeliveryRow is one delivery-schedule shipment with its earliest
// departure and arrival times.
type DeliveryRow struct {
	Site       string          `db:"site"`
	PartNumber string          `db:"part_number"`
	Departure  time.Time       `db:"departure_time_earliest"`
	Arrival    time.Time       `db:"arrival_time_earliest"`
	Quantity   decimal.Decimal `db:"part_amount"`
}

// DemandRow is one part-demand line for a production day. The same shape
// serves both forward-looking consumption and the trailing usage window.
type DemandRow struct {
	Site          string          `db:"site"`
	PartNumber    string          `db:"part_number"`
	ProductionDay time.Time       `db:"production_day"`
	Quantity      decimal.Decimal `db:"part_amount"`
}

// PartPriceRow is the part-information price reference used as the price
// fallback for events that do not carry one.
type PartPriceRow struct {
	Site          string          `db:"site"`
	PartNumber    string          `db:"part_number"`
	StandardPrice decimal.Decimal `db:"standard_price"`
}

// SafetyStockRow is the safety-stock settings reference for a (site, part).
type SafetyStockRow struct {
	Site            string              `db:"site"`
	PartNumber      string              `db:"part_number"`
	Quantity        decimal.Decimal     `db:"safety_stock_nr_of_parts"`
	LeadTime        decimal.NullDecimal `db:"safety_stock_lead_time"`
	MfgSupplierCode string              `db:"mfg_supplier_code"`
}

// PriceOverrideRow is an authoritative per-part price from the secondary
// price table. It is keyed by part number only.
type PriceOverrideRow struct {
	PartNumber    string          `db:"part_number"`
	StandardPrice decimal.Decimal `db:"standard_price"`
}
