// Package export renders forecast results as flat CSV tables for
// download and archival.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parttracker/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

var csvHeader = []string{
	"site",
	"part_number",
	"date",
	"git_balance",
	"wip_balance",
	"price",
	"git_value",
	"wip_value",
	"git_value_m",
	"wip_value_m",
	"total_capital",
	"total_capital_m",
	"mfg_supplier_code",
	"safety_stock_quantity",
	"safety_stock_lead_time",
	"wip_minus_safety_stock",
	"days_until_stockout",
	"capital_at_risk",
	"deviation_flag",
}

// WriteCSV streams the rows as CSV with a fixed header. Null derived
// fields are written as empty cells.
func WriteCSV(w io.Writer, rows []domain.ForecastRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range rows {
		rec := []string{
			r.Site,
			r.PartNumber,
			r.Date.Format("2006-01-02"),
			r.GitBalance.String(),
			r.WipBalance.String(),
			r.Price.String(),
			r.GitValue.String(),
			r.WipValue.String(),
			r.GitValueM.String(),
			r.WipValueM.String(),
			r.TotalCapital.String(),
			r.TotalCapitalM.String(),
			r.MfgSupplierCode,
			nullDecimalString(r.SafetyStockQty),
			nullDecimalString(r.SafetyStockLeadTime),
			nullDecimalString(r.WipMinusSafetyStock),
			nullDecimalString(r.DaysUntilStockout),
			r.CapitalAtRisk.String(),
			string(r.DeviationFlag),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the rows to path, creating parent directories.
func WriteCSVFile(path string, rows []domain.ForecastRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed creating directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteCSV(f, rows)
}

func nullDecimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
