package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/parttracker/backend-go/internal/domain"
)

// ForecastRepository reads the row families a forecast run consumes. All
// queries are parameterized; the engine never sees SQL.
type ForecastRepository interface {
	SnapshotRows(ctx context.Context, f domain.ForecastFilter, asOf time.Time, maxLagDays int) ([]domain.SnapshotRow, error)
	DeliveryRows(ctx context.Context, f domain.ForecastFilter, asOf time.Time) ([]domain.DeliveryRow, error)
	DemandRows(ctx context.Context, f domain.ForecastFilter, asOf time.Time) ([]domain.DemandRow, error)
	UsageRows(ctx context.Context, f domain.ForecastFilter, asOf time.Time, windowDays int) ([]domain.DemandRow, error)
	PartPriceRows(ctx context.Context, f domain.ForecastFilter) ([]domain.PartPriceRow, error)
	SafetyStockRows(ctx context.Context, f domain.ForecastFilter) ([]domain.SafetyStockRow, error)
	PriceOverrideRows(ctx context.Context, f domain.ForecastFilter) ([]domain.PriceOverrideRow, error)
	Sites(ctx context.Context) ([]string, error)
	Parts(ctx context.Context, site string) ([]string, error)
}

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) ForecastRepository {
	return &forecastRepository{db: db}
}

// partFilter renders the optional site/part filter as parameterized
// conditions, continuing from the caller's argument counter.
func partFilter(f domain.ForecastFilter, argCounter *int) ([]string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if f.Site != "" {
		conditions = append(conditions, fmt.Sprintf("site = $%d", *argCounter))
		args = append(args, f.Site)
		*argCounter++
	}
	if f.PartNumber != "" {
		conditions = append(conditions, fmt.Sprintf("part_number = $%d", *argCounter))
		args = append(args, f.PartNumber)
		*argCounter++
	}
	return conditions, args
}

func (r *forecastRepository) SnapshotRows(ctx context.Context, f domain.ForecastFilter, asOf time.Time, maxLagDays int) ([]domain.SnapshotRow, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if maxLagDays < 0 {
		maxLagDays = 0
	}

	query := `
		SELECT site, part_number, production_day, available_inventory, standard_price
		FROM part_inventory_snapshots
		WHERE production_day BETWEEN $1 AND $2
	`
	args := []interface{}{asOf.AddDate(0, 0, -maxLagDays), asOf}
	argCounter := 3

	conditions, extra := partFilter(f, &argCounter)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
		args = append(args, extra...)
	}

	var rows []domain.SnapshotRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error getting inventory snapshot rows: %w", err)
	}
	return rows, nil
}

func (r *forecastRepository) DeliveryRows(ctx context.Context, f domain.ForecastFilter, asOf time.Time) ([]domain.DeliveryRow, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	// Shipments that already arrived are part of the snapshot; only
	// not-yet-arrived shipments become Pickup/Arrival events.
	query := `
		SELECT site, part_number, departure_time_earliest, arrival_time_earliest, part_amount
		FROM delivery_schedules
		WHERE arrival_time_earliest::date > $1
	`
	args := []interface{}{asOf}
	argCounter := 2

	conditions, extra := partFilter(f, &argCounter)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
		args = append(args, extra...)
	}

	var rows []domain.DeliveryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error getting delivery schedule rows: %w", err)
	}
	return rows, nil
}

func (r *forecastRepository) DemandRows(ctx context.Context, f domain.ForecastFilter, asOf time.Time) ([]domain.DemandRow, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
		SELECT site, part_number, production_day, part_amount
		FROM part_demand
		WHERE production_day > $1
	`
	args := []interface{}{asOf}
	argCounter := 2

	conditions, extra := partFilter(f, &argCounter)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
		args = append(args, extra...)
	}

	var rows []domain.DemandRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error getting demand rows: %w", err)
	}
	return rows, nil
}

func (r *forecastRepository) UsageRows(ctx context.Context, f domain.ForecastFilter, asOf time.Time, windowDays int) ([]domain.DemandRow, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if windowDays <= 0 {
		windowDays = 30
	}

	query := `
		SELECT site, part_number, production_day, part_amount
		FROM part_demand
		WHERE production_day > $1 AND production_day <= $2
	`
	args := []interface{}{asOf.AddDate(0, 0, -windowDays), asOf}
	argCounter := 3

	conditions, extra := partFilter(f, &argCounter)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
		args = append(args, extra...)
	}

	var rows []domain.DemandRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error getting usage rows: %w", err)
	}
	return rows, nil
}

func (r *forecastRepository) PartPriceRows(ctx context.Context, f domain.ForecastFilter) ([]domain.PartPriceRow, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
		SELECT site, part_number, standard_price
		FROM part_information
	`
	argCounter := 1
	conditions, args := partFilter(f, &argCounter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var rows []domain.PartPriceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error getting part price rows: %w", err)
	}
	return rows, nil
}

func (r *forecastRepository) SafetyStockRows(ctx context.Context, f domain.ForecastFilter) ([]domain.SafetyStockRow, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
		SELECT site, part_number, safety_stock_nr_of_parts, safety_stock_lead_time, mfg_supplier_code
		FROM safety_stock_settings
	`
	argCounter := 1
	conditions, args := partFilter(f, &argCounter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var rows []domain.SafetyStockRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error getting safety stock rows: %w", err)
	}
	return rows, nil
}

func (r *forecastRepository) PriceOverrideRows(ctx context.Context, f domain.ForecastFilter) ([]domain.PriceOverrideRow, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
		SELECT part_number, standard_price
		FROM part_price_overrides
	`
	var args []interface{}
	if f.PartNumber != "" {
		query += " WHERE part_number = $1"
		args = append(args, f.PartNumber)
	}

	var rows []domain.PriceOverrideRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error getting price override rows: %w", err)
	}
	return rows, nil
}

func (r *forecastRepository) Sites(ctx context.Context) ([]string, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
		SELECT DISTINCT site
		FROM part_inventory_snapshots
		ORDER BY site
	`
	var sites []string
	if err := r.db.SelectContext(ctx, &sites, query); err != nil {
		return nil, fmt.Errorf("error getting sites: %w", err)
	}
	return sites, nil
}

func (r *forecastRepository) Parts(ctx context.Context, site string) ([]string, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := `
		SELECT DISTINCT part_number
		FROM part_inventory_snapshots
	`
	var args []interface{}
	if site != "" {
		query += " WHERE site = $1"
		args = append(args, site)
	}
	query += " ORDER BY part_number"

	var parts []string
	if err := r.db.SelectContext(ctx, &parts, query, args...); err != nil {
		return nil, fmt.Errorf("error getting parts: %w", err)
	}
	return parts, nil
}
