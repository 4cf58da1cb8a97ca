package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parttracker/backend-go/internal/domain"
	"github.com/parttracker/backend-go/internal/forecast"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository serves canned warehouse rows and records the parameters
// it was called with.
type fakeRepository struct {
	snapshots      []domain.SnapshotRow
	deliveries     []domain.DeliveryRow
	demand         []domain.DemandRow
	usage          []domain.DemandRow
	safetyStocks   []domain.SafetyStockRow
	priceOverrides []domain.PriceOverrideRow
	sites          []string
	parts          []string

	snapshotMaxLag  int
	usageWindowDays int
	failSnapshots   error
}

func (f *fakeRepository) SnapshotRows(ctx context.Context, _ domain.ForecastFilter, _ time.Time, maxLagDays int) ([]domain.SnapshotRow, error) {
	f.snapshotMaxLag = maxLagDays
	if f.failSnapshots != nil {
		return nil, f.failSnapshots
	}
	return f.snapshots, nil
}

func (f *fakeRepository) DeliveryRows(context.Context, domain.ForecastFilter, time.Time) ([]domain.DeliveryRow, error) {
	return f.deliveries, nil
}

func (f *fakeRepository) DemandRows(context.Context, domain.ForecastFilter, time.Time) ([]domain.DemandRow, error) {
	return f.demand, nil
}

func (f *fakeRepository) UsageRows(_ context.Context, _ domain.ForecastFilter, _ time.Time, windowDays int) ([]domain.DemandRow, error) {
	f.usageWindowDays = windowDays
	return f.usage, nil
}

func (f *fakeRepository) PartPriceRows(context.Context, domain.ForecastFilter) ([]domain.PartPriceRow, error) {
	return nil, nil
}

func (f *fakeRepository) SafetyStockRows(context.Context, domain.ForecastFilter) ([]domain.SafetyStockRow, error) {
	return f.safetyStocks, nil
}

func (f *fakeRepository) PriceOverrideRows(context.Context, domain.ForecastFilter) ([]domain.PriceOverrideRow, error) {
	return f.priceOverrides, nil
}

func (f *fakeRepository) Sites(context.Context) ([]string, error) {
	return f.sites, nil
}

func (f *fakeRepository) Parts(context.Context, string) ([]string, error) {
	return f.parts, nil
}

func day(n int) time.Time {
	return time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func newTestService(repo *fakeRepository, siteLags map[string]int) *ForecastService {
	svc := NewForecastService(repo, forecast.NewEngine(forecast.DefaultConfig()), nil, 30, siteLags)
	svc.now = func() time.Time { return day(0) }
	return svc
}

func TestGetForecastEndToEnd(t *testing.T) {
	repo := &fakeRepository{
		snapshots: []domain.SnapshotRow{
			{Site: "S1", PartNumber: "P1", ProductionDay: day(0), AvailableQty: qty(100), StandardPrice: qty(10)},
		},
		deliveries: []domain.DeliveryRow{
			{Site: "S1", PartNumber: "P1", Departure: day(1), Arrival: day(3), Quantity: qty(50)},
		},
		demand: []domain.DemandRow{
			{Site: "S1", PartNumber: "P1", ProductionDay: day(2), Quantity: qty(30)},
		},
		safetyStocks: []domain.SafetyStockRow{
			{Site: "S1", PartNumber: "P1", Quantity: qty(80), MfgSupplierCode: "SUP1"},
		},
	}

	svc := newTestService(repo, nil)

	rows, err := svc.GetForecast(context.Background(), domain.ForecastFilter{HorizonMonths: 1})
	require.NoError(t, err)
	require.Len(t, rows, 32)
	assert.True(t, rows[0].WipBalance.Equal(qty(100)))
	assert.True(t, rows[3].WipBalance.Equal(qty(120)))
	assert.Equal(t, 30, repo.usageWindowDays)
}

func TestGetForecastSupplierFilter(t *testing.T) {
	repo := &fakeRepository{
		snapshots: []domain.SnapshotRow{
			{Site: "S1", PartNumber: "P1", ProductionDay: day(0), AvailableQty: qty(100), StandardPrice: qty(10)},
		},
		deliveries: []domain.DeliveryRow{
			{Site: "S1", PartNumber: "P1", Departure: day(1), Arrival: day(3), Quantity: qty(50)},
		},
		demand: []domain.DemandRow{
			{Site: "S1", PartNumber: "P1", ProductionDay: day(2), Quantity: qty(30)},
		},
		safetyStocks: []domain.SafetyStockRow{
			{Site: "S1", PartNumber: "P1", Quantity: qty(80), MfgSupplierCode: "SUP1"},
		},
	}

	svc := newTestService(repo, nil)

	rows, err := svc.GetForecast(context.Background(), domain.ForecastFilter{SupplierCode: "SUP1", HorizonMonths: 1})
	require.NoError(t, err)
	assert.Len(t, rows, 32)

	rows, err = svc.GetForecast(context.Background(), domain.ForecastFilter{SupplierCode: "OTHER", HorizonMonths: 1})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetForecastPassesMaxSnapshotLag(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, map[string]int{"VCCH": 1, "VCX": 3})

	_, err := svc.GetForecast(context.Background(), domain.ForecastFilter{HorizonMonths: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.snapshotMaxLag, "the snapshot window must cover the slowest site")
}

func TestGetForecastRepositoryFailure(t *testing.T) {
	repo := &fakeRepository{failSnapshots: errors.New("connection reset")}
	svc := newTestService(repo, nil)

	_, err := svc.GetForecast(context.Background(), domain.ForecastFilter{HorizonMonths: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forecast extraction failed")
}

func TestSitesAndPartsPassthrough(t *testing.T) {
	repo := &fakeRepository{sites: []string{"S1", "S2"}, parts: []string{"P1"}}
	svc := newTestService(repo, nil)

	sites, err := svc.Sites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, sites)

	parts, err := svc.Parts(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, parts)
}
