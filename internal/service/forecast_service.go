package service

import (
	"context"
	"fmt"
	"time"

	"github.com/parttracker/backend-go/internal/cache"
	"github.com/parttracker/backend-go/internal/domain"
	"github.com/parttracker/backend-go/internal/forecast"
	"github.com/parttracker/backend-go/internal/warehouse"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ForecastService fetches the warehouse row families in one batched round
// trip and runs the reconstruction engine over them. It is request-scoped
// and side-effect free, so any failure simply fails the whole request.
type ForecastService struct {
	repo            warehouse.ForecastRepository
	engine          *forecast.Engine
	cache           cache.ForecastCache
	usageWindowDays int
	siteLags        map[string]int

	// now is swappable for tests.
	now func() time.Time
}

func NewForecastService(repo warehouse.ForecastRepository, engine *forecast.Engine, cacheImpl cache.ForecastCache, usageWindowDays int, siteLags map[string]int) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	if usageWindowDays <= 0 {
		usageWindowDays = 30
	}
	return &ForecastService{
		repo:            repo,
		engine:          engine,
		cache:           cacheImpl,
		usageWindowDays: usageWindowDays,
		siteLags:        siteLags,
		now:             time.Now,
	}
}

// GetForecast returns the forecast rows for the filter, sorted by
// (site, part, date) ascending.
func (s *ForecastService) GetForecast(ctx context.Context, filter domain.ForecastFilter) ([]domain.ForecastRow, error) {
	if rows, ok, err := s.cache.Get(ctx, filter); err == nil && ok {
		return rows, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get failed")
	}

	asOf := s.now()
	inputs, err := s.fetchInputs(ctx, filter, asOf)
	if err != nil {
		return nil, err
	}

	rows, err := s.engine.Run(asOf, filter.HorizonMonths, *inputs)
	if err != nil {
		return nil, err
	}

	if filter.SupplierCode != "" {
		rows = filterBySupplier(rows, filter.SupplierCode)
	}

	if err := s.cache.Set(ctx, filter, rows); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set failed")
	}

	return rows, nil
}

// fetchInputs issues the row-family queries concurrently as one logical
// warehouse round trip. Any query failure cancels the rest and fails the
// request; there is no partial output.
func (s *ForecastService) fetchInputs(ctx context.Context, filter domain.ForecastFilter, asOf time.Time) (*forecast.Inputs, error) {
	var inputs forecast.Inputs

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inputs.Snapshots, err = s.repo.SnapshotRows(gctx, filter, asOf, s.maxSnapshotLag())
		return err
	})
	g.Go(func() error {
		var err error
		inputs.Deliveries, err = s.repo.DeliveryRows(gctx, filter, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.Demand, err = s.repo.DemandRows(gctx, filter, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.Usage, err = s.repo.UsageRows(gctx, filter, asOf, s.usageWindowDays)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.PartPrices, err = s.repo.PartPriceRows(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.SafetyStocks, err = s.repo.SafetyStockRows(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.PriceOverrides, err = s.repo.PriceOverrideRows(gctx, filter)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("forecast extraction failed: %w", err)
	}
	return &inputs, nil
}

func (s *ForecastService) maxSnapshotLag() int {
	max := 0
	for _, lag := range s.siteLags {
		if lag > max {
			max = lag
		}
	}
	return max
}

// Sites lists the site codes available for filtering.
func (s *ForecastService) Sites(ctx context.Context) ([]string, error) {
	return s.repo.Sites(ctx)
}

// Parts lists the part numbers available for filtering, optionally within
// a site.
func (s *ForecastService) Parts(ctx context.Context, site string) ([]string, error) {
	return s.repo.Parts(ctx, site)
}

// filterBySupplier keeps rows whose safety-stock reference names the
// supplier. Supplier is only known after the safety-stock join, so this
// runs on derived rows rather than in the warehouse queries.
func filterBySupplier(rows []domain.ForecastRow, supplierCode string) []domain.ForecastRow {
	filtered := make([]domain.ForecastRow, 0, len(rows))
	for _, row := range rows {
		if row.MfgSupplierCode == supplierCode {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
