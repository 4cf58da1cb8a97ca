package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/parttracker/backend-go/internal/cache"
	"github.com/parttracker/backend-go/internal/config"
	"github.com/parttracker/backend-go/internal/domain"
	"github.com/parttracker/backend-go/internal/export"
	"github.com/parttracker/backend-go/internal/forecast"
	"github.com/parttracker/backend-go/internal/service"
	"github.com/parttracker/backend-go/internal/storage"
	"github.com/parttracker/backend-go/internal/warehouse"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Warehouse connection string",
		Required: true,
		EnvVars:  []string{"WAREHOUSE_URL"},
	}
}

func newForecastService(c *cli.Context) (*service.ForecastService, error) {
	db, err := sqlx.Connect("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}

	cfg := config.Load()
	engine := forecast.NewEngine(forecast.Config{
		SiteSnapshotLags:     cfg.Forecast.SiteSnapshotLags,
		DefaultHorizonMonths: cfg.Forecast.DefaultHorizonMonths,
		MaxHorizonMonths:     cfg.Forecast.MaxHorizonMonths,
	})
	repo := warehouse.NewForecastRepository(warehouse.NewDBFromSqlx(db))

	return service.NewForecastService(repo, engine, cache.NewNoopForecastCache(), cfg.Forecast.UsageWindowDays, cfg.Forecast.SiteSnapshotLags), nil
}

func runForecast(c *cli.Context) error {
	svc, err := newForecastService(c)
	if err != nil {
		return err
	}

	filter := domain.ForecastFilter{
		Site:          c.String("site"),
		PartNumber:    c.String("part-number"),
		SupplierCode:  c.String("supplier-code"),
		HorizonMonths: c.Int("horizon-months"),
	}

	rows, err := svc.GetForecast(c.Context, filter)
	if err != nil {
		return fmt.Errorf("forecast failed: %w", err)
	}

	output := c.String("output")
	if output == "" {
		return export.WriteCSV(os.Stdout, rows)
	}
	if err := export.WriteCSVFile(output, rows); err != nil {
		return err
	}
	log.Printf("wrote %d rows to %s", len(rows), output)
	return nil
}

func archiveForecasts(c *cli.Context) error {
	svc, err := newForecastService(c)
	if err != nil {
		return err
	}

	cfg := config.Load()
	store, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}

	sites, err := svc.Sites(c.Context)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	datePrefix := time.Now().Format("20060102")
	horizon := c.Int("horizon-months")

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(c.Int("workers"))
	for _, site := range sites {
		site := site
		g.Go(func() error {
			rows, err := svc.GetForecast(ctx, domain.ForecastFilter{Site: site, HorizonMonths: horizon})
			if err != nil {
				return fmt.Errorf("forecast for site %s failed: %w", site, err)
			}

			var buf bytes.Buffer
			if err := export.WriteCSV(&buf, rows); err != nil {
				return fmt.Errorf("csv for site %s failed: %w", site, err)
			}

			key := filepath.ToSlash(filepath.Join("forecasts", datePrefix, site+".csv"))
			if err := store.UploadObject(ctx, key, buf.Bytes()); err != nil {
				return fmt.Errorf("upload for site %s failed: %w", site, err)
			}
			log.Printf("archived %d rows for site %s as %s", len(rows), site, key)
			return nil
		})
	}

	return g.Wait()
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "forecast",
		Usage: "Compute part inventory forecasts from the warehouse",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a forecast and write the result as CSV",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "site",
						Usage: "Restrict to a single site code",
					},
					&cli.StringFlag{
						Name:  "part-number",
						Usage: "Restrict to a single part number",
					},
					&cli.StringFlag{
						Name:  "supplier-code",
						Usage: "Restrict to a single manufacturing supplier code",
					},
					&cli.IntFlag{
						Name:  "horizon-months",
						Usage: "Forecast horizon in months (0 = configured default)",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output CSV path (default: stdout)",
					},
				},
				Action: runForecast,
			},
			{
				Name:  "archive",
				Usage: "Compute per-site forecasts and upload CSV snapshots to object storage",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "horizon-months",
						Usage: "Forecast horizon in months (0 = configured default)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of sites to process concurrently",
						Value: 4,
					},
				},
				Action: archiveForecasts,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
