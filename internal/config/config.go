package config

import (
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Warehouse WarehouseConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Forecast  ForecastConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// WarehouseConfig describes the Postgres mirror of the data warehouse
// that the forecast queries run against.
type WarehouseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

// StorageConfig holds S3-compatible object storage settings used for
// forecast snapshot archival.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ForecastConfig holds the engine parameters that are deployment
// configuration rather than request input.
type ForecastConfig struct {
	DefaultHorizonMonths int
	MaxHorizonMonths     int
	UsageWindowDays      int

	// SiteSnapshotLags maps a site code to the number of days its
	// inventory snapshot trails the calendar date. Some sites report
	// inventory as of the prior day; that offset lives here, not in code.
	// Configured as a comma-separated list, e.g. "VCCH=1,VCX=2".
	SiteSnapshotLags map[string]int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("WAREHOUSE_HOST", "localhost")
		viper.SetDefault("WAREHOUSE_PORT", "5432")
		viper.SetDefault("WAREHOUSE_USER", "postgres")
		viper.SetDefault("WAREHOUSE_PASSWORD", "postgres")
		viper.SetDefault("WAREHOUSE_NAME", "parttracker")
		viper.SetDefault("WAREHOUSE_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 300)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "")
		viper.SetDefault("STORAGE_REGION", "")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("FORECAST_DEFAULT_HORIZON_MONTHS", 3)
		viper.SetDefault("FORECAST_MAX_HORIZON_MONTHS", 14)
		viper.SetDefault("FORECAST_USAGE_WINDOW_DAYS", 30)
		viper.SetDefault("FORECAST_SITE_SNAPSHOT_LAGS", "")

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Warehouse: WarehouseConfig{
				Host:     viper.GetString("WAREHOUSE_HOST"),
				Port:     viper.GetString("WAREHOUSE_PORT"),
				User:     viper.GetString("WAREHOUSE_USER"),
				Password: viper.GetString("WAREHOUSE_PASSWORD"),
				DBName:   viper.GetString("WAREHOUSE_NAME"),
				SSLMode:  viper.GetString("WAREHOUSE_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Forecast: ForecastConfig{
				DefaultHorizonMonths: viper.GetInt("FORECAST_DEFAULT_HORIZON_MONTHS"),
				MaxHorizonMonths:     viper.GetInt("FORECAST_MAX_HORIZON_MONTHS"),
				UsageWindowDays:      viper.GetInt("FORECAST_USAGE_WINDOW_DAYS"),
				SiteSnapshotLags:     ParseSiteLags(viper.GetString("FORECAST_SITE_SNAPSHOT_LAGS")),
			},
		}
	})

	return instance
}

// ParseSiteLags parses a "SITE=days,SITE=days" list into a lag map.
// Malformed entries are skipped.
func ParseSiteLags(raw string) map[string]int {
	lags := make(map[string]int)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		site := strings.ToUpper(strings.TrimSpace(parts[0]))
		days, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if site == "" || err != nil || days < 0 {
			continue
		}
		lags[site] = days
	}
	return lags
}
