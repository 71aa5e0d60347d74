package config

import (
	"flag"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func setDefaults() {
	viper.SetDefault("server.port", "3000")
	viper.SetDefault("server.read_header_timeout", "5s")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("server.trust_proxy_headers", false)

	viper.SetDefault("geocoding.api_url", "https://api.openweathermap.org/geo/1.0/direct")
	viper.SetDefault("geocoding.timeout", "5s")
	viper.SetDefault("forecast.api_url", "https://api.openweathermap.org/data/3.0/onecall")
	viper.SetDefault("forecast.units", "imperial")
	viper.SetDefault("forecast.timeout", "5s")

	viper.SetDefault("cache.driver", "none")
	viper.SetDefault("cache.geocode_ttl", "24h")
	viper.SetDefault("cache.forecast_ttl", "10m")
	viper.SetDefault("cache.cleanup_interval", "10m")
	viper.SetDefault("redis.addr", "localhost:6379")

	viper.SetDefault("rate_limiter.enabled", true)
	viper.SetDefault("cors.allowed_origins", []string{"*"})

	viper.SetDefault("site.title", "Weather App")
	viper.SetDefault("site.author", "Jim Kuo")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", true)

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")

	_ = viper.BindEnv("server.port", "PORT")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("cache.driver", "CACHE_DRIVER")
	_ = viper.BindEnv("log.level", "LOG_LEVEL")
}

func initConfig() {
	once.Do(func() {
		setDefaults()

		root, err := getProjectRoot()
		if err != nil {
			// Deployed binaries have no go.mod around them.
			root = "."
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Warnw("Config file not loaded, using defaults", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Warnw("Test config file not merged", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// getDuration parses a duration key, returning fallback when unset or invalid.
func getDuration(key string, fallback time.Duration) time.Duration {
	initConfig()
	dur, err := time.ParseDuration(viper.GetString(key))
	if err != nil || dur <= 0 {
		return fallback
	}
	return dur
}

func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENWEATHERMAP_API_KEY")
}

func GetGeocodingApiUrl() string {
	initConfig()
	return viper.GetString("geocoding.api_url")
}

func GetGeocodingTimeout() time.Duration {
	return getDuration("geocoding.timeout", 5*time.Second)
}

func GetForecastApiUrl() string {
	initConfig()
	return viper.GetString("forecast.api_url")
}

func GetForecastUnits() string {
	initConfig()
	return viper.GetString("forecast.units")
}

func GetForecastTimeout() time.Duration {
	return getDuration("forecast.timeout", 5*time.Second)
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

func GetServerPort() string {
	initConfig()
	return viper.GetString("server.port")
}

// GetServerTimeout returns server.<key> as a duration, e.g. "read_header_timeout".
func GetServerTimeout(key string, fallback time.Duration) time.Duration {
	return getDuration("server."+key, fallback)
}

// IsTrustProxyHeadersEnabled reports whether client addresses may be taken from
// X-Forwarded-For / X-Real-IP.
func IsTrustProxyHeadersEnabled() bool {
	initConfig()
	return viper.GetBool("server.trust_proxy_headers")
}

// GetCacheDriver returns one of "none", "memory" or "redis".
func GetCacheDriver() string {
	initConfig()
	return viper.GetString("cache.driver")
}

func GetGeocodeCacheTTL() time.Duration {
	return getDuration("cache.geocode_ttl", 24*time.Hour)
}

func GetForecastCacheTTL() time.Duration {
	return getDuration("cache.forecast_ttl", 10*time.Minute)
}

func GetCacheCleanupInterval() time.Duration {
	return getDuration("cache.cleanup_interval", 10*time.Minute)
}

func GetSiteTitle() string {
	initConfig()
	return viper.GetString("site.title")
}

func GetSiteAuthor() string {
	initConfig()
	return viper.GetString("site.author")
}

func GetCORSAllowedOrigins() []string {
	initConfig()
	return viper.GetStringSlice("cors.allowed_origins")
}

func IsMetricsEnabled() bool {
	initConfig()
	return viper.GetBool("metrics.enabled")
}

func GetMetricsPath() string {
	initConfig()
	return viper.GetString("metrics.path")
}

// Load reads config.yaml (and config_test.yaml under go test) once.
func Load() {
	initConfig()
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

// GetLogger returns the process-wide logger. The encoder follows log.development and
// the level follows log.level; both are read straight from viper so that building the
// logger never recurses into initConfig.
func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		var cfg zap.Config
		if viper.IsSet("log.development") && !viper.GetBool("log.development") {
			cfg = zap.NewProductionConfig()
		} else {
			cfg = zap.NewDevelopmentConfig()
		}
		if lvl, err := zapcore.ParseLevel(viper.GetString("log.level")); err == nil && viper.GetString("log.level") != "" {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		l, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	return getDuration("rate_limiter.cleanup_timeout", 3*time.Minute)
}

func IsRateLimiterEnabled() bool {
	initConfig()
	return viper.GetBool("rate_limiter.enabled")
}

// GetGlobalRateLimiterConfig returns the per-minute rate and burst for the global rate limiter from config.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

// GetParamRateLimiterConfig returns the per-minute rate and burst for the param rate limiter from config.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 2
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 2
	}
	return
}
