package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Cron   CronConfig   `mapstructure:"cron"`

	Insight  InsightConfig  `mapstructure:"insight"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Retrain  RetrainConfig  `mapstructure:"retrain"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type CacheConfig struct {
	// RedisAddr empty selects the in-process memory store.
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	DashboardTTL  time.Duration `mapstructure:"dashboard_ttl"`
}

type CronConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	ForecastRefresh string `mapstructure:"forecast_refresh"`
	NightlyRetrain  string `mapstructure:"nightly_retrain"`
}

type InsightConfig struct {
	ModelVersion string `mapstructure:"model_version"`
}

type ForecastConfig struct {
	Horizon              int     `mapstructure:"horizon"`
	PipelineWeight       float64 `mapstructure:"pipeline_weight"`
	AssumedActivityCount int     `mapstructure:"assumed_activity_count"`
}

type RetrainConfig struct {
	MinLabeledDeals int `mapstructure:"min_labeled_deals"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("auth.jwt_secret", "forecastcrm-dev-secret")
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.dashboard_ttl", "30s")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.forecast_refresh", "@hourly")
	v.SetDefault("cron.nightly_retrain", "0 0 2 * * *")
	v.SetDefault("insight.model_version", "mock-1.0")
	v.SetDefault("forecast.horizon", 6)
	v.SetDefault("forecast.pipeline_weight", 0.7)
	v.SetDefault("forecast.assumed_activity_count", 3)
	v.SetDefault("retrain.min_labeled_deals", 5)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
