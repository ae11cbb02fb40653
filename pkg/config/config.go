package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv  string `mapstructure:"APP_ENV"`
	AppName string `mapstructure:"APP_NAME"`
	Server  struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `mapstructure:"IDLE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`
	TLS struct {
		Enable   bool   `mapstructure:"ENABLE"`
		CertPath string `mapstructure:"CERT_PATH"`
		KeyPath  string `mapstructure:"KEY_PATH"`
	} `mapstructure:"TLS"`
	CORS struct {
		AllowOrigins []string `mapstructure:"ALLOW_ORIGINS"`
	} `mapstructure:"CORS"`
	Database struct {
		// Type selects the ledger store implementation: memory, sqlite or postgres.
		Type           string `mapstructure:"TYPE"`
		Host           string `mapstructure:"HOST"`
		Port           string `mapstructure:"PORT"`
		DBName         string `mapstructure:"DBNAME"`
		User           string `mapstructure:"USER"`
		Password       string `mapstructure:"PASSWORD"`
		SSLMode        string `mapstructure:"SSLMODE"`
		Path           string `mapstructure:"PATH"`
		ConnectionPool struct {
			MaxIdleConn     int           `mapstructure:"MAX_IDLE_CONN"`
			MaxOpenConn     int           `mapstructure:"MAX_OPEN_CONN"`
			ConnMaxLifetime time.Duration `mapstructure:"CONN_MAX_LIFETIME"`
			ConnMaxIdleTime time.Duration `mapstructure:"CONN_MAX_IDLE_TIME"`
		} `mapstructure:"CONNECTION_POOL"`
	} `mapstructure:"DATABASE"`
	Redis struct {
		Addr     string `mapstructure:"ADDR"`
		Password string `mapstructure:"PASSWORD"`
		DB       int    `mapstructure:"DB"`
	} `mapstructure:"REDIS"`
	LLM struct {
		BaseURL     string        `mapstructure:"BASE_URL"`
		APIKey      string        `mapstructure:"API_KEY"`
		Model       string        `mapstructure:"MODEL"`
		Timeout     time.Duration `mapstructure:"TIMEOUT"`
		MaxRetries  int           `mapstructure:"MAX_RETRIES"`
		Temperature float64       `mapstructure:"TEMPERATURE"`
		MaxTokens   int           `mapstructure:"MAX_TOKENS"`
	} `mapstructure:"LLM"`
	Credits struct {
		OptimizeCost int64 `mapstructure:"OPTIMIZE_COST"`
		ExportCost   int64 `mapstructure:"EXPORT_COST"`
	} `mapstructure:"CREDITS"`
	Reconcile struct {
		Enable   bool          `mapstructure:"ENABLE"`
		Interval time.Duration `mapstructure:"INTERVAL"`
	} `mapstructure:"RECONCILE"`
}

var Module = fx.Module("config", fx.Provide(LoadConfig))

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// config file is optional, env vars and defaults carry the rest
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		zap.L().Warn("no config file found, using environment and defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "resumeforge")
	v.SetDefault("HTTP_SERVER.ADDR", ":8080")
	v.SetDefault("HTTP_SERVER.READ_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_SERVER.WRITE_TIMEOUT", 60*time.Second)
	v.SetDefault("HTTP_SERVER.IDLE_TIMEOUT", 120*time.Second)
	v.SetDefault("DATABASE.TYPE", "sqlite")
	v.SetDefault("DATABASE.PATH", "resumeforge.db")
	v.SetDefault("DATABASE.SSLMODE", "disable")
	v.SetDefault("DATABASE.CONNECTION_POOL.MAX_IDLE_CONN", 5)
	v.SetDefault("DATABASE.CONNECTION_POOL.MAX_OPEN_CONN", 20)
	v.SetDefault("REDIS.ADDR", "127.0.0.1:6379")
	v.SetDefault("LLM.BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("LLM.MODEL", "gpt-4o-mini")
	v.SetDefault("LLM.TIMEOUT", 30*time.Second)
	v.SetDefault("LLM.MAX_RETRIES", 2)
	v.SetDefault("LLM.TEMPERATURE", 0.2)
	v.SetDefault("LLM.MAX_TOKENS", 2000)
	v.SetDefault("CREDITS.OPTIMIZE_COST", 5)
	v.SetDefault("CREDITS.EXPORT_COST", 1)
	v.SetDefault("RECONCILE.ENABLE", false)
	v.SetDefault("RECONCILE.INTERVAL", time.Hour)
}
