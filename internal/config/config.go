package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               string   `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	} `mapstructure:"server"`

	Database struct {
		URL         string `mapstructure:"url"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"database"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Session struct {
		Secret       string        `mapstructure:"secret"`
		TTL          time.Duration `mapstructure:"ttl"`
		CookieName   string        `mapstructure:"cookie_name"`
		SecureCookie bool          `mapstructure:"secure_cookie"`
	} `mapstructure:"session"`

	Uploads struct {
		Backend string `mapstructure:"backend"`
		Root    string `mapstructure:"root"`
	} `mapstructure:"uploads"`

	S3 struct {
		Bucket    string `mapstructure:"bucket"`
		Region    string `mapstructure:"region"`
		Endpoint  string `mapstructure:"endpoint"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"s3"`

	Payment struct {
		DefaultAmount float64 `mapstructure:"default_amount"`
	} `mapstructure:"payment"`

	Lifecycle struct {
		AllowDecideAwaitingPayment bool `mapstructure:"allow_decide_awaiting_payment"`
	} `mapstructure:"lifecycle"`

	Admin struct {
		BootstrapEmail    string `mapstructure:"bootstrap_email"`
		BootstrapPassword string `mapstructure:"bootstrap_password"`
		BootstrapName     string `mapstructure:"bootstrap_name"`
	} `mapstructure:"admin"`

	Log LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func newViper() *viper.Viper {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func Load() *Config {
	v := newViper()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("session.ttl", time.Hour)
	v.SetDefault("session.cookie_name", "egov_session")
	v.SetDefault("session.secure_cookie", false)
	v.SetDefault("uploads.backend", "local")
	v.SetDefault("uploads.root", "uploads")
	v.SetDefault("s3.region", "auto")
	v.SetDefault("payment.default_amount", 100)
	v.SetDefault("lifecycle.allow_decide_awaiting_payment", false)
	v.SetDefault("admin.bootstrap_name", "Administrator")
	v.SetDefault("log.level", "info")

	// Unmarshal only sees keys viper knows about, so the optional ones are
	// registered with empty defaults to make AutomaticEnv pick them up.
	for _, key := range []string{
		"redis.password",
		"s3.bucket", "s3.endpoint", "s3.access_key", "s3.secret_key",
		"admin.bootstrap_email", "admin.bootstrap_password", "log.file",
	} {
		v.SetDefault(key, "")
	}

	// Names used by the existing deployment manifests
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("database.url", "DB_CONNECTION_STRING")
	_ = v.BindEnv("redis.address", "REDIS_ADDRESS")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("session.secret", "SESSION_SECRET")

	if err := v.ReadInConfig(); err != nil {
		logrus.Debug("config: no config file found, using environment and defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic("Failed to decode configuration: " + err.Error())
	}

	if cfg.Database.URL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}
	if cfg.Session.Secret == "" {
		panic("SESSION_SECRET environment variable is required")
	}
	if cfg.Uploads.Backend == "s3" && cfg.S3.Bucket == "" {
		panic("S3_BUCKET is required when UPLOADS_BACKEND=s3")
	}

	return &cfg
}
