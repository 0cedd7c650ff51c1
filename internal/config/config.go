package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Reference kinds that carry a pinned default option in dropdowns.
const (
	KindSpecies        = "species"
	KindTask           = "task"
	KindStatus         = "status"
	KindPerson         = "person"
	KindCrop           = "crop"
	KindHarvest        = "harvest"
	KindWorker         = "worker"
	KindSoilQuality    = "soil_quality"
	KindSoilCategory   = "soil_category"
	KindInfrastructure = "infrastructure"
	KindTaskStatus     = "task_status"
	KindWorkerType     = "worker_type"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	} `mapstructure:"server"`

	Database DatabaseConfig `mapstructure:"database"`

	Log LogConfig `mapstructure:"log"`

	App AppSettings `mapstructure:"app"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres | sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
	Path     string `mapstructure:"path"` // sqlite file or :memory:
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// AppSettings are read per request by the controllers.
type AppSettings struct {
	PageSize          int             `mapstructure:"page_size"`
	AutoCompleteCount int             `mapstructure:"autocomplete_count"`
	Defaults          map[string]uint `mapstructure:"defaults"`
}

// DefaultID returns the pinned default id for a reference kind.
func (s AppSettings) DefaultID(kind string) (uint, bool) {
	id, ok := s.Defaults[kind]
	return id, ok && id > 0
}

// DefaultSettings mirrors the built-in defaults without reading any file.
func DefaultSettings() AppSettings {
	return AppSettings{
		PageSize:          10,
		AutoCompleteCount: 10,
		Defaults: map[string]uint{
			KindSpecies:        1,
			KindTask:           3,
			KindStatus:         1,
			KindPerson:         3,
			KindCrop:           3,
			KindHarvest:        4,
			KindSoilQuality:    1,
			KindSoilCategory:   1,
			KindInfrastructure: 1,
			KindTaskStatus:     1,
			KindWorkerType:     1,
		},
	}
}

// Load reads configs/config.yaml (optional), .env and the environment.
func Load() *Config {
	// .env is optional outside development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on env vars")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(getEnv("CONFIG_FILE", "configs/config.yaml"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "agro")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.path", "agro.db")
	v.SetDefault("log.file", "./logs/app.log")
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 7)

	defaults := DefaultSettings()
	v.SetDefault("app.page_size", defaults.PageSize)
	v.SetDefault("app.autocomplete_count", defaults.AutoCompleteCount)
	for kind, id := range defaults.Defaults {
		v.SetDefault("app.defaults."+kind, id)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// DB_* variables win over file and defaults
	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.TimeZone = getEnv("DB_TIMEZONE", cfg.Database.TimeZone)
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)

	if cfg.App.PageSize <= 0 {
		cfg.App.PageSize = defaults.PageSize
	}
	if cfg.App.AutoCompleteCount <= 0 {
		cfg.App.AutoCompleteCount = defaults.AutoCompleteCount
	}

	return &cfg
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}
