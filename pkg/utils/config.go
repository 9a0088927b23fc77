package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Security SecurityConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	URL      string
	AssetURL string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type StorageConfig struct {
	Path              string
	MaxThumbnailBytes int64
}

type SecurityConfig struct {
	BcryptCost     int
	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string
	TrustedProxies []string
}

// AssetBase returns the prefix used to turn stored thumbnail paths into
// absolute URLs. ASSET_URL wins, otherwise the public storage mount of APP_URL.
func (c *Config) AssetBase() string {
	if c.App.AssetURL != "" {
		return strings.TrimRight(c.App.AssetURL, "/")
	}
	return strings.TrimRight(c.App.URL, "/") + "/storage"
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "catalog-api")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("APP_URL", "http://localhost:8080")
	viper.SetDefault("ASSET_URL", "")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("STORAGE_PATH", "storage/app/public")
	viper.SetDefault("MAX_THUMBNAIL_BYTES", 2048*1024)
	viper.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	viper.SetDefault("RATE_LIMIT_RPS", 1.0)
	viper.SetDefault("RATE_LIMIT_BURST", 60)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("TRUSTED_PROXIES", "")

	viper.AutomaticEnv()

	// .env is optional; plain environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Port:     viper.GetString("PORT"),
			Debug:    viper.GetBool("DEBUG"),
			LogPath:  viper.GetString("LOG_PATH"),
			URL:      viper.GetString("APP_URL"),
			AssetURL: viper.GetString("ASSET_URL"),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Storage: StorageConfig{
			Path:              viper.GetString("STORAGE_PATH"),
			MaxThumbnailBytes: viper.GetInt64("MAX_THUMBNAIL_BYTES"),
		},
		Security: SecurityConfig{
			BcryptCost:     viper.GetInt("BCRYPT_COST"),
			RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			TrustedProxies: splitList(viper.GetString("TRUSTED_PROXIES")),
		},
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
