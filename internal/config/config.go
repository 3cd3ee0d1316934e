package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Shop     ShopConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

// ShopConfig holds storefront display and media settings.
type ShopConfig struct {
	Currency           string
	CurrencyMinorUnits int
	SiteBaseURL        string
	MediaDir           string
	MediaBaseURL       string
	RelatedPageSize    int
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SHOP_CURRENCY", "EGP")
	viper.SetDefault("SHOP_CURRENCY_MINOR_UNITS", 2)
	viper.SetDefault("SHOP_SITE_BASE_URL", "http://localhost:3000")
	viper.SetDefault("SHOP_MEDIA_DIR", "media")
	viper.SetDefault("SHOP_MEDIA_BASE_URL", "http://localhost:8080/media")
	viper.SetDefault("SHOP_RELATED_PAGE_SIZE", 4)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		Shop: ShopConfig{
			Currency:           viper.GetString("SHOP_CURRENCY"),
			CurrencyMinorUnits: viper.GetInt("SHOP_CURRENCY_MINOR_UNITS"),
			SiteBaseURL:        viper.GetString("SHOP_SITE_BASE_URL"),
			MediaDir:           viper.GetString("SHOP_MEDIA_DIR"),
			MediaBaseURL:       viper.GetString("SHOP_MEDIA_BASE_URL"),
			RelatedPageSize:    viper.GetInt("SHOP_RELATED_PAGE_SIZE"),
		},
	}
}
