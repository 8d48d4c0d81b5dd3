package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Media
		Library
		UI
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	// Media configures the file-asset store for uploaded book files
	// and cover images.
	Media struct {
		Root         string
		DefaultImage string // reserved placeholder asset, never deleted
	}

	// Library holds the catalog validation limits.
	Library struct {
		MinYear       int
		ImageMaxBytes int64
		FileMaxBytes  int64
		TopN          int // ranking size for the general statistics page
	}

	UI struct {
		TemplatesPath string
		StaticPath    string
	}

	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // set to false for local dev without HTTPS

		// Login rate limiting
		MaxLoginAttempts int
		RateLimitWindow  time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("media_root", DefaultMediaRoot)
	v.SetDefault("media_default_image", DefaultBookImage)
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	// Catalog limits
	v.SetDefault("library_min_year", MinimalBookYear)
	v.SetDefault("library_image_max_bytes", DefaultImageMaxBytes)
	v.SetDefault("library_file_max_bytes", DefaultFileMaxBytes)
	v.SetDefault("library_top_n", DefaultTopN)

	// Auth defaults
	v.SetDefault("auth_session_secret", "") // auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Media: Media{
			Root:         v.GetString("MEDIA_ROOT"),
			DefaultImage: v.GetString("MEDIA_DEFAULT_IMAGE"),
		},
		Library: Library{
			MinYear:       v.GetInt("LIBRARY_MIN_YEAR"),
			ImageMaxBytes: v.GetInt64("LIBRARY_IMAGE_MAX_BYTES"),
			FileMaxBytes:  v.GetInt64("LIBRARY_FILE_MAX_BYTES"),
			TopN:          v.GetInt("LIBRARY_TOP_N"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
		},
	}
}
