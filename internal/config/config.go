package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Storage
		Auth
		Remote
		Tasks
		Cleanup
	}

	HTTP struct {
		Port           int32
		Host           string
		FrontendOrigin string // origin allowed by CORS, the browser client
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Storage struct {
		Dir string // where uploaded book payloads live
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // set to false for local dev without HTTPS
	}
	Remote struct {
		URL string // upload service base URL used by the CLI commands
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Cleanup struct {
		Schedule string // cron format: "30 3 * * *" = daily at 03:30
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	// PORT deliberately has no default: serving without it is a fatal
	// startup error reported by ValidateForServe.
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("frontend_origin", "")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("storage_dir", DefaultStorageDir)
	v.SetDefault("remote_url", "")

	// Auth defaults
	v.SetDefault("auth_session_secret", "")
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")
	v.SetDefault("cleanup_schedule", "30 3 * * *")

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			FrontendOrigin: v.GetString("FRONTEND_ORIGIN"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Storage: Storage{
			Dir: v.GetString("STORAGE_DIR"),
		},
		Auth: Auth{
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Remote: Remote{
			URL: v.GetString("REMOTE_URL"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Cleanup: Cleanup{
			Schedule: v.GetString("CLEANUP_SCHEDULE"),
		},
	}
}

// ValidateForServe checks the variables the server cannot start without.
// Missing values are a fatal startup error, reported together.
func (c *Config) ValidateForServe() error {
	var missing []string
	if c.Database.Path == "" {
		missing = append(missing, "DATABASE_PATH")
	}
	if c.HTTP.Port == 0 {
		missing = append(missing, "PORT")
	}
	if c.HTTP.FrontendOrigin == "" {
		missing = append(missing, "FRONTEND_ORIGIN")
	}
	if c.Auth.SessionSecret == "" {
		missing = append(missing, "AUTH_SESSION_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
