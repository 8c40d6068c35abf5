package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Warehouse
		Database
		Sync
		Network
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}

	Warehouse struct {
		BaseURL string
		Timeout time.Duration
	}

	Database struct {
		Path string
	}

	Sync struct {
		// Schedule is the recurring reconciliation pass. Cron format:
		// "0 */6 * * *" = every 6 hours.
		Schedule string
		// MaxAttempts is the retry credit budget per pending record.
		MaxAttempts int
		// RetryInterval is the minimum gap between attempts on one record.
		RetryInterval time.Duration
		// Retention is how long synced confirmed placements are kept
		// before the cleanup pass removes them.
		Retention time.Duration
	}

	Network struct {
		// PollInterval drives the connectivity observer stream.
		PollInterval time.Duration
		ProbeTimeout time.Duration
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("warehouse_base_url", DefaultWarehouseBaseURL)
	v.SetDefault("warehouse_timeout", "30s")

	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("sync_schedule", "0 */6 * * *") // Every 6 hours
	v.SetDefault("sync_max_attempts", DefaultMaxSyncAttempts)
	v.SetDefault("sync_retry_interval", "300s")
	v.SetDefault("sync_retention", "168h") // 7 days of confirmed history

	v.SetDefault("network_poll_interval", "5s")
	v.SetDefault("network_probe_timeout", "2s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Warehouse: Warehouse{
			BaseURL: v.GetString("WAREHOUSE_BASE_URL"),
			Timeout: v.GetDuration("WAREHOUSE_TIMEOUT"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Sync: Sync{
			Schedule:      v.GetString("SYNC_SCHEDULE"),
			MaxAttempts:   v.GetInt("SYNC_MAX_ATTEMPTS"),
			RetryInterval: v.GetDuration("SYNC_RETRY_INTERVAL"),
			Retention:     v.GetDuration("SYNC_RETENTION"),
		},
		Network: Network{
			PollInterval: v.GetDuration("NETWORK_POLL_INTERVAL"),
			ProbeTimeout: v.GetDuration("NETWORK_PROBE_TIMEOUT"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
