package config

import "time"

// ConsoleConfig holds runtime configuration for the console API service.
type ConsoleConfig struct {
	Environment string
	Addr        string
	LogLevel    string

	// Simulated operation durations. The platform backends are faked, so
	// each long-running operation completes after a fixed delay.
	EnvironmentInitDelay time.Duration
	DeploymentDelay      time.Duration
	BackupDelay          time.Duration
	DomainPhaseDelay     time.Duration
	UpdateCheckDelay     time.Duration
	UpdateApplyDelay     time.Duration
	CacheClearDelay      time.Duration
	CacheClearAllDelay   time.Duration

	SSEHeartbeat time.Duration

	RateLimitRedisAddr string
	RateLimitRedisPass string
	RateLimitRedisDB   int

	SeedDemoData bool
}

// LoadConsoleConfig constructs a ConsoleConfig from environment variables.
func LoadConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		Environment:          GetString("APP_ENV", "development"),
		Addr:                 GetString("CONSOLE_ADDR", ":4000"),
		LogLevel:             GetString("LOG_LEVEL", "info"),
		EnvironmentInitDelay: time.Duration(GetInt("SIM_ENVIRONMENT_INIT_MS", 3000)) * time.Millisecond,
		DeploymentDelay:      time.Duration(GetInt("SIM_DEPLOYMENT_MS", 3000)) * time.Millisecond,
		BackupDelay:          time.Duration(GetInt("SIM_BACKUP_MS", 2000)) * time.Millisecond,
		DomainPhaseDelay:     time.Duration(GetInt("SIM_DOMAIN_PHASE_MS", 2000)) * time.Millisecond,
		UpdateCheckDelay:     time.Duration(GetInt("SIM_UPDATE_CHECK_MS", 2000)) * time.Millisecond,
		UpdateApplyDelay:     time.Duration(GetInt("SIM_UPDATE_APPLY_MS", 3000)) * time.Millisecond,
		CacheClearDelay:      time.Duration(GetInt("SIM_CACHE_CLEAR_MS", 1000)) * time.Millisecond,
		CacheClearAllDelay:   time.Duration(GetInt("SIM_CACHE_CLEAR_ALL_MS", 2000)) * time.Millisecond,
		SSEHeartbeat:         time.Duration(GetInt("SSE_HEARTBEAT_SECONDS", 60)) * time.Second,
		RateLimitRedisAddr:   GetString("RATE_LIMIT_REDIS_ADDR", ""),
		RateLimitRedisPass:   GetString("RATE_LIMIT_REDIS_PASSWORD", ""),
		RateLimitRedisDB:     GetInt("RATE_LIMIT_REDIS_DB", 0),
		SeedDemoData:         GetBool("SEED_DEMO_DATA", true),
	}
}
