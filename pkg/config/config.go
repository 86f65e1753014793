package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MQConfig holds RabbitMQ settings.
type MQConfig struct {
	URL string `yaml:"url"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ServerConfig holds the HTTP listen settings.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// UpstreamConfig points at the external letter-generation API the proxy
// forwards to. The API runs behind a self-signed certificate, hence the
// insecure flag.
type UpstreamConfig struct {
	BaseURL            string        `yaml:"base_url"`
	Timeout            time.Duration `yaml:"timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
}

// SheetStoreConfig points at the spreadsheet-backed data store (the
// letterstore service, or the real sheet API in legacy deployments).
type SheetStoreConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig controls the letter-history cache.
type CacheConfig struct {
	Duration     time.Duration `yaml:"duration"`
	ItemsPerPage int           `yaml:"items_per_page"`
}

// SyncConfig controls the background letter-list refresh.
type SyncConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// AuthConfig controls whitelist gating for signup/login.
type AuthConfig struct {
	// WhitelistFailOpen reproduces the legacy "no whitelist sheet means
	// allow everyone" behavior. Off by default.
	WhitelistFailOpen bool     `yaml:"whitelist_fail_open"`
	AllowedDomains    []string `yaml:"allowed_domains"`
}

// OverrideDBFromEnv applies DB_* environment variables on top of cfg.
func OverrideDBFromEnv(cfg *DBConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
}

// OverrideRedisFromEnv applies REDIS_* environment variables on top of cfg.
func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
}

// OverrideMQFromEnv applies MQ_URL on top of cfg.
func OverrideMQFromEnv(cfg *MQConfig) {
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.URL = url
	}
}

// OverrideJWTFromEnv applies JWT_SECRET on top of cfg.
func OverrideJWTFromEnv(cfg *JWTConfig) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Secret = secret
	}
}

// OverrideServerFromEnv applies SERVER_PORT on top of cfg.
func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
}

// OverrideUpstreamFromEnv applies UPSTREAM_* environment variables on top of cfg.
func OverrideUpstreamFromEnv(cfg *UpstreamConfig) {
	if url := os.Getenv("UPSTREAM_BASE_URL"); url != "" {
		cfg.BaseURL = url
	}
	if v := os.Getenv("UPSTREAM_INSECURE_SKIP_VERIFY"); v != "" {
		cfg.InsecureSkipVerify = strings.EqualFold(v, "true") || v == "1"
	}
}

// OverrideSheetStoreFromEnv applies SHEET_STORE_URL on top of cfg.
func OverrideSheetStoreFromEnv(cfg *SheetStoreConfig) {
	if url := os.Getenv("SHEET_STORE_URL"); url != "" {
		cfg.BaseURL = url
	}
}
