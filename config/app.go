package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/warrenmedia/api-go/models"
)

// RateLimitPolicy allows Limit events per trailing Window.
type RateLimitPolicy struct {
	Limit  int
	Window time.Duration
}

func (p RateLimitPolicy) String() string {
	return fmt.Sprintf("%d/%s", p.Limit, p.Window)
}

type AppConfig struct {
	Port         string
	JWTSecret    string
	LogLevel     string
	FlagCacheTTL time.Duration

	// RateLimitStore selects the limiter backend: "db" (default) or "redis".
	RateLimitStore string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	RateLimits  map[string]RateLimitPolicy
	AuthLockout time.Duration

	// AuthServiceKey authenticates the sign-in backend when it records
	// attempts. Recording is refused while it is empty.
	AuthServiceKey string
}

// DefaultRateLimits are used for any action without a RATE_LIMIT_<ACTION> override.
var DefaultRateLimits = map[string]RateLimitPolicy{
	models.ActionComment:     {Limit: 5, Window: time.Minute},
	models.ActionReaction:    {Limit: 20, Window: time.Minute},
	models.ActionReport:      {Limit: 10, Window: time.Hour},
	models.ActionCreatorPost: {Limit: 3, Window: time.Hour},
	models.ActionUpload:      {Limit: 5, Window: time.Hour},
	models.ActionAuthAttempt: {Limit: 5, Window: 15 * time.Minute},
}

func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FlagCacheTTL:   5 * time.Second,
		RateLimitStore: getEnv("RATE_LIMIT_STORE", "db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		AuthLockout:    30 * time.Minute,
		AuthServiceKey: os.Getenv("AUTH_SERVICE_KEY"),
		RateLimits:     make(map[string]RateLimitPolicy, len(DefaultRateLimits)),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if v := os.Getenv("FLAG_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FLAG_CACHE_TTL: %w", err)
		}
		cfg.FlagCacheTTL = ttl
	}

	if v := os.Getenv("AUTH_LOCKOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_LOCKOUT: %w", err)
		}
		cfg.AuthLockout = d
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	switch cfg.RateLimitStore {
	case "db":
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when RATE_LIMIT_STORE=redis")
		}
	default:
		return nil, fmt.Errorf("unsupported RATE_LIMIT_STORE %q (supported: db, redis)", cfg.RateLimitStore)
	}

	for action, def := range DefaultRateLimits {
		policy := def
		key := "RATE_LIMIT_" + strings.ToUpper(action)
		if v := os.Getenv(key); v != "" {
			parsed, err := ParseRateLimitPolicy(v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", key, err)
			}
			policy = parsed
		}
		cfg.RateLimits[action] = policy
	}

	return cfg, nil
}

// Policy returns the configured policy for an action, falling back to the default.
func (c *AppConfig) Policy(action string) RateLimitPolicy {
	if p, ok := c.RateLimits[action]; ok {
		return p
	}
	return DefaultRateLimits[action]
}

// LongestWindow is the widest window across all actions, including the
// auth attempt window extended by the lockout.
func (c *AppConfig) LongestWindow() time.Duration {
	var longest time.Duration
	for action := range DefaultRateLimits {
		if w := c.Policy(action).Window; w > longest {
			longest = w
		}
	}
	if w := c.Policy(models.ActionAuthAttempt).Window + c.AuthLockout; w > longest {
		longest = w
	}
	return longest
}

// ParseRateLimitPolicy parses "<limit>/<window>", e.g. "5/1m" or "3/1h".
func ParseRateLimitPolicy(s string) (RateLimitPolicy, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return RateLimitPolicy{}, fmt.Errorf("expected <limit>/<window>, got %q", s)
	}

	limit, err := strconv.Atoi(parts[0])
	if err != nil || limit <= 0 {
		return RateLimitPolicy{}, fmt.Errorf("limit must be a positive integer, got %q", parts[0])
	}

	window, err := time.ParseDuration(parts[1])
	if err != nil || window <= 0 {
		return RateLimitPolicy{}, fmt.Errorf("window must be a positive duration, got %q", parts[1])
	}

	return RateLimitPolicy{Limit: limit, Window: window}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
