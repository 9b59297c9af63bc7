package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Feed      FeedConfig      `yaml:"feed"`
	PageCache PageCacheConfig `yaml:"page_cache"`
	Stats     StatsConfig     `yaml:"stats"`
}

type AppConfig struct {
	Port string `yaml:"port"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type DatabaseConfig struct {
	// Driver is one of mysql, postgres or sqlite.
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret      string   `yaml:"jwt_secret"`
	AdminUsernames []string `yaml:"admin_usernames"`
}

type FeedConfig struct {
	PostsPerPage int `yaml:"posts_per_page"`
}

type PageCacheConfig struct {
	// Backend is memory or redis.
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	Size    int           `yaml:"size"`
}

type StatsConfig struct {
	Interval time.Duration `yaml:"interval"`
}

func Default() *Config {
	return &Config{
		App:       AppConfig{Port: "8080"},
		Log:       LogConfig{Level: "info"},
		Database:  DatabaseConfig{Driver: "mysql"},
		Feed:      FeedConfig{PostsPerPage: 10},
		PageCache: PageCacheConfig{Backend: "memory", TTL: 20 * time.Second, Size: 16},
		Stats:     StatsConfig{Interval: time.Minute},
	}
}

// Load reads the optional YAML file at path, then .env and the process
// environment; environment values win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			Logger.Info("No config file found, using defaults and environment")
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("APP_PORT", &cfg.App.Port)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("DB_DRIVER", &cfg.Database.Driver)
	setString("DB_DSN", &cfg.Database.DSN)
	setString("REDIS_ADDR", &cfg.Redis.Addr)
	setString("REDIS_PASSWORD", &cfg.Redis.Password)
	setString("JWT_SECRET", &cfg.Auth.JWTSecret)
	setString("PAGE_CACHE_BACKEND", &cfg.PageCache.Backend)

	if v := os.Getenv("LOG_DEVELOPMENT"); v != "" {
		cfg.Log.Development = v == "true" || v == "1"
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}
	if v := os.Getenv("POSTS_PER_PAGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POSTS_PER_PAGE: %w", err)
		}
		cfg.Feed.PostsPerPage = n
	}
	if v := os.Getenv("PAGE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PAGE_CACHE_TTL: %w", err)
		}
		cfg.PageCache.TTL = d
	}
	if v := os.Getenv("STATS_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STATS_INTERVAL: %w", err)
		}
		cfg.Stats.Interval = d
	}
	if v := os.Getenv("ADMIN_USERNAMES"); v != "" {
		cfg.Auth.AdminUsernames = nil
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Auth.AdminUsernames = append(cfg.Auth.AdminUsernames, name)
			}
		}
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.Database.DSN == "":
		return errors.New("DB_DSN is not set")
	case c.Auth.JWTSecret == "":
		return errors.New("JWT_SECRET is not set")
	case c.Feed.PostsPerPage <= 0:
		return fmt.Errorf("posts per page must be positive, got %d", c.Feed.PostsPerPage)
	case c.PageCache.TTL <= 0:
		return fmt.Errorf("page cache ttl must be positive, got %s", c.PageCache.TTL)
	}
	switch c.PageCache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown page cache backend %q", c.PageCache.Backend)
	}
	if c.PageCache.Backend == "redis" && c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is not set")
	}
	return nil
}
