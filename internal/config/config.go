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

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Locations searched for a config file when no path is given.
var Locations = []string{"apolo.yaml", "apolo.yml", ".apolo.yaml", ".apolo.yml"}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type ModelsConfig struct {
	Reasoning string `yaml:"reasoning"`
	Chat      string `yaml:"chat"`
	Image     string `yaml:"image"`
}

type ClassroomConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

type RuntimeConfig struct {
	Store           string          `yaml:"store"`
	SQLitePath      string          `yaml:"sqlite_path"`
	Redis           RedisConfig     `yaml:"redis"`
	LogPath         string          `yaml:"log_path"`
	LogLevel        string          `yaml:"log_level"`
	APIKey          string          `yaml:"api_key"`
	Models          ModelsConfig    `yaml:"models"`
	EnrichPolicy    string          `yaml:"enrich_policy"`
	UndoWindow      time.Duration   `yaml:"undo_window"`
	RequestTimeout  time.Duration   `yaml:"request_timeout"`
	SchedulerBuffer int             `yaml:"scheduler_buffer"`
	Classroom       ClassroomConfig `yaml:"classroom"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Store:      "sqlite",
		SQLitePath: "apolo.db",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "apolo:",
		},
		LogPath:  "apolo.log",
		LogLevel: "info",
		Models: ModelsConfig{
			Reasoning: "gemini-3-pro-preview",
			Chat:      "gemini-3-flash-preview",
			Image:     "gemini-2.5-flash-image",
		},
		EnrichPolicy:    "sentinel",
		UndoWindow:      5 * time.Second,
		RequestTimeout:  60 * time.Second,
		SchedulerBuffer: 64,
	}
}

// Load resolves defaults, then the config file, then .env and the process
// environment. Flags are applied by the caller afterwards.
func Load(path string) (RuntimeConfig, error) {
	LoadDotEnv()
	cfg, err := FromFile(path, DefaultRuntimeConfig())
	if err != nil {
		return RuntimeConfig{}, err
	}
	cfg = RuntimeConfigFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads .env files into the environment. Missing files are fine
// and variables that are already set win.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// FromFile overlays the YAML file at path on base. An empty path searches
// Locations; finding nothing returns base unchanged.
func FromFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	if path == "" {
		path = findConfig()
		if path == "" {
			return base, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return RuntimeConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("APOLO_STORE"); ok {
		cfg.Store = strings.ToLower(v)
	}
	if v, ok := getEnvString("APOLO_DB"); ok {
		cfg.SQLitePath = v
	}
	if v, ok := getEnvString("APOLO_REDIS_ADDR"); ok {
		cfg.Redis.Addr = v
	}
	if v, ok := getEnvString("APOLO_REDIS_PASSWORD"); ok {
		cfg.Redis.Password = v
	}
	if v, ok := getEnvInt("APOLO_REDIS_DB"); ok && v >= 0 {
		cfg.Redis.DB = v
	}
	if v, ok := getEnvString("APOLO_LOG_FILE"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString("APOLO_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvString("API_KEY"); ok {
		cfg.APIKey = v
	}
	if v, ok := getEnvString("GEMINI_API_KEY"); ok {
		cfg.APIKey = v
	}
	if v, ok := getEnvString("APOLO_ENRICH_POLICY"); ok {
		cfg.EnrichPolicy = strings.ToLower(v)
	}
	if v, ok := getEnvDuration("APOLO_UNDO_WINDOW"); ok && v > 0 {
		cfg.UndoWindow = v
	}
	if v, ok := getEnvDuration("APOLO_REQUEST_TIMEOUT"); ok && v > 0 {
		cfg.RequestTimeout = v
	}
	if v, ok := getEnvInt("APOLO_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvString("APOLO_CLASSROOM_CLIENT_ID"); ok {
		cfg.Classroom.ClientID = v
	}
	if v, ok := getEnvString("APOLO_CLASSROOM_CLIENT_SECRET"); ok {
		cfg.Classroom.ClientSecret = v
	}
	if v, ok := getEnvString("APOLO_CLASSROOM_REDIRECT_URL"); ok {
		cfg.Classroom.RedirectURL = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	switch c.Store {
	case "sqlite":
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%w: sqlite_path is required", ErrInvalidConfig)
		}
	case "redis":
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("%w: redis.addr is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch c.EnrichPolicy {
	case "sentinel", "surface":
	default:
		return fmt.Errorf("%w: unknown enrich policy %q", ErrInvalidConfig, c.EnrichPolicy)
	}
	if c.UndoWindow <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: durations must be positive", ErrInvalidConfig)
	}
	if c.SchedulerBuffer <= 0 {
		return fmt.Errorf("%w: scheduler_buffer must be positive", ErrInvalidConfig)
	}
	return nil
}

func findConfig() string {
	if path := os.Getenv("APOLO_CONFIG"); path != "" {
		return path
	}
	for _, loc := range Locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
