// internal/config/config.go
//
// Runtime configuration for the server and the benchmark CLI.
//
// Sources, later ones win:
//  1. Built-in defaults (Default).
//  2. `.env` in the working directory (godotenv), then the process environment.
//  3. Optional YAML file named by SOLVER_CONFIG for solver hyperparameters.
//
// Environment variables:
//
//	PORT, LOG_LEVEL, CLIENT_ORIGIN
//	WORDS_DICTIONARY_FILE, WORDS_ANSWERS_FILE, WORDS_ORDER_FILE
//	MAX_GUESSES, DAILY_SALT, SESSION_TTL (0 keeps sessions forever)
//	HINT_CACHE (memory|sqlite|off), HINT_CACHE_DSN, HINT_CACHE_SIZE, HINT_TIMEOUT
//	FEEDBACK_MEMO_SIZE, SOLVER_DEFAULT, SOLVER_SEED, SOLVER_RESULT_CACHE, SOLVER_CONFIG
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sebytremblay/wordle-bot/internal/manager"
)

// Hint cache backends.
const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheOff    = "off"
)

// Config is the full runtime configuration.
type Config struct {
	Port         string
	LogLevel     string
	ClientOrigin string

	DictionaryFile string
	AnswersFile    string
	OrderFile      string

	MaxGuesses int
	DailySalt  string
	SessionTTL time.Duration

	HintCache     string
	HintCacheDSN  string
	HintCacheSize int
	HintTimeout   time.Duration

	FeedbackMemoSize int
	Solvers          manager.Config
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:             "5175",
		LogLevel:         "info",
		ClientOrigin:     "http://localhost:5173",
		MaxGuesses:       6,
		DailySalt:        "local_dev_salt",
		SessionTTL:       24 * time.Hour,
		HintCache:        CacheMemory,
		HintCacheDSN:     "./data/hints.db",
		HintCacheSize:    4096,
		HintTimeout:      8 * time.Second,
		FeedbackMemoSize: 1 << 20,
		Solvers:          manager.DefaultConfig(),
	}
}

// Load reads `.env` (if present), the environment and the optional solver file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function (os.Getenv in production).
func FromEnv(getenv func(string) string) (Config, error) {
	c := Default()
	env := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}
	var err error
	intVar := func(k string, dst *int) {
		if v := getenv(k); v != "" && err == nil {
			n, perr := strconv.Atoi(v)
			if perr != nil {
				err = fmt.Errorf("config: %s: %w", k, perr)
				return
			}
			*dst = n
		}
	}

	c.Port = env("PORT", c.Port)
	c.LogLevel = env("LOG_LEVEL", c.LogLevel)
	c.ClientOrigin = env("CLIENT_ORIGIN", c.ClientOrigin)
	c.DictionaryFile = env("WORDS_DICTIONARY_FILE", c.DictionaryFile)
	c.AnswersFile = env("WORDS_ANSWERS_FILE", c.AnswersFile)
	c.OrderFile = env("WORDS_ORDER_FILE", c.OrderFile)
	c.DailySalt = env("DAILY_SALT", c.DailySalt)
	c.HintCache = env("HINT_CACHE", c.HintCache)
	c.HintCacheDSN = env("HINT_CACHE_DSN", c.HintCacheDSN)
	c.Solvers.Default = env("SOLVER_DEFAULT", c.Solvers.Default)

	intVar("MAX_GUESSES", &c.MaxGuesses)
	intVar("HINT_CACHE_SIZE", &c.HintCacheSize)
	intVar("FEEDBACK_MEMO_SIZE", &c.FeedbackMemoSize)
	intVar("SOLVER_RESULT_CACHE", &c.Solvers.ResultCache)
	if err != nil {
		return c, err
	}
	if v := getenv("SOLVER_SEED"); v != "" {
		seed, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return c, fmt.Errorf("config: SOLVER_SEED: %w", perr)
		}
		c.Solvers.Seed = seed
	}
	if v := getenv("SESSION_TTL"); v != "" {
		d, perr := time.ParseDuration(v)
		if perr != nil {
			return c, fmt.Errorf("config: SESSION_TTL: %w", perr)
		}
		c.SessionTTL = d
	}
	if v := getenv("HINT_TIMEOUT"); v != "" {
		d, perr := time.ParseDuration(v)
		if perr != nil {
			return c, fmt.Errorf("config: HINT_TIMEOUT: %w", perr)
		}
		c.HintTimeout = d
	}

	if path := getenv("SOLVER_CONFIG"); path != "" {
		if err := c.LoadSolverFile(path); err != nil {
			return c, err
		}
	}
	return c, c.Validate()
}

// LoadSolverFile overlays solver hyperparameters from a YAML file.
// Keys absent from the file keep their current values.
//
//	default: minimax
//	seed: 42
//	minimax: {depth: 2, top_k: 10}
//	mcts: {simulations: 500, exploration: 1.2, reward_multiplier: 1.5}
func (c *Config) LoadSolverFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &c.Solvers); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.HintCache {
	case CacheMemory, CacheSQLite, CacheOff:
	default:
		return fmt.Errorf("config: HINT_CACHE must be memory, sqlite or off, got %q", c.HintCache)
	}
	if c.MaxGuesses < 1 {
		return fmt.Errorf("config: MAX_GUESSES must be >= 1, got %d", c.MaxGuesses)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("config: SESSION_TTL must not be negative, got %s", c.SessionTTL)
	}
	if c.HintTimeout <= 0 {
		return fmt.Errorf("config: HINT_TIMEOUT must be positive, got %s", c.HintTimeout)
	}
	if c.HintCacheSize < 1 && c.HintCache == CacheMemory {
		return fmt.Errorf("config: HINT_CACHE_SIZE must be >= 1, got %d", c.HintCacheSize)
	}
	if err := c.Solvers.Minimax.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Solvers.MCTS.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
