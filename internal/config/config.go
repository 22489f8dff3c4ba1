// Package config loads netquiz settings from a TOML file, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/netquiz/internal/practice"
	"github.com/abhisek/netquiz/internal/session"
	"github.com/abhisek/netquiz/internal/subscription"
)

var (
	ErrEmptyPath     = errors.New("config path is empty")
	ErrInvalidConfig = errors.New("invalid config")
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env           string `mapstructure:"env"`            // logger flavour: production, development or local
	DBPath        string `mapstructure:"db_path"`        // SQLite file; empty resolves the XDG default
	DatabaseURL   string `mapstructure:"database_url"`   // PostgreSQL DSN; takes precedence over DBPath
	User          string `mapstructure:"user"`           // namespace for all stored state
	QuestionsPath string `mapstructure:"questions_path"` // JSON question bank

	Practice     Practice     `mapstructure:"practice"`
	Subscription Subscription `mapstructure:"subscription"`
	History      History      `mapstructure:"history"`
}

// Practice configures session sizes and exam simulation.
type Practice struct {
	SessionSize         int `mapstructure:"session_size"`
	ExamQuestionCount   int `mapstructure:"exam_question_count"`
	ExamDurationMinutes int `mapstructure:"exam_duration_minutes"`
}

// ExamDuration is the exam time limit.
func (p Practice) ExamDuration() time.Duration {
	return time.Duration(p.ExamDurationMinutes) * time.Minute
}

// Subscription configures the free tier and pro activation.
type Subscription struct {
	FreeMonthlyLimit int    `mapstructure:"free_monthly_limit"`
	ProKeyHash       string `mapstructure:"pro_key_hash"`
}

// History configures the progress log.
type History struct {
	MaxIncorrect int `mapstructure:"max_incorrect"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Env:  "local",
		User: "default",
		Practice: Practice{
			SessionSize:         practice.DefaultSessionSize,
			ExamQuestionCount:   practice.DefaultExamQuestionCount,
			ExamDurationMinutes: int(practice.DefaultExamDuration / time.Minute),
		},
		Subscription: Subscription{
			FreeMonthlyLimit: subscription.DefaultFreeMonthlyLimit,
			ProKeyHash:       subscription.DefaultProKeyHash,
		},
		History: History{MaxIncorrect: session.DefaultMaxIncorrect},
	}
}

// WithDefaults returns c with every zero field taken from Defaults.
func (c Config) WithDefaults() Config {
	d := Defaults()
	if c.Env == "" {
		c.Env = d.Env
	}
	if c.User == "" {
		c.User = d.User
	}
	if c.Practice.SessionSize <= 0 {
		c.Practice.SessionSize = d.Practice.SessionSize
	}
	if c.Practice.ExamQuestionCount <= 0 {
		c.Practice.ExamQuestionCount = d.Practice.ExamQuestionCount
	}
	if c.Practice.ExamDurationMinutes <= 0 {
		c.Practice.ExamDurationMinutes = d.Practice.ExamDurationMinutes
	}
	if c.Subscription.FreeMonthlyLimit <= 0 {
		c.Subscription.FreeMonthlyLimit = d.Subscription.FreeMonthlyLimit
	}
	if c.Subscription.ProKeyHash == "" {
		c.Subscription.ProKeyHash = d.Subscription.ProKeyHash
	}
	if c.History.MaxIncorrect <= 0 {
		c.History.MaxIncorrect = d.History.MaxIncorrect
	}
	return c
}

// Load reads configuration from path (or the default locations when path
// is empty), then NETQUIZ_* environment variables. A .env file in the
// working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := newViper(path)
	d := Defaults()
	v.SetDefault("env", d.Env)
	v.SetDefault("db_path", "")
	v.SetDefault("database_url", "")
	v.SetDefault("user", d.User)
	v.SetDefault("questions_path", "")
	v.SetDefault("practice.session_size", d.Practice.SessionSize)
	v.SetDefault("practice.exam_question_count", d.Practice.ExamQuestionCount)
	v.SetDefault("practice.exam_duration_minutes", d.Practice.ExamDurationMinutes)
	v.SetDefault("subscription.free_monthly_limit", d.Subscription.FreeMonthlyLimit)
	v.SetDefault("subscription.pro_key_hash", d.Subscription.ProKeyHash)
	v.SetDefault("history.max_incorrect", d.History.MaxIncorrect)

	v.SetEnvPrefix("NETQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database_url", "NETQUIZ_DATABASE_URL", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	switch {
	case c.User == "":
		return fmt.Errorf("%w: user is empty", ErrInvalidConfig)
	case c.Practice.SessionSize <= 0:
		return fmt.Errorf("%w: practice.session_size must be positive", ErrInvalidConfig)
	case c.Practice.ExamQuestionCount <= 0:
		return fmt.Errorf("%w: practice.exam_question_count must be positive", ErrInvalidConfig)
	case c.Practice.ExamDurationMinutes <= 0:
		return fmt.Errorf("%w: practice.exam_duration_minutes must be positive", ErrInvalidConfig)
	case c.Subscription.FreeMonthlyLimit <= 0:
		return fmt.Errorf("%w: subscription.free_monthly_limit must be positive", ErrInvalidConfig)
	case c.History.MaxIncorrect <= 0:
		return fmt.Errorf("%w: history.max_incorrect must be positive", ErrInvalidConfig)
	}
	return nil
}

// ConfigFileUsed reports the file Load reads for path, or "" when none
// exists.
func ConfigFileUsed(path string) string {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	return v.ConfigFileUsed()
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		return v
	}
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")
	return v
}
