package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/netquiz/internal/store"
)

// ErrConfigExists is returned by WriteDefault when the file is already there.
var ErrConfigExists = errors.New("config file already exists")

// FileConfig is the TOML layout written by WriteDefault.
type FileConfig struct {
	Env           string `toml:"env"`
	User          string `toml:"user"`
	DBPath        string `toml:"db_path,omitempty"`
	QuestionsPath string `toml:"questions_path,omitempty"`

	Practice     FilePractice     `toml:"practice"`
	Subscription FileSubscription `toml:"subscription"`
	History      FileHistory      `toml:"history"`
}

// FilePractice maps practice-related settings.
type FilePractice struct {
	SessionSize         int `toml:"session_size"`
	ExamQuestionCount   int `toml:"exam_question_count"`
	ExamDurationMinutes int `toml:"exam_duration_minutes"`
}

// FileSubscription maps subscription settings.
type FileSubscription struct {
	FreeMonthlyLimit int    `toml:"free_monthly_limit"`
	ProKeyHash       string `toml:"pro_key_hash"`
}

// FileHistory maps progress log settings.
type FileHistory struct {
	MaxIncorrect int `toml:"max_incorrect"`
}

// FileFrom converts cfg to its TOML layout.
func FileFrom(cfg Config) FileConfig {
	return FileConfig{
		Env:           cfg.Env,
		User:          cfg.User,
		DBPath:        cfg.DBPath,
		QuestionsPath: cfg.QuestionsPath,
		Practice: FilePractice{
			SessionSize:         cfg.Practice.SessionSize,
			ExamQuestionCount:   cfg.Practice.ExamQuestionCount,
			ExamDurationMinutes: cfg.Practice.ExamDurationMinutes,
		},
		Subscription: FileSubscription{
			FreeMonthlyLimit: cfg.Subscription.FreeMonthlyLimit,
			ProKeyHash:       cfg.Subscription.ProKeyHash,
		},
		History: FileHistory{MaxIncorrect: cfg.History.MaxIncorrect},
	}
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is kept unless overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if path == "" {
		return ErrEmptyPath
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := store.EnsureDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(FileFrom(Defaults())); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}
