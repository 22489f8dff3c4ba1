package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/netquiz/internal/app"
	"github.com/abhisek/netquiz/internal/question"
	"github.com/abhisek/netquiz/internal/store"
	"github.com/abhisek/netquiz/internal/store/postgres"
)

var errNoQuestions = errors.New("no question bank configured (use --questions or questions_path)")

// backend is a storage backend that hands out per-user repos.
type backend interface {
	StateRepo(userID string) store.StateRepo
	Close() error
}

// openBackend opens PostgreSQL when a DSN is configured, SQLite otherwise.
func openBackend(ctx context.Context) (backend, error) {
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{MaxConns: 4})
		if err != nil {
			return nil, err
		}
		return pg, nil
	}

	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// openEngine opens storage and builds the current user's engine. The
// question bank is loaded when configured; needQuestions makes it required.
// The returned close func releases storage.
func openEngine(cmd *cobra.Command, needQuestions bool) (*app.Engine, func(), error) {
	ctx := cmd.Context()

	var qs []question.Question
	if cfg.QuestionsPath != "" {
		loaded, err := question.LoadFile(cfg.QuestionsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load questions: %w", err)
		}
		qs = loaded
	} else if needQuestions {
		return nil, nil, errNoQuestions
	}

	b, err := openBackend(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := b.Close(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}

	e := app.New(ctx, app.Options{
		Repo:      b.StateRepo(cfg.User),
		Config:    *cfg,
		Logger:    log.With(zap.String("user", cfg.User)),
		Questions: qs,
	})
	return e, closeFn, nil
}
