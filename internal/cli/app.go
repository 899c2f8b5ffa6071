package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/sandeepkv93/apolo/internal/assistant"
	"github.com/sandeepkv93/apolo/internal/board"
	"github.com/sandeepkv93/apolo/internal/config"
	"github.com/sandeepkv93/apolo/internal/logging"
	"github.com/sandeepkv93/apolo/internal/oracle"
	"github.com/sandeepkv93/apolo/internal/storage"
)

// app is the opened runtime shared by every subcommand.
type app struct {
	cfg   config.RuntimeConfig
	log   zerolog.Logger
	store storage.Store
	snaps *storage.Snapshots

	logFile io.Closer
}

func openApp(ctx context.Context, cfg config.RuntimeConfig) (*app, error) {
	logger, logFile, err := logging.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}
	logger.Info().Str("store", cfg.Store).Msg("store opened")
	return &app{
		cfg:     cfg,
		log:     logger,
		store:   store,
		snaps:   storage.NewSnapshots(store, logger),
		logFile: logFile,
	}, nil
}

func openStore(ctx context.Context, cfg config.RuntimeConfig) (storage.Store, error) {
	if cfg.Store == "redis" {
		s, err := storage.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := storage.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) Close() error {
	return errors.Join(a.store.Close(), a.logFile.Close())
}

func (a *app) loadBoard(ctx context.Context) *board.Board {
	return board.New(board.Snapshot{
		Tasks:      a.snaps.LoadTasks(ctx),
		Categories: a.snaps.LoadCategories(ctx),
		Reminders:  a.snaps.LoadReminders(ctx),
	}, board.Options{
		UndoWindow: a.cfg.UndoWindow,
		Persister:  a.snaps,
		Logger:     a.log,
	})
}

func (a *app) loadAssistant(ctx context.Context, chatter assistant.Chatter) *assistant.Assistant {
	return assistant.New(a.snaps.LoadConversations(ctx), assistant.Options{
		Chatter:   chatter,
		Persister: a.snaps,
		Logger:    a.log,
	})
}

// connectOracle connects to Gemini. Without a key the oracle stays offline and
// every call answers with the apology.
func (a *app) connectOracle(ctx context.Context) (oracle.Provider, error) {
	g, err := oracle.NewGemini(ctx, oracle.GeminiConfig{
		APIKey: a.cfg.APIKey,
		Models: oracle.Models{
			Reasoning: a.cfg.Models.Reasoning,
			Chat:      a.cfg.Models.Chat,
			Image:     a.cfg.Models.Image,
		},
	})
	if errors.Is(err, oracle.ErrMissingCredential) {
		a.log.Warn().Msg("no API key configured, oracle is offline")
		return oracle.Offline{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("connect oracle: %w", err)
	}
	return oracle.WithTimeout(g, a.cfg.RequestTimeout), nil
}
