package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sebytremblay/wordle-bot/internal/config"
	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/hintcache"
	"github.com/sebytremblay/wordle-bot/internal/httpserver"
	"github.com/sebytremblay/wordle-bot/internal/store"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

// hintRetention bounds how long SQLite-cached hints survive restarts.
const hintRetention = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	dict, err := words.Load(cfg.DictionaryFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}
	answers, err := dict.LoadAnswers(cfg.AnswersFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load answers")
	}
	order := words.BuildOrder(dict.Words())
	if cfg.OrderFile != "" {
		if order, err = words.LoadOrder(cfg.OrderFile, dict); err != nil {
			log.Fatal().Err(err).Str("file", cfg.OrderFile).Msg("failed to load heuristic order")
		}
	}
	memo, err := feedback.NewMemo(cfg.FeedbackMemoSize)
	if err != nil {
		log.Fatal().Err(err).Msg("feedback memo")
	}

	hints, err := openHintCache(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.HintCache).Msg("failed to open hint cache")
	}
	if hints != nil {
		defer hints.Close()
	}

	sessions := store.NewMemoryStore()
	if cfg.SessionTTL > 0 {
		ctx, stop := context.WithCancel(context.Background())
		defer stop()
		go store.RunSweeper(ctx, sessions, cfg.SessionTTL)
	}

	srv := httpserver.New(httpserver.Deps{
		Config:  cfg,
		Dict:    dict,
		Answers: answers,
		Order:   order,
		Scorer:  memo,
		Store:   sessions,
		Hints:   hints,
	})
	log.Info().
		Str("port", cfg.Port).
		Int("dictionary", dict.Len()).
		Int("answers", len(answers)).
		Str("opener", order.Head()).
		Str("hint_cache", cfg.HintCache).
		Msg("starting wordle-bot")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		if hints != nil {
			_ = hints.Close()
		}
		os.Exit(1)
	}
}

// openHintCache returns the configured backend, or nil when caching is off.
func openHintCache(cfg config.Config) (hintcache.Cache, error) {
	switch cfg.HintCache {
	case config.CacheOff:
		return nil, nil
	case config.CacheSQLite:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := hintcache.OpenSQLite(ctx, cfg.HintCacheDSN)
		if err != nil {
			return nil, err
		}
		if n, err := db.Prune(ctx, hintRetention); err != nil {
			log.Warn().Err(err).Msg("prune hint cache")
		} else if n > 0 {
			log.Info().Int64("pruned", n).Msg("expired hints removed")
		}
		return db, nil
	default:
		return hintcache.NewMemory(cfg.HintCacheSize)
	}
}
