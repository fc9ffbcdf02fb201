package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sebytremblay/wordle-bot/internal/config"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

var (
	orderOut string
	orderTop int

	orderCmd = &cobra.Command{
		Use:   "order",
		Short: "Compute the letter-overlap heuristic order and save it for WORDS_ORDER_FILE",
		RunE:  runOrder,
	}
)

func init() {
	orderCmd.Flags().StringVarP(&orderOut, "out", "o", "", "output file (default: stdout)")
	orderCmd.Flags().IntVar(&orderTop, "top", 10, "words to log from the head of the order")
}

func runOrder(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dict, err := words.Load(cfg.DictionaryFile)
	if err != nil {
		return err
	}
	start := time.Now()
	order := words.BuildOrder(dict.Words())
	log.Info().
		Int("words", order.Len()).
		Strs("head", order.Top(order.Words(), orderTop)).
		Dur("took", time.Since(start)).
		Msg("heuristic order computed")

	if orderOut == "" {
		_, err = order.WriteTo(os.Stdout)
		return err
	}
	return writeOrder(orderOut, order)
}

func writeOrder(path string, order *words.Order) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := order.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write order: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("file", path).Msg("order saved")
	return nil
}
