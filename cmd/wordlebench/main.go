// cmd/wordlebench: offline tools for the solvers.
//
//	wordlebench bench --solver minimax --workers 8 --parquet out/minimax.parquet
//	wordlebench play --solver mcts_500 crate
//	wordlebench assist --solver minimax
//	wordlebench order --out data/order.txt
//	wordlebench tune --trials 50 --games 100 --out data/solvers.yaml
//
// Word lists and solver parameters come from the same environment and
// SOLVER_CONFIG file as the server.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sebytremblay/wordle-bot/internal/config"
	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

var (
	verbose   bool
	seed      int64
	orderFile string

	rootCmd = &cobra.Command{
		Use:           "wordlebench",
		Short:         "Benchmark and explore the Wordle solvers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "solver seed (overrides SOLVER_SEED)")
	rootCmd.PersistentFlags().StringVar(&orderFile, "order", "", "heuristic order file (overrides WORDS_ORDER_FILE)")
	rootCmd.AddCommand(benchCmd, playCmd, assistCmd, orderCmd, tuneCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wordlebench:", err)
		os.Exit(1)
	}
}

// env is everything a subcommand needs to build solvers.
type env struct {
	cfg     config.Config
	dict    *words.Dictionary
	answers []string
	order   *words.Order
	memo    *feedback.Memo
}

// loadEnv reads configuration and word lists. A missing order file falls
// back to computing the order from the dictionary.
func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if seed != 0 {
		cfg.Solvers.Seed = seed
	}
	if orderFile != "" {
		cfg.OrderFile = orderFile
	}

	dict, err := words.Load(cfg.DictionaryFile)
	if err != nil {
		return nil, err
	}
	answers, err := dict.LoadAnswers(cfg.AnswersFile)
	if err != nil {
		return nil, err
	}
	var order *words.Order
	if cfg.OrderFile != "" {
		order, err = words.LoadOrder(cfg.OrderFile, dict)
		if err != nil {
			return nil, err
		}
	} else {
		start := time.Now()
		order = words.BuildOrder(dict.Words())
		log.Debug().Dur("took", time.Since(start)).Str("head", order.Head()).Msg("heuristic order built")
	}
	memo, err := feedback.NewMemo(cfg.FeedbackMemoSize)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, dict: dict, answers: answers, order: order, memo: memo}, nil
}
