package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hmmspell/internal/app"
	"hmmspell/internal/config"
	"hmmspell/internal/hmm"
	"hmmspell/internal/logging"
)

var (
	configPath string
	corpusPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hmmspell",
	Short: "Character-level HMM spelling corrector",
	Long: `hmmspell learns letter transition and typo statistics from a corpus of
"correct: typo, typo" lines and corrects words with Viterbi decoding.

Run without a subcommand to start the interactive loop.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if corpusPath != "" {
			cfg.CorpusPath = corpusPath
		}
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			return a.Corrector.RunREPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

var correctCmd = &cobra.Command{
	Use:   "correct [text...]",
	Short: "Correct the given text and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			res, err := a.Corrector.CorrectText(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Corrected)
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Train on the corpus and print the model's transition rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			m := a.Corrector.Model()
			st := m.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Corpus lines: %d (empty %d, over length limit %d)\n", a.Corpus.Lines, a.Corpus.Skipped, a.Corpus.TooLong)
			fmt.Fprintf(out, "Lines used to train: %d (skipped %d, typos %d)\n", st.Records, st.Skipped, st.Typos)
			for src := 0; src <= hmm.Start; src++ {
				if !m.HasTransitionRow(src) {
					continue
				}
				fmt.Fprintf(out, "%-5s", hmm.StateName(src, true))
				for dst, p := range m.TransitionRow(src) {
					if p > 0 {
						fmt.Fprintf(out, " %s=%.3f", hmm.StateName(dst, false), p)
					}
				}
				fmt.Fprintln(out)
			}
			return nil
		})
	},
}

func withApp(ctx context.Context, fn func(*app.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&corpusPath, "corpus", "", "training corpus (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(correctCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
