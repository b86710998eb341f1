// Package main provides the CLI entrypoint for tuivoc.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuivoc/internal/config"
	"github.com/verte-zerg/tuivoc/internal/logging"
	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/question"
	"github.com/verte-zerg/tuivoc/internal/quiz"
	"github.com/verte-zerg/tuivoc/internal/source"
	"github.com/verte-zerg/tuivoc/internal/stats"
	"github.com/verte-zerg/tuivoc/internal/store"
	"github.com/verte-zerg/tuivoc/internal/tui"
)

const (
	defaultCorrectDelayMs   = 1000
	defaultIncorrectDelayMs = 3000
	defaultHistoryWindow    = 5
)

var (
	quizSource         string
	quizSheet          string
	quizLimit          int
	quizCorrectDelay   int
	quizIncorrectDelay int
	quizSeed           int64
	quizNoHistory      bool
	quizNoCache        bool

	logLevel string

	rowsSource string
	rowsSheet  string

	historySource string
	historySince  string
	historyLast   int
	historyWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuivoc",
		Short:         "TUI vocabulary quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runQuizCmd,
	}

	rootCmd.Flags().StringVar(&quizSource, "source", source.DefaultURL, "CSV URL or local .csv/.xlsx file")
	rootCmd.Flags().StringVar(&quizSheet, "sheet", "", "worksheet name for .xlsx sources")
	rootCmd.Flags().IntVar(&quizLimit, "limit", 0, "questions per round (0 = all rows)")
	rootCmd.Flags().IntVar(&quizCorrectDelay, "correct-delay", defaultCorrectDelayMs, "delay after a correct answer (ms)")
	rootCmd.Flags().IntVar(&quizIncorrectDelay, "incorrect-delay", defaultIncorrectDelayMs, "delay after a wrong answer (ms)")
	rootCmd.Flags().Int64Var(&quizSeed, "seed", 0, "random seed (0 = time based)")
	rootCmd.Flags().BoolVar(&quizNoHistory, "no-history", false, "do not record finished quizzes")
	rootCmd.Flags().BoolVar(&quizNoCache, "no-cache", false, "do not cache downloaded sheets")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newRowsCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	useHistory := !quizNoHistory
	useCache := !quizNoCache
	applyStringConfig(cmd, "source", &quizSource, fileCfg.Quiz.Source)
	applyStringConfig(cmd, "sheet", &quizSheet, fileCfg.Quiz.Sheet)
	applyIntConfig(cmd, "limit", &quizLimit, fileCfg.Quiz.Limit)
	applyIntConfig(cmd, "correct-delay", &quizCorrectDelay, fileCfg.Quiz.CorrectDelayMs)
	applyIntConfig(cmd, "incorrect-delay", &quizIncorrectDelay, fileCfg.Quiz.IncorrectDelayMs)
	applyBoolConfig(cmd, "no-history", &useHistory, fileCfg.Quiz.History)
	applyBoolConfig(cmd, "no-cache", &useCache, fileCfg.Quiz.Cache)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)

	cfg := model.Config{
		Source:         quizSource,
		Sheet:          quizSheet,
		Limit:          quizLimit,
		CorrectDelay:   time.Duration(quizCorrectDelay) * time.Millisecond,
		IncorrectDelay: time.Duration(quizIncorrectDelay) * time.Millisecond,
		Seed:           quizSeed,
		History:        useHistory,
		Cache:          useCache,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logPath := config.DefaultLogPath()
	if fileCfg.Log.File != nil && *fileCfg.Log.File != "" {
		logPath = *fileCfg.Log.File
	}
	logger, logCloser, err := logging.OpenFile(logPath, logLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logCloser.Close()
	}()

	src, err := newSource(cfg.Source, cfg.Sheet, cfg.Cache)
	if err != nil {
		return err
	}

	var recorder tui.ResultRecorder
	if cfg.History {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Error().Err(cerr).Msg("failed to close db")
			}
		}()
		recorder = st
	}

	session := quiz.NewSession(question.New(cfg.Seed), quiz.Options{
		CorrectDelay:   cfg.CorrectDelay,
		IncorrectDelay: cfg.IncorrectDelay,
		Limit:          cfg.Limit,
	})
	defer session.Close()

	logger.Info().Str("source", src.Name()).Int("limit", cfg.Limit).Msg("starting quiz")
	m := tui.NewModel(tui.Options{
		Source:   src,
		Session:  session,
		Recorder: recorder,
		Logger:   logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newSource(location, sheet string, cache bool) (source.Source, error) {
	opts := source.Options{Sheet: sheet}
	if cache {
		opts.CacheDir = config.DefaultCacheDir()
	}
	src, err := source.New(location, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid --source: %w", err)
	}
	return src, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newRowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Fetch the vocabulary source and print its rows",
		Args:  cobra.NoArgs,
		RunE:  runRowsCmd,
	}
	cmd.Flags().StringVar(&rowsSource, "source", source.DefaultURL, "CSV URL or local .csv/.xlsx file")
	cmd.Flags().StringVar(&rowsSheet, "sheet", "", "worksheet name for .xlsx sources")
	return cmd
}

func runRowsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "source", &rowsSource, fileCfg.Quiz.Source)
	applyStringConfig(cmd, "sheet", &rowsSheet, fileCfg.Quiz.Sheet)
	logger, err := consoleLogger(cmd, fileCfg)
	if err != nil {
		return err
	}

	src, err := newSource(rowsSource, rowsSheet, false)
	if err != nil {
		return err
	}
	logger.Info().Str("source", src.Name()).Msg("fetching vocabulary")
	rows, err := src.FetchRows(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return writeRows(cmd.OutOrStdout(), rows)
}

func writeRows(w io.Writer, rows []model.VocabRow) error {
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", row.Vocab, row.Meaning); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show finished quizzes",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySource, "source", "", "source filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N quizzes")
	cmd.Flags().IntVar(&historyWindow, "window", defaultHistoryWindow, "moving average window")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := consoleLogger(cmd, fileCfg)
	if err != nil {
		return err
	}

	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	dbPath := config.DefaultDBPath()
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		logger.Warn().Str("path", dbPath).Msg("no history recorded yet")
		return stats.RenderSummary(cmd.OutOrStdout(), nil)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("failed to close db")
		}
	}()

	cfg := model.HistoryConfig{
		Source: historySource,
		Since:  sinceTime,
		Last:   historyLast,
		Window: historyWindow,
	}
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return report.Render(cmd.OutOrStdout())
}

func consoleLogger(cmd *cobra.Command, fileCfg config.FileConfig) (zerolog.Logger, error) {
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	return logging.NewConsole(cmd.ErrOrStderr(), logLevel)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuivoc configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# source = %q   # CSV URL or local .csv/.xlsx file
# sheet = ""              # Worksheet for .xlsx sources (default: first sheet)
# limit = 0               # Questions per round (0 = all rows)
# correct-delay-ms = %d   # Delay after a correct answer
# incorrect-delay-ms = %d # Delay after a wrong answer
# history = true          # Record finished quizzes
# cache = true            # Cache downloaded sheets for offline use

[log]
# level = %q          # debug, info, warn, error
# file = ""               # Log file (default: %s)
`,
		source.DefaultURL,
		defaultCorrectDelayMs,
		defaultIncorrectDelayMs,
		logging.DefaultLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.Source) == "" {
		return fmt.Errorf("--source must not be empty")
	}
	if cfg.Limit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	if cfg.CorrectDelay <= 0 {
		return fmt.Errorf("--correct-delay must be > 0")
	}
	if cfg.IncorrectDelay <= 0 {
		return fmt.Errorf("--incorrect-delay must be > 0")
	}
	return nil
}
