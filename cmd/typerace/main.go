// Package main provides the CLI entrypoint for typerace.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typerace/internal/config"
	"github.com/verte-zerg/typerace/internal/excerpt"
	"github.com/verte-zerg/typerace/internal/logging"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/prefs"
	"github.com/verte-zerg/typerace/internal/report"
	"github.com/verte-zerg/typerace/internal/server"
	"github.com/verte-zerg/typerace/internal/stats"
	"github.com/verte-zerg/typerace/internal/statsui"
	"github.com/verte-zerg/typerace/internal/store"
	"github.com/verte-zerg/typerace/internal/tui"
)

const (
	defaultMode         = "quotes"
	defaultWords        = 25
	defaultShareURL     = "http://localhost:8080"
	defaultAddr         = ":8080"
	defaultBoardLimit   = 10
	defaultStatsLast    = 20
	defaultTrendWindow  = 5
	shutdownGracePeriod = 5 * time.Second
)

var (
	logLevel string

	playPlayer   string
	playDuration int
	playRace     bool
	playMode     string
	playWords    int
	playWordList string
	playCaps     float64
	playPunct    float64
	playShareURL string

	boardLimit  int
	boardBrowse bool

	statsPlayer string
	statsLast   int
	statsWindow int

	timerPlayer string

	serveAddr string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typerace",
		Short:         "Terminal typing race",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&playPlayer, "player", "", "player name used for the leaderboard and saved preferences")
	rootCmd.Flags().IntVar(&playDuration, "duration", 0, "countdown in seconds, 15 or 30 (default: saved preference)")
	rootCmd.Flags().BoolVar(&playRace, "race", false, "race against the leaderboard leader")
	rootCmd.Flags().StringVar(&playMode, "mode", defaultMode, "excerpt source: quotes or words")
	rootCmd.Flags().IntVar(&playWords, "words", defaultWords, "words per excerpt in words mode")
	rootCmd.Flags().StringVar(&playWordList, "wordlist", "", "word list file for words mode (one word per line)")
	rootCmd.Flags().Float64Var(&playCaps, "caps", 0, "probability of capitalized first letter in words mode (0-1)")
	rootCmd.Flags().Float64Var(&playPunct, "punct", 0, "punctuation probability per word in words mode (0-1)")
	rootCmd.Flags().StringVar(&playShareURL, "share-url", defaultShareURL, "base URL of share links")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newShareCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newTimerCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "player", &playPlayer, fileCfg.Game.Player)
	applyIntConfig(cmd, "duration", &playDuration, fileCfg.Game.Duration)
	applyBoolConfig(cmd, "race", &playRace, fileCfg.Game.Race)
	applyStringConfig(cmd, "mode", &playMode, fileCfg.Game.Mode)
	applyIntConfig(cmd, "words", &playWords, fileCfg.Game.Words)
	applyStringConfig(cmd, "wordlist", &playWordList, fileCfg.Game.WordList)
	applyFloatConfig(cmd, "caps", &playCaps, fileCfg.Game.CapsPct)
	applyFloatConfig(cmd, "punct", &playPunct, fileCfg.Game.PunctPct)
	applyStringConfig(cmd, "share-url", &playShareURL, fileCfg.Share.BaseURL)

	cfg := model.Config{
		Player:   strings.TrimSpace(playPlayer),
		Duration: playDuration,
		Race:     playRace,
		Mode:     playMode,
		Words:    playWords,
		WordList: playWordList,
		CapsPct:  playCaps,
		PunctPct: playPunct,
		ShareURL: playShareURL,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	excerpts, err := newExcerptProvider(cfg)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger, logFile, err := logging.File(config.DefaultLogPath(), level)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	m := tui.NewModel(cfg, tui.Deps{
		Excerpts:    excerpts,
		Timer:       prefs.NewTimerService(st, cfg.Player, logger),
		Leaderboard: st,
		Results:     st,
		Logger:      logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newExcerptProvider(cfg model.Config) (excerpt.Provider, error) {
	if cfg.Mode == "quotes" {
		return excerpt.NewQuotes(), nil
	}
	words := excerpt.BuiltinWords()
	if cfg.WordList != "" {
		loaded, err := excerpt.LoadWords(cfg.WordList)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list %s: %w", cfg.WordList, err)
		}
		words = loaded
	}
	return excerpt.NewWords(words, cfg.Words, cfg.CapsPct, cfg.PunctPct), nil
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
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the fastest results",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().IntVar(&boardLimit, "limit", defaultBoardLimit, "number of results")
	cmd.Flags().BoolVar(&boardBrowse, "browse", false, "open the interactive browser")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	if boardLimit <= 0 {
		return fmt.Errorf("--limit must be > 0")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if boardBrowse {
		m := statsui.NewModel(st, statsui.Filter{Limit: boardLimit, Window: defaultTrendWindow})
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run leaderboard TUI: %w", err)
		}
		return nil
	}

	entries, err := st.TopResults(cmd.Context(), boardLimit)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return stats.RenderLeaderboard(cmd.OutOrStdout(), entries)
}

func newShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <id>",
		Short: "Show a shared result",
		Args:  cobra.ExactArgs(1),
		RunE:  runShareCmd,
	}
}

func runShareCmd(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	if i := strings.LastIndex(id, "/s/"); i >= 0 {
		id = id[i+len("/s/"):]
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	result, err := st.SharedResult(cmd.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no shared result with id %q", id)
	}
	if err != nil {
		return fmt.Errorf("failed to load shared result: %w", err)
	}
	return stats.RenderShared(cmd.OutOrStdout(), result)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recent results",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsPlayer, "player", "", "player filter (default: configured player)")
	cmd.Flags().IntVar(&statsLast, "last", defaultStatsLast, "limit to last N results (0 for all)")
	cmd.Flags().IntVar(&statsWindow, "window", defaultTrendWindow, "moving average window for the trend")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "player", &statsPlayer, fileCfg.Game.Player)
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	results, err := st.ListResults(cmd.Context(), strings.TrimSpace(statsPlayer), statsLast)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}
	return stats.RenderSummary(cmd.OutOrStdout(), results, statsWindow)
}

func newTimerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "timer [15|30]",
		Short:     "Show or save the countdown preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"15", "30"},
		RunE:      runTimerCmd,
	}
	cmd.Flags().StringVar(&timerPlayer, "player", "", "player name (default: configured player)")
	return cmd
}

func runTimerCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "player", &timerPlayer, fileCfg.Game.Player)
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	timer := prefs.NewTimerService(st, timerPlayer, logging.Stderr(level))
	if len(args) == 0 {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\n", timer.Load(cmd.Context()))
		return err
	}
	duration, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid duration %q", args[0])
	}
	if err := timer.Save(cmd.Context(), duration); err != nil {
		if errors.Is(err, prefs.ErrNoIdentity) {
			return fmt.Errorf("%w: pass --player or set [game] player in the config", err)
		}
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Timer set to %d seconds\n", duration)
	return err
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the leaderboard and share links over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger := logging.Stderr(level)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	app := server.New(st, report.Validator(), logger)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", serveAddr)
		errCh <- app.Listen(serveAddr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Warn("failed to close db", "error", err)
	}
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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
	return fmt.Sprintf(`# typerace configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# player = "ada"          # Name shown on the leaderboard; needed to save the timer preference
# duration = 30           # Countdown in seconds, 15 or 30 (default: saved preference)
# race = false            # Race against the leaderboard leader
# mode = %q          # Excerpt source: quotes or words
# words = %d              # Words per excerpt in words mode
# wordlist = ""           # Word list file for words mode
# caps = 0.0              # Probability of capitalized first letter (0-1)
# punct = 0.0             # Punctuation probability per word (0-1)

[share]
# base-url = %q

[server]
# addr = %q
`,
		defaultMode,
		defaultWords,
		defaultShareURL,
		defaultAddr,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Duration != 0 && !prefs.Valid(cfg.Duration) {
		return fmt.Errorf("--duration must be 15 or 30")
	}
	if cfg.Mode != "quotes" && cfg.Mode != "words" {
		return fmt.Errorf("--mode must be quotes or words")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
