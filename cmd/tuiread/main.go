// Package main provides the CLI entrypoint for tuiread.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiread/internal/colours"
	"github.com/verte-zerg/tuiread/internal/config"
	"github.com/verte-zerg/tuiread/internal/logging"
	"github.com/verte-zerg/tuiread/internal/source"
	"github.com/verte-zerg/tuiread/internal/store"
	"github.com/verte-zerg/tuiread/internal/tui"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	readDocID string
	readWatch bool

	logCloser io.Closer
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	if logCloser != nil {
		if cerr := logCloser.Close(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tuiread [file]",
		Short:             "Terminal speed reader",
		Long:              "Read text one word at a time at an adaptive pace. Reads a file, a stored document (--doc), or stdin.",
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setupLogging,
		RunE:              runReadCmd,
	}
	rootCmd.SetErrPrefix(colours.Error.Sprint("Error:"))

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "TOML config path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	addReadingFlags(rootCmd)
	rootCmd.Flags().StringVar(&readDocID, "doc", "", "read a stored document by id or id prefix")
	rootCmd.Flags().BoolVar(&readWatch, "watch", false, "reload the file when it changes on disk")

	rootCmd.AddCommand(newStreamCmd())
	rootCmd.AddCommand(newSegmentCmd())
	rootCmd.AddCommand(newDocsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	levelName := ""
	logPath := config.DefaultLogPath()
	for _, c := range []config.LogConfig{fileCfg.Log, envCfg.Log} {
		if c.Level != nil {
			levelName = *c.Level
		}
		if c.File != nil && *c.File != "" {
			logPath = *c.File
		}
	}
	if cmd.Flags().Changed("log-level") {
		levelName = logLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	closer, err := logging.Setup(logPath, level)
	if err != nil {
		// The reader still works without a log file.
		logging.Discard()
		printWarning(cmd.ErrOrStderr(), "logging disabled: %v", err)
		return nil
	}
	logCloser = closer
	logrus.WithField("command", cmd.CommandPath()).Debug("starting")
	return nil
}

func runReadCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	text, err := loadText(cmd, st, args)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, st, text.Lang)
	if err != nil {
		return err
	}
	cfg.DocumentID = text.DocumentID
	cfg.SourcePath = text.Path
	cfg.Watch = readWatch

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes <-chan source.Text
	if cfg.Watch {
		if text.Path == "" {
			return fmt.Errorf("--watch needs a file argument")
		}
		watcher, err := source.NewWatcher(text.Path, source.DefaultDebounce)
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logrus.WithError(err).Warn("file watcher stopped")
			}
		}()
		changes = watcher.Changes()
	}

	reader, err := tui.New(tui.Options{
		Config:   cfg,
		Text:     text,
		Recorder: st,
		Changes:  changes,
	})
	if err != nil {
		return err
	}
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if text.Path == "" && text.DocumentID == "" {
		// Stdin carried the text, so keys come from the terminal.
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return fmt.Errorf("failed to open terminal for input: %w", err)
		}
		defer func() {
			if cerr := tty.Close(); cerr != nil {
				// Best-effort close of the terminal handle.
				_ = cerr
			}
		}()
		opts = append(opts, tea.WithInput(tty))
	}
	program := tea.NewProgram(reader, opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadText picks the source: --doc, a file argument, or piped stdin.
func loadText(cmd *cobra.Command, docs source.DocumentGetter, args []string) (source.Text, error) {
	switch {
	case readDocID != "" && len(args) > 0:
		return source.Text{}, fmt.Errorf("use either a file argument or --doc, not both")
	case readDocID != "":
		return source.FromDocument(context.Background(), docs, readDocID)
	case len(args) == 1 && args[0] != "-":
		return source.FromFile(args[0])
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return source.Text{}, fmt.Errorf("nothing to read: pass a file, --doc <id>, or pipe text on stdin")
	}
	return source.FromReader(cmd.InOrStdin(), "stdin")
}

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logrus.WithError(err).Warn("failed to close db")
	}
}

func printWarning(w io.Writer, format string, args ...any) {
	if _, err := colours.Warning.Fprintf(w, format+"\n", args...); err != nil {
		// Best-effort warning output.
		_ = err
	}
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
