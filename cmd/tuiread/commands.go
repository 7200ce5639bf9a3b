package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiread/internal/colours"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/segment"
	"github.com/verte-zerg/tuiread/internal/stats"
	"github.com/verte-zerg/tuiread/internal/statsui"
)

const defaultCurveWindow = 10

var (
	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	segmentCleanOnly bool
)

func newSegmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment [file]",
		Short: "Print the tokens a text is split into, one per line",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSegmentCmd,
	}
	cmd.Flags().StringVar(&readLang, "lang", defaultLang, "language tag (en, ko, ja, zh, ...)")
	cmd.Flags().IntVar(&readChunk, "chunk", defaultChunk, "words per token (space-delimited languages)")
	cmd.Flags().BoolVar(&segmentCleanOnly, "clean", false, "print the cleaned text instead of tokens")
	return cmd
}

func runSegmentCmd(cmd *cobra.Command, args []string) error {
	text, err := loadText(cmd, nil, args)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, nil, "")
	if err != nil {
		return err
	}
	w := bufio.NewWriter(cmd.OutOrStdout())
	if segmentCleanOnly {
		if _, err := fmt.Fprintln(w, segment.CleanText(text.Content)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return w.Flush()
	}
	for _, tok := range segment.Tokens(text.Content, segment.Config{Lang: cfg.Lang, ChunkSize: cfg.ChunkSize}) {
		if _, err := fmt.Fprintln(w, tok); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return w.Flush()
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List language segmentation strategies",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, info := range segment.Languages() {
		spacing := "spaced"
		if info.NoSpace {
			spacing = "no spaces"
		}
		if _, err := fmt.Fprintf(out, "%s %-26s %s\n", colours.ID.Sprintf("%-3s", info.Tag), info.Strategy, colours.Muted.Sprint(spacing)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show reading history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	cfg := model.StatsConfig{
		Lang:        segment.Normalize(statsLang),
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	out := cmd.OutOrStdout()
	f, isFile := out.(*os.File)
	if !statsPlain && isFile && term.IsTerminal(int(f.Fd())) {
		program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderCurves(out, report.Sessions, cfg.CurveWindow, stats.TerminalWidth(out)); err != nil {
		return err
	}
	return stats.RenderLangTable(out, report.Langs)
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
	path := configPath
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuiread configuration
# Uncomment a value to enable it. CLI flags and TUIREAD_* environment
# variables override config values.

[reader]
# lang = %q               # Language tag: en, ko, ja, zh, ...
# wpm = %d                # Words per minute (50-500)
# chunk = %d                # Words shown together
# start-delay-ms = %d     # Pause before the first word of a fresh start
# mode = %q          # flash or teleprompter

[log]
# level = "info"            # debug, info, warn, error
# file = ""                 # Defaults to $XDG_STATE_HOME/tuiread/tuiread.log
`,
		defaultLang,
		defaultWPM,
		defaultChunk,
		defaultStartDelay.Milliseconds(),
		defaultMode,
	)
}
