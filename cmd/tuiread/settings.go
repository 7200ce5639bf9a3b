package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuiread/internal/colours"
	"github.com/verte-zerg/tuiread/internal/config"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/playback"
	"github.com/verte-zerg/tuiread/internal/segment"
)

const (
	defaultLang       = "en"
	defaultWPM        = 300
	defaultChunk      = 1
	defaultStartDelay = 500 * time.Millisecond
	defaultMode       = string(playback.ModeFlash)
	maxChunk          = 8
)

var (
	readLang       string
	readWPM        int
	readChunk      int
	readStartDelay time.Duration
	readMode       string
)

func defaultSettings() model.Settings {
	return model.Settings{
		Lang:       defaultLang,
		WPM:        defaultWPM,
		ChunkSize:  defaultChunk,
		StartDelay: defaultStartDelay,
		Mode:       defaultMode,
	}
}

func addReadingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&readLang, "lang", defaultLang, "language tag (en, ko, ja, zh, ...)")
	cmd.Flags().IntVar(&readWPM, "wpm", defaultWPM, fmt.Sprintf("words per minute (%d-%d)", playback.MinWPM, playback.MaxWPM))
	cmd.Flags().IntVar(&readChunk, "chunk", defaultChunk, "words shown together (space-delimited languages)")
	cmd.Flags().DurationVar(&readStartDelay, "start-delay", defaultStartDelay, "pause before the first word of a fresh start")
	cmd.Flags().StringVar(&readMode, "mode", defaultMode, "display mode (flash, teleprompter)")
}

// settingsStore is the subset of the store used to resolve settings.
type settingsStore interface {
	GetSettings(ctx context.Context, defaults model.Settings) (model.Settings, error)
}

// resolveConfig layers defaults, stored settings, the config file, environment,
// the document language, and flags, in increasing priority.
func resolveConfig(cmd *cobra.Command, st settingsStore, docLang string) (model.Config, error) {
	settings := defaultSettings()
	if st != nil {
		stored, err := st.GetSettings(context.Background(), settings)
		if err != nil {
			return model.Config{}, fmt.Errorf("failed to load settings: %w", err)
		}
		settings = stored
	}
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load environment: %w", err)
	}
	applyReaderConfig(&settings, config.Overlay(fileCfg.Reader, envCfg.Reader))
	if docLang != "" {
		settings.Lang = docLang
	}

	applyStringFlag(cmd, "lang", &settings.Lang, readLang)
	applyIntFlag(cmd, "wpm", &settings.WPM, readWPM)
	applyIntFlag(cmd, "chunk", &settings.ChunkSize, readChunk)
	if cmd.Flags().Changed("start-delay") {
		settings.StartDelay = readStartDelay
	}
	applyStringFlag(cmd, "mode", &settings.Mode, readMode)

	settings.Lang = segment.Normalize(settings.Lang)
	if err := validateSettings(settings); err != nil {
		return model.Config{}, err
	}
	return model.Config{Settings: settings}, nil
}

func applyReaderConfig(settings *model.Settings, rc config.ReaderConfig) {
	if rc.Lang != nil {
		settings.Lang = *rc.Lang
	}
	if rc.WPM != nil {
		settings.WPM = *rc.WPM
	}
	if rc.Chunk != nil {
		settings.ChunkSize = *rc.Chunk
	}
	if rc.StartDelayMs != nil {
		settings.StartDelay = time.Duration(*rc.StartDelayMs) * time.Millisecond
	}
	if rc.Mode != nil {
		settings.Mode = *rc.Mode
	}
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func validateSettings(s model.Settings) error {
	if s.Lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	if s.WPM < playback.MinWPM || s.WPM > playback.MaxWPM {
		return fmt.Errorf("--wpm must be between %d and %d", playback.MinWPM, playback.MaxWPM)
	}
	if s.ChunkSize < 1 || s.ChunkSize > maxChunk {
		return fmt.Errorf("--chunk must be between 1 and %d", maxChunk)
	}
	if s.StartDelay < 0 {
		return fmt.Errorf("--start-delay must be >= 0")
	}
	if _, ok := playback.ParseMode(s.Mode); !ok {
		return fmt.Errorf("--mode must be %q or %q", playback.ModeFlash, playback.ModeTeleprompter)
	}
	return nil
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show effective reading settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	addReadingFlags(cmd)

	save := &cobra.Command{
		Use:   "save",
		Short: "Store the effective settings as the new defaults",
		Args:  cobra.NoArgs,
		RunE:  runSettingsSaveCmd,
	}
	addReadingFlags(save)
	cmd.AddCommand(save)
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	cfg, err := resolveConfig(cmd, st, "")
	if err != nil {
		return err
	}
	return printSettings(cmd, cfg.Settings)
}

func runSettingsSaveCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	cfg, err := resolveConfig(cmd, st, "")
	if err != nil {
		return err
	}
	if err := st.SaveSettings(context.Background(), cfg.Settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := printSettings(cmd, cfg.Settings); err != nil {
		return err
	}
	_, err = colours.Success.Fprintln(cmd.OutOrStdout(), "Saved.")
	return err
}

func printSettings(cmd *cobra.Command, s model.Settings) error {
	out := cmd.OutOrStdout()
	rows := [][2]string{
		{"lang", s.Lang},
		{"wpm", fmt.Sprintf("%d", s.WPM)},
		{"chunk", fmt.Sprintf("%d", s.ChunkSize)},
		{"start-delay", s.StartDelay.String()},
		{"mode", s.Mode},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(out, "%s %s\n", colours.Muted.Sprintf("%-12s", row[0]), row[1]); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
