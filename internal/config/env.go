package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TUIREAD_WPM.
const EnvPrefix = "TUIREAD"

// LoadEnv reads TUIREAD_* environment overrides.
func LoadEnv() (FileConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	var cfg FileConfig
	if v.IsSet("lang") {
		s := v.GetString("lang")
		cfg.Reader.Lang = &s
	}
	if v.IsSet("mode") {
		s := v.GetString("mode")
		cfg.Reader.Mode = &s
	}
	for key, target := range map[string]**int{
		"wpm":            &cfg.Reader.WPM,
		"chunk":          &cfg.Reader.Chunk,
		"start-delay-ms": &cfg.Reader.StartDelayMs,
	} {
		if !v.IsSet(key) {
			continue
		}
		n, err := envInt(v, key)
		if err != nil {
			return FileConfig{}, err
		}
		*target = &n
	}
	if v.IsSet("log.level") {
		s := v.GetString("log.level")
		cfg.Log.Level = &s
	}
	if v.IsSet("log.file") {
		s := v.GetString("log.file")
		cfg.Log.File = &s
	}
	return cfg, nil
}

func envInt(v *viper.Viper, key string) (int, error) {
	n, err := castInt(v.GetString(key))
	if err != nil {
		envName := EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
		return 0, fmt.Errorf("invalid %s: %w", envName, err)
	}
	return n, nil
}

func castInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %q", s)
	}
	return n, nil
}
