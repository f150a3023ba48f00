package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/spin/internal/model"
	"github.com/Makepad-fr/spin/internal/selector"
)

// Config is everything the binaries need before they start.
type Config struct {
	DataDir  string
	Store    string
	Sound    bool
	Dialog   bool
	LogLevel slog.Level
	LogFile  string
	Seed     uint64

	// Starting state for interactive sessions.
	Range   model.Range
	Exclude string
	Mode    model.Mode
}

// fileConfig mirrors the YAML file. Pointers tell "unset" from zero.
type fileConfig struct {
	DataDir  *string `yaml:"data_dir"`
	Store    *string `yaml:"store"`
	Sound    *bool   `yaml:"sound"`
	Dialog   *bool   `yaml:"dialog"`
	LogLevel *string `yaml:"log_level"`
	LogFile  *string `yaml:"log_file"`
	Seed     *uint64 `yaml:"seed"`
	Min      *int    `yaml:"min"`
	Max      *int    `yaml:"max"`
	Exclude  *string `yaml:"exclude"`
	Mode     *string `yaml:"mode"`
}

// Defaults is the bottom layer.
func Defaults() Config {
	dir := ".spin"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".spin")
	}
	return Config{
		DataDir:  dir,
		Store:    "json",
		Sound:    true,
		LogLevel: slog.LevelInfo,
		Range:    selector.DefaultRange(),
		Mode:     model.ModeNormal,
	}
}

// dataHome is the data dir the default config file lives in: the flag,
// then SPIN_DATA_DIR, then def.
func dataHome(def string, flagSet bool, flagValue string) string {
	if flagSet {
		return flagValue
	}
	if v := os.Getenv("SPIN_DATA_DIR"); v != "" {
		return v
	}
	return def
}

// Load layers defaults, the YAML file, .env, the environment and root flags
// (later wins). It returns the arguments left after the root flags.
func Load(args []string) (Config, []string, error) {
	fset := flag.NewFlagSet("spin", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	var (
		configPath = fset.String("config", "", "YAML config file")
		dataDir    = fset.String("data-dir", "", "directory for history storage")
		storeName  = fset.String("store", "", "history backend: json or sqlite")
		sound      = fset.Bool("sound", true, "play tones on spin and result")
		dialog     = fset.Bool("dialog", false, "show notices in a desktop dialog")
		logLevel   = fset.String("log-level", "", "debug, info, warn or error")
		logFile    = fset.String("log-file", "", "write logs to this file")
		seed       = fset.Uint64("seed", 0, "random seed (0 = random)")
	)
	if err := fset.Parse(args); err != nil {
		return Config{}, nil, err
	}
	set := map[string]bool{}
	fset.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()

	path, required := *configPath, true
	if path == "" {
		path = os.Getenv("SPIN_CONFIG")
	}
	if path == "" {
		path, required = filepath.Join(dataHome(cfg.DataDir, set["data-dir"], *dataDir), "config.yaml"), false
	}
	if err := applyFile(&cfg, path, required); err != nil {
		return Config{}, nil, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, nil, err
	}

	if set["data-dir"] {
		cfg.DataDir = *dataDir
	}
	if set["store"] {
		cfg.Store = *storeName
	}
	if set["sound"] {
		cfg.Sound = *sound
	}
	if set["dialog"] {
		cfg.Dialog = *dialog
	}
	if set["log-level"] {
		lvl, err := parseLogLevel(*logLevel)
		if err != nil {
			return Config{}, nil, err
		}
		cfg.LogLevel = lvl
	}
	if set["log-file"] {
		cfg.LogFile = *logFile
	}
	if set["seed"] {
		cfg.Seed = *seed
	}

	if err := cfg.validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, fset.Args(), nil
}

func applyFile(cfg *Config, path string, required bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.DataDir != nil {
		cfg.DataDir = *fc.DataDir
	}
	if fc.Store != nil {
		cfg.Store = *fc.Store
	}
	if fc.Sound != nil {
		cfg.Sound = *fc.Sound
	}
	if fc.Dialog != nil {
		cfg.Dialog = *fc.Dialog
	}
	if fc.LogLevel != nil {
		lvl, err := parseLogLevel(*fc.LogLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = lvl
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	if fc.Seed != nil {
		cfg.Seed = *fc.Seed
	}
	if fc.Min != nil {
		cfg.Range.Min = *fc.Min
	}
	if fc.Max != nil {
		cfg.Range.Max = *fc.Max
	}
	cfg.Range = selector.NormalizeRange(cfg.Range.Min, cfg.Range.Max)
	if fc.Exclude != nil {
		cfg.Exclude = *fc.Exclude
	}
	if fc.Mode != nil {
		m, err := model.ParseMode(*fc.Mode)
		if err != nil {
			return err
		}
		cfg.Mode = m
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("SPIN_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SPIN_STORE"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("SPIN_SOUND"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SPIN_SOUND %q: %w", v, err)
		}
		cfg.Sound = b
	}
	if v := os.Getenv("SPIN_DIALOG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SPIN_DIALOG %q: %w", v, err)
		}
		cfg.Dialog = b
	}
	if v := os.Getenv("SPIN_LOG_LEVEL"); v != "" {
		lvl, err := parseLogLevel(v)
		if err != nil {
			return err
		}
		cfg.LogLevel = lvl
	}
	if v := os.Getenv("SPIN_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SPIN_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SPIN_SEED %q: %w", v, err)
		}
		cfg.Seed = n
	}
	return nil
}

func (c Config) validate() error {
	switch strings.ToLower(c.Store) {
	case "json", "sqlite":
	default:
		return fmt.Errorf("invalid store %q (want json or sqlite)", c.Store)
	}
	if c.DataDir == "" {
		return errors.New("data dir must not be empty")
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}
