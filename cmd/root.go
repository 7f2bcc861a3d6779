package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/rubymark/internal/config"
	"github.com/zjrosen/rubymark/internal/log"
)

// localConfigPath is checked before the user config.
const localConfigPath = ".rubymark/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	logFile   string

	cfg        config.Config
	cfgUsed    string
	logCleanup func()
)

// flagKeys maps command flags to the config keys they override.
var flagKeys = map[string]string{
	"format":     "render.format",
	"xhtml":      "render.xhtml",
	"unsafe":     "render.unsafe",
	"hard-wraps": "render.hard_wraps",
	"gfm":        "render.gfm",
	"style":      "terminal.style",
	"width":      "terminal.width",
	"debounce":   "watch.debounce",
	"no-cache":   "cache.disabled",
}

var rootCmd = &cobra.Command{
	Use:   "rubymark",
	Short: "Render Aozora Bunko ruby notation in Markdown",
	Long: `rubymark finds ruby (furigana) annotations written in Aozora Bunko notation,
such as 漢字《かんじ》 or ｜言葉《ことば》, and renders them as HTML <ruby> markup,
styled terminal output, or plain base（reading） text.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .rubymark/config.yaml, then ~/.config/rubymark/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also enabled by RUBYMARK_DEBUG)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"debug log path (default: $RUBYMARK_LOG or debug.log)")
}

func setup(cmd *cobra.Command, _ []string) error {
	if debugFlag || os.Getenv("RUBYMARK_DEBUG") != "" {
		path := logFile
		if path == "" {
			path = os.Getenv("RUBYMARK_LOG")
		}
		if path == "" {
			path = "debug.log"
		}

		cleanup, err := log.Init(path)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup
		log.Info(log.CatConfig, "rubymark starting", "version", version, "command", cmd.CommandPath(), "logPath", path)
	}

	v := viper.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}

	loaded, err := loadConfig(v, cfgFile)
	if err != nil {
		log.ErrorErr(log.CatConfig, "Failed to load config", err, "path", cfgFile)
		return err
	}
	cfg = loaded
	cfgUsed = v.ConfigFileUsed()
	log.Debug(log.CatConfig, "Config loaded", "path", cfgUsed, "format", cfg.Render.Format)
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
}

// loadConfig reads configuration into a Config. Precedence, highest first:
// flags bound on v, RUBYMARK_* environment variables, the config file, defaults.
//
// Config lookup order when path is empty:
// 1. .rubymark/config.yaml (current directory)
// 2. ~/.config/rubymark/config.yaml (user config)
// A missing config file is not an error unless path names it explicitly.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("RUBYMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		if userPath := config.DefaultConfigPath(); userPath != "" {
			v.AddConfigPath(filepath.Dir(userPath))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(c); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("render.format", defaults.Render.Format)
	v.SetDefault("render.xhtml", defaults.Render.XHTML)
	v.SetDefault("render.unsafe", defaults.Render.Unsafe)
	v.SetDefault("render.hard_wraps", defaults.Render.HardWraps)
	v.SetDefault("render.gfm", defaults.Render.GFM)
	v.SetDefault("terminal.style", defaults.Terminal.Style)
	v.SetDefault("terminal.width", defaults.Terminal.Width)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("cache.disabled", defaults.Cache.Disabled)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("cache.cleanup_interval", defaults.Cache.CleanupInterval)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
