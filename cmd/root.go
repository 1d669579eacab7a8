package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/tokstore/internal/config"
	"github.com/zjrosen/tokstore/internal/log"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:          "tokstore",
	Short:        "Incremental syntax token tooling",
	Long:         `Tokenize source files into serialized token payloads, inspect them, and watch files to apply edits to the token store incrementally.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/tokstore/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug logs to tokstore.log")
	rootCmd.PersistentFlags().String("theme", "",
		"chroma style used to resolve token colors")
	rootCmd.PersistentFlags().StringP("language", "l", "",
		"force a lexer instead of detecting from the filename")

	// Bind flags to viper
	_ = viper.BindPFlag("highlight.theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("highlight.language", rootCmd.PersistentFlags().Lookup("language"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("highlight.theme", defaults.Highlight.Theme)
	viper.SetDefault("highlight.language", defaults.Highlight.Language)
	viper.SetDefault("highlight.tab_width", defaults.Highlight.TabWidth)
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.path", defaults.Cache.Path)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	viper.SetDefault("watch.verify", defaults.Watch.Verify)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .tokstore/config.yaml (current directory)
		// 2. ~/.config/tokstore/config.yaml (user config)
		if _, err := os.Stat(".tokstore/config.yaml"); err == nil {
			viper.SetConfigFile(".tokstore/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "tokstore"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create a default user config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			home, homeErr := os.UserHomeDir()
			if homeErr == nil {
				defaultPath := filepath.Join(home, ".config", "tokstore", "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)

	if debug || os.Getenv("TOKSTORE_DEBUG") != "" {
		if _, err := log.Init("tokstore.log"); err == nil {
			log.SetEnabled(true)
		}
	} else {
		log.SetEnabled(false)
	}
}

// cachePath resolves the cache database location.
func cachePath() string {
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path
	}
	return config.DefaultCachePath()
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
