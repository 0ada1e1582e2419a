package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"tudu/internal/config"
	"tudu/internal/logging"
	"tudu/internal/storage"
	"tudu/internal/todo"
	"tudu/internal/ui"
)

type options struct {
	configPath string
	storage    string
	dataPath   string
	logLevel   string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to config.toml")
	fs.StringVar(&opts.storage, "storage", "", "storage backend (json, sqlite)")
	fs.StringVar(&opts.dataPath, "data", "", "path to the task file or database")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.configPath == "" {
		opts.configPath = config.ResolveConfigPath()
	}
	return opts, nil
}

// apply overrides config values with any flags that were given. A storage
// override without --data switches to that backend's default file name.
func (o options) apply(cfg *config.Config) {
	if kind := strings.ToLower(o.storage); kind != "" && kind != cfg.Storage {
		cfg.Storage = kind
		cfg.DataPath = config.DefaultDataName(kind)
	}
	if o.dataPath != "" {
		cfg.DataPath = o.dataPath
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

// loadConfig reads (or creates) the config file, applies flag overrides and
// validates the result. The bool reports whether the file was just created.
func loadConfig(opts options) (config.Config, bool, error) {
	firstLaunch := false
	if _, err := os.Stat(opts.configPath); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(opts.configPath)
	if err != nil {
		return cfg, false, err
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, false, err
	}
	cfg.ResolvePaths(opts.configPath)
	return cfg, firstLaunch, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	cfg, firstLaunch, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	store, err := storage.Open(cfg.Storage, cfg.DataPath)
	if err != nil {
		logger.Error("open storage", "kind", cfg.Storage, "path", cfg.DataPath, "err", err)
		fmt.Fprintf(os.Stderr, "failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	tasks, err := store.Load()
	if err != nil {
		logger.Warn("starting with an empty list", "path", cfg.DataPath, "err", err)
	}
	logger.Info("started", "storage", cfg.Storage, "path", cfg.DataPath, "tasks", len(tasks))

	if err := ui.Run(todo.New(tasks), store, cfg, logger, firstLaunch); err != nil {
		logger.Error("ui", "err", err)
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
	logger.Info("quit")
}
