package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/dark1zinn/drk/internal/cli"
	"github.com/dark1zinn/drk/internal/config"
	"github.com/dark1zinn/drk/internal/host"
	"github.com/dark1zinn/drk/internal/logging"
	"github.com/dark1zinn/drk/pkg/api"
)

// Overridden by ldflags.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	// Logging and the plugin directory must be settled before the command
	// tree exists, and the command tree needs the plugins loaded. So these
	// two flags are scanned ahead of cobra; cobra re-parses them later for
	// help output.
	opts := prescan(argv)
	logger := logging.New(opts.logLevel)

	configPath, err := config.DefaultPath()
	if err != nil {
		logger.Debug("no per-user config directory", "err", err)
	}
	store, parseErr := config.Load(configPath)
	if parseErr != nil {
		// Malformed config falls back to an empty store; the run goes on.
		logger.Debug("config unreadable, starting with empty store", "err", parseErr)
	}

	registry := host.NewRegistry(store, logger)
	loader := host.NewLoader(registry, logger)

	pluginDir := opts.pluginDir
	if pluginDir == "" {
		pluginDir = os.Getenv("DRK_PLUGIN_DIR")
	}
	if pluginDir == "" && configPath != "" {
		pluginDir = filepath.Join(filepath.Dir(configPath), "plugins")
	}
	if pluginDir != "" {
		n, err := loader.Scan(pluginDir)
		if err != nil {
			logger.Error("plugin scan failed", "dir", pluginDir, "err", err)
		}
		logger.Debug("plugin scan complete", "dir", pluginDir, "loaded", n)
	}

	if _, err := registry.FireEvent(api.Startup{}); err != nil {
		logger.Error("startup dispatch failed", "err", err)
	}

	container := &cli.Container{Registry: registry, Store: store, Log: logger}
	execErr := cli.Execute(container, argv, version)

	if err := store.Save(); err != nil {
		logger.Error("could not persist config", "err", err)
	}
	if err := registry.Close(); err != nil {
		logger.Error("plugin teardown reported errors", "err", err)
	}

	return execErr
}

type options struct {
	logLevel  string
	pluginDir string
}

// prescan pulls the host's own flags out of argv without tripping on the
// plugin-declared ones cobra will parse later.
func prescan(argv []string) options {
	var opts options
	fs := pflag.NewFlagSet("drk", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(discard{})
	fs.StringVar(&opts.logLevel, "log-level", "", "")
	fs.StringVar(&opts.pluginDir, "plugin-dir", "", "")
	_ = fs.Parse(argv)
	return opts
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
