// Package cli provides the command-line interface for the dashboard
// service: serving the dashboard and one-shot filtered queries against the
// build farm's published data.
package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/flavioheleno/php-ext-web/internal/buildcache"
	"github.com/flavioheleno/php-ext-web/internal/catalog"
	"github.com/flavioheleno/php-ext-web/internal/config"
	"github.com/flavioheleno/php-ext-web/internal/lifecycle"
	"github.com/flavioheleno/php-ext-web/internal/logger"
)

// NewApp creates and configures the main CLI application.
func NewApp() *cli.App {
	return &cli.App{
		Name:     "php-ext-web",
		Usage:    "Dashboard for PHP extension build results",
		Version:  "1.0.0",
		Compiled: time.Now(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to configuration file",
				EnvVars: []string{"PHP_EXT_WEB_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "data-url",
				Usage:   "base URL of the build farm's published data files",
				EnvVars: []string{"PHP_EXT_WEB_DATA_URL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				EnvVars: []string{"PHP_EXT_WEB_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log format (json, text)",
				EnvVars: []string{"PHP_EXT_WEB_LOG_FORMAT"},
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newExtensionsCommand(),
			newStatsCommand(),
			newPhpCommand(),
			newGenerateCommand(),
		},
	}
}

// deps bundles the objects every command needs: resolved configuration, a
// logger, the caching loader, the build cache and the optional lifecycle
// client (nil unless enabled).
type deps struct {
	cfg       *config.Config
	logger    *slog.Logger
	loader    *catalog.Loader
	cache     *buildcache.Cache
	lifecycle lifecycle.Client
}

// setup resolves configuration (file if given, flags override) and
// constructs the shared dependencies.
func setup(ctx *cli.Context) (*deps, error) {
	cfg := &config.Config{}
	if path := ctx.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v := ctx.String("data-url"); v != "" {
		cfg.Data.BaseURL = v
	}
	if v := ctx.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := ctx.String("log-format"); v != "" {
		cfg.Log.Format = v
	}

	log, err := logger.New(cfg.Log.GetLevel(), cfg.Log.GetFormat())
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	client := catalog.NewClient(catalog.Config{
		BaseURL: cfg.Data.BaseURL,
		Timeout: cfg.Data.GetTimeout(),
	})

	d := &deps{
		cfg:    cfg,
		logger: log,
		loader: catalog.NewLoader(client, catalog.WithFreshness(cfg.Data.GetCacheTTL())),
		cache:  buildcache.New(client),
	}

	if cfg.Lifecycle.Enabled {
		d.lifecycle = lifecycle.NewClient(lifecycle.Config{
			BaseURL: cfg.Lifecycle.BaseURL,
			Timeout: cfg.Data.GetTimeout(),
		})
	}

	return d, nil
}
