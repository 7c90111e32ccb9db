package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/flavioheleno/php-ext-web/internal/server"
)

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the dashboard API and static assets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "listen address (host:port)",
				EnvVars: []string{"PHP_EXT_WEB_LISTEN"},
			},
			&cli.StringFlag{
				Name:    "static-dir",
				Usage:   "directory with the dashboard's static assets",
				EnvVars: []string{"PHP_EXT_WEB_STATIC_DIR"},
			},
		},
		Action: runServe,
	}
}

func runServe(ctx *cli.Context) error {
	d, err := setup(ctx)
	if err != nil {
		return err
	}

	if v := ctx.String("listen"); v != "" {
		d.cfg.Server.Listen = v
	}
	if v := ctx.String("static-dir"); v != "" {
		d.cfg.Server.StaticDir = v
	}

	srv := server.New(d.loader, d.cache, d.lifecycle, d.cfg.Server.GetStaticDir(), d.logger)
	return srv.Run(d.cfg.Server.GetListen())
}
