package cli

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/flavioheleno/php-ext-web/internal/site"
)

func newGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a static HTML snapshot of the dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "output directory for the generated snapshot",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "fetch and project without writing files",
			},
		},
		Action: runGenerate,
	}
}

func runGenerate(ctx *cli.Context) error {
	d, err := setup(ctx)
	if err != nil {
		return err
	}

	gen := site.NewGenerator(d.loader, d.cache, d.logger)
	return gen.Generate(context.Background(), site.Options{
		OutputDir: ctx.String("output"),
		DryRun:    ctx.Bool("dry-run"),
	})
}
