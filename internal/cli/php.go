package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/flavioheleno/php-ext-web/internal/lifecycle"
)

func newPhpCommand() *cli.Command {
	return &cli.Command{
		Name:  "php",
		Usage: "List the PHP versions in the build matrix with support status",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "emit JSON on stdout instead of a table",
			},
		},
		Action: runPhp,
	}
}

// phpVersionOutput is the JSON shape of one row of the php command
type phpVersionOutput struct {
	Version string             `json:"version"`
	Ref     string             `json:"ref"`
	Branch  string             `json:"branch,omitempty"`
	Support *lifecycle.Support `json:"support,omitempty"`
}

func runPhp(ctx *cli.Context) error {
	d, err := setup(ctx)
	if err != nil {
		return err
	}

	reqCtx := context.Background()
	phpCatalog, err := d.loader.PhpCatalog(reqCtx)
	if err != nil {
		return fmt.Errorf("failed to load PHP catalog: %w", err)
	}

	var support map[string]lifecycle.Support
	if d.lifecycle != nil {
		support, err = d.lifecycle.PHPSupport(reqCtx)
		if err != nil {
			d.logger.Warn("php lifecycle lookup failed", "error", err)
			support = nil
		}
	}

	rows := make([]phpVersionOutput, 0, len(phpCatalog))
	for _, label := range phpCatalog.Labels() {
		row := phpVersionOutput{
			Version: label,
			Ref:     phpCatalog[label].Ref,
			Branch:  phpCatalog[label].Branch,
		}
		if s, ok := support[label]; ok {
			row.Support = &s
		}
		rows = append(rows, row)
	}

	if ctx.Bool("json") {
		return printJSON(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tREF\tSTATUS\tLATEST\tEOL")
	for _, row := range rows {
		status, latest, eol := "-", "-", "-"
		if row.Support != nil {
			status = row.Support.Status
			if row.Support.LatestPatch != "" {
				latest = row.Support.LatestPatch
			}
			if row.Support.EOLDate != "" {
				eol = row.Support.EOLDate
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", row.Version, row.Ref, status, latest, eol)
	}
	return w.Flush()
}
