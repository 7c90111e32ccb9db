package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/flavioheleno/php-ext-web/internal/catalog"
	"github.com/flavioheleno/php-ext-web/internal/filter"
	"github.com/flavioheleno/php-ext-web/internal/platform"
	"github.com/flavioheleno/php-ext-web/internal/project"
	"github.com/flavioheleno/php-ext-web/internal/results"
)

// filterFlags are shared by the extensions and stats commands
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "case-insensitive substring match on extension names",
		},
		&cli.StringSliceFlag{
			Name:  "os",
			Usage: "OS filter: 'alpine|3.20' or a bare OS name for all its versions",
		},
		&cli.StringSliceFlag{
			Name:  "php",
			Usage: "PHP version filter (e.g. 8.3)",
		},
		&cli.StringSliceFlag{
			Name:  "arch",
			Usage: "architecture filter (e.g. amd64, arm64)",
		},
		&cli.StringSliceFlag{
			Name:  "ext",
			Usage: "extension name filter",
		},
		&cli.StringFlag{
			Name:  "status",
			Value: "all",
			Usage: "status filter: all, success or failure",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "emit JSON on stdout instead of a table",
		},
	}
}

func newExtensionsCommand() *cli.Command {
	return &cli.Command{
		Name:   "extensions",
		Usage:  "List extensions with filtered build results",
		Flags:  filterFlags(),
		Action: runExtensions,
	}
}

func newStatsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Print summary statistics for the filtered result set",
		Flags:  filterFlags(),
		Action: runStats,
	}
}

// listOutput is the JSON shape of the extensions command
type listOutput struct {
	Extensions []results.ExtensionView `json:"extensions"`
	Stats      filter.Stats            `json:"stats"`
}

// buildState converts filter flags into a filter state
func buildState(ctx *cli.Context, meta *catalog.Metadata) (filter.State, error) {
	state := filter.NewState()
	state.Search = ctx.String("search")

	osKeys, err := platform.ResolvePairs(ctx.StringSlice("os"), meta.OS.VersionsByOS())
	if err != nil {
		return state, err
	}
	state.OS = filter.Subset(osKeys...)
	state.PHP = filter.Subset(ctx.StringSlice("php")...)
	state.Arch = filter.Subset(ctx.StringSlice("arch")...)
	state.Extensions = filter.Subset(ctx.StringSlice("ext")...)

	switch status := ctx.String("status"); filter.Status(status) {
	case filter.StatusAll, filter.StatusSuccess, filter.StatusFailure:
		state.Status = filter.Status(status)
	default:
		return state, fmt.Errorf("invalid status: %s (use all, success or failure)", status)
	}

	return state, nil
}

// query runs the fetch/project/filter pipeline for one-shot commands
func query(ctx *cli.Context, d *deps) ([]results.ExtensionView, filter.Stats, error) {
	reqCtx := context.Background()

	meta, err := d.loader.Metadata(reqCtx)
	if err != nil {
		return nil, filter.Stats{}, fmt.Errorf("failed to load catalogs: %w", err)
	}

	latest, err := d.loader.Latest(reqCtx)
	if err != nil {
		return nil, filter.Stats{}, fmt.Errorf("failed to load results: %w", err)
	}

	state, err := buildState(ctx, meta)
	if err != nil {
		return nil, filter.Stats{}, err
	}

	names := make([]string, 0, len(latest))
	for name := range latest {
		names = append(names, name)
	}
	state = state.Canonicalize(filter.Known{
		OS:         meta.OS.PairKeys(),
		PHP:        meta.PHP.Labels(),
		Arch:       meta.Index.Architectures,
		Extensions: names,
	})

	if state.NeedsBuilds() {
		for name, agg := range latest {
			if _, err := d.cache.LoadBuilds(reqCtx, agg.Path); err != nil {
				d.logger.Warn("build detail fetch failed", "extension", name, "error", err)
			}
		}
	}

	views := project.Extensions(latest, d.cache)
	visible := filter.Apply(state, views)
	return visible, filter.Summarize(visible), nil
}

func runExtensions(ctx *cli.Context) error {
	d, err := setup(ctx)
	if err != nil {
		return err
	}

	visible, stats, err := query(ctx, d)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(listOutput{Extensions: visible, Stats: stats})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tPASS\tFAIL\tTOTAL\tRATE\tUPDATED")
	for _, v := range visible {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d%%\t%s\n",
			v.Name, v.Version, v.Pass, v.Fail, v.Total, v.SuccessRate, v.UpdatedAt)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d extensions, %s\n", len(visible), summaryLine(stats))
	return nil
}

func runStats(ctx *cli.Context) error {
	d, err := setup(ctx)
	if err != nil {
		return err
	}

	_, stats, err := query(ctx, d)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(stats)
	}

	fmt.Println(summaryLine(stats))
	return nil
}

// summaryLine renders the stats in a single human-readable line
func summaryLine(stats filter.Stats) string {
	title := cases.Title(language.English)
	return fmt.Sprintf("%s: %d / %s: %d / total: %d (%d%% success)",
		title.String(string(filter.StatusSuccess)), stats.Pass,
		title.String(string(filter.StatusFailure)), stats.Fail,
		stats.Total, stats.SuccessRate)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
