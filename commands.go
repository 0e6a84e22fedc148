package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/woozymasta/pathrules"
	"golang.org/x/sync/errgroup"

	"github.com/ossyrian/mintywad/internal/parser"
	"github.com/ossyrian/mintywad/internal/wad"
	"github.com/ossyrian/mintywad/internal/writer"
)

var listCmd = &cobra.Command{
	Use:   "list FILE",
	Short: "List the directory of a WAD (or a zip holding one)",
	Args:  cobra.ExactArgs(1),
	RunE:  list,
}

var infoCmd = &cobra.Command{
	Use:   "info FILE...",
	Short: "Summarize one or more WAD files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  info,
}

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Write each selected lump to its own file",
	Args:  cobra.ExactArgs(1),
	RunE:  extract,
}

var repackCmd = &cobra.Command{
	Use:   "repack FILE",
	Short: "Write the selected lumps to a new PWAD with fresh offsets",
	Args:  cobra.ExactArgs(1),
	RunE:  repack,
}

func init() {
	infoCmd.Flags().Int("workers", 0, "max archives opened at once (0 = all)")
	viper.BindPFlag("workers", infoCmd.Flags().Lookup("workers"))

	extractCmd.Flags().StringP("output-dir", "o", "", "directory to write lumps to (required)")
	extractCmd.MarkFlagRequired("output-dir")
	viper.BindPFlag("output_dir", extractCmd.Flags().Lookup("output-dir"))

	repackCmd.Flags().StringP("output", "o", "", "path of the PWAD to write (required)")
	repackCmd.Flags().Bool("dry-run", false, "print the new layout without writing")
	repackCmd.MarkFlagRequired("output")
	viper.BindPFlag("output", repackCmd.Flags().Lookup("output"))
	viper.BindPFlag("dry_run", repackCmd.Flags().Lookup("dry-run"))
}

// openSelected opens the archive at path and returns the positions of the
// lumps picked by the include/exclude rules, in directory order
func openSelected(path string) (*wad.Archive, []int, error) {
	matcher, err := cfg.NameMatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid lump name patterns: %w", err)
	}

	a, err := parser.OpenFile(appFs, path, slog.With("file", path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return a, selectLumps(a, matcher), nil
}

func selectLumps(a *wad.Archive, m *pathrules.Matcher) []int {
	var positions []int
	for i, e := range a.Entries() {
		if m == nil || m.Included(e.Name, false) {
			positions = append(positions, i)
		}
	}
	return positions
}

func list(cmd *cobra.Command, args []string) error {
	a, positions, err := openSelected(args[0])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tNAME\tSIZE\tOFFSET\t")
	for _, i := range positions {
		e, _ := a.Entry(i)
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t\n", i, e.Name, e.Size, e.Offset)
	}
	return tw.Flush()
}

type summary struct {
	path  string
	lumps int
	bytes int64
}

// info opens every file concurrently. Each goroutine owns its own byte
// source; results are printed in argument order.
func info(cmd *cobra.Command, args []string) error {
	results := make([]summary, len(args))

	var g errgroup.Group
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	for i, path := range args {
		g.Go(func() error {
			a, err := parser.OpenFile(appFs, path, slog.With("file", path))
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			results[i] = summary{path: path, lumps: a.Len(), bytes: a.TotalSize()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tLUMPS\tBYTES")
	for _, s := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", s.path, s.lumps, s.bytes)
	}
	return tw.Flush()
}

var unsafeNameChars = strings.NewReplacer("/", "_", `\`, "_", ":", "_", "..", "__")

// lumpFileNames maps each selected lump to a file name that is safe on
// disk and unique within the extraction: NAME.lmp, then NAME~1.lmp, ...
// Names are compared case-insensitively, suffixed ones included.
func lumpFileNames(a *wad.Archive, positions []int) []string {
	used := make(map[string]struct{}, len(positions))
	next := make(map[string]int, len(positions))

	return lo.Map(positions, func(i int, _ int) string {
		e, _ := a.Entry(i)
		base := unsafeNameChars.Replace(e.Name)
		if base == "" {
			base = "_"
		}

		key := strings.ToUpper(base)
		name := base
		for n := next[key]; ; n++ {
			if n > 0 {
				name = fmt.Sprintf("%s~%d", base, n)
			}
			if _, taken := used[strings.ToUpper(name)]; !taken {
				next[key] = n + 1
				break
			}
		}

		used[strings.ToUpper(name)] = struct{}{}
		return name + ".lmp"
	})
}

func extract(cmd *cobra.Command, args []string) error {
	a, positions, err := openSelected(args[0])
	if err != nil {
		return err
	}

	if err := appFs.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	names := lumpFileNames(a, positions)
	for k, i := range positions {
		data, _ := a.Lump(i)
		out := filepath.Join(cfg.OutputDir, names[k])
		if err := afero.WriteFile(appFs, out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write lump %d: %w", i, err)
		}
		slog.Debug("extracted lump", "index", i, "path", out, "size", len(data))
	}

	slog.Info("extracted lumps", "count", len(positions), "output_dir", cfg.OutputDir)
	fmt.Fprintf(cmd.OutOrStdout(), "extracted %d of %d lumps to %s\n", len(positions), a.Len(), cfg.OutputDir)
	return nil
}

func repack(cmd *cobra.Command, args []string) error {
	a, positions, err := openSelected(args[0])
	if err != nil {
		return err
	}

	all := a.Lumps()
	lumps := lo.Map(positions, func(i int, _ int) wad.Lump { return all[i] })

	entries, total, err := writer.Layout(lumps)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "#\tNAME\tSIZE\tOFFSET\t")
		for i, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t\n", i, e.Name, e.Size, e.Offset)
		}
		fmt.Fprintf(tw, "\ttotal\t%d\t\t\n", total)
		return tw.Flush()
	}

	if err := writer.WriteFile(appFs, cfg.Output, lumps); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output, err)
	}

	slog.Info("wrote PWAD", "output", cfg.Output, "lumps", len(lumps), "bytes", total)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d lumps (%d bytes) to %s\n", len(lumps), total, cfg.Output)
	return nil
}
