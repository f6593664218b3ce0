package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"adalower/internal/diag"
	"adalower/internal/diagfmt"
	"adalower/internal/driver"
	"adalower/internal/frontend"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.ads|directory>",
	Short: "Elaborate and check Ada 83 library units, reporting diagnostics only",
	Long:  `Run the frontend and semantic analysis stages over a source file or directory and print diagnostics, without lowering to IR`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiag,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers for file loading (0=auto)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagCmd.Flags().Bool("disk-cache", false, "enable persistent disk cache for compiled-unit reuse")
}

func runDiag(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	session, exitOnErr, err := runPipeline(cmd, args[0])
	if err != nil {
		return err
	}

	if err := printSessionDiagnostics(cmd, session); err != nil {
		return err
	}

	if exitOnErr {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

// runPipeline resolves path to a directory (a single file's parent
// directory when given a file), runs driver.Run over it, and reports
// whether any unit's diagnostics should fail the command.
func runPipeline(cmd *cobra.Command, path string) (*driver.Session, bool, error) {
	dir, err := sourceRoot(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat path: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, false, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		jobs = 0
	}
	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		diskCache = false
	}

	cleanup, err := setupProgress(cmd)
	if err != nil {
		return nil, false, err
	}
	defer cleanup()

	sink, timingsOn, err := withTimingSink(cmd)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get timings flag: %w", err)
	}

	session, err := driver.Run(cmd.Context(), dir, driver.Options{
		Frontend:       frontend.New(),
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		DisableCache:   !diskCache,
		Sink:           progressSinkFor(cmd),
	})
	if err != nil {
		return nil, false, fmt.Errorf("analysis failed: %w", err)
	}
	if timingsOn {
		printStageTimings(os.Stdout, sink.total, false)
	}

	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		warningsAsErrors = false
	}

	failed := false
	for _, u := range session.Units {
		if u.Bag == nil {
			continue
		}
		if u.Bag.HasErrors() {
			failed = true
			continue
		}
		if warningsAsErrors && len(u.Bag.Items()) > 0 {
			failed = true
		}
	}
	return session, failed, nil
}

func sourceRoot(path string) (string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if st.IsDir() {
		return path, nil
	}
	dir := path
	if idx := lastSlash(path); idx >= 0 {
		dir = path[:idx]
	} else {
		dir = "."
	}
	if dir == "" {
		dir = "."
	}
	return dir, nil
}

func lastSlash(path string) int {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return i
		}
	}
	return -1
}

func printSessionDiagnostics(cmd *cobra.Command, session *driver.Session) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		withNotes = false
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		suggest = false
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		fullPath = false
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		noWarnings = false
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	switch format {
	case "short":
		var all []*diag.Diagnostic
		for _, u := range session.Units {
			if u.Bag == nil {
				continue
			}
			all = append(all, filterWarnings(u.Bag.Items(), noWarnings)...)
		}
		out := diag.FormatGoldenDiagnostics(all, session.FileSet, withNotes)
		if out != "" {
			fmt.Fprintln(os.Stdout, out)
		}
	case "pretty":
		for idx, u := range session.Units {
			if u.Bag == nil || len(u.Bag.Items()) == 0 {
				continue
			}
			if idx > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintf(os.Stdout, "== %s ==\n", u.Path)
			opts := diagfmt.PrettyOpts{
				Color:     useColor,
				Context:   2,
				PathMode:  pathMode,
				ShowNotes: withNotes,
				ShowFixes: suggest,
			}
			diagfmt.Pretty(os.Stdout, filteredBag(u.Bag, noWarnings), session.FileSet, opts)
		}
	case "json":
		for _, u := range session.Units {
			if u.Bag == nil {
				continue
			}
			jsonOpts := diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         pathMode,
				IncludeNotes:     withNotes,
				IncludeFixes:     suggest,
			}
			if err := diagfmt.JSON(os.Stdout, filteredBag(u.Bag, noWarnings), session.FileSet, jsonOpts); err != nil {
				return fmt.Errorf("failed to format diagnostics: %w", err)
			}
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{ToolName: "adac", ToolVersion: "0.1.0"}
		for _, u := range session.Units {
			if u.Bag == nil {
				continue
			}
			diagfmt.Sarif(os.Stdout, u.Bag, session.FileSet, meta)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

// filteredBag returns bag unchanged, or a throwaway bag holding only its
// error-severity items when noWarnings suppresses the rest; diagfmt's
// renderers only ever read Items(), so a fresh Bag sized to hold every item
// of bag is enough to drive them without warnings.
func filteredBag(bag *diag.Bag, noWarnings bool) *diag.Bag {
	if !noWarnings {
		return bag
	}
	filtered := diag.NewBag(len(bag.Items()) + 1)
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			filtered.Add(d)
		}
	}
	return filtered
}

func filterWarnings(items []*diag.Diagnostic, noWarnings bool) []*diag.Diagnostic {
	if !noWarnings {
		return items
	}
	out := make([]*diag.Diagnostic, 0, len(items))
	for _, d := range items {
		if d.Severity == diag.SevError {
			out = append(out, d)
		}
	}
	return out
}
