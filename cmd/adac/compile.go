package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"adalower/internal/driver"
	"adalower/internal/ssair"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <file.ads|directory>",
	Short: "Elaborate, check, and lower Ada 83 library units to IR",
	Long:  `Run the full pipeline (parse, elaborate, check, lower) over a source file or directory and emit the resulting IR module`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|json|sarif|short)")
	compileCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	compileCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	compileCmd.Flags().Int("jobs", 0, "max parallel workers for file loading (0=auto)")
	compileCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	compileCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	compileCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	compileCmd.Flags().Bool("disk-cache", false, "enable persistent disk cache for compiled-unit reuse")
	compileCmd.Flags().String("emit-ir", "", "write the lowered IR module to this path (- for stdout)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	session, exitOnErr, err := runPipeline(cmd, args[0])
	if err != nil {
		return err
	}

	if err := printSessionDiagnostics(cmd, session); err != nil {
		return err
	}

	if !exitOnErr {
		if err := emitIR(cmd, session); err != nil {
			return err
		}
	}

	if exitOnErr {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

// emitIR writes session's lowered IR module as text if --emit-ir names a
// destination; it is a no-op otherwise, since IR output is opt-in.
func emitIR(cmd *cobra.Command, session *driver.Session) error {
	dest, err := cmd.Flags().GetString("emit-ir")
	if err != nil || dest == "" {
		return nil
	}

	out := os.Stdout
	if dest != "-" {
		f, createErr := os.Create(dest)
		if createErr != nil {
			return fmt.Errorf("failed to create %s: %w", dest, createErr)
		}
		defer f.Close()
		out = f
	}
	if err := ssair.DumpModule(out, session.Module, session.Types); err != nil {
		return fmt.Errorf("failed to dump IR module: %w", err)
	}
	return nil
}
