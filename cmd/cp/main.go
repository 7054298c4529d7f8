// Command cp is the cp language compiler front end: it lexes, parses,
// semantically analyzes, and — if the input is clean — lowers a .cp source
// file to three-address code.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xingleixu/cp-compiler/compile"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logFolder string
	var output string
	var verbose bool

	cmd := &cobra.Command{
		Use:           "cp <input>.cp",
		Short:         "Compile a .cp source file to three-address code",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return compileFile(args[0], logFolder, output, verbose)
		},
	}

	cmd.Flags().StringVar(&logFolder, "log-folder", "logs", "directory for diagnostic dumps")
	cmd.Flags().StringVar(&output, "output", "o.tac", "TAC output file, relative to --log-folder")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	return cmd
}

// compileFile runs the pipeline over path and reports its outcome (§6
// "Exit conditions": non-zero on any non-empty error set, zero on
// successful TAC emission).
func compileFile(path, logFolder, output string, verbose bool) error {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := os.MkdirAll(logFolder, 0o755); err != nil {
		return fmt.Errorf("creating log folder %s: %w", logFolder, err)
	}

	result := compile.Run(src, log)
	if err := compile.WriteDiagnostics(logFolder, result, log); err != nil {
		return fmt.Errorf("writing diagnostics: %w", err)
	}

	if !result.Clean() {
		err := result.AggregateError()
		log.WithField("log_folder", logFolder).Error(err)
		return err
	}

	outPath := filepath.Join(logFolder, output)
	if err := os.WriteFile(outPath, []byte(result.Program.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	log.WithField("output", outPath).Info("TAC emitted")
	return nil
}
