package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cgull/internal/diagfmt"
	"cgull/internal/driver"
	"cgull/internal/source"
)

var buildCmd = &cobra.Command{
	Use:   "build [file|dir]",
	Short: "Compile source files to .jasm assembly",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output directory for generated .jasm files")
	buildCmd.Flags().Bool("cached", false, "reuse cached results for unchanged inputs")
}

func runBuild(cmd *cobra.Command, args []string) error {
	input, manifestOut, err := resolveInput(args)
	if err != nil {
		return err
	}
	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = manifestOut
	}
	if outputDir == "" {
		outputDir = "out"
	}
	cached, _ := cmd.Flags().GetBool("cached")
	quiet, _ := cmd.Flags().GetBool("quiet")
	opts := driver.Options{
		OutputDir:      outputDir,
		MaxDiagnostics: maxDiagnostics(cmd),
	}

	info, err := os.Stat(input)
	if err != nil {
		return err
	}

	if info.IsDir() {
		units, err := driver.CompileDir(context.Background(), input, opts)
		if err != nil {
			return err
		}
		failed := false
		for _, unit := range units {
			printUnitDiagnostics(cmd, unit)
			failed = failed || unit.Bag.HasErrors()
			if !unit.Bag.HasErrors() && !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Compiled %s\n", unit.Path)
			}
		}
		if failed {
			return errors.New("build failed")
		}
		return nil
	}

	if cached {
		return runCachedBuild(cmd, input, opts)
	}

	unit, err := driver.Compile(source.NewFileSet(), input, opts)
	if err != nil {
		return err
	}
	printUnitDiagnostics(cmd, unit)
	if unit.Bag.HasErrors() {
		return errors.New("build failed")
	}
	if !quiet {
		for _, class := range unit.Classes {
			fmt.Fprintf(cmd.OutOrStdout(), "Generated class file: %s/%s.jasm\n", outputDir, class.Name)
		}
	}
	return nil
}

// runCachedBuild consults the disk cache keyed by the source content hash
// and replays stored classes and diagnostics on a hit.
func runCachedBuild(cmd *cobra.Command, input string, opts driver.Options) error {
	fs := source.NewFileSet()
	fileID, err := fs.Load(input)
	if err != nil {
		return err
	}
	cache, err := driver.OpenDiskCache("cgull")
	if err != nil {
		return err
	}
	hash := fs.Get(fileID).Hash

	if payload, ok := cache.Get(hash); ok {
		bag := payload.ReplayDiagnostics(fileID, opts.MaxDiagnostics)
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: useColor(cmd)})
		if payload.HasErrors {
			return errors.New("build failed")
		}
		return payload.WriteClasses(opts.OutputDir)
	}

	unit, err := driver.CompileFile(fs, fileID, input, opts)
	if err != nil {
		return err
	}
	printUnitDiagnostics(cmd, unit)
	if putErr := cache.Put(hash, driver.PayloadFor(unit)); putErr != nil && !unit.Bag.HasErrors() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to update cache: %v\n", putErr)
	}
	if unit.Bag.HasErrors() {
		return errors.New("build failed")
	}
	return nil
}

func printUnitDiagnostics(cmd *cobra.Command, unit *driver.Unit) {
	if unit.Bag.Len() == 0 {
		return
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), unit.Bag, unit.Files, diagfmt.PrettyOpts{
		Color:       useColor(cmd),
		ShowContext: true,
	})
}
