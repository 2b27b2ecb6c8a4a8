package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cgull/internal/driver"
	"cgull/internal/sema"
	"cgull/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Run semantic analysis without emitting code",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("symbols-json", false, "dump the scope and symbol tree as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	unit, err := driver.Compile(source.NewFileSet(), args[0], driver.Options{
		MaxDiagnostics: maxDiagnostics(cmd),
	})
	if err != nil {
		return err
	}

	if dump, _ := cmd.Flags().GetBool("symbols-json"); dump {
		if err := sema.DumpSymbols(cmd.OutOrStdout(), unit.Sema); err != nil {
			return err
		}
	}

	printUnitDiagnostics(cmd, unit)
	if unit.Bag.HasErrors() {
		return errors.New("check failed")
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Semantic analysis completed successfully!")
	}
	return nil
}
