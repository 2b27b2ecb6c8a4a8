package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/diagfmt"
	"cgull/internal/parser"
	"cgull/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a source file and stop",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	fs := source.NewFileSet()
	fileID, err := fs.Load(args[0])
	if err != nil {
		return err
	}
	bag := diag.NewBag(maxDiagnostics(cmd))
	builder := ast.NewBuilder(nil)
	astFile := parser.ParseFile(fs.Get(fileID), builder, diag.BagReporter{Bag: bag})

	if file := builder.File(astFile); file != nil {
		for _, itemID := range file.Items {
			item := builder.Item(itemID)
			if item == nil {
				continue
			}
			switch item.Kind {
			case ast.ItemFn:
				fmt.Fprintf(cmd.OutOrStdout(), "fn %s\n", builder.Name(item.Name))
			case ast.ItemStruct:
				fmt.Fprintf(cmd.OutOrStdout(), "struct %s\n", builder.Name(item.Name))
			case ast.ItemVar:
				fmt.Fprintf(cmd.OutOrStdout(), "var %s\n", builder.Name(item.Name))
			}
		}
	}

	bag.Sort()
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: useColor(cmd), ShowContext: true})
	if bag.HasErrors() {
		return errors.New("parsing failed")
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Parsing completed successfully!")
	}
	return nil
}
