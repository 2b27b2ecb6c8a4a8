package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cgull/internal/diag"
	"cgull/internal/diagfmt"
	"cgull/internal/lexer"
	"cgull/internal/source"
	"cgull/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Print the token stream and stop",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	fs := source.NewFileSet()
	fileID, err := fs.Load(args[0])
	if err != nil {
		return err
	}
	bag := diag.NewBag(maxDiagnostics(cmd))
	tokens := lexer.Tokenize(fs.Get(fileID), diag.BagReporter{Bag: bag})

	for _, tok := range tokens {
		if tok.Kind == token.EOF {
			break
		}
		pos := fs.Position(tok.Span)
		fmt.Fprintf(cmd.OutOrStdout(), "Token: %s, Text: '%s', Line: %d\n", tok.Kind, tok.Text, pos.Line)
	}

	bag.Sort()
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: useColor(cmd)})
	if bag.HasErrors() {
		return errors.New("lexing failed")
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Lexing completed successfully!")
	}
	return nil
}
