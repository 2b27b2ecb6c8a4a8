package lexer

import (
	"testing"

	"cgull/internal/diag"
	"cgull/internal/source"
	"cgull/internal/token"
)

func tokenize(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("test.cgull", []byte(src))
	bag := diag.NewBag(16)
	return Tokenize(fs.Get(id), diag.BagReporter{Bag: bag}), bag
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func TestTokenizeDeclaration(t *testing.T) {
	tokens, bag := tokenize(t, "var x: int = 42;")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	want := []token.Kind{
		token.KwVar, token.Ident, token.Colon, token.Ident,
		token.Assign, token.IntLit, token.Semi, token.EOF,
	}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestTokenizeOperators(t *testing.T) {
	tokens, bag := tokenize(t, "a->b && c << 2 >= ++d")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	want := []token.Kind{
		token.Ident, token.Arrow, token.Ident, token.AndAnd, token.Ident,
		token.Shl, token.IntLit, token.GtEq, token.PlusPlus, token.Ident, token.EOF,
	}
	for i, kind := range want {
		if tokens[i].Kind != kind {
			t.Fatalf("token %d: expected %s, got %s", i, kind, tokens[i].Kind)
		}
	}
}

func TestTokenizeSpecialName(t *testing.T) {
	tokens, _ := tokenize(t, "fn $toString() -> string { }")
	if tokens[1].Kind != token.Ident || tokens[1].Text != "$toString" {
		t.Fatalf("expected $toString identifier, got %s %q", tokens[1].Kind, tokens[1].Text)
	}
}

func TestTokenizeNumberForms(t *testing.T) {
	tokens, bag := tokenize(t, "0x2A 0b1010 3.25 7")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	want := []token.Kind{token.HexLit, token.BinLit, token.FloatLit, token.IntLit}
	for i, kind := range want {
		if tokens[i].Kind != kind {
			t.Fatalf("token %d: expected %s, got %s (%q)", i, kind, tokens[i].Kind, tokens[i].Text)
		}
	}
}

func TestTokenizeStringKeepsQuotes(t *testing.T) {
	tokens, _ := tokenize(t, `"Hello"`)
	if tokens[0].Kind != token.StringLit || tokens[0].Text != `"Hello"` {
		t.Fatalf("expected quoted literal text, got %q", tokens[0].Text)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, bag := tokenize(t, "\"oops\n")
	if !bag.HasErrors() {
		t.Fatal("expected a lexical error for unterminated string")
	}
	if bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected LexUnterminatedString, got %v", bag.Items()[0].Code)
	}
}

func TestTokenizeComments(t *testing.T) {
	tokens, bag := tokenize(t, "// line\n/* block */ x")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if tokens[0].Kind != token.Ident || tokens[0].Text != "x" {
		t.Fatalf("expected comments to be skipped, got %s %q", tokens[0].Kind, tokens[0].Text)
	}
}
