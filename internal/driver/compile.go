// Package driver wires the front end, the semantic passes, and the code
// generator into a per-file compilation pipeline.
package driver

import (
	"bytes"

	"cgull/internal/ast"
	"cgull/internal/codegen"
	"cgull/internal/diag"
	"cgull/internal/parser"
	"cgull/internal/sema"
	"cgull/internal/source"
)

// Options configure one compilation.
type Options struct {
	// OutputDir receives one .jasm per generated class; empty disables emission.
	OutputDir string
	// MaxDiagnostics bounds the diagnostic bag.
	MaxDiagnostics int
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

// Unit is the result of compiling one source file.
type Unit struct {
	Path    string
	FileID  source.FileID
	Files   *source.FileSet
	Bag     *diag.Bag
	Builder *ast.Builder
	ASTFile ast.FileID
	Sema    *sema.Result
	Classes []*codegen.Class
}

// Compile runs lex -> parse -> sema over one file and, when no errors
// accumulated, lowers and writes the classes. Semantic passes always run in
// full so late-stage problems surface even alongside earlier errors.
func Compile(fs *source.FileSet, path string, opts Options) (*Unit, error) {
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return CompileFile(fs, fileID, path, opts)
}

// CompileFile compiles an already-loaded file.
func CompileFile(fs *source.FileSet, fileID source.FileID, path string, opts Options) (*Unit, error) {
	bag := diag.NewBag(opts.maxDiagnostics())
	reporter := diag.BagReporter{Bag: bag}

	builder := ast.NewBuilder(nil)
	astFile := parser.ParseFile(fs.Get(fileID), builder, reporter)

	res := sema.Analyze(builder, astFile, sema.Options{
		Reporter: reporter,
		FileSet:  fs,
	})

	unit := &Unit{
		Path:    path,
		FileID:  fileID,
		Files:   fs,
		Bag:     bag,
		Builder: builder,
		ASTFile: astFile,
		Sema:    res,
	}

	if !bag.HasErrors() {
		unit.Classes = codegen.Generate(builder, astFile, res, reporter)
		if opts.OutputDir != "" && !bag.HasErrors() {
			writer := codegen.NewWriter(res.Table, res.Types)
			if err := writer.WriteClasses(opts.OutputDir, unit.Classes); err != nil {
				return unit, err
			}
		}
	}

	bag.Sort()
	return unit, nil
}

// RenderClasses serializes each generated class to its textual form,
// keyed by class name. Used by the disk cache.
func (u *Unit) RenderClasses() map[string]string {
	if u.Sema == nil {
		return nil
	}
	writer := codegen.NewWriter(u.Sema.Table, u.Sema.Types)
	out := make(map[string]string, len(u.Classes))
	for _, class := range u.Classes {
		var buf bytes.Buffer
		if err := writer.WriteClass(&buf, class); err == nil {
			out[class.Name] = buf.String()
		}
	}
	return out
}
