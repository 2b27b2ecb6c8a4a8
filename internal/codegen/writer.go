package codegen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cgull/internal/ir"
	"cgull/internal/symbols"
	"cgull/internal/types"
)

// Writer serializes generated classes to their textual assembly files.
type Writer struct {
	table *symbols.Table
	tys   *types.Interner
}

func NewWriter(table *symbols.Table, tys *types.Interner) *Writer {
	return &Writer{table: table, tys: tys}
}

// WriteClasses removes any existing content at outputDir, recreates it, and
// writes one <Class>.jasm per generated class. Directory or file failures
// are the only fatal conditions of the back end.
func (w *Writer) WriteClasses(outputDir string, classes []*Class) error {
	// старое содержимое всегда удаляется целиком
	_ = os.RemoveAll(outputDir)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	for _, class := range classes {
		path := filepath.Join(outputDir, class.Name+".jasm")
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to open output file %s: %w", path, err)
		}
		if err := w.WriteClass(file, class); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

// WriteClass emits one class: header, wrapper value field, fields, methods.
func (w *Writer) WriteClass(out io.Writer, class *Class) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "public class %s {\n", class.Name)

	if class.Wrapper {
		fmt.Fprintf(&sb, "private value %s\n", primDescriptor(class.WrapperPrim))
	}
	for _, field := range class.Fields {
		visibility := "public"
		if field.Private {
			visibility = "private"
		}
		fmt.Fprintf(&sb, "%s %s %s\n", visibility, field.Name, jvmType(w.tys, field.Type))
	}

	for _, method := range class.Methods {
		w.writeMethod(&sb, method)
	}

	sb.WriteString("}\n")
	_, err := io.WriteString(out, sb.String())
	return err
}

func (w *Writer) writeMethod(sb *strings.Builder, method *Method) {
	switch method.EmitName {
	case "main":
		sb.WriteString("public static main([java/lang/String)V {\n")
	case "<init>":
		fmt.Fprintf(sb, "public <init>(%s)V {\n", w.paramList(method.Params))
	default:
		static := ""
		if method.Static {
			static = "static "
		}
		fmt.Fprintf(sb, "public %s%s(%s)%s {\n",
			static, method.EmitName, w.paramList(method.Params), jvmType(w.tys, method.Return))
	}

	for _, instruction := range method.Instructions {
		if instruction.IsCall() {
			sb.WriteString(w.resolveCall(symbols.SymbolID(instruction.Call)))
			continue
		}
		sb.WriteString(instruction.Text)
		sb.WriteByte('\n')
	}

	// implicit return for void methods without a closing explicit return
	if w.tys.IsVoid(method.Return) && !endsWithReturn(method.Instructions) {
		sb.WriteString("return\n")
	}
	sb.WriteString("}\n")
}

func endsWithReturn(instructions []ir.Instruction) bool {
	if len(instructions) == 0 {
		return false
	}
	last := instructions[len(instructions)-1]
	return !last.IsCall() && last.Text == "return"
}

func (w *Writer) paramList(params []types.TypeID) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = jvmType(w.tys, param)
	}
	return strings.Join(parts, ", ")
}

// resolveCall turns a call placeholder into its concrete invoke directive.
// Built-in I/O lowers to its standard-library call sequence here.
func (w *Writer) resolveCall(fnID symbols.SymbolID) string {
	fn := w.table.Sym(fnID)
	if fn == nil {
		return ""
	}
	name := w.table.Name(fn.Name)

	if fn.Builtin {
		switch name {
		case "println", "print":
			return fmt.Sprintf("invokevirtual java/io/PrintStream.%s(java/lang/String)V\n", name)
		case "readline":
			return "new java/util/Scanner\n" +
				"dup\n" +
				"getstatic java/lang/System.in java/io/InputStream\n" +
				"invokespecial java/util/Scanner.<init>(java/io/InputStream)V\n" +
				"invokevirtual java/util/Scanner.nextLine()java/lang/String\n"
		case "read":
			return "new java/util/Scanner\n" +
				"dup\n" +
				"getstatic java/lang/System.in java/io/InputStream\n" +
				"invokespecial java/util/Scanner.<init>(java/io/InputStream)V\n" +
				"invokevirtual java/util/Scanner.next()java/lang/String\n"
		case "sqrt":
			return "invokestatic java/lang/Math.sqrt(F)F\n"
		}
	}

	ret := "V"
	if len(fn.Returns) > 0 {
		ret = jvmType(w.tys, fn.Returns[0])
	}
	paramTypes := make([]types.TypeID, 0, len(fn.Params))
	for _, paramID := range fn.Params {
		if param := w.table.Sym(paramID); param != nil {
			paramTypes = append(paramTypes, param.DataType)
		}
	}

	if fn.StructMethod {
		owner := w.ownerStruct(fn)
		return fmt.Sprintf("invokevirtual %s.%s(%s)%s\n",
			owner, w.table.MangledName(fnID), w.paramList(paramTypes), ret)
	}
	return fmt.Sprintf("invokestatic Main.%s(%s)%s\n",
		w.table.MangledName(fnID), w.paramList(paramTypes), ret)
}

// ownerStruct finds the struct class owning a method symbol.
func (w *Writer) ownerStruct(fn *symbols.Symbol) string {
	scope := fn.Scope
	for scope.IsValid() {
		if structID := w.table.StructScopeOf(scope); structID.IsValid() {
			return w.table.Name(w.table.Sym(structID).Name)
		}
		sc := w.table.Scope(scope)
		if sc == nil {
			break
		}
		scope = sc.Parent
	}
	return "Main"
}
