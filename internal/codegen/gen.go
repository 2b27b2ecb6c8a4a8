package codegen

import (
	"fmt"
	"sort"

	"cgull/internal/ast"
	"cgull/internal/diag"
	"cgull/internal/ir"
	"cgull/internal/sema"
	"cgull/internal/symbols"
	"cgull/internal/types"
)

// Generator walks the checked tree once and fills per-method instruction
// lists. Top-level functions land in Main; each struct gets its own class;
// primitive boxes are synthesized on demand before user classes.
type Generator struct {
	builder  *ast.Builder
	res      *sema.Result
	table    *symbols.Table
	tys      *types.Interner
	reporter diag.Reporter

	classes []*Class
	current *Class

	code          []ir.Instruction
	currentReturn types.TypeID
	localIndex    int32
	labelCounter  int
	breakLabels   []string
}

// Generate lowers one analyzed file to its class list.
func Generate(builder *ast.Builder, fileID ast.FileID, res *sema.Result, reporter diag.Reporter) []*Class {
	g := &Generator{
		builder:  builder,
		res:      res,
		table:    res.Table,
		tys:      res.Types,
		reporter: reporter,
	}

	g.synthesizeWrappers()

	mainClass := &Class{Name: "Main"}
	g.classes = append(g.classes, mainClass)

	file := builder.File(fileID)
	if file == nil {
		return g.classes
	}

	for _, itemID := range file.Items {
		item := builder.Item(itemID)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemVar:
			// top-level variables become Main fields, accessed via
			// getstatic/putstatic from function bodies
			if sym := g.table.Sym(res.VarSymbols[item.Decl]); sym != nil {
				mainClass.Fields = append(mainClass.Fields, Field{
					Name:    g.table.Name(sym.Name),
					Type:    sym.DataType,
					Private: sym.Private,
				})
			}
		case ast.ItemFn:
			g.current = mainClass
			g.genFunction(itemID)
		case ast.ItemStruct:
			g.genStruct(itemID)
		}
	}
	return g.classes
}

// synthesizeWrappers creates a box class for every non-void primitive that
// ever appears in the expression type map.
func (g *Generator) synthesizeWrappers() {
	seen := make(map[types.PrimKind]bool)
	for _, typeID := range g.res.ExprTypes {
		tt, ok := g.tys.Lookup(typeID)
		if ok && tt.Kind == types.KindPrimitive && tt.Prim != types.PrimVoid {
			seen[tt.Prim] = true
		}
	}
	kinds := make([]types.PrimKind, 0, len(seen))
	for kind := range seen {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, kind := range kinds {
		g.classes = append(g.classes, wrapperClass(g.tys, kind))
	}
}

func (g *Generator) emit(text string) {
	g.code = append(g.code, ir.Raw(text))
}

func (g *Generator) emitf(format string, args ...any) {
	g.code = append(g.code, ir.Raw(fmt.Sprintf(format, args...)))
}

func (g *Generator) emitCall(fn symbols.SymbolID) {
	g.code = append(g.code, ir.CallTo(ir.FuncRef(fn)))
}

func (g *Generator) newLabel() string {
	label := fmt.Sprintf("L%d", g.labelCounter)
	g.labelCounter++
	return label
}

func (g *Generator) placeLabel(label string) {
	g.emit(label + ":")
}

func (g *Generator) assignLocal(symID symbols.SymbolID) int32 {
	sym := g.table.Sym(symID)
	if sym == nil {
		return -1
	}
	if sym.LocalIndex < 0 {
		sym.LocalIndex = g.localIndex
		g.localIndex++
	}
	return sym.LocalIndex
}

func (g *Generator) genFunction(itemID ast.ItemID) {
	item := g.builder.Item(itemID)
	fnID := g.res.FnSymbols[itemID]
	fn := g.table.Sym(fnID)
	if fn == nil {
		return
	}
	fnScope := g.res.ItemScopes[itemID]

	g.code = nil
	g.localIndex = 0
	g.currentReturn = fn.Returns[0]
	if fn.StructMethod {
		// slot 0 is `this`
		g.localIndex = 1
		if thisSym := g.table.Sym(g.table.Resolve(fnScope, g.builder.Strings.Intern("this"))); thisSym != nil {
			thisSym.LocalIndex = 0
		}
	}
	for _, paramID := range fn.Params {
		g.assignLocal(paramID)
	}

	g.genBlock(fnScope, item.Body)

	instructions := g.code
	g.table.Sym(fnID).Instructions = instructions

	name := g.table.Name(fn.Name)
	emitName := g.table.MangledName(fnID)
	if name == "main" && !fn.StructMethod {
		emitName = "main"
	}
	params := make([]types.TypeID, 0, len(fn.Params))
	for _, paramID := range fn.Params {
		if param := g.table.Sym(paramID); param != nil {
			params = append(params, param.DataType)
		}
	}
	g.current.Methods = append(g.current.Methods, &Method{
		EmitName:     emitName,
		Static:       !fn.StructMethod,
		Params:       params,
		Return:       fn.Returns[0],
		Instructions: instructions,
	})
}

func (g *Generator) genStruct(itemID ast.ItemID) {
	item := g.builder.Item(itemID)
	structID := g.res.StructSymbols[itemID]
	structSym := g.table.Sym(structID)
	if structSym == nil {
		return
	}
	structName := g.table.Name(structSym.Name)

	saved := g.current
	cls := &Class{Name: structName}
	g.current = cls

	for _, member := range item.Members {
		if member.IsFn {
			continue
		}
		if sym := g.table.Sym(g.res.VarSymbols[member.Decl]); sym != nil {
			cls.Fields = append(cls.Fields, Field{
				Name:    g.table.Name(sym.Name),
				Type:    sym.DataType,
				Private: sym.Private,
			})
		}
	}

	for _, member := range item.Members {
		if member.IsFn {
			g.genFunction(member.Fn)
		}
	}

	g.genDefaultToString(structSym)
	g.genConstructor(item, structSym, structName)

	g.current = saved
	g.classes = append(g.classes, cls)
}

// genDefaultToString emits the stub body for structs without a user-written
// $toString: a single virtual call to the VM's default Object.toString.
func (g *Generator) genDefaultToString(structSym *symbols.Symbol) {
	scope := g.table.Scope(structSym.MemberScope)
	if scope == nil {
		return
	}
	for _, symID := range scope.Symbols {
		sym := g.table.Sym(symID)
		if sym == nil || sym.Kind != symbols.SymbolFunction || !sym.Builtin {
			continue
		}
		if g.table.Name(sym.Name) != "$toString" {
			continue
		}
		instructions := []ir.Instruction{
			ir.Raw("aload 0"),
			ir.Raw("invokevirtual java/lang/Object.toString() java/lang/String"),
			ir.Raw("areturn"),
		}
		g.table.Sym(symID).Instructions = instructions
		g.current.Methods = append(g.current.Methods, &Method{
			EmitName:     g.table.MangledName(symID),
			Return:       g.tys.Builtins().String,
			Instructions: instructions,
		})
		return
	}
}

// genConstructor emits the synthesized constructor: Object.<init>, field
// defaults first, then one putfield per public field from the matching
// parameter slot.
func (g *Generator) genConstructor(item *ast.Item, structSym *symbols.Symbol, structName string) {
	ctorID, ok := g.res.Constructors[structSym.Name]
	if !ok {
		return
	}
	ctor := g.table.Sym(ctorID)

	g.code = nil
	g.localIndex = 1
	g.currentReturn = g.tys.Builtins().Void
	for _, paramID := range ctor.Params {
		g.assignLocal(paramID)
	}

	g.emit("aload 0")
	g.emit("invokespecial java/lang/Object.<init>()V")

	// field default initializers run before the parameter assignments
	for _, member := range item.Members {
		if member.IsFn {
			continue
		}
		decl := g.builder.Stmt(member.Decl)
		sym := g.table.Sym(g.res.VarSymbols[member.Decl])
		if decl == nil || sym == nil || !decl.Value.IsValid() {
			continue
		}
		g.emit("aload 0")
		g.emitExprConv(structSym.MemberScope, decl.Value)
		g.emitf("putfield %s.%s %s", structName, g.table.Name(sym.Name), jvmType(g.tys, sym.DataType))
	}

	params := make([]types.TypeID, 0, len(ctor.Params))
	for _, paramID := range ctor.Params {
		param := g.table.Sym(paramID)
		if param == nil {
			continue
		}
		params = append(params, param.DataType)
		g.emit("aload 0")
		g.emitf("%sload %d", loadPrefix(g.tys, param.DataType), param.LocalIndex)
		g.emitf("putfield %s.%s %s", structName, g.table.Name(param.Name), jvmType(g.tys, param.DataType))
	}
	g.emit("return")

	g.table.Sym(ctorID).Instructions = g.code
	g.current.Methods = append(g.current.Methods, &Method{
		EmitName:     "<init>",
		Params:       params,
		Return:       g.tys.Builtins().Void,
		Instructions: g.code,
	})
}

// exprType fetches the checker's annotation, void when absent.
func (g *Generator) exprType(id ast.ExprID) types.TypeID {
	if t, ok := g.res.ExprTypes[id]; ok {
		return t
	}
	return g.tys.Builtins().Void
}
