package ast

import (
	"cgull/internal/source"
)

// Builder owns every node arena for one parse. Node IDs are only meaningful
// against the builder that allocated them.
type Builder struct {
	Files   *Arena[File]
	Items   *Arena[Item]
	Stmts   *Arena[Stmt]
	Exprs   *Arena[Expr]
	Types   *Arena[TypeNode]
	Blocks  *Arena[Block]
	Strings *source.Interner
}

// NewBuilder allocates empty arenas. If strings is nil, a fresh interner is used.
func NewBuilder(strings *source.Interner) *Builder {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:   NewArena[File](1),
		Items:   NewArena[Item](16),
		Stmts:   NewArena[Stmt](64),
		Exprs:   NewArena[Expr](128),
		Types:   NewArena[TypeNode](32),
		Blocks:  NewArena[Block](32),
		Strings: strings,
	}
}

func (b *Builder) NewFile(f File) FileID    { return FileID(b.Files.Allocate(f)) }
func (b *Builder) NewItem(it Item) ItemID   { return ItemID(b.Items.Allocate(it)) }
func (b *Builder) NewStmt(s Stmt) StmtID    { return StmtID(b.Stmts.Allocate(s)) }
func (b *Builder) NewExpr(e Expr) ExprID    { return ExprID(b.Exprs.Allocate(e)) }
func (b *Builder) NewType(t TypeNode) TypeID { return TypeID(b.Types.Allocate(t)) }
func (b *Builder) NewBlock(bl Block) BlockID { return BlockID(b.Blocks.Allocate(bl)) }

func (b *Builder) File(id FileID) *File       { return b.Files.Get(uint32(id)) }
func (b *Builder) Item(id ItemID) *Item       { return b.Items.Get(uint32(id)) }
func (b *Builder) Stmt(id StmtID) *Stmt       { return b.Stmts.Get(uint32(id)) }
func (b *Builder) Expr(id ExprID) *Expr       { return b.Exprs.Get(uint32(id)) }
func (b *Builder) Type(id TypeID) *TypeNode   { return b.Types.Get(uint32(id)) }
func (b *Builder) Block(id BlockID) *Block    { return b.Blocks.Get(uint32(id)) }

// Name resolves an interned string, returning "" for the sentinel.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}
