package sema

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"cgull/internal/symbols"
)

// scopeJSON mirrors the analyzer's post-analysis symbol dump.
type scopeJSON struct {
	ScopeName   string                `json:"scopeName"`
	ScopeID     uint32                `json:"scopeId"`
	ParentID    uint32                `json:"parentId,omitempty"`
	Symbols     map[string]symbolJSON `json:"symbols"`
	ChildScopes []scopeJSON           `json:"childScopes,omitempty"`
}

type symbolJSON struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Defined     bool     `json:"defined"`
	Private     bool     `json:"private"`
	Line        uint32   `json:"line"`
	Column      uint32   `json:"column"`
	IsConst     *bool    `json:"isConst,omitempty"`
	DataType    string   `json:"dataType,omitempty"`
	ReturnTypes []string `json:"returnTypes,omitempty"`
	Parameters  []string `json:"parameters,omitempty"`
	MemberScope uint32   `json:"memberScopeId,omitempty"`
}

// DumpSymbols writes the scope and symbol tree as indented JSON, the same
// dump the driver prints after analysis when asked for it.
func DumpSymbols(w io.Writer, res *Result) error {
	root := buildScopeJSON(res, res.Table.Global)
	encoded, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(encoded, '\n'))
	return err
}

func buildScopeJSON(res *Result, scopeID symbols.ScopeID) scopeJSON {
	table := res.Table
	scope := table.Scope(scopeID)
	out := scopeJSON{
		ScopeName: scopeName(table, scopeID),
		ScopeID:   uint32(scopeID),
		Symbols:   make(map[string]symbolJSON),
	}
	if scope == nil {
		return out
	}
	out.ParentID = uint32(scope.Parent)

	keys := make([]struct {
		key string
		id  symbols.SymbolID
	}, 0, len(scope.Symbols))
	for name, id := range scope.Symbols {
		keys = append(keys, struct {
			key string
			id  symbols.SymbolID
		}{table.Name(name), id})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].key < keys[j].key })

	for _, entry := range keys {
		sym := table.Sym(entry.id)
		if sym == nil {
			continue
		}
		record := symbolJSON{
			Name:    table.Name(sym.Name),
			Type:    sym.Kind.String(),
			Defined: sym.Defined,
			Private: sym.Private,
			Line:    sym.Line,
			Column:  sym.Column,
		}
		switch sym.Kind {
		case symbols.SymbolVariable, symbols.SymbolParameter:
			isConst := sym.Constant
			record.IsConst = &isConst
			record.DataType = res.Types.String(sym.DataType)
		case symbols.SymbolFunction:
			for _, ret := range sym.Returns {
				record.ReturnTypes = append(record.ReturnTypes, res.Types.String(ret))
			}
			for _, paramID := range sym.Params {
				param := table.Sym(paramID)
				if param == nil {
					continue
				}
				record.Parameters = append(record.Parameters,
					fmt.Sprintf("%s (%s)", table.Name(param.Name), res.Types.String(param.DataType)))
			}
		case symbols.SymbolType:
			record.MemberScope = uint32(sym.MemberScope)
			record.DataType = res.Types.String(sym.TypeRep)
		}
		out.Symbols[entry.key] = record
	}

	for _, child := range scope.Children {
		out.ChildScopes = append(out.ChildScopes, buildScopeJSON(res, child))
	}
	return out
}

func scopeName(table *symbols.Table, scopeID symbols.ScopeID) string {
	scope := table.Scope(scopeID)
	if scope == nil {
		return "Unknown Scope"
	}
	switch scope.Kind {
	case symbols.ScopeGlobal:
		return "Global Scope"
	case symbols.ScopeProgram:
		return "Program"
	case symbols.ScopeStruct:
		return "Struct Scope"
	case symbols.ScopeFunction:
		return "Function Scope"
	case symbols.ScopeLoop:
		return "Loop Block"
	case symbols.ScopeBlock:
		return "Branch Block"
	default:
		return "Unknown Scope"
	}
}
