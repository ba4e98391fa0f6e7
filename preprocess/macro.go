// Package preprocess implements the macro pre-processor: it expands a
// <stem>.as source into a <stem>.am intermediate source with every macro
// invocation spliced in, per spec.md §4.2.
package preprocess

import "github.com/lookbusy1344/w14asm/parser"

// Macro is a named block of verbatim text lines spliced at each invocation
// site during pre-assembly.
type Macro struct {
	Name string
	Body []string
}

// MacroTable maps macro names to their bodies for the file currently being
// pre-processed. A fresh table is constructed per file.
type MacroTable struct {
	macros map[string]*Macro
}

// NewMacroTable creates an empty macro table.
func NewMacroTable() *MacroTable {
	return &MacroTable{macros: make(map[string]*Macro)}
}

// Lookup returns the macro named name, if any.
func (mt *MacroTable) Lookup(name string) (*Macro, bool) {
	m, ok := mt.macros[name]
	return m, ok
}

// Define inserts a new, empty-bodied macro. The caller must have already
// checked for name collisions.
func (mt *MacroTable) Define(name string) *Macro {
	m := &Macro{Name: name}
	mt.macros[name] = m
	return m
}

// Has reports whether name is already a macro in this table.
func (mt *MacroTable) Has(name string) bool {
	_, ok := mt.macros[name]
	return ok
}

// Names returns the set of defined macro names, for the translate package's
// "redefining a name for a macro and symbol" check.
func (mt *MacroTable) Names() map[string]struct{} {
	out := make(map[string]struct{}, len(mt.macros))
	for name := range mt.macros {
		out[name] = struct{}{}
	}
	return out
}

// IsReservedOrDefined reports whether name cannot be used as a new macro
// name: it collides with a directive, mnemonic, register name, or an
// already-defined macro.
func (mt *MacroTable) IsReservedOrDefined(name string) bool {
	return parser.IsReservedName(name) || mt.Has(name)
}
