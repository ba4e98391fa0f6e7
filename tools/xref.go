// Package tools provides diagnostic utilities over an assembled
// translate.TranslationUnit, separate from the assembler's own pipeline.
package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/w14asm/parser"
	"github.com/lookbusy1344/w14asm/translate"
)

// Reference is one line that names a symbol, either as its definition or as
// an operand use.
type Reference struct {
	Line   int
	Source string
}

// SymbolXRef is one symbol's definition line (if local) plus every line
// that references it.
type SymbolXRef struct {
	Name       string
	Kind       parser.SymbolKind
	Definition *Reference
	References []*Reference
}

// BuildXRef re-walks lines (the same macro-expanded source the second pass
// consumed) to pair every symbol in tu's symbol table with its definition
// line and every line that references it as an operand. Grounded on the
// teacher's tools.XRefGenerator (Symbol/Reference pairing, definition vs.
// reference collection), re-targeted from ARM branch/load/store operand
// scanning to this grammar's label/const operand kinds.
func BuildXRef(lines []string, tu *translate.TranslationUnit) []*SymbolXRef {
	index := make(map[string]*SymbolXRef, len(tu.Symbols.All()))
	var order []string
	for _, sym := range tu.Symbols.All() {
		index[sym.Name] = &SymbolXRef{Name: sym.Name, Kind: sym.Kind}
		order = append(order, sym.Name)
	}

	for i, line := range lines {
		lineNum := i + 1
		ast := parser.ParseLine(line)

		if ast.Label != "" {
			if x, ok := index[ast.Label]; ok && x.Definition == nil {
				x.Definition = &Reference{Line: lineNum, Source: strings.TrimRight(line, " \t")}
			}
		}

		switch ast.Kind {
		case parser.LineConstantDef:
			if x, ok := index[ast.ConstName]; ok && x.Definition == nil {
				x.Definition = &Reference{Line: lineNum, Source: strings.TrimRight(line, " \t")}
			}
		case parser.LineInstruction:
			addOperandRef(index, ast.SrcOperand, lineNum, line)
			addOperandRef(index, ast.DstOperand, lineNum, line)
		case parser.LineDirective:
			if ast.Directive == parser.DirData {
				for _, item := range ast.DataItems {
					if item.IsConst {
						addRef(index, item.Name, lineNum, line)
					}
				}
			}
			if ast.Directive == parser.DirEntry || ast.Directive == parser.DirExtern {
				addRef(index, ast.EntryExternName, lineNum, line)
			}
		}
	}

	out := make([]*SymbolXRef, 0, len(order))
	for _, name := range order {
		out = append(out, index[name])
	}
	return out
}

func addOperandRef(index map[string]*SymbolXRef, op parser.Operand, lineNum int, line string) {
	switch op.Kind {
	case parser.OperandLabel, parser.OperandLabelIndexNumber, parser.OperandLabelIndexConst, parser.OperandImmediateConst:
		addRef(index, op.Name, lineNum, line)
	}
	if op.Kind == parser.OperandLabelIndexConst {
		addRef(index, op.IndexConstName, lineNum, line)
	}
}

func addRef(index map[string]*SymbolXRef, name string, lineNum int, line string) {
	x, ok := index[name]
	if !ok {
		return
	}
	x.References = append(x.References, &Reference{Line: lineNum, Source: strings.TrimRight(line, " \t")})
}

// Report renders a cross-reference listing, one block per symbol sorted by
// name, for -xref's human-facing output.
func Report(xrefs []*SymbolXRef) string {
	sorted := make([]*SymbolXRef, len(xrefs))
	copy(sorted, xrefs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var sb strings.Builder
	for _, x := range sorted {
		fmt.Fprintf(&sb, "%s (%s)\n", x.Name, x.Kind)
		if x.Definition != nil {
			fmt.Fprintf(&sb, "  defined  line %d: %s\n", x.Definition.Line, x.Definition.Source)
		}
		for _, ref := range x.References {
			fmt.Fprintf(&sb, "  used     line %d: %s\n", ref.Line, ref.Source)
		}
	}
	return sb.String()
}
