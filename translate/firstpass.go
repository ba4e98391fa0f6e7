package translate

import "github.com/lookbusy1344/w14asm/parser"

const (
	msgRedefiningMacroSymbol = "redefining a name for a macro and symbol"
	msgRedefinitionOfSymbol  = "redefenition of symbol"
	msgEntryNeverDefined     = "defined as an entry but did not receive a value"
)

// RunFirstPass streams the macro-expanded lines of one file, building the
// symbol table and sizing the instruction/data images per spec.md §4.3. It
// never writes image words itself; MaxImageWords is carried on the returned
// unit for the second pass's bound check.
func RunFirstPass(lines []string, filename string, macroNames map[string]struct{}, maxImageWords int) (*TranslationUnit, *parser.ErrorList) {
	tu := NewTranslationUnit(maxImageWords)
	errs := &parser.ErrorList{}

	for i, line := range lines {
		lineNum := i + 1
		ast := parser.ParseLine(line)

		if ast.Kind == parser.LineError {
			errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorSyntax, ast.ErrorDetail))
			continue
		}

		if ast.Label != "" {
			firstPassLabel(tu, errs, macroNames, filename, lineNum, ast)
		}

		switch ast.Kind {
		case parser.LineInstruction:
			tu.IC += uint16(wordCount(ast))
		case parser.LineDirective:
			switch ast.Directive {
			case parser.DirData, parser.DirString:
				tu.DC += uint16(wordCount(ast))
			case parser.DirEntry:
				firstPassEntry(tu, errs, macroNames, filename, lineNum, ast.EntryExternName)
			case parser.DirExtern:
				firstPassExtern(tu, errs, macroNames, filename, lineNum, ast.EntryExternName)
			}
		case parser.LineConstantDef:
			firstPassConstDef(tu, errs, macroNames, filename, lineNum, ast.ConstName, ast.ConstValue)
		}
	}

	for range tu.Symbols.PendingEntries() {
		errs.Add(parser.NewFileError(filename, parser.ErrorFirstPass, msgEntryNeverDefined))
	}
	tu.Symbols.RelocateDataSymbols(tu.IC)

	return tu, errs
}

func firstPassLabel(tu *TranslationUnit, errs *parser.ErrorList, macroNames map[string]struct{}, filename string, lineNum int, ast parser.LineAst) {
	if _, isMacro := macroNames[ast.Label]; isMacro {
		errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorFirstPass, msgRedefiningMacroSymbol))
		return
	}

	sym, exists := tu.Symbols.Lookup(ast.Label)
	if exists {
		if sym.Kind != parser.SymEntryPending {
			errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorFirstPass, msgRedefinitionOfSymbol))
			return
		}
		if ast.Kind == parser.LineDirective {
			sym.Kind = parser.SymDataEntry
			sym.Address = tu.DC
		} else {
			sym.Kind = parser.SymInstEntry
			sym.Address = tu.IC
		}
		return
	}

	switch ast.Kind {
	case parser.LineInstruction:
		tu.Symbols.Insert(&parser.Symbol{Name: ast.Label, Kind: parser.SymInst, Address: tu.IC})
	case parser.LineDirective:
		if ast.Directive == parser.DirData || ast.Directive == parser.DirString {
			tu.Symbols.Insert(&parser.Symbol{Name: ast.Label, Kind: parser.SymData, Address: tu.DC})
		}
		// Labels on .entry/.extern lines are parsed but have no effect.
	}
}

func firstPassEntry(tu *TranslationUnit, errs *parser.ErrorList, macroNames map[string]struct{}, filename string, lineNum int, name string) {
	if _, isMacro := macroNames[name]; isMacro {
		errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorFirstPass, msgRedefiningMacroSymbol))
		return
	}
	sym, exists := tu.Symbols.Lookup(name)
	if !exists {
		tu.Symbols.Insert(&parser.Symbol{Name: name, Kind: parser.SymEntryPending, Address: 0})
		return
	}
	switch sym.Kind {
	case parser.SymData:
		sym.Kind = parser.SymDataEntry
	case parser.SymInst:
		sym.Kind = parser.SymInstEntry
	case parser.SymEntryPending:
		// unchanged, silent
	default:
		errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorFirstPass, msgRedefinitionOfSymbol))
	}
}

func firstPassExtern(tu *TranslationUnit, errs *parser.ErrorList, macroNames map[string]struct{}, filename string, lineNum int, name string) {
	if _, isMacro := macroNames[name]; isMacro {
		errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorFirstPass, msgRedefiningMacroSymbol))
		return
	}
	if _, exists := tu.Symbols.Lookup(name); exists {
		errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorFirstPass, msgRedefinitionOfSymbol))
		return
	}
	tu.Symbols.Insert(&parser.Symbol{Name: name, Kind: parser.SymExtern, Address: 0})
}

func firstPassConstDef(tu *TranslationUnit, errs *parser.ErrorList, macroNames map[string]struct{}, filename string, lineNum int, name string, value int16) {
	if _, isMacro := macroNames[name]; isMacro {
		errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorFirstPass, msgRedefiningMacroSymbol))
		return
	}
	if _, exists := tu.Symbols.Lookup(name); exists {
		errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorFirstPass, msgRedefinitionOfSymbol))
		return
	}
	tu.Symbols.Insert(&parser.Symbol{Name: name, Kind: parser.SymConst, Address: uint16(lineNum), Value: value})
}
