package translate

import "github.com/lookbusy1344/w14asm/parser"

const (
	msgLabelNotDefined   = "using a label that was not defined in the file"
	msgConstNotDefined   = "using a constant that was not defined in the file"
	msgConstDefinedLater = "using a constant whose definition is done at a later stage in the file"
)

// RunSecondPass rewinds the same macro-expanded lines, re-parses them, and
// writes into tu's instruction/data images at the positions the first pass
// already sized, per spec.md §4.4. A non-nil *parser.AssemblyError return is
// the allocation-bound fatal error of spec.md §5; errs collects every
// per-line encoding error, which (per spec.md §9's open question) does not
// block further counter advancement.
func RunSecondPass(lines []string, filename string, tu *TranslationUnit) (*parser.ErrorList, *parser.AssemblyError) {
	errs := &parser.ErrorList{}
	ic := uint16(InitialIC)
	dc := uint16(InitialDC)

	for i, line := range lines {
		lineNum := i + 1
		ast := parser.ParseLine(line)

		switch ast.Kind {
		case parser.LineInstruction:
			if fatal := encodeInstruction(tu, ast, filename, lineNum, &ic, errs); fatal != nil {
				return errs, fatal
			}
		case parser.LineDirective:
			switch ast.Directive {
			case parser.DirData:
				if fatal := encodeDataDirective(tu, ast, filename, lineNum, &dc, errs); fatal != nil {
					return errs, fatal
				}
			case parser.DirString:
				if fatal := encodeStringDirective(tu, ast, &dc); fatal != nil {
					return errs, fatal
				}
			}
		}
	}

	return errs, nil
}

func appendInstr(tu *TranslationUnit, w Word, ic *uint16) *parser.AssemblyError {
	if len(tu.InstructionImage) >= tu.MaxImageWords {
		return ErrAllocation
	}
	tu.InstructionImage = append(tu.InstructionImage, w&WordMask)
	*ic++
	return nil
}

func appendData(tu *TranslationUnit, w Word, dc *uint16) *parser.AssemblyError {
	if len(tu.DataImage) >= tu.MaxImageWords {
		return ErrAllocation
	}
	tu.DataImage = append(tu.DataImage, w&WordMask)
	*dc++
	return nil
}

func addressingMode(op parser.Operand) Word {
	switch op.Kind {
	case parser.OperandLabel:
		return 1
	case parser.OperandLabelIndexNumber, parser.OperandLabelIndexConst:
		return 2
	case parser.OperandRegister:
		return 3
	default: // none, immediate number/const
		return 0
	}
}

func encodeInstruction(tu *TranslationUnit, ast parser.LineAst, filename string, lineNum int, ic *uint16, errs *parser.ErrorList) *parser.AssemblyError {
	srcMode := Word(0)
	if ast.NumOperands == 2 {
		srcMode = addressingMode(ast.SrcOperand)
	}
	dstMode := Word(0)
	if ast.NumOperands >= 1 {
		dstMode = addressingMode(ast.DstOperand)
	}

	firstWord := Word(ast.Opcode&0xF)<<6 | (srcMode&0x3)<<4 | (dstMode&0x3)<<2
	if fatal := appendInstr(tu, firstWord, ic); fatal != nil {
		return fatal
	}

	if ast.NumOperands == 0 {
		return nil
	}

	if ast.NumOperands == 2 && ast.SrcOperand.Kind == parser.OperandRegister && ast.DstOperand.Kind == parser.OperandRegister {
		w := Word(ast.SrcOperand.Register&0x7)<<5 | Word(ast.DstOperand.Register&0x7)<<2
		return appendInstr(tu, w, ic)
	}

	if ast.NumOperands == 2 {
		if fatal := emitOperandWord(tu, ast.SrcOperand, "src", filename, lineNum, ic, errs); fatal != nil {
			return fatal
		}
	}
	return emitOperandWord(tu, ast.DstOperand, "dst", filename, lineNum, ic, errs)
}

func pack12(v int16) Word {
	return Word(uint16(v)&0x0FFF) << 2
}

func emitOperandWord(tu *TranslationUnit, op parser.Operand, role string, filename string, lineNum int, ic *uint16, errs *parser.ErrorList) *parser.AssemblyError {
	switch op.Kind {
	case parser.OperandImmediateNumber:
		return appendInstr(tu, pack12(op.Number), ic)

	case parser.OperandImmediateConst:
		val, errMsg := resolveConstant(tu, op.Name, lineNum)
		if errMsg != "" {
			errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorSecondPass, errMsg))
		}
		return appendInstr(tu, pack12(val), ic)

	case parser.OperandRegister:
		reg := Word(op.Register & 0x7)
		if role == "src" {
			return appendInstr(tu, reg<<5, ic)
		}
		return appendInstr(tu, reg<<2, ic)

	case parser.OperandLabel:
		first, errMsg := resolveLabelWord(tu, op.Name, ic)
		if errMsg != "" {
			errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorSecondPass, errMsg))
		}
		return appendInstr(tu, first, ic)

	case parser.OperandLabelIndexNumber:
		first, errMsg := resolveLabelWord(tu, op.Name, ic)
		if errMsg != "" {
			errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorSecondPass, errMsg))
		}
		if fatal := appendInstr(tu, first, ic); fatal != nil {
			return fatal
		}
		return appendInstr(tu, pack12(op.Number), ic)

	case parser.OperandLabelIndexConst:
		first, errMsg := resolveLabelWord(tu, op.Name, ic)
		if errMsg != "" {
			errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorSecondPass, errMsg))
		}
		if fatal := appendInstr(tu, first, ic); fatal != nil {
			return fatal
		}
		val, errMsg2 := resolveConstant(tu, op.IndexConstName, lineNum)
		if errMsg2 != "" {
			errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorSecondPass, errMsg2))
		}
		return appendInstr(tu, pack12(val), ic)

	default:
		return appendInstr(tu, 0, ic)
	}
}

// resolveLabelWord builds the operand word for a label reference: direct
// (relocatable) addressing if the symbol is locally defined, or an external
// reference recorded at the current 0-based image index otherwise.
func resolveLabelWord(tu *TranslationUnit, name string, ic *uint16) (Word, string) {
	sym, exists := tu.Symbols.Lookup(name)
	if !exists {
		return 0, msgLabelNotDefined
	}
	if sym.Kind == parser.SymExtern {
		idx := *ic - InitialIC
		tu.Externals.Reference(name, idx)
		return 1, "" // A/R/E = 01 external
	}
	addr := Word(sym.Address) & 0x0FFF
	return 2 | (addr << 2), "" // A/R/E = 10 relocatable
}

// resolveConstant looks up a #NAME or [NAME] constant reference, requiring
// it to be a const symbol defined on an earlier line.
func resolveConstant(tu *TranslationUnit, name string, lineNum int) (int16, string) {
	sym, exists := tu.Symbols.Lookup(name)
	if !exists || sym.Kind != parser.SymConst {
		return 0, msgConstNotDefined
	}
	if int(sym.Address) >= lineNum {
		return 0, msgConstDefinedLater
	}
	return sym.Value, ""
}

func encodeDataDirective(tu *TranslationUnit, ast parser.LineAst, filename string, lineNum int, dc *uint16, errs *parser.ErrorList) *parser.AssemblyError {
	for _, item := range ast.DataItems {
		val := item.Number
		if item.IsConst {
			v, errMsg := resolveConstant(tu, item.Name, lineNum)
			if errMsg != "" {
				errs.Add(parser.NewLineError(filename, lineNum, parser.ErrorSecondPass, errMsg))
			}
			val = v
		}
		if fatal := appendData(tu, Word(uint16(val))&WordMask, dc); fatal != nil {
			return fatal
		}
	}
	return nil
}

func encodeStringDirective(tu *TranslationUnit, ast parser.LineAst, dc *uint16) *parser.AssemblyError {
	for _, ch := range ast.StringValue {
		if fatal := appendData(tu, Word(ch), dc); fatal != nil {
			return fatal
		}
	}
	return appendData(tu, 0, dc)
}
