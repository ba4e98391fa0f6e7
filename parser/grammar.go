package parser

import "strconv"

const maxIdentLen = 31
const maxNumberLen = 5

func isAlpha(r byte) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isAlnum(r byte) bool {
	return isAlpha(r) || (r >= '0' && r <= '9')
}

func isAllAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isAlpha(s[i]) {
			return false
		}
	}
	return true
}

// isValidIdent implements the identifier/label rule of spec.md §4.1: first
// character alphabetic, rest alphanumeric, length <= 31, and not a
// directive/mnemonic/register name.
func isValidIdent(s string) bool {
	if len(s) == 0 || len(s) > maxIdentLen {
		return false
	}
	if !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}
	return !IsReservedName(s)
}

// parseNumber implements spec.md §4.1's bounded signed-12-bit number rule:
// base-10, at most 5 characters, no trailing non-digit characters, value in
// -2048..2047.
func parseNumber(s string) (int16, bool) {
	if len(s) == 0 || len(s) > maxNumberLen {
		return 0, false
	}
	neg := false
	digits := s
	if s[0] == '-' {
		neg = true
		digits = s[1:]
	}
	if len(digits) == 0 {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	if v < -2048 || v > 2047 {
		return 0, false
	}
	return int16(v), true
}

func endsWithColon(word string) bool {
	return len(word) > 0 && word[len(word)-1] == ':'
}

// errAst builds a LineError result.
func errAst(detail string) LineAst {
	return LineAst{Kind: LineError, ErrorDetail: detail}
}

// ParseLine parses one source line (no trailing newline required) into a
// LineAst per the grammar of spec.md §4.1.
func ParseLine(line string) LineAst {
	trimmed := trimLeft(line)
	if trimmed == "" {
		return LineAst{Kind: LineEmpty}
	}
	if trimmed[0] == ';' {
		return LineAst{Kind: LineNote}
	}

	lex := NewLineLexer(line)
	first, _, ok := lex.NextWord()
	if !ok {
		return LineAst{Kind: LineEmpty}
	}

	label := ""
	haveLabel := false
	keyword := first
	if endsWithColon(first) {
		haveLabel = true
		candidate := first[:len(first)-1]
		if !isValidIdent(candidate) {
			return errAst(MsgLabelInvalidPlace)
		}
		label = candidate
		word, _, more := lex.NextWord()
		if !more {
			return errAst(MsgLineOnlyLabel)
		}
		keyword = word
	}

	ast, errMsg := parseStatement(lex, keyword, haveLabel)
	if errMsg != "" {
		return errAst(errMsg)
	}
	ast.Label = label
	return ast
}

func trimLeft(s string) string {
	i := 0
	for i < len(s) && isSpace(rune(s[i])) {
		i++
	}
	return s[i:]
}

// parseStatement dispatches on the keyword token (the first token of the
// Statement production) and parses whatever follows it.
func parseStatement(lex *Lexer, keyword string, haveLabel bool) (LineAst, string) {
	switch keyword {
	case ".define":
		if haveLabel {
			return LineAst{}, MsgLabelInConstDef
		}
		return parseConstantDef(lex)
	case ".data":
		return parseDataDirective(lex)
	case ".string":
		return parseStringDirective(lex)
	case ".entry":
		return parseEntryExternDirective(lex, DirEntry)
	case ".extern":
		return parseEntryExternDirective(lex, DirExtern)
	default:
		if info, ok := mnemonicTable[keyword]; ok {
			return parseInstruction(lex, keyword, info)
		}
		if haveLabel {
			return LineAst{}, MsgAfterLabelExpected
		}
		return LineAst{}, MsgFirstWordInvalid
	}
}

func peekCommaGate(lex *Lexer) string {
	_, commas, ok := lex.PeekWord()
	if ok && commas > 0 {
		return MsgCommaAfterKeyword
	}
	return ""
}

func parseConstantDef(lex *Lexer) (LineAst, string) {
	if msg := peekCommaGate(lex); msg != "" {
		return LineAst{}, msg
	}
	nameWord, _, ok := lex.NextWord()
	if !ok {
		return LineAst{}, MsgConstDefMissing
	}
	if !isValidIdent(nameWord) {
		return LineAst{}, MsgConstDefMissing
	}
	eqWord, _, ok := lex.NextWord()
	if !ok || eqWord != "=" {
		return LineAst{}, MsgMissingEquals
	}
	numWord, _, ok := lex.NextWord()
	if !ok {
		return LineAst{}, MsgMissingNumberInConst
	}
	val, okNum := parseNumber(numWord)
	if !okNum {
		return LineAst{}, MsgInvalidNumberInConst
	}
	if _, _, more := lex.NextWord(); more {
		return LineAst{}, MsgUnexpectedAfterOperands
	}
	return LineAst{Kind: LineConstantDef, ConstName: nameWord, ConstValue: val}, ""
}

func parseDataDirective(lex *Lexer) (LineAst, string) {
	if msg := peekCommaGate(lex); msg != "" {
		return LineAst{}, msg
	}
	first, _, ok := lex.NextWord()
	if !ok {
		return LineAst{}, MsgDirectiveNeedsOperand
	}
	var items []DataOperand
	item, msg := parseDataOperand(first)
	if msg != "" {
		return LineAst{}, msg
	}
	items = append(items, item)

	for {
		word, commas, more := lex.NextWord()
		if !more {
			if lex.TrailingCommas() > 0 {
				return LineAst{}, MsgCommaAfterLastNumber
			}
			break
		}
		if commas == 2 {
			return LineAst{}, MsgTwoCommasBetweenNumbers
		}
		if commas > 2 {
			return LineAst{}, MsgMultipleCommasOperands
		}
		if commas == 0 {
			return LineAst{}, MsgUnexpectedAfterOperands
		}
		item, msg := parseDataOperand(word)
		if msg != "" {
			return LineAst{}, msg
		}
		items = append(items, item)
	}
	return LineAst{Kind: LineDirective, Directive: DirData, DataItems: items}, ""
}

func parseDataOperand(word string) (DataOperand, string) {
	if val, ok := parseNumber(word); ok {
		return DataOperand{Number: val}, ""
	}
	if endsWithColon(word) {
		return DataOperand{}, MsgLabelInvalidPlace
	}
	if isValidIdent(word) {
		return DataOperand{IsConst: true, Name: word}, ""
	}
	return DataOperand{}, MsgMissingOperand
}

func parseStringDirective(lex *Lexer) (LineAst, string) {
	if msg := peekCommaGate(lex); msg != "" {
		return LineAst{}, msg
	}
	word, _, ok := lex.NextWord()
	if !ok {
		return LineAst{}, MsgDirectiveNeedsOperand
	}
	if len(word) == 0 || word[0] != '"' {
		return LineAst{}, MsgStringNeedsOpenQuote
	}
	if len(word) < 2 || word[len(word)-1] != '"' {
		return LineAst{}, MsgStringNoClosingQuote
	}
	inner := word[1 : len(word)-1]
	if !isAllAlpha(inner) {
		return LineAst{}, MsgStringNotAlphabetic
	}
	if _, _, more := lex.NextWord(); more {
		return LineAst{}, MsgUnexpectedAfterOperands
	}
	return LineAst{Kind: LineDirective, Directive: DirString, StringValue: inner}, ""
}

func parseEntryExternDirective(lex *Lexer, kind DirectiveKind) (LineAst, string) {
	if msg := peekCommaGate(lex); msg != "" {
		return LineAst{}, msg
	}
	word, _, ok := lex.NextWord()
	if !ok {
		return LineAst{}, MsgDirectiveNeedsOperand
	}
	if endsWithColon(word) || !isValidIdent(word) {
		return LineAst{}, MsgEntryExternNeedsLabel
	}
	if _, _, more := lex.NextWord(); more {
		return LineAst{}, MsgUnexpectedAfterOperands
	}
	return LineAst{Kind: LineDirective, Directive: kind, EntryExternName: word}, ""
}

// parseOperand parses a single instruction operand token per the Operand
// production of spec.md §4.1.
func parseOperand(word string) (Operand, string) {
	if len(word) > 0 && word[0] == '#' {
		rest := word[1:]
		if rest == "" {
			return Operand{}, MsgHashNeedsNumberOrConst
		}
		if val, ok := parseNumber(rest); ok {
			return Operand{Kind: OperandImmediateNumber, Number: val}, ""
		}
		if isValidIdent(rest) {
			return Operand{Kind: OperandImmediateConst, Name: rest}, ""
		}
		return Operand{}, MsgHashNeedsNumberOrConst
	}

	if idx := indexByte(word, '['); idx >= 0 && len(word) > 0 && word[len(word)-1] == ']' {
		name := word[:idx]
		inner := word[idx+1 : len(word)-1]
		if endsWithColon(name) {
			return Operand{}, MsgLabelInvalidPlace
		}
		if !isValidIdent(name) {
			return Operand{}, MsgMissingOperand
		}
		if val, ok := parseNumber(inner); ok {
			return Operand{Kind: OperandLabelIndexNumber, Name: name, Number: val}, ""
		}
		if _, isReg := registerNames[inner]; isReg {
			return Operand{}, MsgInappropriateOperand
		}
		if isValidIdent(inner) {
			return Operand{Kind: OperandLabelIndexConst, Name: name, IndexConstName: inner}, ""
		}
		return Operand{}, MsgMissingOperand
	}

	if endsWithColon(word) {
		return Operand{}, MsgLabelInvalidPlace
	}

	if reg, isReg := registerNames[word]; isReg {
		return Operand{Kind: OperandRegister, Register: reg}, ""
	}
	if isValidIdent(word) {
		return Operand{Kind: OperandLabel, Name: word}, ""
	}

	return Operand{}, MsgMissingOperand
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func satisfiesConstraint(op Operand, c OperandConstraint) bool {
	switch c {
	case ConstraintAny:
		return true
	case ConstraintAnyExceptImmediate:
		return op.Kind != OperandImmediateNumber && op.Kind != OperandImmediateConst
	case ConstraintLabelOnly:
		return op.Kind == OperandLabel || op.Kind == OperandLabelIndexNumber || op.Kind == OperandLabelIndexConst
	case ConstraintLabelNoIndex:
		return op.Kind == OperandLabel
	default:
		return true
	}
}

func parseInstruction(lex *Lexer, mnemonic string, info MnemonicInfo) (LineAst, string) {
	if msg := peekCommaGate(lex); msg != "" && info.NumOperands > 0 {
		return LineAst{}, msg
	}

	ast := LineAst{Kind: LineInstruction, Mnemonic: mnemonic, Opcode: info.Opcode, NumOperands: info.NumOperands}

	switch info.NumOperands {
	case 0:
		if _, _, more := lex.NextWord(); more {
			return LineAst{}, MsgUnexpectedAfterOperands
		}
		return ast, ""

	case 1:
		word, _, ok := lex.NextWord()
		if !ok {
			return LineAst{}, MsgMissingOperand
		}
		op, msg := parseOperand(word)
		if msg != "" {
			return LineAst{}, msg
		}
		if !satisfiesConstraint(op, info.DstConstraint) {
			return LineAst{}, MsgInappropriateOperand
		}
		ast.DstOperand = op
		return finishOperands(lex, ast)

	default: // 2
		srcWord, _, ok := lex.NextWord()
		if !ok {
			return LineAst{}, MsgMissingOperand
		}
		srcOp, msg := parseOperand(srcWord)
		if msg != "" {
			return LineAst{}, msg
		}
		if !satisfiesConstraint(srcOp, info.SrcConstraint) {
			return LineAst{}, MsgInappropriateOperand
		}

		dstWord, commas, ok := lex.NextWord()
		if !ok {
			return LineAst{}, MsgMissingOperand
		}
		if commas == 2 {
			return LineAst{}, MsgTwoCommasBetweenNumbers
		}
		if commas > 2 {
			return LineAst{}, MsgMultipleCommasOperands
		}
		dstOp, msg := parseOperand(dstWord)
		if msg != "" {
			return LineAst{}, msg
		}
		if !satisfiesConstraint(dstOp, info.DstConstraint) {
			return LineAst{}, MsgInappropriateOperand
		}
		ast.SrcOperand = srcOp
		ast.DstOperand = dstOp
		return finishOperands(lex, ast)
	}
}

func finishOperands(lex *Lexer, ast LineAst) (LineAst, string) {
	if _, _, more := lex.NextWord(); more {
		return LineAst{}, MsgUnexpectedAfterOperands
	}
	if lex.TrailingCommas() > 0 {
		return LineAst{}, MsgCommaAfterLastNumber
	}
	return ast, ""
}
