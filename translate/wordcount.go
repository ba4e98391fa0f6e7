package translate

import "github.com/lookbusy1344/w14asm/parser"

// wordCount implements spec.md §4.3.1: the number of words a line
// contributes to its image (instruction or data). The first pass advances
// ic/dc by this count; the second pass's encoder emits the same number of
// words for each line it re-parses from the same .am stream.
func wordCount(ast parser.LineAst) int {
	switch ast.Kind {
	case parser.LineInstruction:
		return 1 + instructionExtraWords(ast)
	case parser.LineDirective:
		switch ast.Directive {
		case parser.DirData:
			return len(ast.DataItems)
		case parser.DirString:
			return len(ast.StringValue) + 1
		default: // DirEntry, DirExtern
			return 0
		}
	default:
		return 0
	}
}

func instructionExtraWords(ast parser.LineAst) int {
	switch ast.Mnemonic {
	case "rts", "hlt":
		return 0
	}
	if ast.NumOperands == 2 && ast.SrcOperand.Kind == parser.OperandRegister && ast.DstOperand.Kind == parser.OperandRegister {
		return 1
	}
	words := 0
	if ast.NumOperands == 2 {
		words += operandWordCount(ast.SrcOperand)
	}
	if ast.NumOperands >= 1 {
		words += operandWordCount(ast.DstOperand)
	}
	return words
}

func operandWordCount(op parser.Operand) int {
	if op.Kind == parser.OperandLabelIndexNumber || op.Kind == parser.OperandLabelIndexConst {
		return 2
	}
	return 1
}
