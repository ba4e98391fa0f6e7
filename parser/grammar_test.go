package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine_EmptyAndNote(t *testing.T) {
	assert.Equal(t, LineEmpty, ParseLine("").Kind)
	assert.Equal(t, LineEmpty, ParseLine("    ").Kind)
	assert.Equal(t, LineNote, ParseLine("; a comment").Kind)
}

func TestParseLine_Label(t *testing.T) {
	ast := ParseLine("STR: .string \"ab\"")
	require.Equal(t, LineDirective, ast.Kind)
	assert.Equal(t, "STR", ast.Label)
	assert.Equal(t, DirString, ast.Directive)
	assert.Equal(t, "ab", ast.StringValue)
}

func TestParseLine_LabelOnlyIsError(t *testing.T) {
	ast := ParseLine("STR:")
	assert.Equal(t, LineError, ast.Kind)
	assert.Equal(t, MsgLineOnlyLabel, ast.ErrorDetail)
}

func TestParseLine_InvalidLabelPlace(t *testing.T) {
	ast := ParseLine("1BAD: hlt")
	assert.Equal(t, LineError, ast.Kind)
	assert.Equal(t, MsgLabelInvalidPlace, ast.ErrorDetail)
}

func TestParseLine_ConstantDef(t *testing.T) {
	ast := ParseLine(".define SZ = 5")
	require.Equal(t, LineConstantDef, ast.Kind)
	assert.Equal(t, "SZ", ast.ConstName)
	assert.EqualValues(t, 5, ast.ConstValue)
}

func TestParseLine_ConstantDefWithLabelIsError(t *testing.T) {
	ast := ParseLine("X: .define SZ = 5")
	assert.Equal(t, LineError, ast.Kind)
	assert.Equal(t, MsgLabelInConstDef, ast.ErrorDetail)
}

func TestParseLine_TwoOperandInstruction(t *testing.T) {
	ast := ParseLine("mov EXT, r1")
	require.Equal(t, LineInstruction, ast.Kind)
	assert.Equal(t, "mov", ast.Mnemonic)
	assert.Equal(t, 0, ast.Opcode)
	assert.Equal(t, 2, ast.NumOperands)
	assert.Equal(t, OperandLabel, ast.SrcOperand.Kind)
	assert.Equal(t, "EXT", ast.SrcOperand.Name)
	assert.Equal(t, OperandRegister, ast.DstOperand.Kind)
	assert.Equal(t, 1, ast.DstOperand.Register)
}

func TestParseLine_ZeroCommasBetweenOperandsAccepted(t *testing.T) {
	withComma := ParseLine("mov r0, r1")
	withoutComma := ParseLine("mov r0 r1")
	require.Equal(t, LineInstruction, withComma.Kind)
	require.Equal(t, LineInstruction, withoutComma.Kind)
	assert.Equal(t, withComma.SrcOperand, withoutComma.SrcOperand)
	assert.Equal(t, withComma.DstOperand, withoutComma.DstOperand)
}

func TestParseLine_ZeroOperandInstruction(t *testing.T) {
	ast := ParseLine("hlt")
	require.Equal(t, LineInstruction, ast.Kind)
	assert.Equal(t, 15, ast.Opcode)
	assert.Equal(t, 0, ast.NumOperands)
}

func TestParseLine_IndexedOperandWithRegisterIndexIsInappropriate(t *testing.T) {
	ast := ParseLine("mov ARR[r0], r1")
	assert.Equal(t, LineError, ast.Kind)
	assert.Equal(t, MsgInappropriateOperand, ast.ErrorDetail)
}

func TestParseLine_IndexedOperandWithNumberIndex(t *testing.T) {
	ast := ParseLine("mov ARR[3], r1")
	require.Equal(t, LineInstruction, ast.Kind)
	assert.Equal(t, OperandLabelIndexNumber, ast.SrcOperand.Kind)
	assert.EqualValues(t, 3, ast.SrcOperand.Number)
}

func TestParseLine_DataDirective(t *testing.T) {
	ast := ParseLine(".data 10,20,SZ")
	require.Equal(t, LineDirective, ast.Kind)
	require.Len(t, ast.DataItems, 3)
	assert.EqualValues(t, 10, ast.DataItems[0].Number)
	assert.EqualValues(t, 20, ast.DataItems[1].Number)
	assert.True(t, ast.DataItems[2].IsConst)
	assert.Equal(t, "SZ", ast.DataItems[2].Name)
}

func TestParseLine_EntryExtern(t *testing.T) {
	entry := ParseLine(".entry STR")
	require.Equal(t, LineDirective, entry.Kind)
	assert.Equal(t, DirEntry, entry.Directive)
	assert.Equal(t, "STR", entry.EntryExternName)

	extern := ParseLine(".extern EXT")
	require.Equal(t, LineDirective, extern.Kind)
	assert.Equal(t, DirExtern, extern.Directive)
	assert.Equal(t, "EXT", extern.EntryExternName)
}

func TestParseLine_ImmediateDestinationRejectedForMov(t *testing.T) {
	// mov's destination must not be immediate.
	ast := ParseLine("mov r0, #5")
	assert.Equal(t, LineError, ast.Kind)
	assert.Equal(t, MsgInappropriateOperand, ast.ErrorDetail)
}

func TestParseLine_IsPureFunction(t *testing.T) {
	line := "mov ARR[r0], r1"
	first := ParseLine(line)
	second := ParseLine(line)
	assert.Equal(t, first, second)
}

func TestParseLine_LabelPropertyMatchesColonRule(t *testing.T) {
	withLabel := []string{"STR: .string \"x\"", "BAD1: hlt"}
	withoutLabel := []string{".data 1,2", "mov r0, r1"}
	for _, line := range withLabel {
		ast := ParseLine(line)
		require.NotEqual(t, LineError, ast.Kind)
		assert.NotEmpty(t, ast.Label, "line %q should have parsed a label", line)
	}
	for _, line := range withoutLabel {
		ast := ParseLine(line)
		assert.Empty(t, ast.Label, "line %q should not have a label", line)
	}
}
