package parser

// LineKind discriminates the variant a LineAst carries. Go has no tagged
// unions; fields below are grouped by the Kind that populates them and are
// left zero otherwise (see DESIGN.md, Open Question OQ-1).
type LineKind int

const (
	LineEmpty LineKind = iota
	LineNote
	LineDirective
	LineInstruction
	LineConstantDef
	LineError
)

// DirectiveKind discriminates which of the four directives a LineDirective
// line carries.
type DirectiveKind int

const (
	DirData DirectiveKind = iota
	DirString
	DirEntry
	DirExtern
)

// OperandKind discriminates an instruction operand's addressing mode.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandImmediateNumber
	OperandImmediateConst
	OperandRegister
	OperandLabel
	OperandLabelIndexNumber
	OperandLabelIndexConst
)

// Operand is one source or destination operand of an instruction.
type Operand struct {
	Kind     OperandKind
	Number   int16  // OperandImmediateNumber, OperandLabelIndexNumber (the index)
	Name     string // OperandImmediateConst, OperandLabel, OperandLabelIndexNumber/Const (the label)
	IndexConstName string // OperandLabelIndexConst: the index's constant name
	Register int    // OperandRegister: 0..7
}

// DataOperand is one item of a .data directive: a bare number or a constant
// name to be resolved at second-pass time.
type DataOperand struct {
	IsConst bool
	Number  int16
	Name    string
}

// LineAst is the parse result of one source line.
type LineAst struct {
	Kind  LineKind
	Label string // pre-line label without its trailing ':'; empty if none

	// LineDirective
	Directive       DirectiveKind
	DataItems       []DataOperand // DirData
	StringValue     string        // DirString
	EntryExternName string        // DirEntry, DirExtern

	// LineInstruction. NumOperands is 0, 1, or 2. When 1, DstOperand holds
	// the sole operand (every single-operand mnemonic in spec.md §4.1 takes
	// it in the destination role). When 2, SrcOperand/DstOperand are both
	// populated in source-then-destination order.
	Mnemonic    string
	Opcode      int
	NumOperands int
	SrcOperand  Operand
	DstOperand  Operand

	// LineConstantDef
	ConstName  string
	ConstValue int16

	// LineError
	ErrorDetail string
}
