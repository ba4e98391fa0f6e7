package parser

// OperandConstraint narrows which OperandKinds a given operand slot accepts,
// per the table in spec.md §4.1.
type OperandConstraint int

const (
	ConstraintAny OperandConstraint = iota
	ConstraintAnyExceptImmediate
	// ConstraintLabelOnly accepts a label or label-with-index, nothing else
	// (lea's source operand).
	ConstraintLabelOnly
	// ConstraintLabelNoIndex accepts a plain label only, no index, no
	// immediate, no register (jmp/bne/jsr's destination).
	ConstraintLabelNoIndex
)

// MnemonicInfo is the per-mnemonic arity and operand-constraint entry of the
// opcode table in spec.md §4.1.
type MnemonicInfo struct {
	Opcode        int
	NumOperands   int // 0, 1, or 2
	SrcConstraint OperandConstraint
	DstConstraint OperandConstraint
}

// mnemonicTable is the sixteen-entry opcode/arity table of spec.md §4.1.
var mnemonicTable = map[string]MnemonicInfo{
	"mov": {Opcode: 0, NumOperands: 2, SrcConstraint: ConstraintAny, DstConstraint: ConstraintAnyExceptImmediate},
	"cmp": {Opcode: 1, NumOperands: 2, SrcConstraint: ConstraintAny, DstConstraint: ConstraintAny},
	"add": {Opcode: 2, NumOperands: 2, SrcConstraint: ConstraintAny, DstConstraint: ConstraintAnyExceptImmediate},
	"sub": {Opcode: 3, NumOperands: 2, SrcConstraint: ConstraintAny, DstConstraint: ConstraintAnyExceptImmediate},
	"not": {Opcode: 4, NumOperands: 1, DstConstraint: ConstraintAnyExceptImmediate},
	"clr": {Opcode: 5, NumOperands: 1, DstConstraint: ConstraintAnyExceptImmediate},
	"lea": {Opcode: 6, NumOperands: 2, SrcConstraint: ConstraintLabelOnly, DstConstraint: ConstraintAnyExceptImmediate},
	"inc": {Opcode: 7, NumOperands: 1, DstConstraint: ConstraintAnyExceptImmediate},
	"dec": {Opcode: 8, NumOperands: 1, DstConstraint: ConstraintAnyExceptImmediate},
	"jmp": {Opcode: 9, NumOperands: 1, DstConstraint: ConstraintLabelNoIndex},
	"bne": {Opcode: 10, NumOperands: 1, DstConstraint: ConstraintLabelNoIndex},
	"red": {Opcode: 11, NumOperands: 1, DstConstraint: ConstraintAnyExceptImmediate},
	"prn": {Opcode: 12, NumOperands: 1, DstConstraint: ConstraintAny},
	"jsr": {Opcode: 13, NumOperands: 1, DstConstraint: ConstraintLabelNoIndex},
	"rts": {Opcode: 14, NumOperands: 0},
	"hlt": {Opcode: 15, NumOperands: 0},
}

// directiveNames are the bare (dot-stripped) directive/define keywords that
// a symbol, label, or macro name may not collide with.
var directiveNames = map[string]struct{}{
	"data":   {},
	"string": {},
	"entry":  {},
	"extern": {},
	"define": {},
}

// registerNames maps register tokens to their operand-encoding number.
// r0..r7 are the eight general registers used in operand word encoding;
// psw/pc are recognized as reserved names (spec.md §4.1 lists them among
// registers) but the second pass never needs to encode them as an operand
// register field, since no mnemonic in the opcode table takes them.
var registerNames = map[string]int{
	"r0": 0, "r1": 1, "r2": 2, "r3": 3,
	"r4": 4, "r5": 5, "r6": 6, "r7": 7,
	"psw": 8, "pc": 9,
}
