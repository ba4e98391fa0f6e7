// Package translate implements the symbol-table-driven first pass and
// second pass of the w14asm pipeline: turning a macro-expanded ".am" stream
// into a TranslationUnit holding the encoded instruction/data images,
// entries list, and externals list.
package translate

import "github.com/lookbusy1344/w14asm/parser"

// Word is a single 14-bit machine word; only the low 14 bits are
// meaningful.
type Word = uint16

// WordMask keeps a Word's meaningful bits.
const WordMask Word = 0x3FFF

const (
	InitialIC = 100
	InitialDC = 0
)

// ExternalRef couples an external symbol name to the ordered list of
// instruction-image indices (0-based) where it is referenced.
type ExternalRef struct {
	Name      string
	Addresses []uint16
}

// ExternalTable builds the externals list with the prepend-ordered
// construction spec.md §3/§9 pins: a new address is prepended within its
// symbol's list, and a symbol is prepended into the table only the first
// time it is referenced.
type ExternalTable struct {
	refs []*ExternalRef
}

// Reference records a use of an external symbol at image index addr.
func (et *ExternalTable) Reference(name string, addr uint16) {
	for _, ref := range et.refs {
		if ref.Name == name {
			ref.Addresses = append([]uint16{addr}, ref.Addresses...)
			return
		}
	}
	et.refs = append([]*ExternalRef{{Name: name, Addresses: []uint16{addr}}}, et.refs...)
}

// All returns the externals in construction order.
func (et *ExternalTable) All() []*ExternalRef {
	return et.refs
}

// TranslationUnit is the whole-file assembly state shared between first
// pass, second pass, and the emitter. A fresh TranslationUnit is built per
// input file; nothing is carried across files.
type TranslationUnit struct {
	InstructionImage []Word
	DataImage        []Word
	IC               uint16
	DC               uint16
	Symbols          *parser.SymbolTable
	Externals        *ExternalTable
	MaxImageWords    int
}

// NewTranslationUnit creates an empty unit with counters at their spec.md
// §3 initial values.
func NewTranslationUnit(maxImageWords int) *TranslationUnit {
	return &TranslationUnit{
		InstructionImage: make([]Word, 0, maxImageWords),
		DataImage:        make([]Word, 0, maxImageWords),
		IC:               InitialIC,
		DC:               InitialDC,
		Symbols:          parser.NewSymbolTable(),
		Externals:        &ExternalTable{},
		MaxImageWords:    maxImageWords,
	}
}

// ErrAllocation is the sentinel translate.RunSecondPass returns
// when emitting a word would exceed MaxImageWords, modeling spec.md §5's
// memory-bound resource failure.
var ErrAllocation = &parser.AssemblyError{Message: parser.MsgAllocationFailed, Kind: parser.ErrorAllocation}
