package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTable_InsertAndLookup(t *testing.T) {
	st := NewSymbolTable()
	st.Insert(&Symbol{Name: "STR", Kind: SymData, Address: 0})

	sym, ok := st.Lookup("STR")
	require.True(t, ok)
	assert.Equal(t, SymData, sym.Kind)

	_, ok = st.Lookup("NOPE")
	assert.False(t, ok)
}

func TestSymbolTable_EntriesAreFrontInserted(t *testing.T) {
	st := NewSymbolTable()
	st.Insert(&Symbol{Name: "A", Kind: SymDataEntry, Address: 100})
	st.Insert(&Symbol{Name: "B", Kind: SymInst, Address: 50})
	st.Insert(&Symbol{Name: "C", Kind: SymInstEntry, Address: 60})

	entries := st.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "C", entries[0].Name, "newest entry symbol is listed first")
	assert.Equal(t, "A", entries[1].Name)
}

func TestSymbolTable_PendingEntries(t *testing.T) {
	st := NewSymbolTable()
	st.Insert(&Symbol{Name: "FUT", Kind: SymEntryPending})
	st.Insert(&Symbol{Name: "DONE", Kind: SymDataEntry})

	pending := st.PendingEntries()
	require.Len(t, pending, 1)
	assert.Equal(t, "FUT", pending[0].Name)
}

func TestSymbolTable_RelocateDataSymbols(t *testing.T) {
	st := NewSymbolTable()
	st.Insert(&Symbol{Name: "D1", Kind: SymData, Address: 0})
	st.Insert(&Symbol{Name: "D2", Kind: SymDataEntry, Address: 3})
	st.Insert(&Symbol{Name: "I1", Kind: SymInst, Address: 100})

	st.RelocateDataSymbols(102)

	d1, _ := st.Lookup("D1")
	d2, _ := st.Lookup("D2")
	i1, _ := st.Lookup("I1")
	assert.EqualValues(t, 102, d1.Address)
	assert.EqualValues(t, 105, d2.Address)
	assert.EqualValues(t, 100, i1.Address, "non-data symbols are untouched by relocation")
}

func TestIsReservedName(t *testing.T) {
	assert.True(t, IsReservedName("data"))
	assert.True(t, IsReservedName("mov"))
	assert.True(t, IsReservedName("r0"))
	assert.True(t, IsReservedName("psw"))
	assert.False(t, IsReservedName("STR"))
}
