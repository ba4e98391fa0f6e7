package tools

import (
	"testing"

	"github.com/lookbusy1344/w14asm/parser"
	"github.com/lookbusy1344/w14asm/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildXRef_LabelDefinitionAndOperandReferences(t *testing.T) {
	lines := []string{
		"LOOP: mov r0, r1",
		"mov LOOP, r2",
	}
	tu := translate.NewTranslationUnit(3996)
	tu.Symbols.Insert(&parser.Symbol{Name: "LOOP", Kind: parser.SymInst, Address: 100})

	xrefs := BuildXRef(lines, tu)
	require.Len(t, xrefs, 1)
	x := xrefs[0]
	assert.Equal(t, "LOOP", x.Name)
	require.NotNil(t, x.Definition)
	assert.Equal(t, 1, x.Definition.Line)
	require.Len(t, x.References, 1)
	assert.Equal(t, 2, x.References[0].Line)
}

func TestBuildXRef_ConstDefinitionAndDataAndEntryReferences(t *testing.T) {
	lines := []string{
		".define K = 5",
		"ARR: .data K, 1",
		".entry ARR",
	}
	tu := translate.NewTranslationUnit(3996)
	tu.Symbols.Insert(&parser.Symbol{Name: "K", Kind: parser.SymConst, Value: 5})
	tu.Symbols.Insert(&parser.Symbol{Name: "ARR", Kind: parser.SymDataEntry, Address: 100})

	xrefs := BuildXRef(lines, tu)
	var k, arr *SymbolXRef
	for _, x := range xrefs {
		switch x.Name {
		case "K":
			k = x
		case "ARR":
			arr = x
		}
	}
	require.NotNil(t, k)
	require.NotNil(t, arr)

	require.NotNil(t, k.Definition)
	assert.Equal(t, 1, k.Definition.Line)
	require.Len(t, k.References, 1, "K is referenced as a data item on line 2")
	assert.Equal(t, 2, k.References[0].Line)

	require.NotNil(t, arr.Definition)
	assert.Equal(t, 2, arr.Definition.Line)
	require.Len(t, arr.References, 1, "ARR is referenced by .entry on line 3")
	assert.Equal(t, 3, arr.References[0].Line)
}

func TestReport_SortsByNameAndIncludesDefinitionAndReferenceLines(t *testing.T) {
	xrefs := []*SymbolXRef{
		{
			Name: "ZEBRA", Kind: parser.SymInst,
			Definition: &Reference{Line: 1, Source: "ZEBRA: hlt"},
		},
		{
			Name: "APPLE", Kind: parser.SymData,
			Definition: &Reference{Line: 2, Source: "APPLE: .data 1"},
			References: []*Reference{{Line: 3, Source: "mov APPLE, r0"}},
		},
	}
	report := Report(xrefs)

	appleIdx := indexOfSubstring(report, "APPLE")
	zebraIdx := indexOfSubstring(report, "ZEBRA")
	require.GreaterOrEqual(t, appleIdx, 0)
	require.GreaterOrEqual(t, zebraIdx, 0)
	assert.Less(t, appleIdx, zebraIdx, "APPLE sorts before ZEBRA")
	assert.Contains(t, report, "used     line 3")
	assert.Contains(t, report, "defined  line 2")
}

func indexOfSubstring(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
