package preprocess

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lookbusy1344/w14asm/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	stem := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(stem+".as", []byte(content), 0600))
	return stem
}

func TestExpand_MacroInvocationSplicesBody(t *testing.T) {
	dir := t.TempDir()
	stem := writeSource(t, dir, "foo", "mcr M\n  hlt\nendmcr\nM\nM\n")

	names, err := Expand(stem, config.DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, names, "M")

	out, err := os.ReadFile(stem + ".am")
	require.NoError(t, err)
	assert.Equal(t, "  hlt\n  hlt\n", string(out))
}

func TestExpand_CommentLinesPreserved(t *testing.T) {
	dir := t.TempDir()
	stem := writeSource(t, dir, "foo", "; a comment\nhlt\n")

	_, err := Expand(stem, config.DefaultConfig())
	require.NoError(t, err)

	out, err := os.ReadFile(stem + ".am")
	require.NoError(t, err)
	assert.Equal(t, "; a comment\nhlt\n", string(out))
}

func TestExpand_EndmcrWithoutMcrIsError(t *testing.T) {
	dir := t.TempDir()
	stem := writeSource(t, dir, "foo", "endmcr\n")

	_, err := Expand(stem, config.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), msgEndmcrWithoutMcr)
	_, statErr := os.Stat(stem + ".am")
	assert.True(t, os.IsNotExist(statErr), "partial .am is removed on error")
}

func TestExpand_NestedMcrIsError(t *testing.T) {
	dir := t.TempDir()
	stem := writeSource(t, dir, "foo", "mcr M\nmcr N\nendmcr\nendmcr\n")

	_, err := Expand(stem, config.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), msgMcrNested)
}

func TestExpand_UnterminatedMcrIsError(t *testing.T) {
	dir := t.TempDir()
	stem := writeSource(t, dir, "foo", "mcr M\nhlt\n")

	_, err := Expand(stem, config.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), msgMcrUnterminated)
}

func TestExpand_LineTooLongIsError(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Assembler.MaxLineLength = 5
	stem := writeSource(t, dir, "foo", "mov r0, r1\n")

	_, err := Expand(stem, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), msgLineTooLong)
}

func TestExpand_EmptySourceProducesEmptyAm(t *testing.T) {
	dir := t.TempDir()
	stem := writeSource(t, dir, "foo", "")

	_, err := Expand(stem, config.DefaultConfig())
	require.NoError(t, err)

	out, err := os.ReadFile(stem + ".am")
	require.NoError(t, err)
	assert.Empty(t, out)
}
