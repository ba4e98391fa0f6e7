package encode

import (
	"bufio"
	"fmt"
	"os"

	"github.com/lookbusy1344/w14asm/parser"
	"github.com/lookbusy1344/w14asm/translate"
)

// WriteObjectFile writes "<stem>.ob" per spec.md §6: a "  <ic> <dc>\n"
// header followed by one line per instruction word, then one line per data
// word, addresses continuing on from where the instruction words left off.
// A unit with no instruction or data words gets the header "  0 0\n" only.
func WriteObjectFile(stem string, tu *translate.TranslationUnit, alphabet string) error {
	path := stem + ".ob"
	f, err := os.Create(path) // #nosec G304 -- caller-supplied file stem
	if err != nil {
		return parser.NewFileError(path, parser.ErrorFileIO, fmt.Sprintf("%v", err))
	}
	w := bufio.NewWriter(f)

	headerIC, headerDC := tu.IC, tu.DC
	if len(tu.InstructionImage) == 0 && len(tu.DataImage) == 0 {
		headerIC, headerDC = 0, 0
	}
	if _, err := fmt.Fprintf(w, "  %d %d\n", headerIC, headerDC); err != nil {
		return abortObjectFile(f, path, err)
	}

	icAfterInstructions := tu.IC
	for i, word := range tu.InstructionImage {
		if err := writeWordLine(w, uint16(i)+translate.InitialIC, word, alphabet); err != nil {
			return abortObjectFile(f, path, err)
		}
	}
	for i, word := range tu.DataImage {
		if err := writeWordLine(w, uint16(i)+icAfterInstructions, word, alphabet); err != nil {
			return abortObjectFile(f, path, err)
		}
	}

	if err := w.Flush(); err != nil {
		return abortObjectFile(f, path, err)
	}
	if err := f.Close(); err != nil {
		return parser.NewFileError(path, parser.ErrorFileIO, fmt.Sprintf("%v", err))
	}
	return nil
}

func writeWordLine(w *bufio.Writer, address uint16, word uint16, alphabet string) error {
	chars, err := EncodeWord(word, alphabet)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "0%d %s\n", address, chars)
	return err
}

func abortObjectFile(f *os.File, path string, cause error) error {
	f.Close()
	os.Remove(path)
	return parser.NewFileError(path, parser.ErrorFileIO, fmt.Sprintf("%v", cause))
}

// WriteEntriesFile writes "<stem>.ent": one line per entry symbol in the
// entries list's order. Callers should skip invoking this when the list is
// empty, per spec.md §8 scenario 2's "no .ext" convention applied uniformly
// to .ent.
func WriteEntriesFile(stem string, tu *translate.TranslationUnit) error {
	path := stem + ".ent"
	f, err := os.Create(path) // #nosec G304 -- caller-supplied file stem
	if err != nil {
		return parser.NewFileError(path, parser.ErrorFileIO, fmt.Sprintf("%v", err))
	}
	w := bufio.NewWriter(f)

	for _, sym := range tu.Symbols.Entries() {
		if _, err := fmt.Fprintf(w, "%s\t0%d\n", sym.Name, sym.Address); err != nil {
			return abortObjectFile(f, path, err)
		}
	}

	if err := w.Flush(); err != nil {
		return abortObjectFile(f, path, err)
	}
	if err := f.Close(); err != nil {
		return parser.NewFileError(path, parser.ErrorFileIO, fmt.Sprintf("%v", err))
	}
	return nil
}

// WriteExternalsFile writes "<stem>.ext": one line per (external symbol,
// reference address) pair, in externals-list order.
func WriteExternalsFile(stem string, tu *translate.TranslationUnit) error {
	path := stem + ".ext"
	f, err := os.Create(path) // #nosec G304 -- caller-supplied file stem
	if err != nil {
		return parser.NewFileError(path, parser.ErrorFileIO, fmt.Sprintf("%v", err))
	}
	w := bufio.NewWriter(f)

	for _, ref := range tu.Externals.All() {
		for _, refIC := range ref.Addresses {
			if _, err := fmt.Fprintf(w, "%s\t0%d\n", ref.Name, refIC+translate.InitialIC); err != nil {
				return abortObjectFile(f, path, err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return abortObjectFile(f, path, err)
	}
	if err := f.Close(); err != nil {
		return parser.NewFileError(path, parser.ErrorFileIO, fmt.Sprintf("%v", err))
	}
	return nil
}
