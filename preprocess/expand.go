package preprocess

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lookbusy1344/w14asm/config"
	"github.com/lookbusy1344/w14asm/parser"
)

// Per-line diagnostics the macro pre-processor itself raises. These are not
// part of spec.md §4.1's pinned line-parser message list (that list belongs
// to the lexer/parser stage); the wording here is this module's own.
const (
	msgLineTooLong       = "line too long"
	msgEndmcrWithoutMcr  = "endmcr without mcr"
	msgMcrMalformed      = "mcr must be followed by exactly one macro name"
	msgMcrNested         = "nested macro definitions are not permitted"
	msgEndmcrExtraTokens = "endmcr must be the only token on the line"
	msgMacroNameReserved = "macro name collides with a reserved or already-defined name"
	msgMcrUnterminated   = "macro definition not closed with endmcr"
)

type expandState int

const (
	stateNormal expandState = iota
	stateRecording
)

// Expand reads "<stem>.as", expands every macro invocation into "<stem>.am",
// and returns the set of macro names it defined (the translate package
// needs these to flag a symbol that collides with a macro name) along with
// the line-streaming state machine's result. On any error the partial .am
// file is removed and the error is returned for the driver to report and
// skip this file.
func Expand(stem string, cfg *config.Config) (map[string]struct{}, error) {
	srcPath := stem + ".as"
	dstPath := stem + ".am"

	src, err := os.Open(srcPath) // #nosec G304 -- caller-supplied file stem
	if err != nil {
		return nil, parser.NewFileError(srcPath, parser.ErrorFileIO, fmt.Sprintf("%v", err))
	}
	defer src.Close()

	dst, err := os.Create(dstPath) // #nosec G304 -- caller-supplied file stem
	if err != nil {
		return nil, parser.NewFileError(dstPath, parser.ErrorFileIO, fmt.Sprintf("%v", err))
	}

	names, expandErr := expandStream(src, dst, srcPath, cfg)
	if expandErr != nil {
		dst.Close()
		os.Remove(dstPath)
		return nil, expandErr
	}
	if err := dst.Close(); err != nil {
		return nil, parser.NewFileError(dstPath, parser.ErrorFileIO, fmt.Sprintf("%v", err))
	}
	return names, nil
}

func expandStream(src *os.File, dst *os.File, srcPath string, cfg *config.Config) (map[string]struct{}, error) {
	maxLen := cfg.Assembler.MaxLineLength
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 4096), 4096)

	macros := NewMacroTable()
	state := stateNormal
	var current *Macro
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if len(line) > maxLen {
			return nil, parser.NewLineError(srcPath, lineNum, parser.ErrorMacro, msgLineTooLong)
		}

		first, rest := firstToken(line)

		switch state {
		case stateRecording:
			if first == "endmcr" {
				if rest != "" {
					return nil, parser.NewLineError(srcPath, lineNum, parser.ErrorMacro, msgEndmcrExtraTokens)
				}
				state = stateNormal
				current = nil
				continue
			}
			if first == "mcr" {
				return nil, parser.NewLineError(srcPath, lineNum, parser.ErrorMacro, msgMcrNested)
			}
			current.Body = append(current.Body, line)

		case stateNormal:
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, ";") {
				fmt.Fprintln(dst, line)
				continue
			}
			switch first {
			case "mcr":
				name, extra := firstToken(rest)
				if name == "" || extra != "" {
					return nil, parser.NewLineError(srcPath, lineNum, parser.ErrorMacro, msgMcrMalformed)
				}
				if macros.IsReservedOrDefined(name) {
					return nil, parser.NewLineError(srcPath, lineNum, parser.ErrorMacro, msgMacroNameReserved)
				}
				current = macros.Define(name)
				state = stateRecording
			case "endmcr":
				return nil, parser.NewLineError(srcPath, lineNum, parser.ErrorMacro, msgEndmcrWithoutMcr)
			default:
				if m, ok := macros.Lookup(first); ok {
					for _, bodyLine := range m.Body {
						fmt.Fprintln(dst, bodyLine)
					}
				} else {
					fmt.Fprintln(dst, line)
				}
			}
		}
	}
	if state == stateRecording {
		return nil, parser.NewLineError(srcPath, lineNum, parser.ErrorMacro, msgMcrUnterminated)
	}
	if err := scanner.Err(); err != nil {
		return nil, parser.NewFileError(srcPath, parser.ErrorFileIO, fmt.Sprintf("%v", err))
	}
	return macros.Names(), nil
}

// firstToken splits s into its first whitespace-delimited token and the
// left-trimmed remainder.
func firstToken(s string) (first, rest string) {
	trimmed := strings.TrimLeft(s, " \t")
	idx := strings.IndexAny(trimmed, " \t")
	if idx < 0 {
		return trimmed, ""
	}
	return trimmed[:idx], strings.TrimLeft(trimmed[idx+1:], " \t")
}
