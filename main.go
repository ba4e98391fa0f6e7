package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/lookbusy1344/w14asm/config"
	"github.com/lookbusy1344/w14asm/encode"
	"github.com/lookbusy1344/w14asm/parser"
	"github.com/lookbusy1344/w14asm/preprocess"
	"github.com/lookbusy1344/w14asm/tools"
	"github.com/lookbusy1344/w14asm/translate"
	"github.com/lookbusy1344/w14asm/tui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		tuiMode     = flag.Bool("tui", false, "Show a summary dashboard after processing all files")
		configPath  = flag.String("config", "", "Path to a TOML config file (default: platform config dir)")
		verbose     = flag.Bool("verbose", false, "Print a one-line summary for each successfully assembled file")
		dumpSymbols = flag.Bool("dump-symbols", false, "Print the final symbol table for each file")
		xref        = flag.Bool("xref", false, "Print a symbol cross-reference listing for each file")
	)
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("w14asm %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	stems := flag.Args()
	if len(stems) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "w14asm: %v\n", err)
		os.Exit(1)
	}

	var dash *tui.Dashboard
	if *tuiMode {
		dash = tui.NewDashboard()
	}

	anyFailed := false
	for _, stem := range stems {
		stage, firstErr := processStem(stem, cfg, *verbose, *dumpSymbols, *xref)
		if firstErr != "" {
			anyFailed = true
		}
		if dash != nil {
			dash.AddRow(tui.Row{Stem: stem, Stage: stage, FirstError: firstErr})
		}
	}

	if dash != nil {
		if err := dash.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "w14asm: %v\n", err)
		}
	}

	if anyFailed {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// processStem runs one file stem through preprocess -> first pass -> second
// pass -> emit, per spec.md §6's per-file pipeline. It always prints any
// diagnostics itself and returns the furthest stage reached plus the first
// error's message (empty on full success), for the caller's bookkeeping and
// the optional dashboard.
func processStem(stem string, cfg *config.Config, verbose bool, dumpSymbols bool, xref bool) (stage string, firstError string) {
	macroNames, err := preprocess.Expand(stem, cfg)
	if err != nil {
		fmt.Fprint(os.Stderr, err.Error())
		if asmErr, ok := err.(*parser.AssemblyError); ok {
			return "preprocess", asmErr.Message
		}
		return "preprocess", err.Error()
	}

	amPath := stem + ".am"
	lines, err := readLines(amPath)
	if err != nil {
		ioErr := parser.NewFileError(amPath, parser.ErrorFileIO, err.Error())
		fmt.Fprint(os.Stderr, ioErr.Error())
		return "preprocess", ioErr.Message
	}

	tu, errs := translate.RunFirstPass(lines, amPath, macroNames, cfg.Assembler.MaxImageWords)
	if errs.HasErrors() {
		fmt.Fprint(os.Stderr, errs.Error())
		return "first pass", errs.Errors[0].Message
	}

	if dumpSymbols {
		dumpSymbolTable(stem, tu)
	}

	secondErrs, fatal := translate.RunSecondPass(lines, amPath, tu)
	if fatal != nil {
		fmt.Fprint(os.Stderr, fatal.Error())
		return "second pass", fatal.Message
	}
	if secondErrs.HasErrors() {
		fmt.Fprint(os.Stderr, secondErrs.Error())
		return "second pass", secondErrs.Errors[0].Message
	}

	if xref {
		fmt.Printf("-- xref: %s --\n", stem)
		fmt.Print(tools.Report(tools.BuildXRef(lines, tu)))
	}

	if err := emit(stem, tu, cfg); err != nil {
		fmt.Fprint(os.Stderr, err.Error())
		if asmErr, ok := err.(*parser.AssemblyError); ok {
			return "emit", asmErr.Message
		}
		return "emit", err.Error()
	}

	if verbose {
		fmt.Printf("%s: ok (ic=%d dc=%d, %d entries, %d externals)\n",
			stem, tu.IC, tu.DC, len(tu.Symbols.Entries()), len(tu.Externals.All()))
	}
	return "ok", ""
}

func emit(stem string, tu *translate.TranslationUnit, cfg *config.Config) error {
	emptySource := len(tu.InstructionImage) == 0 && len(tu.DataImage) == 0
	if !emptySource || cfg.Assembler.EmitHeaderOnlyObjectForEmptySource {
		if err := encode.WriteObjectFile(stem, tu, cfg.Encoding.Alphabet); err != nil {
			return err
		}
	}
	if len(tu.Symbols.Entries()) > 0 {
		if err := encode.WriteEntriesFile(stem, tu); err != nil {
			return err
		}
	}
	if len(tu.Externals.All()) > 0 {
		if err := encode.WriteExternalsFile(stem, tu); err != nil {
			return err
		}
	}
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-supplied file stem
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), 4096)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func dumpSymbolTable(stem string, tu *translate.TranslationUnit) {
	fmt.Printf("-- symbols: %s --\n", stem)
	for _, sym := range tu.Symbols.All() {
		fmt.Printf("  %-31s %-12s address=%d value=%d\n", sym.Name, sym.Kind, sym.Address, sym.Value)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `w14asm - two-pass assembler for the 14-bit imaginary machine

Usage: w14asm [flags] <stem1> <stem2> ...

Each stem names a source file "<stem>.as" (no extension). For each stem
the tool may produce "<stem>.am" (macro-expanded source), "<stem>.ob"
(object image), "<stem>.ent" (entry symbols), and "<stem>.ext" (external
references). All stems are processed regardless of earlier failures.

Flags:
`)
	flag.PrintDefaults()
}
