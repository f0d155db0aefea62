// Command korio runs Korio programs, one-off expressions and an interactive
// REPL.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/peterh/liner"

	korio "github.com/BrendanNg8/KorioLangProject"
)

const (
	appName     = "korio"
	historyFile = ".korio_history"
	promptMain  = ">> "
	promptCont  = ".. "
)

type cli struct {
	Run     runCmd     `cmd:"" help:"Run a script file."`
	Eval    evalCmd    `cmd:"" help:"Evaluate a source string and print its result."`
	Repl    replCmd    `cmd:"" default:"1" help:"Start the interactive REPL."`
	Version kong.VersionFlag `help:"Print the interpreter version." short:"V"`
}

type runCmd struct {
	File string `arg:"" help:"Script file to run." type:"existingfile"`
}

type evalCmd struct {
	Source string `arg:"" help:"Source text to evaluate."`
}

type replCmd struct{}

func main() {
	var c cli
	ktx := kong.Parse(&c,
		kong.Name(appName),
		kong.Description("The Korio scripting language."),
		kong.UsageOnError(),
		kong.Vars{"version": appName + " " + korio.Version},
	)
	ktx.FatalIfErrorf(ktx.Run())
}

func (r *runCmd) Run() error {
	src, err := os.ReadFile(r.File)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", r.File, err)
	}

	ip := korio.NewInterpreter()
	v, err := ip.EvalSource(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, korio.WrapErrorWithSource(err, string(src)))
		os.Exit(1)
	}
	if v.Tag != korio.VTNull {
		fmt.Println(korio.FormatValue(v))
	}
	return nil
}

func (e *evalCmd) Run() error {
	ip := korio.NewInterpreter()
	v, err := ip.EvalSource(e.Source)
	if err != nil {
		fmt.Fprintln(os.Stderr, korio.WrapErrorWithSource(err, e.Source))
		os.Exit(1)
	}
	fmt.Println(korio.FormatValue(v))
	return nil
}

func (*replCmd) Run() error {
	fmt.Printf("Korio %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", korio.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	ip := korio.NewInterpreter()

	for {
		code, ok := readStatement(ln)
		if !ok {
			fmt.Println()
			return nil
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.EqualFold(trimmed, ":quit") {
				return nil
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		v, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, korio.WrapErrorWithSource(err, code))
			continue
		}
		fmt.Println(korio.FormatValue(v))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readStatement keeps prompting while the accumulated input parses as
// truncated, so multi-line blocks can be typed naturally.
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := korio.Parse(src); korio.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
