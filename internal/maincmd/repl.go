package maincmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/ico-lang/ico/lang/compiler"
	"github.com/ico-lang/ico/lang/machine"
	"github.com/mna/mainer"
)

// Status glyphs shown next to the prompt, reflecting the outcome of the
// previous line (spec 6: "a status glyph ... indicating idle / success /
// compile-error / runtime-error"). The source this spec is drawn from has no
// REPL to copy the exact glyphs from, so this is a documented decision (see
// DESIGN.md, "Open Questions") rather than something grounded in
// original_source/.
const (
	glyphIdle         = "·"
	glyphSuccess      = "✓"
	glyphCompileError = "✗"
	glyphRuntimeError = "!"
)

// RunREPL reads one line at a time from stdio.Stdin, evaluating each against
// a single long-lived VM so declarations persist across lines, until EOF or
// ctx is cancelled.
func RunREPL(ctx context.Context, stdio mainer.Stdio, cfg runtimeConfig) mainer.ExitCode {
	vm := machine.New(stdio.Stdout, cfg.toMachineConfig())
	scanner := bufio.NewScanner(stdio.Stdin)

	glyph := glyphIdle
	for {
		fmt.Fprintf(stdio.Stdout, "%s> ", glyph)

		select {
		case <-ctx.Done():
			fmt.Fprintln(stdio.Stdout)
			return exitSuccess
		default:
		}

		if !scanner.Scan() {
			fmt.Fprintln(stdio.Stdout)
			return exitSuccess
		}

		line := scanner.Text()
		if line == "" {
			glyph = glyphIdle
			continue
		}

		if err := vm.Interpret(line); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if _, ok := err.(compiler.ErrorList); ok {
				glyph = glyphCompileError
			} else {
				glyph = glyphRuntimeError
			}
			continue
		}
		glyph = glyphSuccess
	}
}
