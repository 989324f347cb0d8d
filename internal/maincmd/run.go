package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ico-lang/ico/lang/compiler"
	"github.com/ico-lang/ico/lang/machine"
	"github.com/mna/mainer"
)

// RunFile reads path, compiles it and runs it to completion, mapping the
// result onto spec 6's CLI exit-code contract.
func RunFile(_ context.Context, stdio mainer.Stdio, cfg runtimeConfig, path string) mainer.ExitCode {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
		return exitIOError
	}

	vm := machine.New(stdio.Stdout, cfg.toMachineConfig())
	if err := vm.Interpret(string(source)); err != nil {
		return reportInterpretError(stdio, err)
	}
	return exitSuccess
}

// reportInterpretError prints err and returns the exit code spec 6 assigns
// to its taxonomy: compile errors exit 65, runtime errors exit 70.
func reportInterpretError(stdio mainer.Stdio, err error) mainer.ExitCode {
	fmt.Fprintln(stdio.Stderr, err)
	if _, ok := err.(compiler.ErrorList); ok {
		return exitCompileError
	}
	return exitRuntimeError
}
