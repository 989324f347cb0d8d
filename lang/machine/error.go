package machine

import (
	"fmt"
	"strconv"
	"strings"
)

// frameTrace is one line of a runtime stack trace: the line number at the
// point of failure and the name of the function running at that point
// ("script" for the top-level frame), innermost first.
type frameTrace struct {
	line int
	name string
}

// RuntimeError is the concrete error type every failure inside the dispatch
// loop surfaces as (spec 4.3 "Runtime error reporting", spec 7 "Runtime
// errors"). It carries the offending message plus the call-frame trace
// captured at the moment of failure, innermost frame first.
type RuntimeError struct {
	Message string
	Trace   []frameTrace
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, f := range e.Trace {
		b.WriteString("\n[line ")
		b.WriteString(strconv.Itoa(f.line))
		b.WriteString("] in ")
		b.WriteString(f.name)
	}
	return b.String()
}

// runtimeError builds a *RuntimeError from the current call-frame stack,
// innermost frame first, using each frame's function name (or "script" for
// the top-level frame) and the line number at (ip - 1) in its chunk (spec
// 4.3 "Runtime error reporting"). It resets the VM's stack afterward so a
// REPL host can keep going (spec 7).
func (vm *VM) runtimeError(format string, args ...any) *RuntimeError {
	e := &RuntimeError{Message: fmt.Sprintf(format, args...)}
	for i := vm.frameCount - 1; i >= 0; i-- {
		fr := &vm.frames[i]
		name := "script"
		if fr.closure.Function.Name != nil {
			name = fr.closure.Function.Name.Chars()
		}
		e.Trace = append(e.Trace, frameTrace{
			line: fr.closure.Function.Chunk.LineAt(fr.ip - 1),
			name: name,
		})
	}
	vm.reset()
	return e
}
