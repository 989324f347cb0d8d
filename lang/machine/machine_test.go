package machine_test

import (
	"strings"
	"testing"

	"github.com/ico-lang/ico/lang/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string, cfg machine.Config) (string, error) {
	t.Helper()
	var out strings.Builder
	vm := machine.New(&out, cfg)
	err := vm.Interpret(src)
	return out.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`, machine.Config{})
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenationInterns(t *testing.T) {
	// strings compare by identity, so the second line is true only if the
	// concatenation returned the interned "hello" object
	out, err := run(t, `var a = "he"; var b = "llo"; print a + b; print a + b == "hello";`, machine.Config{})
	require.NoError(t, err)
	assert.Equal(t, "hello\ntrue\n", out)
}

func TestClosureCapturesAndClosesUpvalue(t *testing.T) {
	out, err := run(t, `
		fun make(x) {
			fun inner() { return x; }
			return inner;
		}
		var f = make(42);
		print f();
	`, machine.Config{})
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestWhileLoopPrintsEachIteration(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`, machine.Config{})
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestUnboundedRecursionOverflowsNamingTopFrame(t *testing.T) {
	_, err := run(t, `fun bad() { return bad(); } bad();`, machine.Config{})
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok, "expected *machine.RuntimeError, got %T", err)
	assert.Contains(t, rerr.Message, "stack overflow")
	assert.Contains(t, rerr.Error(), "in bad")
}

func TestUndefinedGlobalReadIsRuntimeError(t *testing.T) {
	_, err := run(t, `print undefined_name;`, machine.Config{})
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok, "expected *machine.RuntimeError, got %T", err)
	assert.Contains(t, rerr.Message, "undefined variable 'undefined_name'")
}

func TestAssignToUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := run(t, `undefined_name = 1;`, machine.Config{})
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok, "expected *machine.RuntimeError, got %T", err)
	assert.Contains(t, rerr.Message, "undefined variable 'undefined_name'")
}

func TestIntDivisionByZeroErrors(t *testing.T) {
	_, err := run(t, `print 1 / 0;`, machine.Config{})
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok, "expected *machine.RuntimeError, got %T", err)
	assert.Contains(t, rerr.Message, "integer division by zero")
}

func TestFloatDivisionByZeroProducesInf(t *testing.T) {
	out, err := run(t, `print 1.0 / 0.0;`, machine.Config{})
	require.NoError(t, err)
	assert.Equal(t, "+Inf\n", out)
}

func TestModuloRequiresIntegers(t *testing.T) {
	_, err := run(t, `print 1.5 % 1;`, machine.Config{})
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok, "expected *machine.RuntimeError, got %T", err)
	assert.Contains(t, rerr.Message, "operands must be two integers")
}

func TestPowerAlwaysPromotesToFloat(t *testing.T) {
	// an int 8 would divide by 16 to 0; the float 8 divides to 0.5
	out, err := run(t, `print 2 ^ 3 / 16;`, machine.Config{})
	require.NoError(t, err)
	assert.Equal(t, "0.5\n", out)
}

func TestIntFloatEqualityPromotes(t *testing.T) {
	out, err := run(t, `print 1 == 1.0;`, machine.Config{})
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestAddRejectsMixedNumberAndString(t *testing.T) {
	_, err := run(t, `print 1 + "x";`, machine.Config{})
	require.Error(t, err)
	rerr, ok := err.(*machine.RuntimeError)
	require.True(t, ok, "expected *machine.RuntimeError, got %T", err)
	assert.Contains(t, rerr.Message, "operands must be two numbers or two strings")
}

func TestNativeClockAndStrAndWrite(t *testing.T) {
	out, err := run(t, `
		write(str(1 + 1));
		write(" ");
		print clock() >= 0.0;
	`, machine.Config{})
	require.NoError(t, err)
	assert.Equal(t, "2 true\n", out)
}

// TestGCStressMatchesNonStressOutput checks invariant I1: running the same
// program with GC stress enabled produces identical output to running it
// with GC disabled.
func TestGCStressMatchesNonStressOutput(t *testing.T) {
	src := `
		fun make(x) {
			fun inner() { return x; }
			return inner;
		}
		var a = "he" + "llo";
		var f = make(a);
		var i = 0;
		while (i < 5) {
			print f();
			i = i + 1;
		}
	`
	normal, err := run(t, src, machine.Config{})
	require.NoError(t, err)

	stressed, err := run(t, src, machine.Config{GCStress: true})
	require.NoError(t, err)

	assert.Equal(t, normal, stressed)
}

func TestResetAfterRuntimeErrorAllowsFurtherInterpretCalls(t *testing.T) {
	var out strings.Builder
	vm := machine.New(&out, machine.Config{})

	err := vm.Interpret(`print undefined_name;`)
	require.Error(t, err)

	out.Reset()
	err = vm.Interpret(`print 1 + 1;`)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out.String())
}
