package chunk_test

import (
	"testing"

	"github.com/ico-lang/ico/lang/chunk"
	"github.com/ico-lang/ico/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndLineAt(t *testing.T) {
	var c chunk.Chunk
	c.WriteOp(chunk.OpNull, 1)
	c.WriteOp(chunk.OpReturn, 2)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, c.LineAt(0))
	assert.Equal(t, 2, c.LineAt(1))
}

func TestAddConstantLimit(t *testing.T) {
	var c chunk.Chunk
	for i := 0; i < chunk.MaxConstants; i++ {
		idx, err := c.AddConstant(value.Int(int64(i)))
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	_, err := c.AddConstant(value.Int(999))
	require.Error(t, err)
	assert.Equal(t, "too many constants in one chunk", err.Error())
}

func TestFunctionStringUsesName(t *testing.T) {
	fn := chunk.NewFunction()
	assert.Equal(t, "<script>", fn.String())
	fn.Name = value.NewString("make")
	assert.Equal(t, "<fn make>", fn.String())
}

func TestClosureUpvalueSizing(t *testing.T) {
	fn := chunk.NewFunction()
	fn.UpvalueCount = 2
	cl := chunk.NewClosure(fn)
	assert.Len(t, cl.Upvalues, 2)
}
