package value_test

import (
	"testing"

	"github.com/ico-lang/ico/lang/value"
	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	assert.False(t, value.Null().Truthy())
	assert.False(t, value.Bool(false).Truthy())
	assert.True(t, value.Bool(true).Truthy())
	assert.True(t, value.Int(0).Truthy())
	assert.True(t, value.Float(0).Truthy())
	assert.True(t, value.FromObject(value.NewString("")).Truthy())
}

func TestEqualPrimitives(t *testing.T) {
	assert.True(t, value.Int(1).Equal(value.Int(1)))
	assert.False(t, value.Int(1).Equal(value.Int(2)))
	assert.True(t, value.Null().Equal(value.Null()))
	assert.False(t, value.Null().Equal(value.Bool(false)))
}

func TestEqualNumericPromotion(t *testing.T) {
	assert.True(t, value.Int(1).Equal(value.Float(1.0)))
	assert.False(t, value.Int(1).Equal(value.Float(1.5)))
}

func TestEqualStringsByIdentity(t *testing.T) {
	a := value.FromObject(value.NewString("hello"))
	b := value.FromObject(value.NewString("hello"))
	// two distinct, non-interned ObjString allocations with equal content are
	// NOT equal: interning (via the table package) is what's responsible for
	// making content-equal strings share identity.
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "null", value.Null().TypeName())
	assert.Equal(t, "int", value.Int(1).TypeName())
	assert.Equal(t, "string", value.FromObject(value.NewString("x")).TypeName())
}
