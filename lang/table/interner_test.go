package table_test

import (
	"testing"

	"github.com/ico-lang/ico/lang/table"
	"github.com/ico-lang/ico/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternDeduplicatesByContent(t *testing.T) {
	var in table.Interner
	a := in.Intern("hello")
	b := in.Intern("hello")
	assert.Same(t, a, b)
	assert.Equal(t, 1, in.Len())
}

func TestInternDistinctContent(t *testing.T) {
	var in table.Interner
	a := in.Intern("foo")
	b := in.Intern("bar")
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, in.Len())
}

func TestRemoveUnmarkedDropsOnlyUnmarkedStrings(t *testing.T) {
	var in table.Interner
	kept := in.Intern("kept")
	dropped := in.Intern("dropped")

	kept.SetMarked(true)
	dropped.SetMarked(false)

	in.RemoveUnmarked()

	require.Equal(t, 1, in.Len())
	assert.Same(t, kept, in.Intern("kept"))
}

func TestInternerEach(t *testing.T) {
	var in table.Interner
	in.Intern("a")
	in.Intern("b")

	seen := map[string]bool{}
	in.Each(func(s *value.ObjString) { seen[s.Chars()] = true })
	assert.Equal(t, map[string]bool{"a": true, "b": true}, seen)
}
