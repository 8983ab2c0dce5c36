package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeSplitter_Go(t *testing.T) {
	sp, ok := NewSplitter(LangGo, Version{Major: 1, Minor: 25})
	require.True(t, ok)

	t.Run("dedent is identity", func(t *testing.T) {
		in := "\tfunc f() {}\n"
		assert.Equal(t, in, sp.Dedent(in))
	})

	t.Run("complete declarations", func(t *testing.T) {
		assert.True(t, sp.Complete("var x = 1"))
		assert.True(t, sp.Complete("func f() {}\nfunc g() {}"))
		assert.False(t, sp.Complete("func f() {"))
	})

	t.Run("join splits top-level declarations", func(t *testing.T) {
		groups := sp.Join("var x = 1\nvar y = 2\n")
		assert.Equal(t, []string{"var x = 1", "var y = 2"}, groupTexts(groups))
	})

	t.Run("multi-line declaration stays one group", func(t *testing.T) {
		groups := sp.Join("func f() {\n\treturn\n}\nvar x = 1\n")
		assert.Equal(t, []string{"func f() {\n\treturn\n}", "var x = 1"}, groupTexts(groups))
	})

	t.Run("join is total on malformed input", func(t *testing.T) {
		groups := sp.Join("}}}\n")
		require.NotEmpty(t, groups)
		total := 0
		for _, g := range groups {
			total += g.Lines
		}
		assert.Equal(t, 1, total)
	})
}

func TestNodeSplitter_TypeScript(t *testing.T) {
	sp, ok := NewSplitter(LangTypeScript, Version{Major: 5})
	require.True(t, ok)

	assert.True(t, sp.Complete("const x = 1;"))
	assert.False(t, sp.Complete("function f() {"))

	groups := sp.Join("const x = 1;\nconst y = 2;\n")
	assert.Equal(t, []string{"const x = 1;", "const y = 2;"}, groupTexts(groups))
}

func TestNodeSplitter_Rust(t *testing.T) {
	sp, ok := NewSplitter(LangRust, Version{Major: 1})
	require.True(t, ok)

	assert.True(t, sp.Complete("fn main() {}"))
	assert.False(t, sp.Complete("fn main() {"))
}
