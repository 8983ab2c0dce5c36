package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single no terminator", "x = 1", []string{"x = 1"}},
		{"single lf", "x = 1\n", []string{"x = 1"}},
		{"two lf", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"bare cr", "a\rb", []string{"a", "b"}},
		{"mixed", "a\r\nb\nc\r", []string{"a", "b", "c"}},
		{"interior blank", "a\n\nb", []string{"a", "", "b"}},
		{"only newline", "\n", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestCountBreaks(t *testing.T) {
	assert.Equal(t, 0, CountBreaks(""))
	assert.Equal(t, 0, CountBreaks("x = 1"))
	assert.Equal(t, 1, CountBreaks("x = 1\n"))
	assert.Equal(t, 1, CountBreaks("x = 1\r\n"))
	assert.Equal(t, 2, CountBreaks("a\r\nb\r"))
	assert.Equal(t, 3, CountBreaks("a\nb\nc\n"))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   \t"))
	assert.False(t, IsBlank("  x"))
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("3.11")
	assert.NoError(t, err)
	assert.Equal(t, Version{Major: 3, Minor: 11}, v)

	v, err = ParseVersion("3")
	assert.NoError(t, err)
	assert.Equal(t, Version{Major: 3}, v)

	_, err = ParseVersion("")
	assert.Error(t, err)
	_, err = ParseVersion("x.y")
	assert.Error(t, err)
}

func TestVersionAtLeast(t *testing.T) {
	v := Version{Major: 3, Minor: 10}
	assert.True(t, v.AtLeast(3, 10))
	assert.True(t, v.AtLeast(3, 9))
	assert.True(t, v.AtLeast(2, 7))
	assert.False(t, v.AtLeast(3, 11))
	assert.False(t, v.AtLeast(4, 0))
}

func TestNewSplitter(t *testing.T) {
	_, ok := NewSplitter(LangPython, Version{Major: 3, Minor: 12})
	assert.True(t, ok)

	// Python 2 has no bundled grammar.
	_, ok = NewSplitter(LangPython, Version{Major: 2, Minor: 7})
	assert.False(t, ok)

	_, ok = NewSplitter(LangGo, Version{Major: 1, Minor: 25})
	assert.True(t, ok)

	_, ok = NewSplitter(Language("cobol"), Version{Major: 1})
	assert.False(t, ok)
}
