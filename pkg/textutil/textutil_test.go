package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBinary_EmptyData(t *testing.T) {
	t.Parallel()

	assert.False(t, IsBinary(nil))
	assert.False(t, IsBinary([]byte{}))
}

func TestIsBinary_PureText(t *testing.T) {
	t.Parallel()

	assert.False(t, IsBinary([]byte("hello world\n")))
}

func TestIsBinary_NullByte(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBinary([]byte("hello\x00world")))
}

func TestIsBinary_NullBeyondSniffBoundary(t *testing.T) {
	t.Parallel()

	data := make([]byte, BinarySniffLength+100)
	for i := range data {
		data[i] = 'a'
	}

	data[BinarySniffLength+50] = 0x00

	assert.False(t, IsBinary(data))
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, CountLines(""))
	assert.Equal(t, 1, CountLines("one"))
	assert.Equal(t, 1, CountLines("one\n"))
	assert.Equal(t, 2, CountLines("one\ntwo"))
	assert.Equal(t, 3, CountLines("a\nb\nc\n"))
}

func TestIsCodeLine(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCodeLine("x := 1"))
	assert.False(t, IsCodeLine(""))
	assert.False(t, IsCodeLine("// comment"))
	assert.False(t, IsCodeLine("# comment"))
	assert.False(t, IsCodeLine("/* block"))
}

func TestCodeLines_FiltersAndTrims(t *testing.T) {
	t.Parallel()

	src := "  a := 1\n\n// note\n\tb := 2\n# python style\n"

	assert.Equal(t, []string{"a := 1", "b := 2"}, CodeLines(src))
}

func TestCodeLines_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, CodeLines(""))
	assert.Empty(t, CodeLines("\n\n// only comments\n"))
}
