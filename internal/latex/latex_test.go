package latex

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapDocument(t *testing.T) {
	doc := WrapDocument("\\begin{align}\nx &= 1\n\\end{align}")

	assert.True(t, strings.HasPrefix(doc, "\\documentclass"))
	assert.Contains(t, doc, "\\usepackage{amsmath}")
	assert.Contains(t, doc, "\\begin{align}")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(doc), "\\end{document}"))
}

func TestCompile_MissingBinary(t *testing.T) {
	c := &Compiler{Binary: "definitely-not-a-latex-binary"}

	_, err := c.Compile(context.Background(), WrapDocument("\\begin{align}x\\end{align}"))
	require.Error(t, err)
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "d\ne", lastLines("a\nb\nc\nd\ne", 2))
	assert.Equal(t, "a", lastLines("a", 3))
}
