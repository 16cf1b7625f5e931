package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBraceExtractor_ExtractFunctions(t *testing.T) {
	extractor := NewBraceExtractor()

	t.Run("three signature shapes", func(t *testing.T) {
		content := `function add(a, b) {
  return a + b;
}

const mul = function (a, b) {
  return a * b;
};

const sub = (a, b) => {
  if (a > b) {
    return a - b;
  }
  return b - a;
};

const inc = x => x + 1;
`
		functions := extractor.ExtractFunctions(content)
		require.Len(t, functions, 4)

		assert.Equal(t, "add", functions[0].Name)
		assert.Equal(t, []string{"a", "b"}, functions[0].Parameters)
		assert.Equal(t, 1, functions[0].StartLine)
		assert.Equal(t, 3, functions[0].EndLine)
		assert.Equal(t, 3, functions[0].Length())
		assert.Equal(t, 0, functions[0].NestingDepth)

		assert.Equal(t, "mul", functions[1].Name)
		assert.Equal(t, 5, functions[1].StartLine)
		assert.Equal(t, 7, functions[1].EndLine)

		assert.Equal(t, "sub", functions[2].Name)
		assert.Equal(t, []string{"a", "b"}, functions[2].Parameters)
		assert.Equal(t, 9, functions[2].StartLine)
		assert.Equal(t, 14, functions[2].EndLine)
		assert.Equal(t, 6, functions[2].Length())
		assert.Equal(t, 1, functions[2].NestingDepth)

		assert.Equal(t, "inc", functions[3].Name)
		assert.Equal(t, []string{"x"}, functions[3].Parameters)
		assert.Equal(t, 0, functions[3].Length())
		assert.Equal(t, 16, functions[3].EndLine)
	})

	t.Run("named function expression is reported once", func(t *testing.T) {
		content := "const handler = function onClick(e) {\n  return e;\n};\n"
		functions := extractor.ExtractFunctions(content)
		require.Len(t, functions, 1)
		assert.Equal(t, "handler", functions[0].Name)
		assert.Equal(t, []string{"e"}, functions[0].Parameters)
	})

	t.Run("declaration without body", func(t *testing.T) {
		content := "function declared(a: string): void;\nlet x = 1;\n"
		functions := extractor.ExtractFunctions(content)
		require.Len(t, functions, 1)
		assert.Equal(t, "declared", functions[0].Name)
		assert.Empty(t, functions[0].BodyLines)
	})

	t.Run("default parameters with braces", func(t *testing.T) {
		content := "function f(a, opts = {x: 1, y: 2}, [c, d]) {}\n"
		functions := extractor.ExtractFunctions(content)
		require.Len(t, functions, 1)
		assert.Equal(t, []string{"a", "opts = {x: 1, y: 2}", "[c, d]"}, functions[0].Parameters)
		assert.Equal(t, 1, functions[0].Length())
	})

	t.Run("async arrow and parenthesized expression", func(t *testing.T) {
		content := `const total = (a + b) * 2;
const load = async (url) => {
  return fetch(url);
};
`
		functions := extractor.ExtractFunctions(content)
		require.Len(t, functions, 1)
		assert.Equal(t, "load", functions[0].Name)
		assert.Equal(t, []string{"url"}, functions[0].Parameters)
		assert.Equal(t, 2, functions[0].StartLine)
		assert.Equal(t, 3, functions[0].Length())
	})

	t.Run("unterminated body runs to the end", func(t *testing.T) {
		content := "function broken() {\n  if (x) {\n    y();\n"
		functions := extractor.ExtractFunctions(content)
		require.Len(t, functions, 1)
		assert.Equal(t, 4, functions[0].Length())
	})

	t.Run("nested function", func(t *testing.T) {
		content := `function outer() {
  function inner() {
    return 1;
  }
  return inner();
}
`
		functions := extractor.ExtractFunctions(content)
		require.Len(t, functions, 2)
		assert.Equal(t, "outer", functions[0].Name)
		assert.Equal(t, 6, functions[0].Length())
		assert.Equal(t, "inner", functions[1].Name)
		assert.Equal(t, 2, functions[1].StartLine)
		assert.Equal(t, 3, functions[1].Length())
	})
}
