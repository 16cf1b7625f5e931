package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitParameters(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty list", raw: "", want: []string{}},
		{name: "whitespace only", raw: "  \n ", want: []string{}},
		{name: "simple", raw: "a, b,c", want: []string{"a", "b", "c"}},
		{name: "trailing comma", raw: "a,\n    b,\n", want: []string{"a", "b"}},
		{name: "defaults with nested commas", raw: "a, opts = {x: 1, y: 2}, [c, d]", want: []string{"a", "opts = {x: 1, y: 2}", "[c, d]"}},
		{name: "type annotations", raw: "self, items: Dict[str, int], *args, **kwargs", want: []string{"self", "items: Dict[str, int]", "*args", "**kwargs"}},
		{name: "generic types", raw: "m: Map<string, number>, n", want: []string{"m: Map<string, number>", "n"}},
		{name: "quoted comma", raw: `sep=",", end='\n'`, want: []string{`sep=","`, `end='\n'`}},
		{name: "arrow default does not unbalance", raw: "a, cb = () => 1, c", want: []string{"a", "cb = () => 1", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitParameters(tt.raw))
		})
	}
}

func TestMatchingParen(t *testing.T) {
	content := `f(a, g(b), ")") + 1`
	assert.Equal(t, 14, matchingParen(content, 1))
	assert.Equal(t, -1, matchingParen("f(a, b", 1))
}
