package funcparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseTree(t *testing.T, exp string) *ParsedFunction {
	f := New().
		SetVariableNames([]string{"x", "y", "z"}).
		SetParameterNames([]string{"a", "b", "k"}).
		SetParameterValues([]float64{1, 2, 3}).
		SetSimplifyAllowed(false)
	err := f.Parse(exp)
	assert.NoError(t, err, exp)
	return f
}

func TestParseTree(t *testing.T) {
	tests := []struct {
		exp  string
		tree string
	}{
		{exp: "1+2*3", tree: "1+(2*3)"},
		{exp: "1*2+3", tree: "(1*2)+3"},
		{exp: "1-2-3", tree: "(1-2)-3"},
		{exp: "1/2/4", tree: "(1/2)/4"},
		{exp: "2^3^2", tree: "2^(3^2)"},
		{exp: "-2^2", tree: "-(2^2)"},
		{exp: "2^-1", tree: "2^(-1)"},
		{exp: "((x+1))", tree: "x+1"},
		{exp: "(x+1)*(y+1)", tree: "(x+1)*(y+1)"},
		{exp: "x AND y OR z", tree: "(x AND y) OR z"},
		{exp: "NOT x AND y", tree: "(NOT x) AND y"},
		{exp: "x <= y", tree: "x<=y"},
		{exp: "x <> y", tree: "x<>y"},
		{exp: "x >= y OR x < y", tree: "(x>=y) OR (x<y)"},
		{exp: "sin(x)+cos(x)^2", tree: "SIN(x)+(COS(x)^2)"},
		{exp: "sqrt(a^2+b^2)", tree: "SQRT((a^2)+(b^2))"},
		{exp: "IF(x<0, -k*x, k*x)", tree: "IF(x<0, (-k)*x, k*x)"},
		{exp: "MIN(a, b)", tree: "MIN(a, b)"},
		{exp: "MAX(a, MIN(b, x))", tree: "MAX(a, MIN(b, x))"},
		{exp: "a MOD b", tree: "a MOD b"},
		{exp: "MOD(a, b)", tree: "MOD(a, b)"},
		{exp: "PI", tree: "3.141592653589793"},
		{exp: "--x", tree: "-(-x)"},
		{exp: "2--3", tree: "2-(-3)"},
		{exp: "1e-3+x", tree: "0.001+x"},
	}
	for _, test := range tests {
		test := test
		t.Run(test.exp, func(t *testing.T) {
			f := parseTree(t, test.exp)
			assert.Equal(t, test.tree, f.String())
		})
	}
}

// Parsing is deterministic: the same input yields the same tree.
func TestParseDeterminism(t *testing.T) {
	first := parseTree(t, "IF(x<0, -k*x, k*x) + sin(y)^2").String()
	second := parseTree(t, "IF(x<0, -k*x, k*x) + sin(y)^2").String()
	assert.Equal(t, first, second)
}

func TestParseCaseInsensitive(t *testing.T) {
	variants := []string{"sin(x)", "SIN(x)", "Sin(x)"}
	for _, v := range variants {
		assert.Equal(t, "SIN(x)", parseTree(t, v).String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		exp   string
		check func(t *testing.T, err error)
	}{
		{exp: "foo+1", check: func(t *testing.T, err error) {
			var e *UnknownIdentifierError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, "foo", e.Name)
			assert.Equal(t, 1, e.Pos())
		}},
		{exp: "1+foo", check: func(t *testing.T, err error) {
			var e *UnknownIdentifierError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, 3, e.Pos())
		}},
		{exp: "FOO(1)", check: func(t *testing.T, err error) {
			var e *UnknownFunctionError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, "FOO", e.Name)
			assert.Equal(t, 1, e.Pos())
		}},
		{exp: "sin(1,2)", check: func(t *testing.T, err error) {
			var e *ArityError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, "SIN", e.Function)
			assert.Equal(t, 1, e.Expected)
			assert.Equal(t, 2, e.Got)
		}},
		{exp: "MIN(1)", check: func(t *testing.T, err error) {
			var e *ArityError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, "MIN", e.Function)
			assert.Equal(t, 2, e.Expected)
			assert.Equal(t, 1, e.Got)
		}},
		{exp: "IF(1, 2)", check: func(t *testing.T, err error) {
			var e *ArityError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, "IF", e.Function)
			assert.Equal(t, 3, e.Expected)
		}},
		{exp: "sin(x", check: func(t *testing.T, err error) {
			var e *SyntaxError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, Unbalanced, e.Cause)
			assert.Equal(t, 6, e.Pos())
		}},
		{exp: "()", check: func(t *testing.T, err error) {
			var e *SyntaxError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, EmptySubexpression, e.Cause)
		}},
		{exp: "1+", check: func(t *testing.T, err error) {
			var e *SyntaxError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, EmptySubexpression, e.Cause)
			assert.Equal(t, 3, e.Pos())
		}},
		{exp: "sin(,)", check: func(t *testing.T, err error) {
			var e *SyntaxError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, EmptySubexpression, e.Cause)
		}},
		{exp: "*1", check: func(t *testing.T, err error) {
			var e *SyntaxError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, UnexpectedToken, e.Cause)
			assert.Equal(t, 1, e.Pos())
		}},
		{exp: "1#2", check: func(t *testing.T, err error) {
			var e *SyntaxError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, UnexpectedToken, e.Cause)
			assert.Equal(t, 2, e.Pos())
		}},
		{exp: "(x)(y)", check: func(t *testing.T, err error) {
			var e *SyntaxError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, UnexpectedToken, e.Cause)
		}},
		{exp: "1.2.3", check: func(t *testing.T, err error) {
			var e *SyntaxError
			assert.ErrorAs(t, err, &e)
			assert.Equal(t, UnexpectedToken, e.Cause)
		}},
	}
	for _, test := range tests {
		test := test
		t.Run(test.exp, func(t *testing.T) {
			f := New().
				SetVariableNames([]string{"x", "y"})
			err := f.Parse(test.exp)
			assert.Error(t, err)
			test.check(t, err)
		})
	}
}

func TestParseCaseSensitive(t *testing.T) {
	f := New().
		SetCaseSensitive(true).
		SetVariableNames([]string{"x"})

	assert.NoError(t, f.Parse("SIN(x)"))

	err := f.Parse("sin(x)")
	var fe *UnknownFunctionError
	assert.ErrorAs(t, err, &fe)

	err = f.Parse("SIN(X)")
	var ie *UnknownIdentifierError
	assert.ErrorAs(t, err, &ie)
	assert.Equal(t, "X", ie.Name)
}

func TestParseDepthLimit(t *testing.T) {
	f := New().
		SetMaxDepth(2)
	assert.NoError(t, f.Parse("1+2"))

	err := f.Parse("1+2*3^4")
	var de *DepthError
	assert.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Limit)
}
