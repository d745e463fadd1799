package funcparser

import (
	"math"
	"strings"
)

// Category groups the catalogue entries. It is purely descriptive
// except for Logical and Conditional, which select special evaluation
// rules (boolean operand checks, short-circuiting).
type Category int

const (
	Arithmetic Category = iota
	Trigonometric
	Hyperbolic
	Transcendental
	Rounding
	Comparison
	Logical
	Conditional
)

func (c Category) String() string {
	switch c {
	case Arithmetic:
		return "arithmetic"
	case Trigonometric:
		return "trigonometric"
	case Hyperbolic:
		return "hyperbolic"
	case Transcendental:
		return "transcendental"
	case Rounding:
		return "rounding"
	case Comparison:
		return "comparison"
	case Logical:
		return "logical"
	default:
		return "conditional"
	}
}

// Entry describes one elementary function or operator. Entries are
// immutable after catalogue construction and shared by all trees.
type Entry struct {
	// Name is the canonical upper-case name, e.g. "SIN" or "+".
	Name string
	// Symbol is the infix or prefix spelling used by the textual dump.
	// Empty for entries that dump in call form.
	Symbol string
	// Args gives the number of operands, 1 to 3.
	Args     int
	Category Category
	// Eval receives the already evaluated operands and the comparison
	// tolerance of the node it is attached to.
	Eval func(a []float64, tol float64) (float64, error)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// asBool accepts 0 and 1 up to the given tolerance. Anything else is
// not a boolean.
func asBool(v, tol float64) (bool, bool) {
	if math.Abs(v) <= tol {
		return false, true
	}
	if math.Abs(v-1) <= tol {
		return true, true
	}
	return false, false
}

var catalogue = buildCatalogue()

func buildCatalogue() map[string]*Entry {
	c := map[string]*Entry{}
	add := func(e *Entry) {
		c[e.Name] = e
	}
	simple := func(name string, cat Category, f func(float64) float64) {
		add(&Entry{Name: name, Args: 1, Category: cat,
			Eval: func(a []float64, _ float64) (float64, error) {
				return f(a[0]), nil
			}})
	}
	checked := func(name string, cat Category, f func(float64) (float64, error)) {
		add(&Entry{Name: name, Args: 1, Category: cat,
			Eval: func(a []float64, _ float64) (float64, error) {
				return f(a[0])
			}})
	}
	binary := func(name string, f func(a, b float64) (float64, error)) {
		add(&Entry{Name: name, Symbol: name, Args: 2, Category: Arithmetic,
			Eval: func(a []float64, _ float64) (float64, error) {
				return f(a[0], a[1])
			}})
	}
	compare := func(name string, f func(a, b, tol float64) bool) {
		add(&Entry{Name: name, Symbol: name, Args: 2, Category: Comparison,
			Eval: func(a []float64, tol float64) (float64, error) {
				return boolToFloat(f(a[0], a[1], tol)), nil
			}})
	}

	simple("SIN", Trigonometric, math.Sin)
	simple("COS", Trigonometric, math.Cos)
	simple("TAN", Trigonometric, math.Tan)
	checked("ASIN", Trigonometric, func(x float64) (float64, error) {
		if x < -1 || x > 1 {
			return 0, domainError("ASIN", x)
		}
		return math.Asin(x), nil
	})
	checked("ACOS", Trigonometric, func(x float64) (float64, error) {
		if x < -1 || x > 1 {
			return 0, domainError("ACOS", x)
		}
		return math.Acos(x), nil
	})
	simple("ATAN", Trigonometric, math.Atan)
	simple("SINH", Hyperbolic, math.Sinh)
	simple("COSH", Hyperbolic, math.Cosh)
	simple("TANH", Hyperbolic, math.Tanh)
	simple("EXP", Transcendental, math.Exp)
	ln := func(name string) func(float64) (float64, error) {
		return func(x float64) (float64, error) {
			if x <= 0 {
				return 0, domainError(name, x)
			}
			return math.Log(x), nil
		}
	}
	checked("LN", Transcendental, ln("LN"))
	// LOG is the natural logarithm, like in the source catalogue.
	checked("LOG", Transcendental, ln("LOG"))
	checked("LOG10", Transcendental, func(x float64) (float64, error) {
		if x <= 0 {
			return 0, domainError("LOG10", x)
		}
		return math.Log10(x), nil
	})
	checked("SQRT", Transcendental, func(x float64) (float64, error) {
		if x < 0 {
			return 0, domainError("SQRT", x)
		}
		return math.Sqrt(x), nil
	})
	simple("ABS", Arithmetic, math.Abs)
	simple("CEILING", Rounding, math.Ceil)
	simple("FLOOR", Rounding, math.Floor)
	// INT truncates toward zero.
	simple("INT", Rounding, math.Trunc)

	add(&Entry{Name: "UMINUS", Symbol: "-", Args: 1, Category: Arithmetic,
		Eval: func(a []float64, _ float64) (float64, error) {
			return -a[0], nil
		}})
	add(&Entry{Name: "UPLUS", Symbol: "+", Args: 1, Category: Arithmetic,
		Eval: func(a []float64, _ float64) (float64, error) {
			return a[0], nil
		}})

	binary("+", func(a, b float64) (float64, error) { return a + b, nil })
	binary("-", func(a, b float64) (float64, error) { return a - b, nil })
	binary("*", func(a, b float64) (float64, error) { return a * b, nil })
	binary("/", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, domainError("/", a, b)
		}
		return a / b, nil
	})
	binary("^", func(a, b float64) (float64, error) {
		if a == 0 {
			if b == 0 {
				return 1, nil
			}
			if b < 0 {
				return 0, domainError("^", a, b)
			}
		}
		r := math.Pow(a, b)
		if math.IsNaN(r) {
			return 0, domainError("^", a, b)
		}
		return r, nil
	})
	binary("MIN", func(a, b float64) (float64, error) { return math.Min(a, b), nil })
	binary("MAX", func(a, b float64) (float64, error) { return math.Max(a, b), nil })
	binary("MOD", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, domainError("MOD", a, b)
		}
		return math.Mod(a, b), nil
	})
	// MIN and MAX only occur in call form; infix MOD keeps its word.
	c["MIN"].Symbol = ""
	c["MAX"].Symbol = ""
	c["MOD"].Symbol = " MOD "

	// Equality holds within the tolerance; the orderings are strict
	// beyond it, so a<b, a=b and a>b stay mutually exclusive.
	compare("=", func(a, b, tol float64) bool { return math.Abs(a-b) <= tol })
	compare("<>", func(a, b, tol float64) bool { return math.Abs(a-b) > tol })
	compare("<", func(a, b, tol float64) bool { return b-a > tol })
	compare("<=", func(a, b, tol float64) bool { return a-b <= tol })
	compare(">", func(a, b, tol float64) bool { return a-b > tol })
	compare(">=", func(a, b, tol float64) bool { return b-a <= tol })

	logical := func(name string, f func(a, b bool) bool) {
		add(&Entry{Name: name, Symbol: " " + name + " ", Args: 2, Category: Logical,
			Eval: func(a []float64, tol float64) (float64, error) {
				ab, aOk := asBool(a[0], tol)
				bb, bOk := asBool(a[1], tol)
				if !aOk || !bOk {
					return 0, domainError(name, a...)
				}
				return boolToFloat(f(ab, bb)), nil
			}})
	}
	logical("AND", func(a, b bool) bool { return a && b })
	logical("OR", func(a, b bool) bool { return a || b })
	add(&Entry{Name: "NOT", Symbol: "NOT ", Args: 1, Category: Logical,
		Eval: func(a []float64, tol float64) (float64, error) {
			b, ok := asBool(a[0], tol)
			if !ok {
				return 0, domainError("NOT", a[0])
			}
			return boolToFloat(!b), nil
		}})

	add(&Entry{Name: "IF", Args: 3, Category: Conditional,
		Eval: func(a []float64, tol float64) (float64, error) {
			b, ok := asBool(a[0], tol)
			if !ok {
				return 0, domainError("IF", a[0])
			}
			if b {
				return a[1], nil
			}
			return a[2], nil
		}})

	return c
}

// lookupEntry resolves a catalogue entry by name. With caseSensitive
// set only the canonical upper-case spelling matches.
func lookupEntry(name string, caseSensitive bool) (*Entry, bool) {
	if !caseSensitive {
		name = strings.ToUpper(name)
	}
	e, ok := catalogue[name]
	return e, ok
}
