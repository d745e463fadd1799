package funcparser

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// parser splits the normalized rune slice along the operator
// precedence ladder. It works on index ranges only and panics with the
// typed errors from errors.go; ParsedFunction.Parse recovers them.
type parser struct {
	norm          []rune
	variables     []string
	parameters    []string
	caseSensitive bool
	tolerance     float64
	maxDepth      int
}

var operatorEntryNames = map[rune]string{
	surOr:  "OR",
	surAnd: "AND",
	'=':    "=",
	surNeq: "<>",
	'<':    "<",
	surLeq: "<=",
	'>':    ">",
	surGeq: ">=",
	'+':    "+",
	'-':    "-",
	'*':    "*",
	'/':    "/",
	surMod: "MOD",
	'^':    "^",
}

var surrogateCalls = map[rune]string{
	surMin: "MIN",
	surMax: "MAX",
	surMod: "MOD",
	surIf:  "IF",
}

func (p *parser) parse() *node {
	return p.parseRange(0, len(p.norm), 0)
}

// parseRange parses norm[lo:hi]. Each precedence level looks for a
// splitting operator at parenthesis depth 0; left-associative levels
// split at the rightmost occurrence, the right-associative '^' at the
// leftmost. Both sides restart at the top of the ladder, which is
// equivalent because the whole range was already scanned for every
// lower level.
func (p *parser) parseRange(lo, hi, depth int) *node {
	if depth > p.maxDepth {
		panic(&DepthError{Limit: p.maxDepth})
	}
	lo, hi = p.stripOuterParens(lo, hi)
	if lo >= hi {
		panic(&SyntaxError{Cause: EmptySubexpression, Position: lo + 1})
	}
	if i := p.findSplit(lo, hi, surOr); i >= 0 {
		return p.binaryNode(lo, i, hi, depth)
	}
	if i := p.findSplit(lo, hi, surAnd); i >= 0 {
		return p.binaryNode(lo, i, hi, depth)
	}
	if p.norm[lo] == surNot {
		return p.unaryNode("NOT", lo, hi, depth)
	}
	if i := p.findSplit(lo, hi, '=', surNeq, '<', surLeq, '>', surGeq); i >= 0 {
		return p.binaryNode(lo, i, hi, depth)
	}
	if i := p.findSplit(lo, hi, '+', '-'); i >= 0 {
		return p.binaryNode(lo, i, hi, depth)
	}
	if i := p.findSplit(lo, hi, '*', '/', surMod); i >= 0 {
		return p.binaryNode(lo, i, hi, depth)
	}
	if p.norm[lo] == '-' {
		return p.unaryNode("UMINUS", lo, hi, depth)
	}
	if p.norm[lo] == '+' {
		return p.unaryNode("UPLUS", lo, hi, depth)
	}
	if i := p.findSplitLeftmost(lo, hi, '^'); i >= 0 {
		return p.binaryNode(lo, i, hi, depth)
	}
	return p.parsePrimary(lo, hi, depth)
}

func (p *parser) binaryNode(lo, i, hi, depth int) *node {
	return &node{
		kind:  nOperator,
		entry: catalogue[operatorEntryNames[p.norm[i]]],
		tol:   p.tolerance,
		a:     p.parseRange(lo, i, depth+1),
		b:     p.parseRange(i+1, hi, depth+1),
	}
}

func (p *parser) unaryNode(name string, lo, hi, depth int) *node {
	return &node{
		kind:  nOperator,
		entry: catalogue[name],
		tol:   p.tolerance,
		a:     p.parseRange(lo+1, hi, depth+1),
	}
}

// stripOuterParens removes a pair of parentheses wrapping the whole
// range. Only outermost pairs qualify: the depth must not return to
// zero before the last rune.
func (p *parser) stripOuterParens(lo, hi int) (int, int) {
	for hi-lo >= 2 && p.norm[lo] == '(' && p.matchParen(lo) == hi-1 {
		lo++
		hi--
	}
	return lo, hi
}

func (p *parser) matchParen(open int) int {
	depth := 0
	for k := open; k < len(p.norm); k++ {
		switch p.norm[k] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

// findSplit returns the rightmost depth-0 occurrence of one of the
// given operators in binary position, or -1.
func (p *parser) findSplit(lo, hi int, ops ...rune) int {
	found := -1
	depth := 0
	for i := lo; i < hi; i++ {
		switch r := p.norm[i]; r {
		case '(':
			depth++
		case ')':
			depth--
		default:
			if depth == 0 && containsRune(ops, r) && p.isBinaryPosition(lo, i) {
				found = i
			}
		}
	}
	return found
}

func (p *parser) findSplitLeftmost(lo, hi int, ops ...rune) int {
	depth := 0
	for i := lo; i < hi; i++ {
		switch r := p.norm[i]; r {
		case '(':
			depth++
		case ')':
			depth--
		default:
			if depth == 0 && containsRune(ops, r) && p.isBinaryPosition(lo, i) {
				return i
			}
		}
	}
	return -1
}

func containsRune(ops []rune, r rune) bool {
	for _, o := range ops {
		if o == r {
			return true
		}
	}
	return false
}

const operatorRunes = "+-*/^=<>,(" +
	string(surOr) + string(surAnd) + string(surNot) + string(surIf) +
	string(surMod) + string(surMin) + string(surMax) +
	string(surLeq) + string(surGeq) + string(surNeq)

// isBinaryPosition rejects operator occurrences that cannot split: at
// the start of the range, directly after another operator (there they
// are unary signs or call surrogates), or as the sign of a scientific
// notation exponent.
func (p *parser) isBinaryPosition(lo, i int) bool {
	if i == lo {
		return false
	}
	if strings.ContainsRune(operatorRunes, p.norm[i-1]) {
		return false
	}
	if (p.norm[i] == '+' || p.norm[i] == '-') && p.isExponentSign(lo, i) {
		return false
	}
	return true
}

// isExponentSign detects the sign inside literals like 2.5e-10: an
// 'e' directly before it that terminates a digit run starting at a
// token boundary, and a digit directly after it.
func (p *parser) isExponentSign(lo, i int) bool {
	if prev := p.norm[i-1]; prev != 'e' && prev != 'E' {
		return false
	}
	if i+1 >= len(p.norm) || !unicode.IsDigit(p.norm[i+1]) {
		return false
	}
	digits := false
	k := i - 2
	for k >= lo && (unicode.IsDigit(p.norm[k]) || p.norm[k] == '.') {
		digits = true
		k--
	}
	if !digits {
		return false
	}
	return k < lo || !isIdentPart(p.norm[k])
}

func (p *parser) parsePrimary(lo, hi, depth int) *node {
	r := p.norm[lo]
	switch {
	case unicode.IsDigit(r) || r == '.':
		return p.parseLiteral(lo, hi)
	case surrogateCalls[r] != "":
		return p.parseCall(surrogateCalls[r], lo, lo+1, hi, depth)
	case isIdentStart(r):
		j := lo + 1
		for j < hi && isIdentPart(p.norm[j]) {
			j++
		}
		name := string(p.norm[lo:j])
		if j < hi && p.norm[j] == '(' {
			if _, ok := lookupEntry(name, p.caseSensitive); !ok {
				panic(&UnknownFunctionError{Name: name, Position: lo + 1})
			}
			return p.parseCall(name, lo, j, hi, depth)
		}
		if j < hi {
			panic(&SyntaxError{Cause: UnexpectedToken, Position: j + 1, Token: string(p.norm[j])})
		}
		return p.resolveName(name, lo)
	default:
		panic(&SyntaxError{Cause: UnexpectedToken, Position: lo + 1, Token: string(r)})
	}
}

func (p *parser) parseLiteral(lo, hi int) *node {
	for k := lo; k < hi; k++ {
		switch r := p.norm[k]; {
		case unicode.IsDigit(r) || r == '.' || r == 'e' || r == 'E' || r == '+' || r == '-':
		default:
			panic(&SyntaxError{Cause: UnexpectedToken, Position: k + 1, Token: string(r)})
		}
	}
	v, err := strconv.ParseFloat(string(p.norm[lo:hi]), 64)
	if err != nil {
		panic(&SyntaxError{Cause: UnexpectedToken, Position: lo + 1, Token: string(p.norm[lo:hi])})
	}
	return &node{kind: nConstant, value: v}
}

// parseCall parses name(arg, arg, ...). open points at the opening
// parenthesis, which must close at hi-1.
func (p *parser) parseCall(name string, lo, open, hi, depth int) *node {
	if open >= hi || p.norm[open] != '(' {
		panic(&SyntaxError{Cause: UnexpectedToken, Position: open + 1})
	}
	if m := p.matchParen(open); m != hi-1 {
		panic(&SyntaxError{Cause: UnexpectedToken, Position: m + 2, Token: string(p.norm[m+1 : hi])})
	}
	args := p.parseArgs(open+1, hi-1, depth)
	entry, _ := lookupEntry(name, p.caseSensitive)
	if len(args) != entry.Args {
		panic(&ArityError{Function: entry.Name, Expected: entry.Args, Got: len(args), Position: lo + 1})
	}
	n := &node{kind: nFunctionCall, entry: entry, tol: p.tolerance}
	if entry.Category == Conditional {
		n.kind = nConditional
	}
	if len(args) > 0 {
		n.a = args[0]
	}
	if len(args) > 1 {
		n.b = args[1]
	}
	if len(args) > 2 {
		n.c = args[2]
	}
	return n
}

func (p *parser) parseArgs(lo, hi, depth int) []*node {
	if lo >= hi {
		return nil
	}
	var args []*node
	depthPar := 0
	start := lo
	for i := lo; i < hi; i++ {
		switch p.norm[i] {
		case '(':
			depthPar++
		case ')':
			depthPar--
		case ',':
			if depthPar == 0 {
				args = append(args, p.parseRange(start, i, depth+1))
				start = i + 1
			}
		}
	}
	return append(args, p.parseRange(start, hi, depth+1))
}

// resolveName resolves a plain identifier: reserved constant first,
// then variable, then parameter.
func (p *parser) resolveName(name string, lo int) *node {
	if p.nameEqual(name, "PI") {
		return &node{kind: nConstant, value: math.Pi}
	}
	if p.nameEqual(name, "E") {
		return &node{kind: nConstant, value: math.E}
	}
	if i := p.indexOf(p.variables, name); i >= 0 {
		return &node{kind: nVariable, index: i, name: name}
	}
	if i := p.indexOf(p.parameters, name); i >= 0 {
		return &node{kind: nParameter, index: i, name: name}
	}
	panic(&UnknownIdentifierError{Name: name, Position: lo + 1})
}

func (p *parser) nameEqual(a, b string) bool {
	if p.caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func (p *parser) indexOf(names []string, name string) int {
	for i, n := range names {
		if p.nameEqual(n, name) {
			return i
		}
	}
	return -1
}
