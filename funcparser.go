// Package funcparser parses mathematical expressions into evaluable
// trees and evaluates them against numeric bindings. It is built for
// hosts that evaluate user-authored formulas, like reaction rate laws
// or dosing schedules, many times with changing variable values:
// parse once, evaluate often.
//
// An expression distinguishes variables, bound positionally on every
// Evaluate call, from parameters, bound once by name and eligible for
// constant folding. With simplification enabled, every subtree that
// depends only on parameters and literals is collapsed into a single
// constant after parsing.
package funcparser

import (
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds the nesting of parsed expressions.
const DefaultMaxDepth = 256

// ParsedFunction holds one expression together with its variable and
// parameter bindings and the parsed trees. A single instance must not
// be used from multiple goroutines at the same time; distinct
// instances are independent.
type ParsedFunction struct {
	variables       []string
	parameters      []string
	parameterValues []float64
	expression      string

	caseSensitive   bool
	simplifyAllowed bool
	logicalNumeric  bool
	tolerance       float64
	maxDepth        int

	tree       *node
	simplified *node
}

// New creates a ParsedFunction with the default policy: names match
// case-insensitively, simplification is enabled, comparisons are
// exact, logical operators evaluate both sides.
func New() *ParsedFunction {
	return &ParsedFunction{
		simplifyAllowed: true,
		maxDepth:        DefaultMaxDepth,
	}
}

// SetExpression sets the stored expression string reported by
// Expression. Parse replaces it with the expression passed to Parse.
func (f *ParsedFunction) SetExpression(expression string) *ParsedFunction {
	f.expression = expression
	return f
}

// SetVariableNames sets the ordered variable names. Their order fixes
// the order of the argument vector passed to Evaluate.
func (f *ParsedFunction) SetVariableNames(names []string) *ParsedFunction {
	f.variables = names
	return f
}

// SetParameterNames sets the ordered parameter names.
func (f *ParsedFunction) SetParameterNames(names []string) *ParsedFunction {
	f.parameters = names
	return f
}

// SetParameterValues sets the parameter values, parallel to the
// parameter names. Mutating values after a parse does not refresh the
// simplified tree; call RefreshSimplified or Parse again for that.
func (f *ParsedFunction) SetParameterValues(values []float64) *ParsedFunction {
	f.parameterValues = values
	return f
}

func (f *ParsedFunction) SetCaseSensitive(caseSensitive bool) *ParsedFunction {
	f.caseSensitive = caseSensitive
	return f
}

func (f *ParsedFunction) SetSimplifyAllowed(simplifyAllowed bool) *ParsedFunction {
	f.simplifyAllowed = simplifyAllowed
	return f
}

// SetLogicalNumericAllowed selects short-circuit order for the logical
// operators. Without it both sides are evaluated eagerly, so a domain
// error in either operand always surfaces.
func (f *ParsedFunction) SetLogicalNumericAllowed(logicalNumeric bool) *ParsedFunction {
	f.logicalNumeric = logicalNumeric
	return f
}

// SetComparisonTolerance sets the slack used by the comparison
// operators: values that differ by at most the tolerance count as
// equal, so a tolerance of 0 means exact equality. It is
// captured per node at parse time.
func (f *ParsedFunction) SetComparisonTolerance(tolerance float64) *ParsedFunction {
	f.tolerance = tolerance
	return f
}

// SetMaxDepth sets the nesting limit enforced during parse.
func (f *ParsedFunction) SetMaxDepth(maxDepth int) *ParsedFunction {
	f.maxDepth = maxDepth
	return f
}

func (f *ParsedFunction) Expression() string {
	return f.expression
}

func (f *ParsedFunction) VariableNames() []string {
	return f.variables
}

func (f *ParsedFunction) ParameterNames() []string {
	return f.parameters
}

func (f *ParsedFunction) ParameterValues() []float64 {
	return f.parameterValues
}

// Parse builds the expression tree from the current expression string
// and, if simplification is allowed, the folded tree as well. It is
// idempotent; both prior trees are discarded first.
func (f *ParsedFunction) Parse(expression string) (err error) {
	f.expression = expression
	f.tree = nil
	f.simplified = nil
	if err := f.checkNames(); err != nil {
		return err
	}
	if len(f.parameterValues) != len(f.parameters) {
		return &ParameterMismatchError{Names: len(f.parameters), Values: len(f.parameterValues)}
	}
	norm, err := normalize(f.expression, f.caseSensitive)
	if err != nil {
		return err
	}
	maxDepth := f.maxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser{
		norm:          norm,
		variables:     f.variables,
		parameters:    f.parameters,
		caseSensitive: f.caseSensitive,
		tolerance:     f.tolerance,
		maxDepth:      maxDepth,
	}
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = e
				f.tree = nil
				f.simplified = nil
			} else {
				panic(rec)
			}
		}
	}()
	f.tree = p.parse()
	if f.simplifyAllowed {
		f.simplified = f.tree.clone().fold(f.parameterValues, f.logicalNumeric)
	}
	return nil
}

// checkNames enforces that variable and parameter names are unique and
// that the two lists do not overlap.
func (f *ParsedFunction) checkNames() error {
	seen := make(map[string]struct{}, len(f.variables)+len(f.parameters))
	for _, name := range append(append([]string{}, f.variables...), f.parameters...) {
		key := name
		if !f.caseSensitive {
			key = strings.ToUpper(name)
		}
		if _, ok := seen[key]; ok {
			return &ContractError{Reason: "name '" + name + "' declared more than once"}
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Evaluate computes the expression for the given argument vector,
// ordered like the variable names. The simplified tree is used when
// present.
func (f *ParsedFunction) Evaluate(args []float64) (float64, error) {
	tree := f.simplified
	if tree == nil {
		tree = f.tree
	}
	return f.evaluateTree(tree, args)
}

// EvaluateUnsimplified always walks the original tree, ignoring the
// folded one.
func (f *ParsedFunction) EvaluateUnsimplified(args []float64) (float64, error) {
	return f.evaluateTree(f.tree, args)
}

func (f *ParsedFunction) evaluateTree(tree *node, args []float64) (float64, error) {
	if f.tree == nil {
		return 0, &ContractError{Reason: "Evaluate called without a successful Parse"}
	}
	if len(args) != len(f.variables) {
		return 0, &ContractError{Reason: "got " + strconv.Itoa(len(args)) +
			" argument(s) for " + strconv.Itoa(len(f.variables)) + " variable(s)"}
	}
	if len(f.parameterValues) != len(f.parameters) {
		return 0, &ParameterMismatchError{Names: len(f.parameters), Values: len(f.parameterValues)}
	}
	return tree.evaluate(args, f.parameterValues, f.logicalNumeric)
}

// RefreshSimplified rebuilds the folded tree from the original one and
// the current parameter values.
func (f *ParsedFunction) RefreshSimplified() error {
	if f.tree == nil {
		return &ContractError{Reason: "RefreshSimplified called without a successful Parse"}
	}
	if len(f.parameterValues) != len(f.parameters) {
		return &ParameterMismatchError{Names: len(f.parameters), Values: len(f.parameterValues)}
	}
	f.simplified = f.tree.clone().fold(f.parameterValues, f.logicalNumeric)
	return nil
}

// SimplifyInPlace folds the original tree itself, for callers that do
// not keep the unsimplified form. After the call both Evaluate and
// EvaluateUnsimplified walk the folded tree.
func (f *ParsedFunction) SimplifyInPlace() error {
	if f.tree == nil {
		return &ContractError{Reason: "SimplifyInPlace called without a successful Parse"}
	}
	if len(f.parameterValues) != len(f.parameters) {
		return &ParameterMismatchError{Names: len(f.parameters), Values: len(f.parameterValues)}
	}
	f.tree = f.tree.fold(f.parameterValues, f.logicalNumeric)
	f.simplified = nil
	return nil
}

// IsConstant reports whether the parsed expression depends on no
// variable, so every evaluation yields the same value for the current
// parameter values.
func (f *ParsedFunction) IsConstant() bool {
	return f.tree != nil && f.tree.isConstantOverVariables()
}

// String returns a textual dump of the parsed tree, or the empty
// string before a successful parse.
func (f *ParsedFunction) String() string {
	if f.tree == nil {
		return ""
	}
	return f.tree.String()
}
