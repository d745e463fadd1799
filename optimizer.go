package funcparser

// fold collapses every subtree that does not depend on a variable into
// a constant, given the current parameter values. Parameter references
// become constants first; any node whose children all folded is then
// evaluated once. A subtree whose folding would raise a domain error
// is left as it is, so the error surfaces at evaluation time if the
// subtree is actually reached.
//
// fold works in place and returns the replacement node. Callers that
// need to keep the original tree clone it first.
func (n *node) fold(params []float64, numericLogic bool) *node {
	switch n.kind {
	case nConstant, nVariable:
		return n
	case nParameter:
		return &node{kind: nConstant, value: params[n.index], name: n.name}
	case nConditional:
		n.a = n.a.fold(params, numericLogic)
		n.b = n.b.fold(params, numericLogic)
		n.c = n.c.fold(params, numericLogic)
		if n.a.kind == nConstant {
			if cond, ok := asBool(n.a.value, n.tol); ok {
				if cond {
					return n.b
				}
				return n.c
			}
		}
		return n
	default:
		allConst := true
		for _, child := range []**node{&n.a, &n.b, &n.c} {
			if *child == nil {
				break
			}
			*child = (*child).fold(params, numericLogic)
			if (*child).kind != nConstant {
				allConst = false
			}
		}
		if !allConst {
			return n
		}
		v, err := n.evaluate(nil, params, numericLogic)
		if err != nil {
			return n
		}
		return &node{kind: nConstant, value: v}
	}
}
