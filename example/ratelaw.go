package example

import "github.com/kinemod/funcparser"

// rateLaw is a Michaelis-Menten rate law v = Vmax*S/(Km+S). The
// substrate concentration S is the per-call variable, the kinetic
// constants are parameters and fold away after parsing.
// see test cases for usage example
var rateLaw = funcparser.New().
	SetVariableNames([]string{"S"}).
	SetParameterNames([]string{"Vmax", "Km"}).
	SetParameterValues([]float64{10, 2})

// dosing describes first-order absorption that switches on after a
// lag time.
var dosing = funcparser.New().
	SetVariableNames([]string{"T"}).
	SetParameterNames([]string{"Dose", "KA", "TLag"}).
	SetParameterValues([]float64{100, 0.5, 1})
