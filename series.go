package funcparser

import "github.com/hneemann/iterator"

// EvaluateSeries runs the parsed function over a stream of argument
// vectors and yields one result per vector. The producer is lazy; a
// failing evaluation stops the stream with its error. This is the
// high-frequency host case: one parse, one pass over a time grid.
func (f *ParsedFunction) EvaluateSeries(args iterator.Producer[[]float64]) iterator.Producer[float64] {
	return iterator.Map(args, func(_ int, a []float64) (float64, error) {
		return f.Evaluate(a)
	})
}

// EvaluateGrid evaluates every argument vector of the grid and returns
// the results as a slice.
func (f *ParsedFunction) EvaluateGrid(grid [][]float64) ([]float64, error) {
	return iterator.ToSlice(f.EvaluateSeries(iterator.Slice(grid)))
}
