// Package minimize implements generic, derivative-aware minimization
// routines — bracketed line search, Polak-Ribiere conjugate gradients and
// a Nelder-Mead downhill simplex — over any MinimizableGroup. It knows
// nothing about bearings or receivers: package collection supplies the
// cost surface by implementing Group, decoupling the minimizer from any
// notion of bearings or receivers so it can be exercised with plain test
// doubles (quadratic bowls, Rosenbrock) just as easily as real DF data.
package minimize

// Group is the abstract cost-function surface the minimizers operate on.
// Implementations are expected to memoize Value/Gradient/Hessian at the
// current evaluation point and invalidate that cache on every call to
// SetEvaluationPoint.
type Group interface {
	// Dim returns the dimensionality of the evaluation point.
	Dim() int
	// SetEvaluationPoint moves the surface's current point and invalidates
	// any cached value/gradient/Hessian.
	SetEvaluationPoint(p []float64)
	// Value returns the function value at the current evaluation point.
	Value() (float64, error)
	// ValueAndGradient returns the function value and gradient at the
	// current evaluation point.
	ValueAndGradient() (f float64, grad []float64, err error)
	// ValueAndHessian returns the function value, gradient and Hessian at
	// the current evaluation point.
	ValueAndHessian() (f float64, grad []float64, hess [][]float64, err error)
}
