package minimize_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvrusso/dflib/minimize"
)

// quadraticBowl is f(x,y) = (x-cx)^2 + 2*(y-cy)^2, a simple double for
// exercising the minimizers without any bearing math.
type quadraticBowl struct {
	cx, cy float64
	p      []float64
}

func (q *quadraticBowl) Dim() int { return 2 }

func (q *quadraticBowl) SetEvaluationPoint(p []float64) {
	q.p = []float64{p[0], p[1]}
}

func (q *quadraticBowl) Value() (float64, error) {
	dx := q.p[0] - q.cx
	dy := q.p[1] - q.cy
	return dx*dx + 2*dy*dy, nil
}

func (q *quadraticBowl) ValueAndGradient() (float64, []float64, error) {
	f, _ := q.Value()
	dx := q.p[0] - q.cx
	dy := q.p[1] - q.cy
	return f, []float64{2 * dx, 4 * dy}, nil
}

func (q *quadraticBowl) ValueAndHessian() (float64, []float64, [][]float64, error) {
	f, grad, _ := q.ValueAndGradient()
	return f, grad, [][]float64{{2, 0}, {0, 4}}, nil
}

// rosenbrock is the classic banana-valley function, pathological for naive
// line-search-based methods.
type rosenbrock struct {
	p []float64
}

func (r *rosenbrock) Dim() int { return 2 }
func (r *rosenbrock) SetEvaluationPoint(p []float64) {
	r.p = []float64{p[0], p[1]}
}
func (r *rosenbrock) Value() (float64, error) {
	x, y := r.p[0], r.p[1]
	a := 1 - x
	b := y - x*x
	return a*a + 100*b*b, nil
}
func (r *rosenbrock) ValueAndGradient() (float64, []float64, error) {
	x, y := r.p[0], r.p[1]
	f, _ := r.Value()
	dfdx := -2*(1-x) - 400*x*(y-x*x)
	dfdy := 200 * (y - x*x)
	return f, []float64{dfdx, dfdy}, nil
}
func (r *rosenbrock) ValueAndHessian() (float64, []float64, [][]float64, error) {
	f, grad, _ := r.ValueAndGradient()
	return f, grad, [][]float64{{0, 0}, {0, 0}}, nil
}

func TestLineSearchFindsQuadraticMinimumAlongAxis(t *testing.T) {
	q := &quadraticBowl{cx: 3, cy: -2}
	xmin, fmin, err := minimize.LineSearch(q, []float64{0, -2}, []float64{1, 0}, 1.0, 1e-6)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, xmin[0], 1e-3)
	assert.InDelta(t, -2.0, xmin[1], 1e-9)
	assert.InDelta(t, 0.0, fmin, 1e-6)
}

func TestConjugateGradientQuadraticBowl(t *testing.T) {
	q := &quadraticBowl{cx: 5, cy: 7}
	xmin, fmin, iters, err := minimize.ConjugateGradient(q, []float64{0, 0}, 1e-8)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, xmin[0], 1e-3)
	assert.InDelta(t, 7.0, xmin[1], 1e-3)
	assert.Less(t, fmin, 1e-4)
	assert.Greater(t, iters, 0)
}

func TestConjugateGradientIdempotent(t *testing.T) {
	q := &quadraticBowl{cx: 5, cy: 7}
	xmin, _, _, err := minimize.ConjugateGradient(q, []float64{0, 0}, 1e-8)
	require.NoError(t, err)

	xmin2, _, iters2, err := minimize.ConjugateGradient(q, xmin, 1e-8)
	require.NoError(t, err)
	assert.InDelta(t, xmin[0], xmin2[0], 1e-6)
	assert.InDelta(t, xmin[1], xmin2[1], 1e-6)
	assert.LessOrEqual(t, iters2, 1)
}

func TestNelderMeadQuadraticBowl(t *testing.T) {
	q := &quadraticBowl{cx: -3, cy: 4}
	xmin, fmin, _, err := minimize.NelderMead(q, []float64{0, 0}, 1.0, 1e-10, 500)
	require.NoError(t, err)
	assert.InDelta(t, -3.0, xmin[0], 1e-2)
	assert.InDelta(t, 4.0, xmin[1], 1e-2)
	assert.Less(t, fmin, 1e-6)
}

func TestNelderMeadRosenbrock(t *testing.T) {
	r := &rosenbrock{}
	xmin, fmin, _, err := minimize.NelderMead(r, []float64{-1.2, 1}, 0.5, 1e-10, 2000)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, xmin[0], 0.05)
	assert.InDelta(t, 1.0, xmin[1], 0.05)
	assert.Less(t, fmin, 1e-3)
}

func TestConjugateGradientPropagatesEvaluationError(t *testing.T) {
	failing := &failingFunc{}
	_, _, _, err := minimize.ConjugateGradient(failing, []float64{0, 0}, 1e-8)
	assert.Error(t, err)
}

// failingFunc always reports a nonzero gradient so ConjugateGradient
// proceeds past its initial convergence check, then fails on evaluation,
// exercising the error-propagation path rather than a numerically fragile
// divergence scenario.
type failingFunc struct{ p []float64 }

func (c *failingFunc) Dim() int                       { return 2 }
func (c *failingFunc) SetEvaluationPoint(p []float64) { c.p = p }
func (c *failingFunc) Value() (float64, error) {
	return 0, errors.New("evaluation always fails")
}
func (c *failingFunc) ValueAndGradient() (float64, []float64, error) {
	return 1.0, []float64{1.0, 1.0}, nil
}
func (c *failingFunc) ValueAndHessian() (float64, []float64, [][]float64, error) {
	return 1.0, []float64{1.0, 1.0}, [][]float64{{0, 0}, {0, 0}}, nil
}

func TestBracketRespectsMathNaN(t *testing.T) {
	q := &quadraticBowl{cx: math.NaN(), cy: 0}
	_, _, err := minimize.LineSearch(q, []float64{0, 0}, []float64{1, 0}, 1.0, 1e-6)
	// NaN center produces NaN function values (no error) along the
	// line; Brent's method should not panic, though it cannot converge to
	// a sensible answer. We only assert it returns without panicking.
	_ = err
}
