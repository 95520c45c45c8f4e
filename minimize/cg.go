package minimize

import (
	"math"

	"github.com/tvrusso/dflib/dferr"
)

const (
	cgMaxIterations  = 200
	cgLineSearchTol  = 1e-4
	cgInitialStep    = 1.0
	machineEpsilon   = 2.220446049250313e-16
)

// ConjugateGradient minimizes g starting from start using Polak-Ribiere
// conjugate gradients: direction d_k = -g_k + beta_k*d_{k-1}, restarting
// (beta=0) every Dim() iterations, line-searching along d_k at each step.
// Terminates when the gradient norm falls below gradTol or the relative
// change in f falls below 2*machineEpsilon. Returns the minimizing point,
// the function value there, and the iteration count.
func ConjugateGradient(g Group, start []float64, gradTol float64) (xmin []float64, fmin float64, iterations int, err error) {
	n := g.Dim()
	x := cloneVec(start)

	g.SetEvaluationPoint(x)
	f, grad, err := g.ValueAndGradient()
	if err != nil {
		return nil, 0, 0, err
	}

	dir := negate(grad)

	for iter := 0; iter < cgMaxIterations; iter++ {
		if norm(grad) < gradTol {
			return x, f, iter, nil
		}

		xNew, fNew, lsErr := LineSearch(g, x, dir, cgInitialStep, cgLineSearchTol)
		if lsErr != nil {
			return nil, 0, iter, dferr.Wrap(dferr.KindMinimizationDivergence, "line search failed during conjugate gradients", lsErr)
		}

		relChange := math.Abs(fNew-f)
		if f != 0 {
			relChange /= math.Abs(f)
		}

		x = xNew
		fPrev := f
		f = fNew
		if relChange < 2*machineEpsilon && fPrev != 0 {
			return x, f, iter + 1, nil
		}

		g.SetEvaluationPoint(x)
		_, newGrad, gErr := g.ValueAndGradient()
		if gErr != nil {
			return nil, 0, iter + 1, gErr
		}

		var beta float64
		restart := (iter+1)%n == 0
		if !restart {
			denom := dot(grad, grad)
			if denom != 0 {
				beta = math.Max(0, dot(newGrad, sub(newGrad, grad))/denom)
			}
		}

		newDir := make([]float64, n)
		for i := range newDir {
			newDir[i] = -newGrad[i] + beta*dir[i]
		}
		dir = newDir
		grad = newGrad
	}

	return x, f, cgMaxIterations, nil
}
