package collection

import (
	"math"

	"github.com/tvrusso/dflib/dferr"
	"github.com/tvrusso/dflib/minimize"
	"github.com/tvrusso/dflib/point"
)

const (
	mlGradientTol        = 1e-5
	aggressiveSimplexTol = 1e-4
	aggressiveMaxIter    = 500
	aggressivePerturbFrac = 0.10
	aggressivePerturbFloor = 1.0
)

// MLFix minimizes the exact angular-residual cost function using
// conjugate gradients (package minimize), starting from the
// least-squares fix, to a gradient-norm tolerance of ~1e-5. The fix is
// written into target via SetXY.
func (c *Collection) MLFix(target *point.Point) error {
	if err := c.LeastSquaresFix(target); err != nil {
		return err
	}
	start, err := target.GetXY()
	if err != nil {
		return err
	}

	xmin, _, _, err := minimize.ConjugateGradient(c, []float64{start[0], start[1]}, mlGradientTol)
	if err != nil {
		return err
	}

	target.SetXY([2]float64{xmin[0], xmin[1]})
	return nil
}

// AggressiveMLFix first runs Nelder-Mead downhill simplex to roughly
// locate the minimum, starting from the least-squares fix perturbed by a
// characteristic distance (10% of the fix's magnitude, floored at 1.0
// meter), then refines the best vertex with conjugate
// gradients. This two-stage approach is more robust than MLFix alone on
// pathological geometries where the cost surface's initial gradient
// points the wrong way for a pure line-search method.
func (c *Collection) AggressiveMLFix(target *point.Point) error {
	if err := c.LeastSquaresFix(target); err != nil {
		return err
	}
	start, err := target.GetXY()
	if err != nil {
		return err
	}

	mag := math.Hypot(start[0], start[1])
	charDist := mag * aggressivePerturbFrac
	if charDist < aggressivePerturbFloor {
		charDist = aggressivePerturbFloor
	}

	simplexMin, _, _, err := minimize.NelderMead(c, []float64{start[0], start[1]}, charDist, aggressiveSimplexTol, aggressiveMaxIter)
	if err != nil {
		return err
	}

	xmin, _, _, err := minimize.ConjugateGradient(c, simplexMin, mlGradientTol)
	if err != nil {
		return err
	}

	target.SetXY([2]float64{xmin[0], xmin[1]})
	return nil
}

// CramerRaoBounds evaluates the Fisher information matrix at target's
// current Mercator XY (expected to be the ML fix) and returns the
// error-ellipse parameters (a^-2, b^-2, phi) by the same formulae
// Stansfield uses. target is read, not written.
func (c *Collection) CramerRaoBounds(target *point.Point) (aInvSq, bInvSq, phi float64, err error) {
	xy, err := target.GetXY()
	if err != nil {
		return 0, 0, 0, err
	}

	c.SetEvaluationPoint([]float64{xy[0], xy[1]})
	_, _, hess, err := c.ValueAndHessian()
	if err != nil {
		return 0, 0, 0, err
	}

	// The cost function's Hessian IS the Fisher information matrix for
	// this Gaussian angular-residual model (second derivative of
	// negative log-likelihood), so lambda/mu read directly off its
	// entries rather than being re-accumulated report by report. The
	// Hessian's off-diagonal is the negative of Stansfield's nu, so it is
	// negated here to agree with Stansfield's ellipse orientation.
	lambda := hess[0][0]
	mu := hess[1][1]
	nu := -hess[0][1]

	denom := lambda - mu
	phi = 0.5 * math.Atan2(-2*nu, denom)
	tanPhi := math.Tan(phi)
	aInvSq = lambda - nu*tanPhi
	bInvSq = mu + nu*tanPhi

	if math.IsNaN(aInvSq) || math.IsNaN(bInvSq) {
		return 0, 0, 0, dferr.New(dferr.KindSingularSystem, "cramer-rao fisher information matrix is degenerate")
	}

	return aInvSq, bInvSq, phi, nil
}
