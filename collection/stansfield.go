package collection

import (
	"math"

	"github.com/tvrusso/dflib/dferr"
	"github.com/tvrusso/dflib/point"
)

const (
	stansfieldDefaultTol     = 1e-3
	stansfieldDefaultMaxIter = 50
	stansfieldSingularEps    = 1e-12
)

// StansfieldFix runs Stansfield's iterative small-angle estimator with the
// default tolerance and iteration cap (1e-3 on the change in the step norm
// between iterations, capped at 50 iterations).
// See StansfieldFixWithTolerance for the parameterized form.
func (c *Collection) StansfieldFix(target *point.Point) (aInvSq, bInvSq, phi float64, err error) {
	return c.StansfieldFixWithTolerance(target, stansfieldDefaultTol, stansfieldDefaultMaxIter)
}

// StansfieldFixWithTolerance runs Stansfield's estimator, starting from the
// least-squares fix, refining it by the closed-form Stansfield update
// until the step norm changes by less than tol between iterations or
// maxIter iterations are spent. On convergence, the refined fix is written
// into target via SetXY and the error-ellipse parameters (a^-2, b^-2, phi)
// are returned, using the same formulae as CramerRaoBounds.
func (c *Collection) StansfieldFixWithTolerance(target *point.Point, tol float64, maxIter int) (aInvSq, bInvSq, phi float64, err error) {
	valid, err := c.requireMinReports(2)
	if err != nil {
		return 0, 0, 0, err
	}

	if err := c.LeastSquaresFix(target); err != nil {
		return 0, 0, 0, err
	}
	estimate, err := target.GetXY()
	if err != nil {
		return 0, 0, 0, err
	}

	type ray struct {
		rxy          [2]float64
		sigma        float64
		sinTp, cosTp float64
	}
	rays := make([]ray, 0, len(valid))
	for _, rep := range valid {
		rxy, err := rep.ReceiverLocation()
		if err != nil {
			return 0, 0, 0, err
		}
		thetaPrime := math.Pi/2 - rep.ReportBearingRadians()
		sinTp, cosTp := math.Sincos(thetaPrime)
		rays = append(rays, ray{rxy: rxy, sigma: rep.Sigma(), sinTp: sinTp, cosTp: cosTp})
	}

	var lambda, mu, nu float64
	prevStepNorm := math.Inf(1)

	for iter := 0; iter < maxIter; iter++ {
		lambda, mu, nu = 0, 0, 0
		type weighted struct {
			p, w, sinTp, cosTp float64
		}
		terms := make([]weighted, 0, len(rays))

		for _, r := range rays {
			dxr := estimate[0] - r.rxy[0]
			dyr := estimate[1] - r.rxy[1]
			d := math.Hypot(dxr, dyr)
			if d == 0 {
				return 0, 0, 0, dferr.New(dferr.KindSingularSystem, "stansfield estimate coincides with a receiver")
			}
			w := 1.0 / ((d * r.sigma) * (d * r.sigma))
			// Signed perpendicular offset of bearing line i from the
			// current estimate; with this sign the update below moves the
			// estimate toward the weighted intersection of the lines.
			p := r.sinTp*dxr - r.cosTp*dyr

			lambda += w * r.sinTp * r.sinTp
			mu += w * r.cosTp * r.cosTp
			nu += w * r.sinTp * r.cosTp

			terms = append(terms, weighted{p: p, w: w, sinTp: r.sinTp, cosTp: r.cosTp})
		}

		denom := lambda*mu - nu*nu
		if math.Abs(denom) < stansfieldSingularEps {
			return 0, 0, 0, dferr.New(dferr.KindSingularSystem, "stansfield normal equations are singular")
		}

		var sumX, sumY float64
		for _, t := range terms {
			sumX += t.p * t.w * (nu*t.cosTp - mu*t.sinTp)
			sumY += t.p * t.w * (lambda*t.cosTp - nu*t.sinTp)
		}

		deltaX := sumX / denom
		deltaY := sumY / denom
		stepNorm := math.Hypot(deltaX, deltaY)

		estimate[0] += deltaX
		estimate[1] += deltaY

		if math.Abs(stepNorm-prevStepNorm) < tol {
			prevStepNorm = stepNorm
			break
		}
		prevStepNorm = stepNorm
	}

	target.SetXY(estimate)

	phi = 0.5 * math.Atan2(-2*nu, lambda-mu)
	tanPhi := math.Tan(phi)
	aInvSq = lambda - nu*tanPhi
	bInvSq = mu + nu*tanPhi

	return aInvSq, bInvSq, phi, nil
}
