package collection

import (
	"math"

	"github.com/tvrusso/dflib/dferr"
)

// Dim reports the dimensionality of the cost surface: a DF fix is always a
// point in the plane.
func (c *Collection) Dim() int { return 2 }

// SetEvaluationPoint installs (x, y) as the point at which Value,
// ValueAndGradient and ValueAndHessian next compute, invalidating any
// cached results from a previous point.
func (c *Collection) SetEvaluationPoint(p []float64) {
	c.cache = evalCache{point: [2]float64{p[0], p[1]}}
}

// residual computes, for one report, the measured-minus-predicted bearing
// residual wrapped into (-pi, pi], along with the squared range r^2 from
// the receiver to the evaluation point.
func residual(r [2]float64, eval [2]float64, measuredBearing float64) (delta, dx, dy, rSq float64, err error) {
	dx = eval[0] - r[0]
	dy = eval[1] - r[1]
	rSq = dx*dx + dy*dy
	if rSq == 0 {
		return 0, 0, 0, 0, dferr.New(dferr.KindSingularSystem, "evaluation point coincides with a receiver")
	}
	theta := math.Atan2(dx, dy)
	delta = wrapAngle(measuredBearing - theta)
	return delta, dx, dy, rSq, nil
}

// Value computes f = sum_i delta_i^2 / (2*sigma_i^2) over valid reports at
// the current evaluation point.
func (c *Collection) Value() (float64, error) {
	if c.cache.valueValid {
		return c.cache.value, nil
	}
	valid, err := c.requireMinReports(2)
	if err != nil {
		return 0, err
	}

	var f float64
	for _, rep := range valid {
		rxy, err := rep.ReceiverLocation()
		if err != nil {
			return 0, err
		}
		sigma := rep.Sigma()
		delta, _, _, _, err := residual(rxy, c.cache.point, rep.ReportBearingRadians())
		if err != nil {
			return 0, err
		}
		f += delta * delta / (2 * sigma * sigma)
	}
	c.cache.value = f
	c.cache.valueValid = true
	return f, nil
}

// ValueAndGradient computes f and its gradient:
// df/dx = -sum_i (delta_i/sigma_i^2) * (dy_i/r_i^2)
// df/dy = +sum_i (delta_i/sigma_i^2) * (dx_i/r_i^2)
func (c *Collection) ValueAndGradient() (float64, []float64, error) {
	if c.cache.valueValid && c.cache.gradValid {
		return c.cache.value, []float64{c.cache.grad[0], c.cache.grad[1]}, nil
	}
	valid, err := c.requireMinReports(2)
	if err != nil {
		return 0, nil, err
	}

	var f, dfdx, dfdy float64
	for _, rep := range valid {
		rxy, err := rep.ReceiverLocation()
		if err != nil {
			return 0, nil, err
		}
		sigma := rep.Sigma()
		invSigSq := 1.0 / (sigma * sigma)
		delta, dx, dy, rSq, err := residual(rxy, c.cache.point, rep.ReportBearingRadians())
		if err != nil {
			return 0, nil, err
		}
		f += delta * delta / (2 * sigma * sigma)
		dfdx -= (delta * invSigSq) * (dy / rSq)
		dfdy += (delta * invSigSq) * (dx / rSq)
	}

	c.cache.value = f
	c.cache.valueValid = true
	c.cache.grad = [2]float64{dfdx, dfdy}
	c.cache.gradValid = true
	return f, []float64{dfdx, dfdy}, nil
}

// ValueAndHessian computes f, its gradient, and its analytic Hessian in one
// pass, so the first- and second-derivative contributions stay numerically
// consistent with each other.
//
// With theta_i = atan2(dx_i, dy_i), d(theta_i)/dx = dy_i/r_i^2,
// d(theta_i)/dy = -dx_i/r_i^2. Writing s_i = dy_i/r_i^2, t_i = -dx_i/r_i^2,
// the second derivatives of theta_i are:
//
//	d2(theta_i)/dx2   = -2*dx_i*dy_i / r_i^4
//	d2(theta_i)/dy2   =  2*dx_i*dy_i / r_i^4
//	d2(theta_i)/dxdy  = (dx_i^2 - dy_i^2) / r_i^4
//
// Each term of f contributes (1/sigma_i^2) * [ (d(theta_i)/dx_k)*(d(theta_i)/dx_l)
//   - delta_i * d2(theta_i)/dx_k dx_l ], since f_i = delta_i^2/(2 sigma_i^2)
//
// and delta_i = measured - theta_i so d(delta_i)/dx_k = -d(theta_i)/dx_k.
func (c *Collection) ValueAndHessian() (float64, []float64, [][]float64, error) {
	if c.cache.valueValid && c.cache.gradValid && c.cache.hessValid {
		h := [][]float64{
			{c.cache.hess[0][0], c.cache.hess[0][1]},
			{c.cache.hess[1][0], c.cache.hess[1][1]},
		}
		return c.cache.value, []float64{c.cache.grad[0], c.cache.grad[1]}, h, nil
	}

	valid, err := c.requireMinReports(2)
	if err != nil {
		return 0, nil, nil, err
	}

	var f, dfdx, dfdy, hxx, hyy, hxy float64
	for _, rep := range valid {
		rxy, err := rep.ReceiverLocation()
		if err != nil {
			return 0, nil, nil, err
		}
		sigma := rep.Sigma()
		invSigSq := 1.0 / (sigma * sigma)
		delta, dx, dy, rSq, err := residual(rxy, c.cache.point, rep.ReportBearingRadians())
		if err != nil {
			return 0, nil, nil, err
		}

		f += delta * delta / (2 * sigma * sigma)

		dThetaDx := dy / rSq
		dThetaDy := -dx / rSq

		dfdx -= (delta * invSigSq) * dThetaDx
		dfdy -= (delta * invSigSq) * dThetaDy

		rSq2 := rSq * rSq
		d2ThetaDxx := -2 * dx * dy / rSq2
		d2ThetaDyy := 2 * dx * dy / rSq2
		d2ThetaDxy := (dx*dx - dy*dy) / rSq2

		hxx += invSigSq * (dThetaDx*dThetaDx - delta*d2ThetaDxx)
		hyy += invSigSq * (dThetaDy*dThetaDy - delta*d2ThetaDyy)
		hxy += invSigSq * (dThetaDx*dThetaDy - delta*d2ThetaDxy)
	}

	c.cache.value = f
	c.cache.valueValid = true
	c.cache.grad = [2]float64{dfdx, dfdy}
	c.cache.gradValid = true
	c.cache.hess = [2][2]float64{{hxx, hxy}, {hxy, hyy}}
	c.cache.hessValid = true

	return f, []float64{dfdx, dfdy}, [][]float64{{hxx, hxy}, {hxy, hyy}}, nil
}
