package collection

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tvrusso/dflib/dferr"
	"github.com/tvrusso/dflib/point"
)

const lsSingularEps = 1e-12

// LeastSquaresFix computes the closed-form least-squares fix: for each
// valid report, the row (cos theta_i, -sin theta_i) and scalar
// b_i = cos(theta_i)*x_i - sin(theta_i)*y_i form an overdetermined linear
// system solved by P_LS = (A^T A)^-1 A^T b. The normal
// equations are assembled and solved with gonum's mat package rather than
// by hand, the same way ChristopherRabotin-smd's orbit-determination
// examples build and invert small dense Jacobian/covariance systems for a
// least-squares estimator. Fails with KindSingularSystem if det(A^T A) is
// below a tolerance. The fix is written into target via SetXY.
func (c *Collection) LeastSquaresFix(target *point.Point) error {
	valid, err := c.requireMinReports(2)
	if err != nil {
		return err
	}

	ata := mat.NewSymDense(2, nil)
	atbData := []float64{0, 0}

	var ataXX, ataXY, ataYY float64
	for _, rep := range valid {
		rxy, err := rep.ReceiverLocation()
		if err != nil {
			return err
		}
		sinT, cosT := math.Sincos(rep.ReportBearingRadians())
		a0, a1 := cosT, -sinT
		b := cosT*rxy[0] - sinT*rxy[1]

		ataXX += a0 * a0
		ataXY += a0 * a1
		ataYY += a1 * a1
		atbData[0] += a0 * b
		atbData[1] += a1 * b
	}

	ata.SetSym(0, 0, ataXX)
	ata.SetSym(0, 1, ataXY)
	ata.SetSym(1, 1, ataYY)
	atb := mat.NewVecDense(2, atbData)

	det := ataXX*ataYY - ataXY*ataXY
	if math.Abs(det) < lsSingularEps {
		return dferr.New(dferr.KindSingularSystem, "least squares normal equations are singular (parallel or near-parallel bearings)")
	}

	var solution mat.VecDense
	if err := solution.SolveVec(ata, atb); err != nil {
		return dferr.Wrap(dferr.KindSingularSystem, "least squares normal equations failed to solve", err)
	}

	target.SetXY([2]float64{solution.AtVec(0), solution.AtVec(1)})
	return nil
}
