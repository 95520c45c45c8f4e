package collection

import (
	"math"

	"github.com/tvrusso/dflib/point"
)

const fcaParallelEps = 1e-9

// FixCutAverage computes the Fix-Cut Average fix: the arithmetic mean of
// the Mercator intersection points of every unordered pair of valid
// reports whose bearing lines cross at an absolute angle of at least
// minAngleDegrees. Pairs below that angle (near-parallel bearings)
// contribute nothing. If at least one qualifying pair is found, the mean
// is written into target via SetXY, the component-wise sample standard
// deviation of the intersection points is returned, along with the number
// of contributing pairs and ok=true. If no pair qualifies, target is left
// untouched and ok is false.
func (c *Collection) FixCutAverage(target *point.Point, minAngleDegrees float64) (stddev [2]float64, numPairs int, ok bool, err error) {
	valid := c.validReports()
	minAngleRad := minAngleDegrees * math.Pi / 180.0

	var points [][2]float64
	for i := 0; i < len(valid); i++ {
		rxyI, err := valid[i].ReceiverLocation()
		if err != nil {
			return [2]float64{}, 0, false, err
		}
		thetaI := valid[i].ReportBearingRadians()
		for j := i + 1; j < len(valid); j++ {
			rxyJ, err := valid[j].ReceiverLocation()
			if err != nil {
				return [2]float64{}, 0, false, err
			}
			thetaJ := valid[j].ReportBearingRadians()

			angleBetween := wrapAngle(thetaI - thetaJ)
			if math.Abs(angleBetween) < minAngleRad {
				continue
			}

			pt, intersects := rayIntersection(rxyI, thetaI, rxyJ, thetaJ)
			if !intersects {
				continue
			}
			points = append(points, pt)
		}
	}

	if len(points) == 0 {
		return [2]float64{}, 0, false, nil
	}

	var mean [2]float64
	for _, p := range points {
		mean[0] += p[0]
		mean[1] += p[1]
	}
	n := float64(len(points))
	mean[0] /= n
	mean[1] /= n

	if len(points) > 1 {
		var varX, varY float64
		for _, p := range points {
			dx := p[0] - mean[0]
			dy := p[1] - mean[1]
			varX += dx * dx
			varY += dy * dy
		}
		stddev[0] = math.Sqrt(varX / (n - 1))
		stddev[1] = math.Sqrt(varY / (n - 1))
	}

	target.SetXY(mean)
	return stddev, len(points), true, nil
}

// rayIntersection solves for the intersection of two bearing rays, each
// anchored at a receiver and pointed along (sin theta, cos theta) (the
// canonical clockwise-from-North convention turned into a planar unit
// vector). Returns ok=false if the rays are parallel to
// within fcaParallelEps.
func rayIntersection(originA [2]float64, thetaA float64, originB [2]float64, thetaB float64) ([2]float64, bool) {
	sinA, cosA := math.Sincos(thetaA)
	sinB, cosB := math.Sincos(thetaB)

	// originA + s*(sinA, cosA) = originB + t*(sinB, cosB)
	// [ sinA  -sinB ] [s]   [originB.x - originA.x]
	// [ cosA  -cosB ] [t] = [originB.y - originA.y]
	det := sinA*(-cosB) - (-sinB)*cosA
	if math.Abs(det) < fcaParallelEps {
		return [2]float64{}, false
	}

	rx := originB[0] - originA[0]
	ry := originB[1] - originA[1]
	s := (rx*(-cosB) - (-sinB)*ry) / det

	return [2]float64{originA[0] + s*sinA, originA[1] + s*cosA}, true
}
