package minimize

import (
	"math"
	"sort"

	"github.com/tvrusso/dflib/dferr"
)

const (
	reflectionCoeff  = 1.0
	expansionCoeff   = 2.0
	contractionCoeff = 0.5
	shrinkCoeff      = 0.5
	divergenceBound  = 1.0e12
)

type vertex struct {
	x []float64
	f float64
}

// NelderMead minimizes g with a downhill simplex seeded at start and
// perturbed by charDist along each axis, terminating when the range of f
// over the simplex falls below fTol or maxIter iterations are spent.
func NelderMead(g Group, start []float64, charDist float64, fTol float64, maxIter int) (xmin []float64, fmin float64, iterations int, err error) {
	n := g.Dim()
	verts := make([]vertex, n+1)

	eval := func(x []float64) (float64, error) {
		g.SetEvaluationPoint(x)
		return g.Value()
	}

	f0, err := eval(cloneVec(start))
	if err != nil {
		return nil, 0, 0, err
	}
	verts[0] = vertex{x: cloneVec(start), f: f0}
	for i := 0; i < n; i++ {
		v := cloneVec(start)
		v[i] += charDist
		fv, err := eval(v)
		if err != nil {
			return nil, 0, 0, err
		}
		verts[i+1] = vertex{x: v, f: fv}
	}

	sortVerts := func() {
		sort.Slice(verts, func(i, j int) bool { return verts[i].f < verts[j].f })
	}
	sortVerts()

	for iter := 0; iter < maxIter; iter++ {
		best := verts[0].f
		worst := verts[n].f
		if math.Abs(worst-best) < fTol {
			return verts[0].x, verts[0].f, iter, nil
		}
		if math.IsNaN(worst) || math.IsInf(worst, 0) || norm(verts[n].x) > divergenceBound {
			return nil, 0, iter, dferr.New(dferr.KindMinimizationDivergence, "simplex vertex exceeded divergence bound")
		}

		centroid := make([]float64, n)
		for i := 0; i < n; i++ {
			for d := 0; d < n; d++ {
				centroid[d] += verts[i].x[d]
			}
		}
		for d := range centroid {
			centroid[d] /= float64(n)
		}

		reflected := addScaled(centroid, sub(centroid, verts[n].x), reflectionCoeff)
		fReflected, err := eval(reflected)
		if err != nil {
			return nil, 0, iter, err
		}

		switch {
		case fReflected < verts[0].f:
			expanded := addScaled(centroid, sub(reflected, centroid), expansionCoeff)
			fExpanded, err := eval(expanded)
			if err != nil {
				return nil, 0, iter, err
			}
			if fExpanded < fReflected {
				verts[n] = vertex{x: expanded, f: fExpanded}
			} else {
				verts[n] = vertex{x: reflected, f: fReflected}
			}
		case fReflected < verts[n-1].f:
			verts[n] = vertex{x: reflected, f: fReflected}
		default:
			contracted := addScaled(centroid, sub(verts[n].x, centroid), contractionCoeff)
			fContracted, err := eval(contracted)
			if err != nil {
				return nil, 0, iter, err
			}
			if fContracted < verts[n].f {
				verts[n] = vertex{x: contracted, f: fContracted}
			} else {
				best := verts[0].x
				for i := 1; i <= n; i++ {
					shrunk := addScaled(best, sub(verts[i].x, best), shrinkCoeff)
					fShrunk, err := eval(shrunk)
					if err != nil {
						return nil, 0, iter, err
					}
					verts[i] = vertex{x: shrunk, f: fShrunk}
				}
			}
		}
		sortVerts()
	}

	return verts[0].x, verts[0].f, maxIter, nil
}
