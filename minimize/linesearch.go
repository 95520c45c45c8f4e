package minimize

import (
	"math"

	"github.com/tvrusso/dflib/dferr"
)

const (
	goldenRatio     = 1.618034
	maxBracketSteps = 50
	cgold           = 0.3819660
	brentZeps       = 1.0e-10
	brentMaxIter    = 100
)

// valueAt evaluates g along dir from base at parameter t.
func valueAt(g Group, base, dir []float64, t float64) (float64, error) {
	g.SetEvaluationPoint(addScaled(base, dir, t))
	return g.Value()
}

// bracket expands a triple (a, b, c) by golden-section steps until
// f(b) < f(a) and f(b) < f(c), or gives up after maxBracketSteps
// expansions of factor goldenRatio.
func bracket(g Group, base, dir []float64, initialStep float64) (a, b, c, fa, fb, fc float64, err error) {
	a = 0
	b = initialStep
	fa, err = valueAt(g, base, dir, a)
	if err != nil {
		return
	}
	fb, err = valueAt(g, base, dir, b)
	if err != nil {
		return
	}
	if fb > fa {
		a, b = b, a
		fa, fb = fb, fa
	}
	c = b + goldenRatio*(b-a)
	fc, err = valueAt(g, base, dir, c)
	if err != nil {
		return
	}
	steps := 0
	for fb > fc {
		steps++
		if steps > maxBracketSteps {
			err = dferr.New(dferr.KindBracketFailure, "golden-section expansion exceeded step cap")
			return
		}
		a, fa = b, fb
		b, fb = c, fc
		c = b + goldenRatio*(b-a)
		fc, err = valueAt(g, base, dir, c)
		if err != nil {
			return
		}
	}
	return
}

// brent performs Brent's method (parabolic interpolation guarded by
// golden-section fallback) to find the minimum of g along dir from base,
// given a bracketing triple ax < bx < cx (or cx < bx < ax).
func brent(g Group, base, dir []float64, ax, bx, cx, tol float64) (tmin, fmin float64, err error) {
	a, b := ax, cx
	if a > b {
		a, b = b, a
	}
	x, w, v := bx, bx, bx
	fx, err := valueAt(g, base, dir, x)
	if err != nil {
		return 0, 0, err
	}
	fw, fv := fx, fx
	var d, e float64

	for iter := 0; iter < brentMaxIter; iter++ {
		xm := 0.5 * (a + b)
		tol1 := tol*math.Abs(x) + brentZeps
		tol2 := 2 * tol1

		if math.Abs(x-xm) <= tol2-0.5*(b-a) {
			return x, fx, nil
		}

		var u float64
		useGolden := true
		if math.Abs(e) > tol1 {
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			etemp := e
			e = d
			if !(math.Abs(p) >= math.Abs(0.5*q*etemp) || p <= q*(a-x) || p >= q*(b-x)) {
				d = p / q
				u = x + d
				if u-a < tol2 || b-u < tol2 {
					d = sign(tol1, xm-x)
				}
				useGolden = false
			}
		}
		if useGolden {
			if x >= xm {
				e = a - x
			} else {
				e = b - x
			}
			d = cgold * e
		}

		if math.Abs(d) >= tol1 {
			u = x + d
		} else {
			u = x + sign(tol1, d)
		}

		fu, err := valueAt(g, base, dir, u)
		if err != nil {
			return 0, 0, err
		}

		if fu <= fx {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, w, x = w, x, u
			fv, fw, fx = fw, fx, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, fv = w, fw
				w, fw = u, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		}
	}
	return x, fx, nil
}

// LineSearch minimizes g along dir starting from base: it brackets a
// minimum with golden-section expansion, then refines it with Brent's
// method to tolerance tol in the line parameter. Returns the minimizing
// point and the function value there.
func LineSearch(g Group, base, dir []float64, initialStep, tol float64) (xmin []float64, fmin float64, err error) {
	a, b, c, _, _, _, err := bracket(g, base, dir, initialStep)
	if err != nil {
		return nil, 0, err
	}
	t, f, err := brent(g, base, dir, a, b, c, tol)
	if err != nil {
		return nil, 0, err
	}
	return addScaled(base, dir, t), f, nil
}
