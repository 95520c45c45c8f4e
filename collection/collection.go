// Package collection holds DF reports and implements the estimators that
// turn them into a transmitter fix: Fix-Cut Average, Least Squares,
// Stansfield, Maximum Likelihood (via package minimize), and the
// Cramér-Rao bound. Collection also implements minimize.Group directly, so
// a Collection can be handed straight to the conjugate-gradient and
// Nelder-Mead routines as the cost surface for ML fixes, per
// DF_Report_Collection.hpp's dual role as both a container and a
// minimizable function.
package collection

import (
	"fmt"
	"math"

	"github.com/tvrusso/dflib/dferr"
	"github.com/tvrusso/dflib/report"
)

// OwnershipMode controls whether a Collection takes responsibility for the
// Reports inserted into it.
type OwnershipMode int

const (
	// OwnReports is the default: the Collection is the sole owner of its
	// Reports. DeleteReports drops the Collection's references, after
	// which nothing else in the program should retain them.
	OwnReports OwnershipMode = iota
	// BorrowReports leaves ownership with the caller; the Collection
	// never assumes responsibility for a Report's lifetime beyond holding
	// a reference to it while present in the collection.
	BorrowReports
)

// evalCache holds the memoized cost-function value/gradient/Hessian at the
// most recently set evaluation point. Each quantity has its own validity
// flag: Value fills only the value, ValueAndGradient the value and
// gradient, and ValueAndHessian forms all three in one pass.
type evalCache struct {
	point       [2]float64
	valueValid  bool
	value       float64
	gradValid   bool
	grad        [2]float64
	hessValid   bool
	hess        [2][2]float64
}

// Collection holds an ordered sequence of Reports (insertion order defines
// index identity) and the evaluation cache used when it is driven as a
// minimize.Group. The zero value is unusable; use New.
type Collection struct {
	ownership OwnershipMode
	reports   []report.Report
	cache     evalCache
}

// New constructs an empty Collection with the given ownership policy.
// Collection deliberately exposes no Clone or copy constructor — mirroring
// the private, undefined copy constructor in DF_Report_Collection.hpp — so
// a *Collection is never silently aliased.
func New(ownership OwnershipMode) *Collection {
	return &Collection{ownership: ownership}
}

// AddReport appends r to the collection, taking ownership of it per the
// collection's OwnershipMode.
func (c *Collection) AddReport(r report.Report) {
	c.reports = append(c.reports, r)
	c.invalidateCache()
}

// DeleteReports removes every report from the collection. Under
// OwnReports, this simply drops the collection's references so the
// reports, if otherwise unreferenced, become eligible for GC. Under
// BorrowReports, it is the caller's job to have kept its own references
// alive; DeleteReports still clears the collection's slice either way,
// since deletion here never implies freeing under Go's GC model.
func (c *Collection) DeleteReports() {
	c.reports = nil
	c.invalidateCache()
}

// Size returns the total number of reports, valid or not.
func (c *Collection) Size() int { return len(c.reports) }

// NumValidReports returns the count of reports currently marked valid.
func (c *Collection) NumValidReports() int {
	n := 0
	for _, r := range c.reports {
		if r.IsValid() {
			n++
		}
	}
	return n
}

// GetReport returns the report at index i, or (nil, false) if i is out of
// range.
func (c *Collection) GetReport(i int) (report.Report, bool) {
	if i < 0 || i >= len(c.reports) {
		return nil, false
	}
	return c.reports[i], true
}

// ToggleValidity flips the validity of the report at index i. Out-of-range
// indices are a no-op.
func (c *Collection) ToggleValidity(i int) {
	if i < 0 || i >= len(c.reports) {
		return
	}
	c.reports[i].ToggleValidity()
	c.invalidateCache()
}

// IsValid reports whether the report at index i is valid. Out-of-range
// indices return false.
func (c *Collection) IsValid(i int) bool {
	if i < 0 || i >= len(c.reports) {
		return false
	}
	return c.reports[i].IsValid()
}

// GetReportIndexByName returns the index of the first report with the
// given name, or (-1, false) if none matches.
func (c *Collection) GetReportIndexByName(name string) (int, bool) {
	for i, r := range c.reports {
		if r.Name() == name {
			return i, true
		}
	}
	return -1, false
}

// GetReportIndexByReport returns the index at which r is stored, comparing
// by identity, or (-1, false) if r is not present.
func (c *Collection) GetReportIndexByReport(r report.Report) (int, bool) {
	for i, candidate := range c.reports {
		if candidate == r {
			return i, true
		}
	}
	return -1, false
}

// GetReceiverLocationXY returns the Mercator XY of the receiver at index i.
func (c *Collection) GetReceiverLocationXY(i int) ([2]float64, error) {
	r, ok := c.GetReport(i)
	if !ok {
		return [2]float64{}, fmt.Errorf("collection: index %d out of range (size %d)", i, len(c.reports))
	}
	return r.ReceiverLocation()
}

func (c *Collection) invalidateCache() {
	c.cache = evalCache{}
}

// validReports returns the subset of reports currently marked valid.
func (c *Collection) validReports() []report.Report {
	out := make([]report.Report, 0, len(c.reports))
	for _, r := range c.reports {
		if r.IsValid() {
			out = append(out, r)
		}
	}
	return out
}

// requireMinReports fails with dferr.KindInsufficientReports unless at
// least n valid reports are present.
func (c *Collection) requireMinReports(n int) ([]report.Report, error) {
	valid := c.validReports()
	if len(valid) < n {
		return nil, dferr.New(dferr.KindInsufficientReports, fmt.Sprintf("need at least %d valid reports, have %d", n, len(valid)))
	}
	return valid, nil
}

// wrapAngle reduces a into (-pi, pi], keeping the cost function smooth
// across the branch cut where atan2 would otherwise jump by 2*pi.
func wrapAngle(a float64) float64 {
	const twoPi = 2 * math.Pi
	a = math.Mod(a+math.Pi, twoPi)
	if a <= 0 {
		a += twoPi
	}
	return a - math.Pi
}
