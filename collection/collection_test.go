package collection_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvrusso/dflib/collection"
	"github.com/tvrusso/dflib/point"
	"github.com/tvrusso/dflib/report"
)

// truthBearingDegrees computes the exact geographic bearing (clockwise
// from North, in degrees) from receiverDegrees to transmitterDegrees by
// routing both through the same Mercator projection the library itself
// uses, so a "zero noise, exact truth" scenario is self-consistent with
// LatLon.ComputeBearingToPoint's own convention.
func truthBearingDegrees(t *testing.T, receiverDegrees, transmitterDegrees [2]float64) float64 {
	t.Helper()
	rx, err := point.New(receiverDegrees, []string{"proj=longlat"})
	require.NoError(t, err)
	defer rx.Close()
	tx, err := point.New(transmitterDegrees, []string{"proj=longlat"})
	require.NoError(t, err)
	defer tx.Close()

	rxy, err := rx.GetXY()
	require.NoError(t, err)
	txy, err := tx.GetXY()
	require.NoError(t, err)

	dx := txy[0] - rxy[0]
	dy := txy[1] - rxy[1]
	bearing := math.Atan2(dx, dy) * 180.0 / math.Pi
	if bearing < 0 {
		bearing += 360
	}
	return bearing
}

func threeReceiverScenario(t *testing.T) (*collection.Collection, [2]float64) {
	t.Helper()
	transmitter := [2]float64{-105.0, 35.0}
	receivers := [][2]float64{
		{-105.1, 35.0},
		{-105.0, 34.9},
		{-104.9, 35.05},
	}

	c := collection.New(collection.OwnReports)
	for i, rxDeg := range receivers {
		bearing := truthBearingDegrees(t, rxDeg, transmitter)
		rep, err := report.NewLatLon(rxDeg, bearing, 0.1, "rx")
		require.NoError(t, err)
		c.AddReport(rep)
		_ = i
	}

	txPoint, err := point.New(transmitter, []string{"proj=longlat"})
	require.NoError(t, err)
	truthXY, err := txPoint.GetXY()
	require.NoError(t, err)
	txPoint.Close()

	return c, truthXY
}

func TestThreeReceiversZeroNoiseAllEstimatorsAgree(t *testing.T) {
	c, truthXY := threeReceiverScenario(t)

	target, err := point.New([2]float64{0, 0}, []string{"proj=longlat"})
	require.NoError(t, err)
	defer target.Close()

	require.NoError(t, c.LeastSquaresFix(target))
	xy, err := target.GetXY()
	require.NoError(t, err)
	assert.InDelta(t, truthXY[0], xy[0], 1.0)
	assert.InDelta(t, truthXY[1], xy[1], 1.0)

	require.NoError(t, c.MLFix(target))
	xy, err = target.GetXY()
	require.NoError(t, err)
	assert.InDelta(t, truthXY[0], xy[0], 1.0)
	assert.InDelta(t, truthXY[1], xy[1], 1.0)

	_, _, _, err = c.StansfieldFix(target)
	require.NoError(t, err)
	xy, err = target.GetXY()
	require.NoError(t, err)
	assert.InDelta(t, truthXY[0], xy[0], 1.0)
	assert.InDelta(t, truthXY[1], xy[1], 1.0)

	_, numPairs, ok, err := c.FixCutAverage(target, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, numPairs)
	xy, err = target.GetXY()
	require.NoError(t, err)
	assert.InDelta(t, truthXY[0], xy[0], 1.0)
	assert.InDelta(t, truthXY[1], xy[1], 1.0)
}

func TestTwoParallelBearingsFailGracefully(t *testing.T) {
	c := collection.New(collection.OwnReports)
	r1, err := report.NewLatLon([2]float64{-105.1, 35.0}, 90.0, 0.1, "rx1")
	require.NoError(t, err)
	r2, err := report.NewLatLon([2]float64{-104.9, 35.0}, 90.0, 0.1, "rx2")
	require.NoError(t, err)
	c.AddReport(r1)
	c.AddReport(r2)

	target, err := point.New([2]float64{0, 0}, []string{"proj=longlat"})
	require.NoError(t, err)
	defer target.Close()

	_, _, ok, err := c.FixCutAverage(target, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	err = c.LeastSquaresFix(target)
	assert.Error(t, err)
}

func TestCollectionAdministration(t *testing.T) {
	c := collection.New(collection.OwnReports)
	assert.Equal(t, 0, c.Size())

	r1, err := report.NewLatLon([2]float64{-105.1, 35.0}, 10, 0.1, "alpha")
	require.NoError(t, err)
	r2, err := report.NewLatLon([2]float64{-104.9, 35.0}, 20, 0.1, "beta")
	require.NoError(t, err)
	c.AddReport(r1)
	c.AddReport(r2)

	assert.Equal(t, 2, c.Size())
	assert.Equal(t, 2, c.NumValidReports())

	idx, ok := c.GetReportIndexByName("beta")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = c.GetReportIndexByName("missing")
	assert.False(t, ok)

	c.ToggleValidity(0)
	assert.False(t, c.IsValid(0))
	assert.Equal(t, 1, c.NumValidReports())

	// Out-of-range operations are no-ops / sentinel returns, never panics.
	c.ToggleValidity(99)
	assert.False(t, c.IsValid(99))
	_, ok = c.GetReport(99)
	assert.False(t, ok)

	c.DeleteReports()
	assert.Equal(t, 0, c.Size())
}

func TestGradientMatchesFiniteDifference(t *testing.T) {
	c, truthXY := threeReceiverScenario(t)

	evalPoint := []float64{truthXY[0] + 50, truthXY[1] - 30}
	c.SetEvaluationPoint(evalPoint)
	_, grad, err := c.ValueAndGradient()
	require.NoError(t, err)

	const h = 1.0
	c.SetEvaluationPoint([]float64{evalPoint[0] + h, evalPoint[1]})
	fxPlus, err := c.Value()
	require.NoError(t, err)
	c.SetEvaluationPoint([]float64{evalPoint[0] - h, evalPoint[1]})
	fxMinus, err := c.Value()
	require.NoError(t, err)
	dfdxFD := (fxPlus - fxMinus) / (2 * h)

	c.SetEvaluationPoint([]float64{evalPoint[0], evalPoint[1] + h})
	fyPlus, err := c.Value()
	require.NoError(t, err)
	c.SetEvaluationPoint([]float64{evalPoint[0], evalPoint[1] - h})
	fyMinus, err := c.Value()
	require.NoError(t, err)
	dfdyFD := (fyPlus - fyMinus) / (2 * h)

	assert.InDelta(t, dfdxFD, grad[0], math.Abs(grad[0])*1e-3+1e-6)
	assert.InDelta(t, dfdyFD, grad[1], math.Abs(grad[1])*1e-3+1e-6)
}

func TestHessianMatchesFiniteDifference(t *testing.T) {
	c, truthXY := threeReceiverScenario(t)

	evalPoint := []float64{truthXY[0] + 50, truthXY[1] - 30}
	c.SetEvaluationPoint(evalPoint)
	_, gradFromHess, hess, err := c.ValueAndHessian()
	require.NoError(t, err)

	c.SetEvaluationPoint(evalPoint)
	_, grad, err := c.ValueAndGradient()
	require.NoError(t, err)
	assert.InDelta(t, grad[0], gradFromHess[0], 1e-9)
	assert.InDelta(t, grad[1], gradFromHess[1], 1e-9)

	const h = 1.0
	c.SetEvaluationPoint([]float64{evalPoint[0] + h, evalPoint[1]})
	_, gradXPlus, err := c.ValueAndGradient()
	require.NoError(t, err)
	c.SetEvaluationPoint([]float64{evalPoint[0] - h, evalPoint[1]})
	_, gradXMinus, err := c.ValueAndGradient()
	require.NoError(t, err)
	hxxFD := (gradXPlus[0] - gradXMinus[0]) / (2 * h)
	hxyFD := (gradXPlus[1] - gradXMinus[1]) / (2 * h)

	c.SetEvaluationPoint([]float64{evalPoint[0], evalPoint[1] + h})
	_, gradYPlus, err := c.ValueAndGradient()
	require.NoError(t, err)
	c.SetEvaluationPoint([]float64{evalPoint[0], evalPoint[1] - h})
	_, gradYMinus, err := c.ValueAndGradient()
	require.NoError(t, err)
	hyyFD := (gradYPlus[1] - gradYMinus[1]) / (2 * h)

	assert.InDelta(t, hxxFD, hess[0][0], math.Abs(hess[0][0])*1e-3+1e-6)
	assert.InDelta(t, hyyFD, hess[1][1], math.Abs(hess[1][1])*1e-3+1e-6)
	assert.InDelta(t, hxyFD, hess[0][1], math.Abs(hess[0][1])*1e-3+1e-6)
}

func TestLeastSquaresApproximatesStansfieldForSmallResiduals(t *testing.T) {
	c, _ := threeReceiverScenario(t)

	lsTarget, err := point.New([2]float64{0, 0}, []string{"proj=longlat"})
	require.NoError(t, err)
	defer lsTarget.Close()
	require.NoError(t, c.LeastSquaresFix(lsTarget))
	lsXY, err := lsTarget.GetXY()
	require.NoError(t, err)

	stTarget, err := point.New([2]float64{0, 0}, []string{"proj=longlat"})
	require.NoError(t, err)
	defer stTarget.Close()
	_, _, _, err = c.StansfieldFix(stTarget)
	require.NoError(t, err)
	stXY, err := stTarget.GetXY()
	require.NoError(t, err)

	assert.InDelta(t, lsXY[0], stXY[0], 1e-3)
	assert.InDelta(t, lsXY[1], stXY[1], 1e-3)
}

func TestInsufficientReportsFails(t *testing.T) {
	c := collection.New(collection.OwnReports)
	r1, err := report.NewLatLon([2]float64{-105.1, 35.0}, 10, 0.1, "alpha")
	require.NoError(t, err)
	c.AddReport(r1)

	target, err := point.New([2]float64{0, 0}, []string{"proj=longlat"})
	require.NoError(t, err)
	defer target.Close()

	err = c.LeastSquaresFix(target)
	assert.Error(t, err)

	c.SetEvaluationPoint([]float64{0, 0})
	_, err = c.Value()
	assert.Error(t, err)
}

func TestCramerRaoAtMLFixIsFinite(t *testing.T) {
	c, _ := threeReceiverScenario(t)

	target, err := point.New([2]float64{0, 0}, []string{"proj=longlat"})
	require.NoError(t, err)
	defer target.Close()
	require.NoError(t, c.MLFix(target))

	aInvSq, bInvSq, _, err := c.CramerRaoBounds(target)
	require.NoError(t, err)
	assert.Greater(t, aInvSq, 0.0)
	assert.Greater(t, bInvSq, 0.0)
}
