package dms_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvrusso/dflib/dms"
)

func TestParsePlainDecimalDegrees(t *testing.T) {
	rad, err := dms.Parse("-105.5")
	require.NoError(t, err)
	assert.InDelta(t, -105.5*math.Pi/180.0, rad, 1e-12)
}

func TestParseDegreesMinutesSecondsWithHemisphere(t *testing.T) {
	rad, err := dms.Parse(`105d30'15.5"W`)
	require.NoError(t, err)
	expectedDeg := -(105 + 30.0/60.0 + 15.5/3600.0)
	assert.InDelta(t, expectedDeg*math.Pi/180.0, rad, 1e-9)
}

func TestParseDegreesMinutesNoSeconds(t *testing.T) {
	rad, err := dms.Parse(`105d30'N`)
	require.NoError(t, err)
	expectedDeg := 105 + 30.0/60.0
	assert.InDelta(t, expectedDeg*math.Pi/180.0, rad, 1e-9)
}

func TestParseDecimalDegreesWithHemisphere(t *testing.T) {
	rad, err := dms.Parse("35.5S")
	require.NoError(t, err)
	assert.InDelta(t, -35.5*math.Pi/180.0, rad, 1e-12)
}

func TestParseRejectsSignAndHemisphereTogether(t *testing.T) {
	_, err := dms.Parse("-105.5W")
	assert.Error(t, err)
}

func TestParseRejectsEmptyString(t *testing.T) {
	_, err := dms.Parse("   ")
	assert.Error(t, err)
}

func TestParseRejectsSecondsWithoutMinutes(t *testing.T) {
	_, err := dms.Parse(`105d15.5"`)
	assert.Error(t, err)
}
