package projection_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvrusso/dflib/projection"
)

func TestParseSpecRequiresProj(t *testing.T) {
	_, err := projection.ParseSpec([]string{"datum=WGS84"})
	assert.Error(t, err)
}

func TestParseSpecStripsLeadingPlus(t *testing.T) {
	spec, err := projection.ParseSpec([]string{"+proj=merc", "+datum=WGS84"})
	require.NoError(t, err)
	assert.Equal(t, "merc", spec.Name())
	v, ok := spec.Get("datum")
	assert.True(t, ok)
	assert.Equal(t, "WGS84", v)
}

func TestNewUnsupportedProj(t *testing.T) {
	_, err := projection.New([]string{"proj=bogus"})
	assert.Error(t, err)
}

func TestMercatorRoundTrip(t *testing.T) {
	proj, err := projection.MercatorWGS84()
	require.NoError(t, err)

	lon := -105.0 * math.Pi / 180.0
	lat := 35.0 * math.Pi / 180.0

	x, y, err := proj.Forward(lon, lat)
	require.NoError(t, err)

	lon2, lat2, err := proj.Inverse(x, y)
	require.NoError(t, err)

	assert.InDelta(t, lon, lon2, 1e-12)
	assert.InDelta(t, lat, lat2, 1e-12)
}

func TestMercatorIsNotLatLong(t *testing.T) {
	proj, err := projection.MercatorWGS84()
	require.NoError(t, err)
	assert.False(t, proj.IsLatLong())
}

func TestLongLatIsLatLong(t *testing.T) {
	proj, err := projection.New([]string{"proj=longlat"})
	require.NoError(t, err)
	assert.True(t, proj.IsLatLong())
}

func TestLongLatPassesThrough(t *testing.T) {
	proj, err := projection.New([]string{"proj=longlat"})
	require.NoError(t, err)
	x, y, err := proj.Forward(1.2, 3.4)
	require.NoError(t, err)
	assert.Equal(t, 1.2, x)
	assert.Equal(t, 3.4, y)
}

func TestDefRoundTripsThroughNewFromText(t *testing.T) {
	proj, err := projection.MercatorWGS84()
	require.NoError(t, err)
	def := proj.Def()

	clone, err := projection.NewFromText(def)
	require.NoError(t, err)
	assert.Equal(t, def, clone.Def())
}
