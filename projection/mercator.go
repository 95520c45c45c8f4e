package projection

import "math"

// wgs84SemiMajor is the WGS84 ellipsoid's semi-major axis, in meters. The
// backend below treats the datum as a sphere of this radius — adequate for
// the bearing/range precision this library cares about, and exactly the
// simplification that marks the boundary of this module's scope (a full
// ellipsoidal Mercator belongs to a real projection library, not here).
const wgs84SemiMajor = 6378137.0

func init() {
	Register("merc", newMercator)
}

// mercator is a spherical Mercator projection (proj=merc), scaled for the
// WGS84 semi-major axis. lat_ts and datum tokens are accepted but only
// datum=WGS84 is honored; any other datum still uses the WGS84 radius since
// no other ellipsoid data is available to this backend.
type mercator struct {
	def string
}

func newMercator(spec Spec) (Projection, error) {
	return &mercator{def: spec.String()}, nil
}

// Forward projects (lon, lat) in radians to Mercator XY in meters.
func (m *mercator) Forward(lon, lat float64) (x, y float64, err error) {
	x = wgs84SemiMajor * lon
	y = wgs84SemiMajor * math.Log(math.Tan(math.Pi/4+lat/2))
	return x, y, nil
}

// Inverse projects Mercator XY in meters back to (lon, lat) in radians.
func (m *mercator) Inverse(x, y float64) (lon, lat float64, err error) {
	lon = x / wgs84SemiMajor
	lat = 2*math.Atan(math.Exp(y/wgs84SemiMajor)) - math.Pi/2
	return lon, lat, nil
}

func (m *mercator) IsLatLong() bool { return false }
func (m *mercator) Def() string     { return m.def }
func (m *mercator) Close()          {}
