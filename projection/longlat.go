package projection

func init() {
	Register("longlat", newLongLat)
	Register("latlong", newLongLat)
}

// longLat is the identity projection for geographic (lon, lat) user
// systems: its "XY" is just (lon, lat) in radians, so that composing it
// with a real planar projection amounts to a no-op pass-through.
type longLat struct {
	def string
}

func newLongLat(spec Spec) (Projection, error) {
	return &longLat{def: spec.String()}, nil
}

func (l *longLat) Forward(u, v float64) (x, y float64, err error) { return u, v, nil }
func (l *longLat) Inverse(x, y float64) (u, v float64, err error) { return x, y, nil }
func (l *longLat) IsLatLong() bool                                { return true }
func (l *longLat) Def() string                                    { return l.def }
func (l *longLat) Close()                                         {}
