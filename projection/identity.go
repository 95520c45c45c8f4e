package projection

func init() {
	Register("xy", newIdentity)
}

// identity represents a user grid already expressed in the same planar
// units as Mercator XY (e.g. a local survey grid). It is the backend a Proj
// report uses when its "user coordinates" are just meters on some plane
// rather than a geographic system. Its Forward and Inverse are the
// Mercator transforms, so converting its coordinates to (lon, lat) and on
// to Mercator XY, or back, leaves them unchanged.
type identity struct {
	def string
}

func newIdentity(spec Spec) (Projection, error) {
	return &identity{def: spec.String()}, nil
}

func (i *identity) Forward(u, v float64) (x, y float64, err error) {
	return (&mercator{}).Forward(u, v)
}
func (i *identity) Inverse(x, y float64) (u, v float64, err error) {
	return (&mercator{}).Inverse(x, y)
}
func (i *identity) IsLatLong() bool { return false }
func (i *identity) Def() string     { return i.def }
func (i *identity) Close()          {}
