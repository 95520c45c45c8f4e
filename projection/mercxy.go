package projection

// MercatorWGS84 returns the canonical Mercator-on-WGS84 projection used as
// the internal working frame for every ProjectedPoint. It is just the
// "merc" backend with the token sequence hard-coded ({"proj=merc",
// "datum=WGS84", "lat_ts=0"}).
func MercatorWGS84() (Projection, error) {
	return New([]string{"proj=merc", "datum=WGS84", "lat_ts=0"})
}
