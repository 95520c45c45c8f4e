// Package projection is the small cartographic collaborator the estimation
// engine depends on. The core treats projections as an interface: build one
// from a sequence of "key=value" tokens, ask it to transform points forward
// and backward, ask whether it is a lat/long system. The actual projection
// math is deliberately minimal — a spherical Mercator and an identity
// lat/long backend — since a full projection library is out of scope for
// this module.
package projection

import (
	"fmt"
	"strings"

	"github.com/tvrusso/dflib/dferr"
)

// Projection transforms between a user coordinate system (radians, as
// consumed/returned by this interface — degree scaling is the caller's
// job) and that system's native plane.
type Projection interface {
	// Forward projects (lon, lat) in radians to the system's XY plane (for
	// a lat/long system, that plane is (lon, lat) itself).
	Forward(u, v float64) (x, y float64, err error)
	// Inverse is the opposite of Forward.
	Inverse(x, y float64) (u, v float64, err error)
	// IsLatLong reports whether this projection's user coordinates are
	// longitude/latitude.
	IsLatLong() bool
	// Def returns the textual token sequence this projection was built
	// from, so a caller can reconstruct an independent copy.
	Def() string
	// Close releases any resources held by the projection. The built-in
	// backends hold none; Close exists so the interface matches the
	// "free-projection" operation for backends that do hold resources.
	Close()
}

// Constructor builds a Projection from a parsed token Spec.
type Constructor func(Spec) (Projection, error)

var registry = map[string]Constructor{}

// Register installs a backend constructor under the given "proj=" name.
// Backend packages call this from an init func, mirroring the
// core.RegisterConvertLPToXY pattern used for PROJ.4-derived operations.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Spec is a parsed sequence of "key=value" tokens, e.g.
// {"proj=merc", "datum=WGS84", "lat_ts=0"}.
type Spec struct {
	tokens []string
	values map[string]string
}

// ParseSpec parses a token sequence such as
// []string{"proj=merc", "datum=WGS84", "lat_ts=0"}.
func ParseSpec(tokens []string) (Spec, error) {
	values := make(map[string]string, len(tokens))
	clean := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(strings.TrimPrefix(tok, "+"))
		if tok == "" {
			continue
		}
		clean = append(clean, tok)
		key, val, _ := strings.Cut(tok, "=")
		values[key] = val
	}
	if _, ok := values["proj"]; !ok {
		return Spec{}, dferr.New(dferr.KindProjectionInit, "missing proj= token")
	}
	return Spec{tokens: clean, values: values}, nil
}

// ParseSpecText parses a single whitespace-separated definition string,
// e.g. "proj=merc datum=WGS84 lat_ts=0" (with or without leading "+").
func ParseSpecText(text string) (Spec, error) {
	return ParseSpec(strings.Fields(text))
}

// Get returns the value of a key, e.g. Get("datum") -> "WGS84", ok.
func (s Spec) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Name returns the "proj=" value, e.g. "merc".
func (s Spec) Name() string {
	return s.values["proj"]
}

// String reconstructs the textual definition, token-order preserved.
func (s Spec) String() string {
	return strings.Join(s.tokens, " ")
}

// New builds a Projection from a token sequence, dispatching on the
// registered "proj=" backend name.
func New(tokens []string) (Projection, error) {
	spec, err := ParseSpec(tokens)
	if err != nil {
		return nil, err
	}
	return newFromSpec(spec)
}

// NewFromText builds a Projection from a single textual definition, the
// Go analogue of pj_init_plus.
func NewFromText(text string) (Projection, error) {
	spec, err := ParseSpecText(text)
	if err != nil {
		return nil, err
	}
	return newFromSpec(spec)
}

func newFromSpec(spec Spec) (Projection, error) {
	ctor, ok := registry[spec.Name()]
	if !ok {
		return nil, dferr.New(dferr.KindProjectionInit, fmt.Sprintf("unsupported proj=%q", spec.Name()))
	}
	return ctor(spec)
}
