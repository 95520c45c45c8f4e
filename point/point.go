// Package point implements ProjectedPoint, the dual-representation 2-D
// point at the base of the estimation engine: every receiver location and
// every computed fix is a Point holding both a user-chosen coordinate
// representation and its Mercator-on-WGS84 equivalent, converting lazily
// between the two as callers write one side or read the other.
//
// The dirty-flag discipline, the clone-by-reparsing-the-textual-definition
// behavior, and the deg<->rad scaling rule for lat/long user systems are the
// load-bearing invariants here; only the projection collaborator itself
// (package projection) varies by coordinate system.
package point

import (
	"math"

	"github.com/tvrusso/dflib/dferr"
	"github.com/tvrusso/dflib/projection"
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Point is a 2-D point that can be read and written in either of two
// coordinate systems: the "user" system (whatever projection the caller
// installed) and Mercator-on-WGS84 XY, the working frame every estimator
// uses internally. At most one of the two representations is ever
// considered stale; reading the stale side reprojects and clears its dirty
// flag.
type Point struct {
	userCoords [2]float64
	xy         [2]float64
	userDirty  bool
	mercDirty  bool
	userProj   projection.Projection
	mercProj   projection.Projection
}

// New constructs a Point from an initial user-coordinate vector and a
// projection token sequence (e.g. []string{"proj=longlat"} or
// []string{"proj=xy"}).
func New(userCoords [2]float64, projArgs []string) (*Point, error) {
	userProj, err := projection.New(projArgs)
	if err != nil {
		return nil, err
	}
	mercProj, err := projection.MercatorWGS84()
	if err != nil {
		return nil, err
	}
	return &Point{
		userCoords: userCoords,
		userDirty:  true,
		mercDirty:  false,
		userProj:   userProj,
		mercProj:   mercProj,
	}, nil
}

// NewFromProjections is New, but takes already-constructed projection
// handles.
func NewFromProjections(userCoords [2]float64, userProj, mercProj projection.Projection) *Point {
	return &Point{
		userCoords: userCoords,
		userDirty:  true,
		mercDirty:  false,
		userProj:   userProj,
		mercProj:   mercProj,
	}
}

// SetUserCoords stores v as the user-coordinate representation and marks
// Mercator XY stale.
func (p *Point) SetUserCoords(v [2]float64) {
	p.userCoords = v
	p.userDirty = true
	p.mercDirty = false
}

// SetXY stores v as the Mercator XY representation and marks user
// coordinates stale.
func (p *Point) SetXY(v [2]float64) {
	p.xy = v
	p.mercDirty = true
	p.userDirty = false
}

// GetXY returns the Mercator XY representation, reprojecting from user
// coordinates first if they are the fresher of the two.
func (p *Point) GetXY() ([2]float64, error) {
	if p.userDirty {
		if err := p.userToMerc(); err != nil {
			return [2]float64{}, err
		}
	}
	return p.xy, nil
}

// GetUserCoords returns the user-coordinate representation, reprojecting
// from Mercator XY first if that is the fresher of the two.
func (p *Point) GetUserCoords() ([2]float64, error) {
	if p.mercDirty {
		if err := p.mercToUser(); err != nil {
			return [2]float64{}, err
		}
	}
	return p.userCoords, nil
}

// IsUserProjLatLong reports whether the installed user projection is a
// longitude/latitude system.
func (p *Point) IsUserProjLatLong() bool {
	return p.userProj.IsLatLong()
}

// SetUserProjection installs a new user projection. If the current user
// coordinates are the fresher representation, Mercator XY is materialized
// first so no information is lost; afterward, user coordinates are marked
// stale so the next read reprojects through the new projection.
func (p *Point) SetUserProjection(projArgs []string) error {
	newProj, err := projection.New(projArgs)
	if err != nil {
		return err
	}
	if p.userDirty {
		if err := p.userToMerc(); err != nil {
			return err
		}
	}
	p.userProj.Close()
	p.userProj = newProj
	p.mercDirty = true
	p.userDirty = false
	return nil
}

// Clone returns an independent copy of p. Both projection handles are
// reinstantiated from their textual definitions so the original and the
// clone can be destroyed independently (Clone never aliases projection
// state), matching DFLib::Proj::Point's copy constructor.
func (p *Point) Clone() (*Point, error) {
	userProj, err := projection.NewFromText(p.userProj.Def())
	if err != nil {
		return nil, err
	}
	mercProj, err := projection.NewFromText(p.mercProj.Def())
	if err != nil {
		return nil, err
	}
	return &Point{
		userCoords: p.userCoords,
		xy:         p.xy,
		userDirty:  p.userDirty,
		mercDirty:  p.mercDirty,
		userProj:   userProj,
		mercProj:   mercProj,
	}, nil
}

// Close releases the point's projection handles.
func (p *Point) Close() {
	p.userProj.Close()
	p.mercProj.Close()
}

func (p *Point) userToMerc() error {
	var lon, lat float64
	if p.userProj.IsLatLong() {
		lon = p.userCoords[0] * degToRad
		lat = p.userCoords[1] * degToRad
	} else {
		u, v, err := p.userProj.Inverse(p.userCoords[0], p.userCoords[1])
		if err != nil {
			return dferr.Wrap(dferr.KindProjectionTransform, "user coords to lon/lat", err)
		}
		lon, lat = u, v
	}

	x, y, err := p.mercProj.Forward(lon, lat)
	if err != nil {
		return dferr.Wrap(dferr.KindProjectionTransform, "lon/lat to mercator", err)
	}
	p.xy = [2]float64{x, y}
	p.userDirty = false
	return nil
}

func (p *Point) mercToUser() error {
	lon, lat, err := p.mercProj.Inverse(p.xy[0], p.xy[1])
	if err != nil {
		return dferr.Wrap(dferr.KindProjectionTransform, "mercator to lon/lat", err)
	}

	if p.userProj.IsLatLong() {
		p.userCoords = [2]float64{lon * radToDeg, lat * radToDeg}
	} else {
		x, y, err := p.userProj.Forward(lon, lat)
		if err != nil {
			return dferr.Wrap(dferr.KindProjectionTransform, "lon/lat to user coords", err)
		}
		p.userCoords = [2]float64{x, y}
	}
	p.mercDirty = false
	return nil
}
