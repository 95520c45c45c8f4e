package report

import (
	"fmt"
	"math"

	"github.com/tvrusso/dflib/point"
)

// LatLon is a DF report whose user coordinate system is WGS84 lat/lon and
// whose bearing is a geographic bearing, measured clockwise from North —
// already the canonical convention used by package collection.
type LatLon struct {
	name     string
	valid    bool
	bearing  float64 // radians, [0, 2*pi), clockwise from North
	sigma    float64 // radians
	sinB     float64
	cosB     float64
	receiver *point.Point
}

// NewLatLon constructs a LatLon report. locationDegrees is (lon, lat) in
// decimal degrees; bearingDegrees and sigmaDegrees are in degrees.
func NewLatLon(locationDegrees [2]float64, bearingDegrees, sigmaDegrees float64, name string) (*LatLon, error) {
	if sigmaDegrees <= 0 {
		return nil, fmt.Errorf("report: sigma must be > 0, got %v degrees", sigmaDegrees)
	}
	receiver, err := point.New(locationDegrees, []string{"proj=longlat"})
	if err != nil {
		return nil, err
	}
	r := &LatLon{
		name:     name,
		valid:    true,
		sigma:    sigmaDegrees * math.Pi / 180.0,
		receiver: receiver,
	}
	r.SetBearing(bearingDegrees * math.Pi / 180.0)
	return r, nil
}

func (r *LatLon) Name() string     { return r.name }
func (r *LatLon) IsValid() bool    { return r.valid }
func (r *LatLon) ToggleValidity()  { r.valid = !r.valid }
func (r *LatLon) Bearing() float64 { return r.bearing }
func (r *LatLon) Sigma() float64   { return r.sigma }

func (r *LatLon) SetBearing(radians float64) {
	r.bearing = normalizeAngle(radians)
	r.sinB, r.cosB = math.Sincos(r.bearing)
}

func (r *LatLon) ReceiverLocation() ([2]float64, error) {
	return r.receiver.GetXY()
}

// ComputeBearingToPoint returns atan2(dx, dy) — clockwise from North — from
// the receiver to xy, in Mercator XY.
func (r *LatLon) ComputeBearingToPoint(xy [2]float64) (float64, error) {
	rxy, err := r.receiver.GetXY()
	if err != nil {
		return 0, err
	}
	dx := xy[0] - rxy[0]
	dy := xy[1] - rxy[1]
	return normalizeAngle(math.Atan2(dx, dy)), nil
}

// ReportBearingRadians is the identity for LatLon: its native convention
// already is the canonical one.
func (r *LatLon) ReportBearingRadians() float64 {
	return r.bearing
}
