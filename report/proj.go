package report

import (
	"fmt"
	"math"

	"github.com/tvrusso/dflib/point"
)

// Proj is a DF report whose user coordinate system is an arbitrary
// projection (not necessarily lat/lon) and whose bearing is a grid
// bearing in that user plane, measured counter-clockwise from East.
type Proj struct {
	name     string
	valid    bool
	bearing  float64 // radians, [0, 2*pi), counter-clockwise from East
	sigma    float64 // radians
	sinB     float64
	cosB     float64
	receiver *point.Point
}

// NewProj constructs a Proj report. locationUser is in the units of the
// installed projection (projArgs); bearingDegrees and sigmaDegrees are in
// degrees regardless of the user projection.
func NewProj(locationUser [2]float64, bearingDegrees, sigmaDegrees float64, name string, projArgs []string) (*Proj, error) {
	if sigmaDegrees <= 0 {
		return nil, fmt.Errorf("report: sigma must be > 0, got %v degrees", sigmaDegrees)
	}
	receiver, err := point.New(locationUser, projArgs)
	if err != nil {
		return nil, err
	}
	r := &Proj{
		name:     name,
		valid:    true,
		sigma:    sigmaDegrees * math.Pi / 180.0,
		receiver: receiver,
	}
	r.SetBearing(bearingDegrees * math.Pi / 180.0)
	return r, nil
}

func (r *Proj) Name() string     { return r.name }
func (r *Proj) IsValid() bool    { return r.valid }
func (r *Proj) ToggleValidity()  { r.valid = !r.valid }
func (r *Proj) Bearing() float64 { return r.bearing }
func (r *Proj) Sigma() float64   { return r.sigma }

func (r *Proj) SetBearing(radians float64) {
	r.bearing = normalizeAngle(radians)
	r.sinB, r.cosB = math.Sincos(r.bearing)
}

func (r *Proj) ReceiverLocation() ([2]float64, error) {
	return r.receiver.GetXY()
}

// ComputeBearingToPoint returns atan2(dy, dx) — counter-clockwise from
// East — from the receiver to xy, in Mercator XY.
func (r *Proj) ComputeBearingToPoint(xy [2]float64) (float64, error) {
	rxy, err := r.receiver.GetXY()
	if err != nil {
		return 0, err
	}
	dx := xy[0] - rxy[0]
	dy := xy[1] - rxy[1]
	return normalizeAngle(math.Atan2(dy, dx)), nil
}

// ReportBearingRadians converts the grid bearing (counter-clockwise from
// East) into the canonical convention (clockwise from North): theta' =
// pi/2 - bearing, normalized into [0, 2*pi).
func (r *Proj) ReportBearingRadians() float64 {
	return normalizeAngle(math.Pi/2 - r.bearing)
}
