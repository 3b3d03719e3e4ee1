package sim

import "math"

// Black is the calibrated reading over the line.
const Black = 1000

// Track is a straight line along the X axis with a finish marker
// across it, inside a walled arena. Units are mm.
type Track struct {
	// LineFrom and LineTo are the ends of the line on y = 0.
	LineFrom, LineTo float64
	LineWidth        float64
	// Edge is the width of the gray band around dark areas where
	// readings fall off.
	Edge   float64
	Marker Rect
	Arena  Rect
}

// DefaultTrack starts the robot at the origin heading +X. The marker
// is behind it, so it is only found after the turn at the line end.
var DefaultTrack = Track{
	LineFrom:  -300,
	LineTo:    1000,
	LineWidth: 15,
	Edge:      4,
	Marker:    Rect{MinX: -300, MinY: -50, MaxX: -280, MaxY: 50},
	Arena:     Rect{MinX: -500, MinY: -400, MaxX: 1200, MaxY: 400},
}

// Reflect returns the calibrated reading of a sensor looking at p.
func (t *Track) Reflect(p Pos2D) uint16 {
	if t.Marker.Contains(p) {
		return Black
	}
	if p.X < t.LineFrom || p.X > t.LineTo {
		return 0
	}
	half := t.LineWidth / 2
	d := math.Abs(p.Y)
	switch {
	case d <= half:
		return Black
	case t.Edge > 0 && d < half+t.Edge:
		return uint16(Black * (half + t.Edge - d) / t.Edge)
	}
	return 0
}
