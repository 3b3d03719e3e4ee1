package sim

import "math"

// Pos2D is a position on the track plane in mm.
type Pos2D struct {
	X, Y float64
}

// Pose2D is a position with a heading.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

// Angle is a heading in radians, normalized to (-π, π].
type Angle float64

// Rect is an axis aligned rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Add returns p offset by p1.
func (p Pos2D) Add(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X + p1.X, Y: p.Y + p1.Y}
}

// OffsetBy performs Add in-place.
func (p *Pos2D) OffsetBy(p1 Pos2D) *Pos2D {
	p.X += p1.X
	p.Y += p1.Y
	return p
}

// Contains tells whether p is inside r, edges included.
func (r Rect) Contains(p Pos2D) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// RayDistance is the distance from p along a to the edge of r,
// 0 if p is outside.
func (r Rect) RayDistance(p Pos2D, a Angle) float64 {
	if !r.Contains(p) {
		return 0
	}
	dist := math.Inf(1)
	dx, dy := a.Cos(), a.Sin()
	if dx > 1e-9 {
		dist = math.Min(dist, (r.MaxX-p.X)/dx)
	} else if dx < -1e-9 {
		dist = math.Min(dist, (r.MinX-p.X)/dx)
	}
	if dy > 1e-9 {
		dist = math.Min(dist, (r.MaxY-p.Y)/dy)
	} else if dy < -1e-9 {
		dist = math.Min(dist, (r.MinY-p.Y)/dy)
	}
	return dist
}

// AngleFromDegrees creates Angle from degrees.
func AngleFromDegrees(d float64) Angle {
	return Angle(normalizeRadians(d * math.Pi / 180))
}

// AddRadians turns the angle by r, counter clockwise if positive.
func (a Angle) AddRadians(r float64) Angle {
	return Angle(normalizeRadians(float64(a) + r))
}

// Radians gets angle in radians.
func (a Angle) Radians() float64 {
	return float64(a)
}

// Degrees gets angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Cos wraps math.Cos.
func (a Angle) Cos() float64 {
	return math.Cos(float64(a))
}

// Sin wraps math.Sin.
func (a Angle) Sin() float64 {
	return math.Sin(float64(a))
}

// Project projects a distance along the angle into X and Y.
func (a Angle) Project(dist float64) Pos2D {
	return Pos2D{X: dist * a.Cos(), Y: dist * a.Sin()}
}

func normalizeRadians(r float64) float64 {
	if r >= 2*math.Pi || r <= -2*math.Pi {
		r = math.Remainder(r, 2*math.Pi)
	}
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}
