package linefollow

// PID is the steering control law. The line position error is turned
// into a speed difference between the wheels.
type PID struct {
	Gains
	integral float64
	lastErr  float64
}

// Gains configures PID.
type Gains struct {
	P, I, D     float64
	BaseSpeed   int32
	MaxSpeed    int32
	IntegralMax float64
}

// Reset clears the accumulated state.
func (p *PID) Reset() {
	p.integral, p.lastErr = 0, 0
}

// Line computes wheel speeds steering pos towards setpoint.
func (p *PID) Line(pos, setpoint uint16) (left, right int32) {
	e := float64(pos) - float64(setpoint)
	p.integral += e
	if limit := p.IntegralMax; limit > 0 {
		if p.integral > limit {
			p.integral = limit
		} else if p.integral < -limit {
			p.integral = -limit
		}
	}
	corr := p.P*e + p.I*p.integral + p.D*(e-p.lastErr)
	p.lastErr = e
	left = clamp(p.BaseSpeed+int32(corr), p.MaxSpeed)
	right = clamp(p.BaseSpeed-int32(corr), p.MaxSpeed)
	return
}

func clamp(v, limit int32) int32 {
	if limit <= 0 {
		return v
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
