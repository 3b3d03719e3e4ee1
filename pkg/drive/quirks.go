package drive

// Quirks describes the wiring differences of a physical unit.
type Quirks struct {
	InvertLeftMotor  bool `yaml:"invert_left_motor"`
	InvertRightMotor bool `yaml:"invert_right_motor"`
	SwapLeftEncoder  bool `yaml:"swap_left_encoder"`
	SwapRightEncoder bool `yaml:"swap_right_encoder"`
}

// Adjusted wraps a Drive and applies motor direction inversion.
// Encoder swaps are reported to whoever reads the encoders.
type Adjusted struct {
	Drive
	Quirks Quirks
}

// Adjust wraps d with quirks q.
func Adjust(d Drive, q Quirks) *Adjusted {
	return &Adjusted{Drive: d, Quirks: q}
}

// SetSpeed implements Drive.
func (a *Adjusted) SetSpeed(left, right int32) error {
	if a.Quirks.InvertLeftMotor {
		left = -left
	}
	if a.Quirks.InvertRightMotor {
		right = -right
	}
	return a.Drive.SetSpeed(left, right)
}

// EncoderSign returns the sign applied to encoder counts.
func (q Quirks) EncoderSign() (left, right int32) {
	left, right = 1, 1
	if q.SwapLeftEncoder {
		left = -1
	}
	if q.SwapRightEncoder {
		right = -1
	}
	return
}
