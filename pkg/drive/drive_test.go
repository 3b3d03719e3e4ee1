package drive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordDrive struct {
	left, right int32
	mode        Mode
}

func (d *recordDrive) SetSpeed(left, right int32) error {
	d.left, d.right = left, right
	return nil
}

func (d *recordDrive) SetMode(mode Mode) error {
	d.mode = mode
	return nil
}

func TestAdjustedSetSpeed(t *testing.T) {
	cases := []struct {
		name        string
		quirks      Quirks
		left, right int32
	}{
		{"none", Quirks{}, 100, 200},
		{"left", Quirks{InvertLeftMotor: true}, -100, 200},
		{"right", Quirks{InvertRightMotor: true}, 100, -200},
		{"both", Quirks{InvertLeftMotor: true, InvertRightMotor: true}, -100, -200},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := &recordDrive{}
			a := Adjust(d, c.quirks)
			require.NoError(t, a.SetSpeed(100, 200))
			require.Equal(t, c.left, d.left)
			require.Equal(t, c.right, d.right)
			require.NoError(t, a.SetMode(ModeSpeed))
			require.Equal(t, ModeSpeed, d.mode)
		})
	}
}

func TestEncoderSign(t *testing.T) {
	l, r := Quirks{SwapRightEncoder: true}.EncoderSign()
	require.Equal(t, int32(1), l)
	require.Equal(t, int32(-1), r)
}

func TestNames(t *testing.T) {
	require.Equal(t, "STOP", ModeStop.String())
	require.Equal(t, "Mode(9)", Mode(9).String())
	require.Equal(t, "LEFT180", TurnLeft180.String())
}
