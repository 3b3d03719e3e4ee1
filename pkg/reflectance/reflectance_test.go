package reflectance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	cases := []struct {
		name   string
		r      Readings
		expect Shape
	}{
		{"none", Readings{}, ShapeNone},
		{"full", Readings{900, 900, 900, 900, 900, 900}, ShapeFull},
		{"center", Readings{0, 0, 800, 800, 0, 0}, ShapeStraight},
		{"left", Readings{900, 900, 900, 100, 0, 0}, ShapeLeft},
		{"right", Readings{0, 0, 0, 900, 900, 900}, ShapeRight},
		{"edge", Readings{900, 0, 0, 0, 0, 0}, ShapeStraight},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.expect, c.r.Shape())
		})
	}
}

func TestPosition(t *testing.T) {
	require.Equal(t, uint16(MiddleLineValue), Readings{0, 0, 1000, 1000, 0, 0}.Position())
	require.Equal(t, uint16(MinLineValue), Readings{1000, 0, 0, 0, 0, 0}.Position())
	require.Equal(t, uint16(MaxLineValue), Readings{0, 0, 0, 0, 0, 1000}.Position())
	require.Equal(t, uint16(0), Readings{}.Position())
}
