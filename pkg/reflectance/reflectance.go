// Package reflectance classifies reflectance sensor array readings.
package reflectance

import "fmt"

// NumSensors is the number of sensors in the array.
const NumSensors = 6

// Sensor positions are weighted 1000 apart starting at 1000.
const (
	MinLineValue    = 1000
	MaxLineValue    = NumSensors * 1000
	MiddleLineValue = (NumSensors + 1) * 1000 / 2
)

// Threshold above which a calibrated reading sees the line.
const Threshold = 500

// Shape is the categorical read of the sensor array.
type Shape int

// Line shapes.
const (
	ShapeNone Shape = iota
	ShapeStraight
	ShapeLeft
	ShapeRight
	ShapeFull
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "NONE"
	case ShapeStraight:
		return "STRAIGHT"
	case ShapeLeft:
		return "LEFT"
	case ShapeRight:
		return "RIGHT"
	case ShapeFull:
		return "FULL"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Sensor is the reflectance collaborator.
type Sensor interface {
	LinePosition() uint16
	LineShape() Shape
}

// Readings are calibrated values, 0 is white and 1000 is black.
type Readings [NumSensors]uint16

// Position returns the weighted line position, 0 if no line is seen.
func (r Readings) Position() uint16 {
	var sum, weighted uint32
	for i, v := range r {
		if v < Threshold/4 {
			continue
		}
		sum += uint32(v)
		weighted += uint32(v) * uint32(i+1) * 1000
	}
	if sum == 0 {
		return 0
	}
	return uint16(weighted / sum)
}

// Shape classifies the readings.
func (r Readings) Shape() Shape {
	var count int
	leftmost, rightmost := false, false
	for i, v := range r {
		if v < Threshold {
			continue
		}
		count++
		if i == 0 {
			leftmost = true
		}
		if i == NumSensors-1 {
			rightmost = true
		}
	}
	switch {
	case count == 0:
		return ShapeNone
	case count == NumSensors:
		return ShapeFull
	case leftmost && !rightmost && count > 2:
		return ShapeLeft
	case rightmost && !leftmost && count > 2:
		return ShapeRight
	}
	return ShapeStraight
}
