package cubetwist

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Direction names one of the six canonical face positions of the assembly.
type Direction int

const (
	Right  Direction = 0 // +x
	Left   Direction = 1 // -x
	Top    Direction = 2 // +y
	Bottom Direction = 3 // -y
	Front  Direction = 4 // +z
	Back   Direction = 5 // -z
)

// Directions lists all six directions in face-slot order.
var Directions = [6]Direction{Right, Left, Top, Bottom, Front, Back}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return "?"
	}
}

// ParseDirection parses a direction name as produced by String.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// axisIndex returns 0, 1 or 2 for the x, y or z axis.
func (d Direction) axisIndex() int {
	return int(d) / 2
}

// extreme returns the grid value (+1 or -1) at the far end of the direction.
func (d Direction) extreme() int {
	if d%2 == 0 {
		return 1
	}
	return -1
}

// Opposite returns the direction on the other side of the same axis.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

// Normal returns the outward unit normal of the face position.
func (d Direction) Normal() mgl64.Vec3 {
	var n mgl64.Vec3
	n[d.axisIndex()] = float64(d.extreme())
	return n
}

// rotation returns the turning axis and direction sign for faces on this
// direction's axis. Opposite faces share the same axis and sign.
func (d Direction) rotation() (mgl64.Vec3, float64) {
	switch d.axisIndex() {
	case 0:
		return mgl64.Vec3{1, 0, 0}, 1
	case 1:
		return mgl64.Vec3{0, -1, 0}, -1
	default:
		return mgl64.Vec3{0, 0, -1}, 1
	}
}

// Color is the colour of one face of a cubelet.
type Color byte

const (
	White    Color = 0 // Top
	Yellow   Color = 1 // Bottom
	Green    Color = 2 // Front
	Blue     Color = 3 // Back
	Red      Color = 4 // Right
	Orange   Color = 5 // Left
	Interior Color = 6 // faces that never show on the outside
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	case Interior:
		return "-"
	default:
		return "?"
	}
}

// RGB returns the display colour.
func (c Color) RGB() (r, g, b uint8) {
	switch c {
	case White:
		return 0xff, 0xff, 0xff
	case Yellow:
		return 0xff, 0xd5, 0x00
	case Green:
		return 0x00, 0x9b, 0x48
	case Blue:
		return 0x00, 0x46, 0xad
	case Red:
		return 0xb7, 0x12, 0x34
	case Orange:
		return 0xff, 0x58, 0x00
	default:
		return 0x35, 0x2f, 0x38
	}
}

// HomeColor returns the colour shown by cubelet faces that start out on the
// given face position.
func HomeColor(d Direction) Color {
	switch d {
	case Top:
		return White
	case Bottom:
		return Yellow
	case Front:
		return Green
	case Back:
		return Blue
	case Right:
		return Red
	case Left:
		return Orange
	default:
		return Interior
	}
}
