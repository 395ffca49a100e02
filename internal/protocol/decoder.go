package protocol

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/cubetwist"
)

// RotationEvent is a single face turn reported by the cube.
type RotationEvent struct {
	FaceCode          byte // raw face+direction code (0x00-0x0B)
	CenterOrientation byte
	Clockwise         bool
	Color             cubetwist.Color
}

// Face returns the face position the turned layer occupies with white on
// top and green in front.
func (r RotationEvent) Face() cubetwist.Direction {
	for _, d := range cubetwist.Directions {
		if cubetwist.HomeColor(d) == r.Color {
			return d
		}
	}
	return cubetwist.Top
}

// BatteryEvent is a battery level notification.
type BatteryEvent struct {
	Level int // 0-100
}

// CubeTypeEvent is a cube type notification.
type CubeTypeEvent struct {
	TypeCode byte
	TypeName string
}

// OrientationEvent is the orientation of the physical cube.
type OrientationEvent struct {
	Quat mgl64.Quat

	Up    cubetwist.Direction // face position pointing up
	Front cubetwist.Direction // face position pointing at the solver
}

// GoCube colour index order.
var faceColors = [6]cubetwist.Color{
	cubetwist.Blue,
	cubetwist.Green,
	cubetwist.White,
	cubetwist.Yellow,
	cubetwist.Red,
	cubetwist.Orange,
}

// DecodeRotation decodes a rotation payload of [face_dir, center] byte pairs.
// Even face codes are clockwise.
func DecodeRotation(payload []byte) ([]RotationEvent, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("%w: rotation payload must have even length, got %d", ErrInvalidPayload, len(payload))
	}

	events := make([]RotationEvent, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		code := payload[i]
		idx := int(code / 2)
		if idx >= len(faceColors) {
			return nil, fmt.Errorf("%w: unknown face code 0x%02X", ErrInvalidPayload, code)
		}
		events = append(events, RotationEvent{
			FaceCode:          code,
			CenterOrientation: payload[i+1],
			Clockwise:         code%2 == 0,
			Color:             faceColors[idx],
		})
	}
	return events, nil
}

// DecodeBattery decodes a battery payload.
func DecodeBattery(payload []byte) (*BatteryEvent, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("%w: battery payload too short", ErrInvalidPayload)
	}
	return &BatteryEvent{Level: int(payload[0])}, nil
}

// DecodeCubeType decodes a cube type payload.
func DecodeCubeType(payload []byte) (*CubeTypeEvent, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("%w: cube type payload too short", ErrInvalidPayload)
	}
	name := "standard"
	if payload[0] == 0x01 {
		name = "edge"
	}
	return &CubeTypeEvent{TypeCode: payload[0], TypeName: name}, nil
}

// DecodeOrientation decodes an orientation payload of the form "x#y#z#w".
// The cube sends raw integers; the quaternion is normalised.
func DecodeOrientation(payload []byte) (*OrientationEvent, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: orientation payload must have 4 parts, got %d", ErrInvalidPayload, len(parts))
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(leadingNumber(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: orientation component %d: %v", ErrInvalidPayload, i, err)
		}
		v[i] = f
	}

	q := mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
	if q.Len() == 0 {
		return nil, fmt.Errorf("%w: zero orientation", ErrInvalidPayload)
	}
	q = q.Normalize()

	return &OrientationEvent{
		Quat:  q,
		Up:    nearestFace(q.Rotate(mgl64.Vec3{0, 1, 0})),
		Front: nearestFace(q.Rotate(mgl64.Vec3{0, 0, 1})),
	}, nil
}

// leadingNumber strips anything after the numeric prefix of s.
func leadingNumber(s string) string {
	end := 0
	for i, r := range s {
		if (r == '-' && i == 0) || r == '.' || (r >= '0' && r <= '9') {
			end = i + 1
			continue
		}
		break
	}
	return s[:end]
}

// nearestFace returns the face position whose normal is closest to v.
func nearestFace(v mgl64.Vec3) cubetwist.Direction {
	best := cubetwist.Top
	bestDot := math.Inf(-1)
	for _, d := range cubetwist.Directions {
		if dot := d.Normal().Dot(v); dot > bestDot {
			best, bestDot = d, dot
		}
	}
	return best
}
