package cubetwist

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// facingThreshold separates the outer layers from the middle layer along an axis.
const facingThreshold = 0.5

// GridCoordinate is a cubelet's home slot in {-1, 0, 1}^3.
type GridCoordinate [3]int

// Vec3 returns the coordinate as a vector.
func (g GridCoordinate) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(g[0]), float64(g[1]), float64(g[2])}
}

// FacingState records which face positions a cubelet currently occupies.
// It is derived from the live position and never stored.
type FacingState struct {
	Right  bool
	Left   bool
	Top    bool
	Bottom bool
	Front  bool
	Back   bool
}

// Is reports the flag for one direction.
func (f FacingState) Is(d Direction) bool {
	switch d {
	case Right:
		return f.Right
	case Left:
		return f.Left
	case Top:
		return f.Top
	case Bottom:
		return f.Bottom
	case Front:
		return f.Front
	case Back:
		return f.Back
	default:
		return false
	}
}

// First returns the first direction in order whose flag is set.
func (f FacingState) First(order ...Direction) (Direction, bool) {
	for _, d := range order {
		if f.Is(d) {
			return d, true
		}
	}
	return 0, false
}

// Cubelet is one of the 27 unit cubes of the assembly.
//
// The home coordinate fixes which faces are coloured. The live transform is an
// orientation about the assembly origin and a uniform scale; the cubelet body
// sits at home*spacing inside that transform, so rotating it moves it between
// slots and scaling it pushes it away from the centre.
type Cubelet struct {
	id          uuid.UUID
	home        GridCoordinate
	offset      mgl64.Vec3
	orientation mgl64.Quat
	scale       float64
}

func newCubelet(id uuid.UUID, home GridCoordinate, spacing float64) *Cubelet {
	return &Cubelet{
		id:          id,
		home:        home,
		offset:      home.Vec3().Mul(spacing),
		orientation: mgl64.QuatIdent(),
		scale:       1,
	}
}

// ID returns the scene identifier of the cubelet.
func (c *Cubelet) ID() uuid.UUID {
	return c.id
}

// Home returns the home grid coordinate.
func (c *Cubelet) Home() GridCoordinate {
	return c.home
}

// HomeFace reports whether the face pointing in d was on the outside of the
// cube when it was built, and therefore carries a colour.
func (c *Cubelet) HomeFace(d Direction) bool {
	return c.home[d.axisIndex()] == d.extreme()
}

// Colors returns the colour of each of the cubelet's own faces, indexed by
// Direction in the cubelet's local frame.
func (c *Cubelet) Colors() [6]Color {
	var faces [6]Color
	for _, d := range Directions {
		faces[d] = Interior
		if c.HomeFace(d) {
			faces[d] = HomeColor(d)
		}
	}
	return faces
}

// Position returns the live centre of the cubelet in assembly space.
func (c *Cubelet) Position() mgl64.Vec3 {
	return c.orientation.Rotate(c.offset.Mul(c.scale))
}

// Orientation returns the live orientation about the assembly origin.
func (c *Cubelet) Orientation() mgl64.Quat {
	return c.orientation
}

// Scale returns the uniform scale.
func (c *Cubelet) Scale() float64 {
	return c.scale
}

// Facing classifies the live position against the face threshold.
func (c *Cubelet) Facing() FacingState {
	p := c.Position()
	return FacingState{
		Right:  p.X() > facingThreshold,
		Left:   p.X() < -facingThreshold,
		Top:    p.Y() > facingThreshold,
		Bottom: p.Y() < -facingThreshold,
		Front:  p.Z() > facingThreshold,
		Back:   p.Z() < -facingThreshold,
	}
}

// ApplyRotation rigidly rotates the cubelet by angle radians about a unit
// axis through the assembly origin. Position and orientation change together.
func (c *Cubelet) ApplyRotation(axis mgl64.Vec3, angle float64) {
	c.orientation = mgl64.QuatRotate(angle, axis).Mul(c.orientation).Normalize()
}

// SetUniformScale sets the cubelet's scale. The pivot stays at the assembly
// origin.
func (c *Cubelet) SetUniformScale(factor float64) {
	c.scale = factor
}

func (c *Cubelet) reset() {
	c.orientation = mgl64.QuatIdent()
	c.scale = 1
}
