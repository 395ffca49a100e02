package cubetwist

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// faceSize is the number of cubelets in one layer.
	faceSize = 9

	// DefaultEasing is the snap rate in 1/seconds.
	DefaultEasing = 10.0

	// settleEpsilon is the residual, in quarter turns, below which a snap is done.
	settleEpsilon = 1e-6
)

// GroupState is the lifecycle state of a FaceGroup.
type GroupState int

const (
	StateIdle     GroupState = iota // no pending motion
	StateDragging                   // receiving rotation deltas
	StateSnapping                   // easing toward a quarter turn
	StateSettled                    // residual within epsilon
)

func (s GroupState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateSnapping:
		return "snapping"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// FaceGroup is one layer of cubelets being turned as a rigid body.
//
// The member set is a snapshot taken when the group is created and is never
// re-queried, because mid-rotation queries may legitimately return more or
// fewer than nine cubelets.
type FaceGroup struct {
	direction Direction
	members   []*Cubelet
	axis      mgl64.Vec3
	sign      float64
	easing    float64

	qturn   float64 // cumulative signed quarter turns applied
	qturnTo float64 // remaining quarter turns to apply while snapping
	state   GroupState
}

// NewFaceGroup wraps a snapshot of members for the face in direction d.
// Groups built by Assembly.Face are the normal way to get one; the constructor
// is exported for callers that select members themselves.
func NewFaceGroup(d Direction, members []*Cubelet, easing float64) *FaceGroup {
	axis, sign := d.rotation()
	snapshot := make([]*Cubelet, len(members))
	copy(snapshot, members)
	return &FaceGroup{
		direction: d,
		members:   snapshot,
		axis:      axis,
		sign:      sign,
		easing:    easing,
		state:     StateDragging,
	}
}

// Direction returns the face position the group was queried for.
func (g *FaceGroup) Direction() Direction {
	return g.direction
}

// Members returns the snapshot of cubelets.
func (g *FaceGroup) Members() []*Cubelet {
	return g.members
}

// Len returns the number of members.
func (g *FaceGroup) Len() int {
	return len(g.members)
}

// Axis returns the turning axis.
func (g *FaceGroup) Axis() mgl64.Vec3 {
	return g.axis
}

// Sign returns the direction sign applied to every rotation.
func (g *FaceGroup) Sign() float64 {
	return g.sign
}

// State returns the current lifecycle state.
func (g *FaceGroup) State() GroupState {
	return g.state
}

// QTurn returns the cumulative quarter turns applied so far.
func (g *FaceGroup) QTurn() float64 {
	return g.qturn
}

// QTurnTo returns the quarter turns still to be applied by Update.
func (g *FaceGroup) QTurnTo() float64 {
	return g.qturnTo
}

// Target returns the whole number of quarter turns the group is heading for.
func (g *FaceGroup) Target() int {
	return int(roundHalfUp(g.qturn + g.qturnTo))
}

// Rotate turns every member by delta quarter turns about the face axis.
// A snapshot that does not hold exactly nine cubelets is left untouched.
func (g *FaceGroup) Rotate(delta float64) {
	if len(g.members) != faceSize {
		return
	}
	g.qturn += delta
	angle := math.Pi / 2 * delta * g.sign
	for _, c := range g.members {
		c.ApplyRotation(g.axis, angle)
	}
}

// Scale sets the uniform scale of every member. It does not affect rotation.
func (g *FaceGroup) Scale(factor float64) {
	for _, c := range g.members {
		c.SetUniformScale(factor)
	}
}

// Complete ends a drag and starts snapping to the nearest quarter turn.
func (g *FaceGroup) Complete() {
	g.qturnTo = roundHalfUp(g.qturn) - g.qturn
	g.state = StateSnapping
}

// Turn queues n whole quarter turns to be eased in by Update.
func (g *FaceGroup) Turn(n int) {
	g.qturnTo += float64(n)
	g.state = StateSnapping
}

// Update advances the snap by one frame of dt seconds and reports whether
// the group is still animating. The step is a first-order decay of the
// residual; a step factor above one is clamped so a long frame lands exactly
// instead of overshooting. Once the residual is below epsilon it is applied
// in full.
func (g *FaceGroup) Update(dt float64) bool {
	k := g.easing * dt
	if k > 1 {
		k = 1
	}
	v := g.qturnTo * k
	g.Rotate(v)
	g.qturnTo -= v

	if g.qturnTo > settleEpsilon || g.qturnTo < -settleEpsilon {
		return true
	}
	// Land exactly on the quarter turn.
	g.Rotate(g.qturnTo)
	g.qturnTo = 0
	g.state = StateSettled
	return false
}

// QuarterTurnsFor returns the signed quarter turns that turn this face
// clockwise as seen from outside the face, or counter-clockwise when
// clockwise is false.
func (g *FaceGroup) QuarterTurnsFor(clockwise bool) int {
	// +1 quarter turn is +90° about axis*sign; clockwise is -90° about the normal.
	n := -int(math.Round(g.direction.Normal().Dot(g.axis.Mul(g.sign))))
	if !clockwise {
		n = -n
	}
	return n
}

// roundHalfUp rounds to the nearest integer with halves going toward +inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
