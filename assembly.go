package cubetwist

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Assembly owns the 27 cubelets of the puzzle.
type Assembly struct {
	// AutoRotate enables the idle spin advanced by AdvanceIdle.
	AutoRotate bool

	cubelets []*Cubelet
	byID     map[uuid.UUID]*Cubelet
	idle     [3]float64 // Euler angles of the idle spin
	cfg      *config
}

// NewAssembly builds a cube at rest with one cubelet in every grid slot.
func NewAssembly(opts ...Option) *Assembly {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	a := &Assembly{
		AutoRotate: cfg.autoRotate,
		cubelets:   make([]*Cubelet, 0, 27),
		byID:       make(map[uuid.UUID]*Cubelet, 27),
		cfg:        cfg,
	}
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				c := newCubelet(cfg.newID(), GridCoordinate{x, y, z}, cfg.spacing)
				a.cubelets = append(a.cubelets, c)
				a.byID[c.id] = c
			}
		}
	}
	return a
}

// Cubelets returns all cubelets in construction order.
func (a *Assembly) Cubelets() []*Cubelet {
	return a.cubelets
}

// CubeletByID resolves a scene identifier to its cubelet.
func (a *Assembly) CubeletByID(id uuid.UUID) (*Cubelet, bool) {
	c, ok := a.byID[id]
	return c, ok
}

// Query returns the cubelets currently occupying the face position d.
func (a *Assembly) Query(d Direction) []*Cubelet {
	var out []*Cubelet
	for _, c := range a.cubelets {
		if c.Facing().Is(d) {
			out = append(out, c)
		}
	}
	return out
}

// Face queries the face position d and wraps the result in a new FaceGroup.
func (a *Assembly) Face(d Direction) *FaceGroup {
	return NewFaceGroup(d, a.Query(d), a.cfg.easing)
}

// Faces returns a fresh FaceGroup for every direction.
func (a *Assembly) Faces() map[Direction]*FaceGroup {
	faces := make(map[Direction]*FaceGroup, len(Directions))
	for _, d := range Directions {
		faces[d] = a.Face(d)
	}
	return faces
}

// AtRest reports whether every cubelet sits on a grid slot at unit scale and
// every face position holds exactly nine cubelets.
func (a *Assembly) AtRest() bool {
	for _, c := range a.cubelets {
		if c.scale != 1 || !onLattice(c.Position(), a.cfg.spacing) {
			return false
		}
	}
	for _, d := range Directions {
		if len(a.Query(d)) != faceSize {
			return false
		}
	}
	return true
}

// restTolerance is how far, in slot units, a cubelet may sit from its slot.
const restTolerance = 1e-3

func onLattice(p mgl64.Vec3, spacing float64) bool {
	for _, v := range p {
		u := v / spacing
		if math.Abs(u-math.Round(u)) > restTolerance {
			return false
		}
	}
	return true
}

// AdvanceIdle advances the idle spin by dt seconds when AutoRotate is set.
func (a *Assembly) AdvanceIdle(dt float64) {
	if !a.AutoRotate {
		return
	}
	for i, rate := range a.cfg.idleRates {
		a.idle[i] += dt * rate
	}
}

// Orientation returns the idle-spin orientation of the whole assembly.
func (a *Assembly) Orientation() mgl64.Quat {
	return mgl64.AnglesToQuat(a.idle[0], a.idle[1], a.idle[2], mgl64.XYZ)
}

// Reset puts every cubelet back in its home slot and clears the idle spin.
func (a *Assembly) Reset() {
	for _, c := range a.cubelets {
		c.reset()
	}
	a.idle = [3]float64{}
}
