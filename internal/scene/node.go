package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/SeamusWaldron/cubetwist"
)

// Node is a cubelet placed in world space.
type Node struct {
	ID          uuid.UUID
	Center      mgl64.Vec3
	Orientation mgl64.Quat
	Half        float64 // half the edge length
	Colors      [6]cubetwist.Color
}

// NodesFrom places every cubelet of a in world space, applying the
// assembly's idle spin on top of each cubelet's own transform.
func NodesFrom(a *cubetwist.Assembly) []Node {
	spin := a.Orientation()
	cubelets := a.Cubelets()
	nodes := make([]Node, len(cubelets))
	for i, c := range cubelets {
		nodes[i] = Node{
			ID:          c.ID(),
			Center:      spin.Rotate(c.Position()),
			Orientation: spin.Mul(c.Orientation()),
			Half:        0.5 * c.Scale(),
			Colors:      c.Colors(),
		}
	}
	return nodes
}

// faceFrame returns the outward normal and two tangents of a cube face in the
// node's local frame. The tangents satisfy u x v = n.
func faceFrame(d cubetwist.Direction) (n, u, v mgl64.Vec3) {
	n = d.Normal()
	switch d {
	case cubetwist.Right, cubetwist.Left:
		u = mgl64.Vec3{0, 1, 0}
	case cubetwist.Top, cubetwist.Bottom:
		u = mgl64.Vec3{0, 0, 1}
	default:
		u = mgl64.Vec3{1, 0, 0}
	}
	v = n.Cross(u)
	return n, u, v
}
