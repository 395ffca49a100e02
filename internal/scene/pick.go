package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Ray is a half-line in world space. Dir is unit length.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Intersect returns the distance to the nearest point where r enters the
// node's box.
func (n Node) Intersect(r Ray) (float64, bool) {
	inv := n.Orientation.Conjugate()
	o := inv.Rotate(r.Origin.Sub(n.Center))
	d := inv.Rotate(r.Dir)

	tmin, tmax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < -n.Half || o[i] > n.Half {
				return 0, false
			}
			continue
		}
		t1 := (-n.Half - o[i]) / d[i]
		t2 := (n.Half - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Pick returns the node first hit by r.
func Pick(nodes []Node, r Ray) (uuid.UUID, bool) {
	best := math.Inf(1)
	var hit uuid.UUID
	found := false
	for _, n := range nodes {
		if t, ok := n.Intersect(r); ok && t < best {
			best, hit, found = t, n.ID, true
		}
	}
	return hit, found
}
