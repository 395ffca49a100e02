// Package scene projects a cube assembly onto a small pixel grid and maps
// screen positions back to cubelets.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orbit limits.
const (
	MinPitch    = -89.0
	MaxPitch    = 89.0
	MinDistance = 2.5
	MaxDistance = 20.0
)

// Camera is an orbit camera looking at the assembly origin.
type Camera struct {
	Yaw      float64 // degrees about +y, 0 looks down -z
	Pitch    float64 // degrees above the horizon
	Distance float64
	FOV      float64 // vertical field of view in degrees
	Near     float64
	Far      float64
}

// DefaultCamera returns the camera placed at (-3, 3, 3) looking at the origin.
func DefaultCamera() Camera {
	return Camera{
		Yaw:      -45,
		Pitch:    mgl64.RadToDeg(math.Atan(1 / math.Sqrt2)),
		Distance: 3 * math.Sqrt(3),
		FOV:      75,
		Near:     0.1,
		Far:      100,
	}
}

// Eye returns the camera position.
func (c Camera) Eye() mgl64.Vec3 {
	yaw := mgl64.DegToRad(c.Yaw)
	pitch := mgl64.DegToRad(c.Pitch)
	return mgl64.Vec3{
		c.Distance * math.Cos(pitch) * math.Sin(yaw),
		c.Distance * math.Sin(pitch),
		c.Distance * math.Cos(pitch) * math.Cos(yaw),
	}
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for a viewport of the given aspect.
func (c Camera) Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Orbit moves the camera around the origin by the given angles in degrees.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 360)
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, MinPitch, MaxPitch)
}

// Zoom scales the orbit distance.
func (c *Camera) Zoom(factor float64) {
	c.Distance = mgl64.Clamp(c.Distance*factor, MinDistance, MaxDistance)
}

// Ray returns the world-space ray through the viewport point (px, py), where
// y grows downward and the viewport is width by height pixels.
func (c Camera) Ray(px, py float64, width, height int) (Ray, error) {
	view := c.View()
	proj := c.Projection(float64(width) / float64(height))

	// UnProject expects window coordinates with y growing upward.
	wy := float64(height) - py
	near, err := mgl64.UnProject(mgl64.Vec3{px, wy, 0}, view, proj, 0, 0, width, height)
	if err != nil {
		return Ray{}, err
	}
	far, err := mgl64.UnProject(mgl64.Vec3{px, wy, 1}, view, proj, 0, 0, width, height)
	if err != nil {
		return Ray{}, err
	}
	return Ray{Origin: near, Dir: far.Sub(near).Normalize()}, nil
}
