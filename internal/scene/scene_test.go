package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist"
)

const (
	testWidth  = 80
	testHeight = 48
)

func homeOf(t *testing.T, a *cubetwist.Assembly, n Node) cubetwist.GridCoordinate {
	t.Helper()
	c, ok := a.CubeletByID(n.ID)
	require.True(t, ok)
	return c.Home()
}

func TestDefaultCamera_Eye(t *testing.T) {
	eye := DefaultCamera().Eye()
	assert.True(t, eye.ApproxEqualThreshold(mgl64.Vec3{-3, 3, 3}, 1e-9), "eye = %v", eye)
}

func TestCamera_OrbitClampsPitch(t *testing.T) {
	cam := DefaultCamera()
	cam.Orbit(10, 200)
	assert.Equal(t, MaxPitch, cam.Pitch)
	assert.InDelta(t, -35, cam.Yaw, 1e-9)

	cam.Orbit(0, -500)
	assert.Equal(t, MinPitch, cam.Pitch)
}

func TestCamera_ZoomClampsDistance(t *testing.T) {
	cam := DefaultCamera()
	cam.Zoom(0.01)
	assert.Equal(t, MinDistance, cam.Distance)
	cam.Zoom(1000)
	assert.Equal(t, MaxDistance, cam.Distance)
}

func TestCamera_RayThroughCenter(t *testing.T) {
	cam := DefaultCamera()
	r, err := cam.Ray(testWidth/2, testHeight/2, testWidth, testHeight)
	require.NoError(t, err)

	want := cam.Eye().Mul(-1).Normalize()
	assert.True(t, r.Dir.ApproxEqualThreshold(want, 1e-6), "dir = %v, want %v", r.Dir, want)

	// The ray passes through the origin.
	closest := r.At(-r.Origin.Dot(r.Dir))
	assert.Less(t, closest.Len(), 1e-6)
}

func TestCamera_RayScreenYGrowsDown(t *testing.T) {
	cam := DefaultCamera()
	cam.Pitch = 0
	cam.Yaw = 0

	up, err := cam.Ray(testWidth/2, 0, testWidth, testHeight)
	require.NoError(t, err)
	down, err := cam.Ray(testWidth/2, testHeight, testWidth, testHeight)
	require.NoError(t, err)

	assert.Greater(t, up.Dir.Y(), 0.0)
	assert.Less(t, down.Dir.Y(), 0.0)
}

func TestIntersect_RotatedNode(t *testing.T) {
	n := Node{
		Orientation: mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 1, 0}),
		Half:        0.5,
	}
	r := Ray{Origin: mgl64.Vec3{5, 0, 0}, Dir: mgl64.Vec3{-1, 0, 0}}

	dist, ok := n.Intersect(r)
	require.True(t, ok)
	assert.InDelta(t, 5-math.Sqrt2/2, dist, 1e-9)

	_, ok = n.Intersect(Ray{Origin: mgl64.Vec3{5, 2, 0}, Dir: mgl64.Vec3{-1, 0, 0}})
	assert.False(t, ok)

	_, ok = n.Intersect(Ray{Origin: mgl64.Vec3{5, 0, 0}, Dir: mgl64.Vec3{1, 0, 0}})
	assert.False(t, ok, "box behind the ray")
}

func TestPick_NearestCornerFirst(t *testing.T) {
	a := cubetwist.NewAssembly()
	nodes := NodesFrom(a)
	cam := DefaultCamera()

	r, err := cam.Ray(testWidth/2, testHeight/2, testWidth, testHeight)
	require.NoError(t, err)

	id, ok := Pick(nodes, r)
	require.True(t, ok)
	c, _ := a.CubeletByID(id)
	assert.Equal(t, cubetwist.GridCoordinate{-1, 1, 1}, c.Home())
}

func TestPick_Miss(t *testing.T) {
	nodes := NodesFrom(cubetwist.NewAssembly())
	r, err := DefaultCamera().Ray(0.5, 0.5, testWidth, testHeight)
	require.NoError(t, err)

	_, ok := Pick(nodes, r)
	assert.False(t, ok)
}

func TestNodesFrom_AppliesIdleSpin(t *testing.T) {
	a := cubetwist.NewAssembly(cubetwist.WithIdleRates(0, math.Pi/2, 0))
	a.AutoRotate = true
	a.AdvanceIdle(1)

	for _, n := range NodesFrom(a) {
		if homeOf(t, a, n) == (cubetwist.GridCoordinate{1, 0, 0}) {
			assert.True(t, n.Center.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1.05}, 1e-9), "center = %v", n.Center)
		}
	}
}

func TestNodesFrom_LiftScalesHalfExtent(t *testing.T) {
	a := cubetwist.NewAssembly()
	a.Face(cubetwist.Top).Scale(1.05)

	for _, n := range NodesFrom(a) {
		if homeOf(t, a, n)[1] == 1 {
			assert.InDelta(t, 0.525, n.Half, 1e-12)
		} else {
			assert.InDelta(t, 0.5, n.Half, 1e-12)
		}
	}
}

func TestRender_CenterPixelMatchesPick(t *testing.T) {
	a := cubetwist.NewAssembly()
	nodes := NodesFrom(a)
	cam := DefaultCamera()
	fb := NewFramebuffer(testWidth, testHeight)
	fb.Render(nodes, cam)

	x, y := testWidth/2, testHeight/2
	owner := fb.OwnerAt(x, y)
	require.GreaterOrEqual(t, owner, 0)

	r, err := cam.Ray(float64(x)+0.5, float64(y)+0.5, testWidth, testHeight)
	require.NoError(t, err)
	id, ok := Pick(nodes, r)
	require.True(t, ok)
	assert.Equal(t, nodes[owner].ID, id)
}

func TestRender_CornersAreBackground(t *testing.T) {
	fb := NewFramebuffer(testWidth, testHeight)
	fb.Render(NodesFrom(cubetwist.NewAssembly()), DefaultCamera())

	assert.Equal(t, Background, fb.At(0, 0))
	assert.Equal(t, Background, fb.At(testWidth-1, testHeight-1))
	assert.Equal(t, -1, fb.OwnerAt(0, 0))
}

func TestRender_StickerColourFacingCamera(t *testing.T) {
	cam := DefaultCamera()
	cam.Yaw = 90
	cam.Pitch = 0

	fb := NewFramebuffer(testWidth, testHeight)
	fb.Render(NodesFrom(cubetwist.NewAssembly()), cam)

	want := shade(cubetwist.Red, mgl64.Vec3{1, 0, 0})
	assert.Equal(t, want, fb.At(testWidth/2, testHeight/2))
}

func TestShade(t *testing.T) {
	// A face turned away from the light gets ambient only.
	got := shade(cubetwist.White, lightDir.Mul(-1))
	assert.Equal(t, RGB{179, 179, 179}, got)

	// Facing the light saturates.
	got = shade(cubetwist.White, lightDir)
	assert.Equal(t, RGB{255, 255, 255}, got)
}
