package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/scene"
)

const (
	width  = 80
	height = 48
	frame  = 1.0 / 60
)

type fixture struct {
	assembly *cubetwist.Assembly
	camera   *scene.Camera
	ctrl     *Controller
	settled  []Settled
	now      time.Time
}

func newFixture(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()
	f := &fixture{
		assembly: cubetwist.NewAssembly(),
		now:      time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	cam := scene.DefaultCamera()
	f.camera = &cam

	opts := DefaultOptions()
	opts.OnSettled = func(s Settled) { f.settled = append(f.settled, s) }
	opts.Now = func() time.Time { return f.now }
	if mutate != nil {
		mutate(&opts)
	}
	f.ctrl = New(f.assembly, f.camera, opts)
	f.ctrl.Resize(width, height)
	return f
}

// runUntilIdle ticks until nothing is snapping or queued.
func (f *fixture) runUntilIdle(t *testing.T) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		f.ctrl.Tick(frame)
		if !f.ctrl.Busy() && f.ctrl.Pending() == 0 {
			return
		}
	}
	t.Fatal("animations did not settle")
}

func TestDrag_FullQuarterTurn(t *testing.T) {
	f := newFixture(t, nil)

	// The centre of the view is the corner nearest the camera, which sits on
	// the left, top and front faces. Left wins.
	f.ctrl.PointerDown(width/2, height/2)
	require.True(t, f.ctrl.Dragging())

	f.now = f.now.Add(750 * time.Millisecond)
	f.ctrl.PointerMove(width/2+10, height/2)
	f.ctrl.PointerMove(width/2+20, height/2)
	f.ctrl.PointerUp()

	assert.False(t, f.ctrl.Dragging())
	f.runUntilIdle(t)

	require.Len(t, f.settled, 1)
	assert.Equal(t, Settled{
		Face:         cubetwist.Left,
		QuarterTurns: 1,
		Source:       SourcePointer,
		Duration:     750 * time.Millisecond,
	}, f.settled[0])
	assert.True(t, f.assembly.AtRest())
}

func TestDrag_PartialTurnSnapsBack(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.PointerDown(width/2, height/2)
	f.ctrl.PointerMove(width/2+6, height/2) // 0.3 of a quarter turn
	assert.False(t, f.assembly.AtRest())
	f.ctrl.PointerUp()

	f.runUntilIdle(t)

	assert.Empty(t, f.settled, "a turn that snaps back is not reported")
	assert.True(t, f.assembly.AtRest())
	for _, c := range f.assembly.Cubelets() {
		assert.InDelta(t, c.Home().Vec3().Mul(1.05).X(), c.Position().X(), 1e-4)
	}
}

func TestDrag_VerticalMotionTurnsToo(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.PointerDown(width/2, height/2)
	f.ctrl.PointerMove(width/2, height/2-14) // dy = +14, -0.7 quarter turns
	f.ctrl.PointerUp()
	f.runUntilIdle(t)

	require.Len(t, f.settled, 1)
	assert.Equal(t, -1, f.settled[0].QuarterTurns)
}

func TestDrag_LiftsGrabbedLayer(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.PointerDown(width/2, height/2)
	for _, c := range f.assembly.Cubelets() {
		if c.Home()[0] == -1 {
			assert.Equal(t, 1.05, c.Scale())
		} else {
			assert.Equal(t, 1.0, c.Scale())
		}
	}

	f.ctrl.PointerUp()
	for _, c := range f.assembly.Cubelets() {
		assert.Equal(t, 1.0, c.Scale())
	}
}

func TestGrab_DisablesAutoRotate(t *testing.T) {
	f := newFixture(t, nil)
	f.assembly.AutoRotate = true

	f.ctrl.PointerDown(width/2, height/2)
	assert.False(t, f.assembly.AutoRotate)
}

func TestPointerDown_EmptySpaceOrbits(t *testing.T) {
	f := newFixture(t, nil)
	yaw, pitch := f.camera.Yaw, f.camera.Pitch

	f.ctrl.PointerDown(1, 1)
	require.True(t, f.ctrl.Orbiting())
	assert.False(t, f.ctrl.Dragging())

	f.ctrl.PointerMove(5, 3)
	assert.InDelta(t, yaw-12, f.camera.Yaw, 1e-9)
	assert.InDelta(t, pitch+6, f.camera.Pitch, 1e-9)

	f.ctrl.PointerUp()
	assert.False(t, f.ctrl.Orbiting())
	assert.True(t, f.assembly.AtRest())
}

func TestPointerMove_IgnoredWithoutPress(t *testing.T) {
	f := newFixture(t, nil)
	yaw := f.camera.Yaw

	f.ctrl.PointerMove(10, 10)
	f.ctrl.PointerUp()

	assert.Equal(t, yaw, f.camera.Yaw)
	assert.True(t, f.assembly.AtRest())
}

func TestGrabWhileSettling(t *testing.T) {
	tests := []struct {
		name    string
		allow   bool
		grabbed bool
	}{
		{"allowed", true, true},
		{"refused", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(o *Options) { o.GrabWhileSettling = tt.allow })

			f.ctrl.PointerDown(width/2, height/2)
			f.ctrl.PointerMove(width/2+12, height/2)
			f.ctrl.PointerUp()
			f.ctrl.Tick(frame)
			require.Equal(t, 1, f.ctrl.Settling())

			f.ctrl.PointerDown(width/2, height/2)
			assert.Equal(t, tt.grabbed, f.ctrl.Dragging())
			f.ctrl.PointerUp()

			f.runUntilIdle(t)
			assert.True(t, f.assembly.AtRest())
		})
	}
}

func TestQueueTurn_WaitsForRest(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.PointerDown(width/2, height/2)
	f.ctrl.QueueTurn(cubetwist.Right, true)
	f.ctrl.Tick(frame)
	assert.Equal(t, 1, f.ctrl.Pending(), "device turn must wait for the drag")
	assert.Equal(t, 0, f.ctrl.Settling())

	f.ctrl.PointerUp()
	f.runUntilIdle(t)

	require.Len(t, f.settled, 1)
	assert.Equal(t, Settled{Face: cubetwist.Right, QuarterTurns: -1, Source: SourceDevice}, f.settled[0])

	// Right clockwise takes the top-front-right corner to the top-back-right slot.
	for _, c := range f.assembly.Cubelets() {
		if c.Home() == (cubetwist.GridCoordinate{1, 1, 1}) {
			facing := c.Facing()
			assert.True(t, facing.Right && facing.Top && facing.Back, "facing = %+v", facing)
		}
	}
}

func TestQueueTurn_RunsInOrder(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.QueueTurn(cubetwist.Top, true)
	f.ctrl.QueueTurn(cubetwist.Top, false)
	f.ctrl.QueueTurn(cubetwist.Front, true)
	f.runUntilIdle(t)

	require.Len(t, f.settled, 3)
	assert.Equal(t, cubetwist.Top, f.settled[0].Face)
	assert.Equal(t, -f.settled[0].QuarterTurns, f.settled[1].QuarterTurns)
	assert.Equal(t, cubetwist.Front, f.settled[2].Face)
	assert.True(t, f.assembly.AtRest())
}

func TestQueueTurn_ManyTurnsOfOneFace(t *testing.T) {
	f := newFixture(t, nil)

	const turns = 1000
	for i := 0; i < turns; i++ {
		f.ctrl.QueueTurn(cubetwist.Top, true)
		f.runUntilIdle(t)
		require.True(t, f.assembly.AtRest(), "turn %d left the cube off the grid", i+1)
	}

	require.Len(t, f.settled, turns)
	for _, s := range f.settled {
		assert.Equal(t, cubetwist.Top, s.Face)
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.PointerDown(width/2, height/2)
	f.ctrl.PointerMove(width/2+7, height/2)
	f.ctrl.QueueTurn(cubetwist.Back, true)

	f.ctrl.Reset()

	assert.False(t, f.ctrl.Busy())
	assert.Equal(t, 0, f.ctrl.Pending())
	assert.True(t, f.assembly.AtRest())

	// The release after a reset has nothing to snap.
	f.ctrl.PointerUp()
	assert.Equal(t, 0, f.ctrl.Settling())
}

func TestNetQuarterTurns(t *testing.T) {
	tests := map[int]int{
		0: 0, 1: 1, 2: 2, 3: -1, 4: 0, 5: 1,
		-1: -1, -2: 2, -3: 1, -4: 0, -6: 2,
	}
	for in, want := range tests {
		assert.Equal(t, want, netQuarterTurns(in), "netQuarterTurns(%d)", in)
	}
}
