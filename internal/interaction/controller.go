// Package interaction turns pointer and device input into face turns of a
// cube assembly and drives the per-frame animation.
package interaction

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/scene"
)

// Source identifies what started a face turn.
type Source string

const (
	SourcePointer Source = "pointer"
	SourceDevice  Source = "device"
)

// grabOrder is the face preference when a grabbed cubelet sits on several.
var grabOrder = []cubetwist.Direction{
	cubetwist.Bottom,
	cubetwist.Left,
	cubetwist.Right,
	cubetwist.Top,
	cubetwist.Front,
	cubetwist.Back,
}

// Settled describes a face turn that finished snapping to a whole number of
// quarter turns.
type Settled struct {
	Face         cubetwist.Direction
	QuarterTurns int // net turns in (-2, 2]
	Source       Source
	Duration     time.Duration // grab to release, zero for device turns
}

// Options configures a Controller.
type Options struct {
	DragSensitivity   float64 // quarter turns per pixel of pointer travel
	LiftScale         float64 // scale of the grabbed layer while dragging
	GrabWhileSettling bool    // allow a grab while other layers are still snapping
	OrbitSpeed        float64 // camera degrees per pixel when dragging empty space

	Logger    zerolog.Logger
	OnSettled func(Settled)
	Now       func() time.Time
}

// DefaultOptions returns the options used by the play command.
func DefaultOptions() Options {
	return Options{
		DragSensitivity:   0.05,
		LiftScale:         1.05,
		GrabWhileSettling: true,
		OrbitSpeed:        3,
		Logger:            zerolog.Nop(),
		Now:               time.Now,
	}
}

type animation struct {
	group    *cubetwist.FaceGroup
	source   Source
	duration time.Duration
}

type deviceTurn struct {
	face      cubetwist.Direction
	clockwise bool
}

// Controller owns the pointer state, the dragged layer and the set of layers
// still snapping. It is not safe for concurrent use; all calls are expected
// from the frame loop.
type Controller struct {
	assembly *cubetwist.Assembly
	camera   *scene.Camera
	opts     Options
	log      zerolog.Logger

	width, height int

	pressed   bool
	orbiting  bool
	lastX     float64
	lastY     float64
	drag      *cubetwist.FaceGroup
	dragStart time.Time

	active  []animation
	pending []deviceTurn
}

// New returns a controller for a viewed through cam.
func New(a *cubetwist.Assembly, cam *scene.Camera, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		assembly: a,
		camera:   cam,
		opts:     opts,
		log:      opts.Logger.With().Str("component", "interaction").Logger(),
		width:    1,
		height:   1,
	}
}

// Resize sets the viewport size in pixels.
func (c *Controller) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c.width, c.height = width, height
}

// Viewport returns the viewport size in pixels.
func (c *Controller) Viewport() (int, int) {
	return c.width, c.height
}

// PointerDown handles a button press at viewport position (x, y). A press on
// a cubelet grabs one of the layers it sits on; a press on empty space starts
// orbiting the camera.
func (c *Controller) PointerDown(x, y float64) {
	if c.pressed {
		return
	}
	c.pressed = true
	c.lastX, c.lastY = x, y

	ray, err := c.camera.Ray(x, y, c.width, c.height)
	if err != nil {
		c.log.Debug().Err(err).Msg("unproject failed")
		return
	}
	id, ok := scene.Pick(scene.NodesFrom(c.assembly), ray)
	if !ok {
		c.orbiting = true
		return
	}

	if !c.opts.GrabWhileSettling && len(c.active) > 0 {
		c.log.Debug().Int("settling", len(c.active)).Msg("grab refused")
		return
	}

	cubelet, ok := c.assembly.CubeletByID(id)
	if !ok {
		return
	}
	face, ok := cubelet.Facing().First(grabOrder...)
	if !ok {
		return
	}

	c.assembly.AutoRotate = false
	c.drag = c.assembly.Face(face)
	c.drag.Scale(c.opts.LiftScale)
	c.dragStart = c.opts.Now()

	c.log.Debug().
		Stringer("face", face).
		Int("members", c.drag.Len()).
		Msg("grab")
}

// PointerMove handles pointer motion to (x, y).
func (c *Controller) PointerMove(x, y float64) {
	if !c.pressed {
		return
	}
	dx := c.lastX - x
	dy := c.lastY - y
	c.lastX, c.lastY = x, y

	switch {
	case c.drag != nil:
		c.drag.Rotate(-(dy + dx) * c.opts.DragSensitivity)
	case c.orbiting:
		c.camera.Orbit(dx*c.opts.OrbitSpeed, -dy*c.opts.OrbitSpeed)
	}
}

// PointerUp releases the button. A dragged layer always starts snapping.
func (c *Controller) PointerUp() {
	c.pressed = false
	c.orbiting = false
	if c.drag == nil {
		return
	}

	g := c.drag
	c.drag = nil
	g.Scale(1)
	g.Complete()
	c.active = append(c.active, animation{
		group:    g,
		source:   SourcePointer,
		duration: c.opts.Now().Sub(c.dragStart),
	})

	c.log.Debug().
		Stringer("face", g.Direction()).
		Float64("qturn", g.QTurn()).
		Int("target", g.Target()).
		Msg("release")
}

// QueueTurn schedules a quarter turn of face. Queued turns start one at a
// time once nothing is being dragged or snapping.
func (c *Controller) QueueTurn(face cubetwist.Direction, clockwise bool) {
	c.pending = append(c.pending, deviceTurn{face: face, clockwise: clockwise})
}

// Tick advances every animation by dt seconds.
func (c *Controller) Tick(dt float64) {
	c.assembly.AdvanceIdle(dt)

	remaining := c.active[:0]
	for _, an := range c.active {
		if an.group.Update(dt) {
			remaining = append(remaining, an)
			continue
		}
		c.settle(an)
	}
	for i := len(remaining); i < len(c.active); i++ {
		c.active[i] = animation{}
	}
	c.active = remaining

	c.startPending()
}

func (c *Controller) startPending() {
	if len(c.pending) == 0 || c.Busy() || !c.assembly.AtRest() {
		return
	}
	turn := c.pending[0]
	c.pending = c.pending[1:]

	g := c.assembly.Face(turn.face)
	g.Turn(g.QuarterTurnsFor(turn.clockwise))
	c.active = append(c.active, animation{group: g, source: SourceDevice})

	c.log.Debug().
		Stringer("face", turn.face).
		Bool("clockwise", turn.clockwise).
		Int("queued", len(c.pending)).
		Msg("device turn")
}

func (c *Controller) settle(an animation) {
	n := netQuarterTurns(an.group.Target())
	c.log.Debug().
		Stringer("face", an.group.Direction()).
		Int("quarter_turns", n).
		Str("source", string(an.source)).
		Msg("settled")

	if n == 0 || c.opts.OnSettled == nil {
		return
	}
	c.opts.OnSettled(Settled{
		Face:         an.group.Direction(),
		QuarterTurns: n,
		Source:       an.source,
		Duration:     an.duration,
	})
}

// netQuarterTurns reduces n modulo a full turn into (-2, 2].
func netQuarterTurns(n int) int {
	n %= 4
	if n > 2 {
		n -= 4
	}
	if n <= -2 {
		n += 4
	}
	return n
}

// Dragging reports whether a layer is currently grabbed.
func (c *Controller) Dragging() bool {
	return c.drag != nil
}

// Orbiting reports whether the pointer is orbiting the camera.
func (c *Controller) Orbiting() bool {
	return c.orbiting
}

// Settling returns the number of layers still snapping.
func (c *Controller) Settling() int {
	return len(c.active)
}

// Pending returns the number of queued device turns.
func (c *Controller) Pending() int {
	return len(c.pending)
}

// Busy reports whether any layer is being dragged or is still snapping.
func (c *Controller) Busy() bool {
	return c.drag != nil || len(c.active) > 0
}

// Reset drops all pending motion and puts the cube back in its home state.
func (c *Controller) Reset() {
	c.pressed = false
	c.orbiting = false
	c.drag = nil
	c.active = nil
	c.pending = nil
	c.assembly.Reset()
	c.log.Debug().Msg("reset")
}
