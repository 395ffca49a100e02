package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/ble"
	"github.com/SeamusWaldron/cubetwist/internal/interaction"
	"github.com/SeamusWaldron/cubetwist/internal/protocol"
	"github.com/SeamusWaldron/cubetwist/internal/recorder"
	"github.com/SeamusWaldron/cubetwist/internal/scene"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	twistStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Rows above and below the cube viewport.
const (
	headerRows = 2
	footerRows = 2
)

// Keyboard orbit and zoom steps.
const (
	orbitStep = 5.0
	zoomStep  = 1.1
)

// Messages
type frameMsg time.Time
type bleConnectedMsg struct{ name string }
type bleMessageMsg struct{ msg *protocol.Message }
type bleErrorMsg struct{ err error }

// cubeModel is the bubbletea model shared by play and mirror.
type cubeModel struct {
	assembly *cubetwist.Assembly
	camera   *scene.Camera
	ctrl     *interaction.Controller
	fb       *scene.Framebuffer
	session  *recorder.Session
	log      zerolog.Logger

	frameEvery time.Duration
	maxDelta   time.Duration
	lastFrame  time.Time
	frame      string

	// Device, mirror only
	mirror      bool
	client      *ble.Client
	connect     tea.Cmd
	msgChan     chan *protocol.Message
	battery     int
	orientation *protocol.OrientationEvent

	// Last settled twist
	lastTwist  *interaction.Settled
	twistCount int

	// UI
	width    int
	height   int
	err      error
	quitting bool
}

type modelOptions struct {
	session *recorder.Session
	mirror  bool
	client  *ble.Client
	connect tea.Cmd
}

func newCubeModel(opts modelOptions) *cubeModel {
	assembly := cubetwist.NewAssembly(
		cubetwist.WithEasing(settings.Animation.Easing),
		cubetwist.WithAutoRotate(settings.Animation.AutoRotate),
	)

	cam := scene.DefaultCamera()
	cam.Yaw = settings.Camera.Yaw
	cam.Pitch = settings.Camera.Pitch
	cam.Distance = settings.Camera.Distance
	cam.FOV = settings.Render.FOV

	m := &cubeModel{
		assembly:   assembly,
		camera:     &cam,
		session:    opts.session,
		log:        logger,
		frameEvery: time.Second / time.Duration(settings.Render.FPS),
		maxDelta:   settings.Render.MaxFrameDelta,
		mirror:     opts.mirror,
		client:     opts.client,
		connect:    opts.connect,
		msgChan:    make(chan *protocol.Message, 100),
		battery:    -1,
	}

	ctrlOpts := interaction.DefaultOptions()
	ctrlOpts.DragSensitivity = settings.Interaction.DragSensitivity
	ctrlOpts.LiftScale = settings.Interaction.LiftScale
	ctrlOpts.GrabWhileSettling = settings.Interaction.GrabWhileSettling
	ctrlOpts.Logger = logger
	ctrlOpts.OnSettled = m.onSettled
	m.ctrl = interaction.New(assembly, m.camera, ctrlOpts)

	m.resize(80, 24)
	return m
}

func (m *cubeModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.frameCmd()}
	if m.mirror && m.connect != nil {
		cmds = append(cmds, m.connect, m.listenForMessages())
	}
	return tea.Batch(cmds...)
}

func (m *cubeModel) frameCmd() tea.Cmd {
	return tea.Tick(m.frameEvery, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *cubeModel) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		msg := <-m.msgChan
		return bleMessageMsg{msg: msg}
	}
}

// forward is the BLE message callback. It runs on the adapter's goroutine.
func (m *cubeModel) forward(msg *protocol.Message) {
	select {
	case m.msgChan <- msg:
	default:
		// Channel full, drop message
	}
}

func (m *cubeModel) onSettled(s interaction.Settled) {
	m.lastTwist = &s
	m.twistCount++
	if m.session != nil {
		m.session.Record(s)
	}
}

// resize lays the viewport out below the header. Each cell shows two pixels
// stacked vertically.
func (m *cubeModel) resize(width, height int) {
	m.width, m.height = width, height
	rows := height - headerRows - footerRows
	if rows < 1 {
		rows = 1
	}
	if width < 1 {
		width = 1
	}
	m.fb = scene.NewFramebuffer(width, rows*2)
	m.ctrl.Resize(m.fb.Width, m.fb.Height)
}

// pixel maps a terminal cell to the centre of its pixels in the viewport.
func (m *cubeModel) pixel(x, y int) (float64, float64) {
	return float64(x) + 0.5, float64(y-headerRows)*2 + 1
}

func (m *cubeModel) render() {
	m.fb.Render(scene.NodesFrom(m.assembly), *m.camera)
	m.frame = renderFramebuffer(m.fb)
}

func (m *cubeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			if m.client != nil {
				m.client.Disconnect()
			}
			return m, tea.Quit

		case "a":
			m.assembly.AutoRotate = !m.assembly.AutoRotate

		case "r":
			m.ctrl.Reset()

		case "f":
			if m.client != nil && m.client.IsConnected() {
				if err := m.client.FlashBacklight(); err != nil {
					m.log.Warn().Err(err).Msg("flash failed")
				}
			}

		case "left":
			m.camera.Orbit(orbitStep, 0)
		case "right":
			m.camera.Orbit(-orbitStep, 0)
		case "up":
			m.camera.Orbit(0, -orbitStep)
		case "down":
			m.camera.Orbit(0, orbitStep)
		case "+", "=":
			m.camera.Zoom(1 / zoomStep)
		case "-", "_":
			m.camera.Zoom(zoomStep)
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.render()

	case frameMsg:
		now := time.Time(msg)
		dt := m.frameEvery
		if !m.lastFrame.IsZero() {
			dt = now.Sub(m.lastFrame)
		}
		if dt > m.maxDelta {
			dt = m.maxDelta
		}
		m.lastFrame = now

		m.ctrl.Tick(dt.Seconds())
		m.render()
		if m.client != nil {
			m.battery = m.client.Battery()
		}
		return m, m.frameCmd()

	case bleConnectedMsg:
		m.log.Info().Str("device", msg.name).Msg("mirroring")

	case bleErrorMsg:
		m.err = msg.err
		m.log.Error().Err(msg.err).Msg("device error")

	case bleMessageMsg:
		m.handleDeviceMessage(msg.msg)
		return m, m.listenForMessages()
	}

	return m, nil
}

func (m *cubeModel) handleMouse(msg tea.MouseMsg) {
	if msg.Y < headerRows && msg.Action == tea.MouseActionPress {
		return
	}
	x, y := m.pixel(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.ctrl.PointerDown(x, y)
		case tea.MouseButtonWheelUp:
			m.camera.Zoom(1 / zoomStep)
		case tea.MouseButtonWheelDown:
			m.camera.Zoom(zoomStep)
		}
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(x, y)
	case tea.MouseActionRelease:
		m.ctrl.PointerMove(x, y)
		m.ctrl.PointerUp()
	}
}

func (m *cubeModel) handleDeviceMessage(msg *protocol.Message) {
	if msg == nil {
		return
	}
	switch msg.Type {
	case protocol.MsgTypeRotation:
		events, err := protocol.DecodeRotation(msg.Payload)
		if err != nil {
			m.log.Warn().Err(err).Str("raw", msg.RawBase64).Msg("bad rotation")
			return
		}
		for _, ev := range events {
			m.ctrl.QueueTurn(ev.Face(), ev.Clockwise)
			m.log.Debug().
				Stringer("color", ev.Color).
				Stringer("face", ev.Face()).
				Bool("clockwise", ev.Clockwise).
				Msg("device rotation")
		}

	case protocol.MsgTypeOrientation:
		ev, err := protocol.DecodeOrientation(msg.Payload)
		if err != nil {
			m.log.Debug().Err(err).Msg("bad orientation")
			return
		}
		m.orientation = ev

	case protocol.MsgTypeBattery:
		if ev, err := protocol.DecodeBattery(msg.Payload); err == nil {
			m.battery = ev.Level
		}
	}
}

func (m *cubeModel) View() string {
	if m.quitting {
		msg := "Goodbye!\n"
		if m.session != nil && m.twistCount > 0 {
			msg += fmt.Sprintf("%d twists journaled in session %s (%s)\n",
				m.session.Count(), m.session.ID().String()[:8], m.session.Elapsed().Round(time.Second))
		}
		return msg
	}

	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("cubetwist"))
	b.WriteString("  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.activityLine())
	b.WriteString("\n")

	// Cube
	b.WriteString(m.frame)
	b.WriteString("\n")

	// Footer
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))

	return b.String()
}

func (m *cubeModel) statusLine() string {
	if !m.mirror {
		auto := "off"
		if m.assembly.AutoRotate {
			auto = "on"
		}
		return statusStyle.Render(fmt.Sprintf("auto-rotate: %s", auto))
	}
	if m.client == nil || !m.client.IsConnected() {
		return errorStyle.Render("Connecting...")
	}

	status := fmt.Sprintf("Connected: %s", m.client.DeviceName())
	if m.battery >= 0 {
		status += fmt.Sprintf(" (Battery: %d%%)", m.battery)
	}
	if m.orientation != nil {
		status += fmt.Sprintf("  up: %s  front: %s",
			cubetwist.HomeColor(m.orientation.Up), cubetwist.HomeColor(m.orientation.Front))
	}
	return statusStyle.Render(status)
}

func (m *cubeModel) activityLine() string {
	switch {
	case m.ctrl.Dragging():
		return activeStyle.Render("twisting")
	case m.ctrl.Settling() > 0:
		return activeStyle.Render("snapping")
	case m.ctrl.Pending() > 0:
		return activeStyle.Render(fmt.Sprintf("%d queued", m.ctrl.Pending()))
	case m.lastTwist != nil:
		return twistStyle.Render(fmt.Sprintf("last: %s %+d (%d twists)",
			m.lastTwist.Face, m.lastTwist.QuarterTurns, m.twistCount))
	default:
		return statusStyle.Render("drag a layer to twist it, drag empty space to orbit")
	}
}

func (m *cubeModel) helpLine() string {
	if m.mirror {
		return "a: auto-rotate | r: reset | f: flash cube | arrows: orbit | +/-: zoom | q: quit"
	}
	return "a: auto-rotate | r: reset | arrows: orbit | +/-: zoom | q: quit"
}
