package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/cubetwist"
)

// Lighting constants.
const (
	ambient     = 0.7
	directional = 0.5
	stickerSize = 0.86 // fraction of a face covered by its sticker
)

var lightDir = mgl64.Vec3{-10, 4, 8}.Normalize()

// RGB is one framebuffer pixel.
type RGB struct {
	R, G, B uint8
}

// Background is the clear colour.
var Background = RGB{0x1c, 0x1b, 0x22}

// Framebuffer is a depth-buffered pixel grid.
type Framebuffer struct {
	Width  int
	Height int
	Pix    []RGB
	Depth  []float64
	Owner  []int // index of the node drawn at each pixel, -1 for background
}

// NewFramebuffer allocates a cleared framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]RGB, width*height),
		Depth:  make([]float64, width*height),
		Owner:  make([]int, width*height),
	}
	fb.Clear(Background)
	return fb
}

// Clear fills the framebuffer with c and resets depth.
func (fb *Framebuffer) Clear(c RGB) {
	for i := range fb.Pix {
		fb.Pix[i] = c
		fb.Depth[i] = math.Inf(1)
		fb.Owner[i] = -1
	}
}

// At returns the pixel at (x, y).
func (fb *Framebuffer) At(x, y int) RGB {
	return fb.Pix[y*fb.Width+x]
}

// OwnerAt returns the node index drawn at (x, y), or -1.
func (fb *Framebuffer) OwnerAt(x, y int) int {
	return fb.Owner[y*fb.Width+x]
}

// vertex is a projected point with perspective-correct face coordinates.
type vertex struct {
	x, y, z float64 // screen position and NDC depth
	invW    float64
	s, t    float64 // face coordinates in [-1, 1], pre-divided by w
}

// Render draws nodes as seen from cam.
func (fb *Framebuffer) Render(nodes []Node, cam Camera) {
	fb.Clear(Background)
	vp := cam.Projection(float64(fb.Width) / float64(fb.Height)).Mul4(cam.View())
	eye := cam.Eye()

	for idx, n := range nodes {
		for _, d := range cubetwist.Directions {
			ln, lu, lv := faceFrame(d)
			normal := n.Orientation.Rotate(ln)
			center := n.Center.Add(normal.Mul(n.Half))
			if normal.Dot(eye.Sub(center)) <= 0 {
				continue
			}
			u := n.Orientation.Rotate(lu).Mul(n.Half)
			v := n.Orientation.Rotate(lv).Mul(n.Half)

			var quad [4]vertex
			corners := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
			visible := true
			for i, st := range corners {
				p := center.Add(u.Mul(st[0])).Add(v.Mul(st[1]))
				vtx, ok := fb.project(vp, p, st[0], st[1])
				if !ok {
					visible = false
					break
				}
				quad[i] = vtx
			}
			if !visible {
				continue
			}

			sticker := shade(n.Colors[d], normal)
			border := shade(cubetwist.Interior, normal)
			fb.triangle(quad[0], quad[1], quad[2], idx, sticker, border)
			fb.triangle(quad[0], quad[2], quad[3], idx, sticker, border)
		}
	}
}

func (fb *Framebuffer) project(vp mgl64.Mat4, p mgl64.Vec3, s, t float64) (vertex, bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 1e-9 {
		return vertex{}, false
	}
	return vertex{
		x:    (clip.X()/w + 1) / 2 * float64(fb.Width),
		y:    (1 - clip.Y()/w) / 2 * float64(fb.Height),
		z:    clip.Z() / w,
		invW: 1 / w,
		s:    s / w,
		t:    t / w,
	}, true
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (fb *Framebuffer) triangle(a, b, c vertex, owner int, sticker, border RGB) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if math.Abs(area) < 1e-12 {
		return
	}

	minX := int(math.Max(0, math.Floor(math.Min(a.x, math.Min(b.x, c.x)))))
	maxX := int(math.Min(float64(fb.Width-1), math.Ceil(math.Max(a.x, math.Max(b.x, c.x)))))
	minY := int(math.Max(0, math.Floor(math.Min(a.y, math.Min(b.y, c.y)))))
	maxY := int(math.Min(float64(fb.Height-1), math.Ceil(math.Max(a.y, math.Max(b.y, c.y)))))

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(b.x, b.y, c.x, c.y, px, py) / area
			w1 := edge(c.x, c.y, a.x, a.y, px, py) / area
			w2 := edge(a.x, a.y, b.x, b.y, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			i := y*fb.Width + x
			if z >= fb.Depth[i] {
				continue
			}

			invW := w0*a.invW + w1*b.invW + w2*c.invW
			s := (w0*a.s + w1*b.s + w2*c.s) / invW
			t := (w0*a.t + w1*b.t + w2*c.t) / invW

			fb.Depth[i] = z
			fb.Owner[i] = owner
			if math.Abs(s) <= stickerSize && math.Abs(t) <= stickerSize {
				fb.Pix[i] = sticker
			} else {
				fb.Pix[i] = border
			}
		}
	}
}

// shade applies ambient plus one directional light to a face colour.
func shade(c cubetwist.Color, normal mgl64.Vec3) RGB {
	k := ambient + directional*math.Max(0, normal.Dot(lightDir))
	r, g, b := c.RGB()
	return RGB{scale(r, k), scale(g, k), scale(b, k)}
}

func scale(v uint8, k float64) uint8 {
	return uint8(math.Min(255, math.Round(float64(v)*k)))
}
