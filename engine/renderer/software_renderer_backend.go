package renderer

import (
	"fmt"
	"image"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/light"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/Carmen-Shannon/oxy-lessons/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gg"
	"go.uber.org/zap"
)

// primKind is the shape of a depth-sorted primitive.
type primKind uint8

const (
	primTriangle primKind = iota
	primSegment
	primPoint
)

// prim is one projected primitive in device pixels, ready to be painted.
type prim struct {
	kind  primKind
	depth float32
	pts   [3][2]float64
	size  float64
	color gg.RGBA
}

// SoftwareBackend rasterizes snapshots on the CPU with gg. Triangles are flat shaded and painted
// back to front; additive points are accumulated straight into the pixmap.
type SoftwareBackend struct {
	mu *sync.Mutex

	cfg    *config
	ctx    *gg.Context
	width  int
	height int
	ratio  float32

	prims  []prim
	stats  FrameStats
	closed bool
	logger *zap.Logger
}

var _ Backend = &SoftwareBackend{}

func newSoftwareBackend(cfg *config) *SoftwareBackend {
	b := &SoftwareBackend{
		mu:     &sync.Mutex{},
		cfg:    cfg,
		width:  cfg.width,
		height: cfg.height,
		ratio:  cfg.pixelRatio,
		logger: cfg.logger,
	}
	bw, bh := bufferSize(cfg.width, cfg.height, cfg.pixelRatio)
	b.ctx = gg.NewContext(bw, bh)
	return b
}

func (b *SoftwareBackend) Render(snap scene.Snapshot, cam camera.Camera) error {
	if cam == nil {
		return fmt.Errorf("render: nil camera")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.renderLocked(snap, cam)
	return nil
}

func (b *SoftwareBackend) Resize(width, height int, pixelRatio float32) error {
	if width <= 0 || height <= 0 || !(pixelRatio > 0) || !common.Finite(pixelRatio) {
		return fmt.Errorf("resize %dx%d@%g: %w", width, height, pixelRatio, ErrInvalidSize)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	bw, bh := bufferSize(width, height, pixelRatio)
	if err := b.ctx.Resize(bw, bh); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	b.width, b.height, b.ratio = width, height, pixelRatio
	b.logger.Debug("output resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("pixel_ratio", pixelRatio),
		zap.Int("buffer_width", bw),
		zap.Int("buffer_height", bh),
	)
	return nil
}

func (b *SoftwareBackend) Size() (w, h int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx.Width(), b.ctx.Height()
}

func (b *SoftwareBackend) Stats() FrameStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func (b *SoftwareBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.ctx.Close()
}

// Image returns a copy of the last rendered frame.
//
// Returns:
//   - *image.RGBA: the frame pixels
func (b *SoftwareBackend) Image() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx.ResizeTarget().ToImage()
}

// SavePNG writes the last rendered frame to path.
//
// Parameters:
//   - path: the destination file
//
// Returns:
//   - error: error if encoding or writing failed
func (b *SoftwareBackend) SavePNG(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ctx.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes the last rendered frame to w as PNG.
//
// Parameters:
//   - w: the destination writer
//
// Returns:
//   - error: error if encoding failed
func (b *SoftwareBackend) EncodePNG(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx.EncodePNG(w)
}

// renderLocked draws opaque drawables, then transparent ones. Caller must hold the mutex.
func (b *SoftwareBackend) renderLocked(snap scene.Snapshot, cam camera.Camera) {
	r, g, bl := snap.Background.SRGB()
	b.ctx.ClearWithColor(gg.RGBA{R: r, G: g, B: bl, A: float64(b.cfg.clearAlpha)})
	b.stats = FrameStats{}

	f := frameParams{
		viewProj: cam.ViewProjectionMatrix(),
		view:     cam.ViewMatrix(),
		bw:       float64(b.ctx.Width()),
		bh:       float64(b.ctx.Height()),
		ratio:    b.ratio,
		ortho:    cam.Projection() == camera.ProjectionOrthographic,
		lights:   snap.Lights,
	}
	frustum := common.ExtractFrustum(f.viewProj)

	// drawables come opaque-first, so one flush at the boundary keeps transparency over opaque
	b.prims = b.prims[:0]
	flushedOpaque := false
	for _, d := range snap.Drawables {
		if d.Geometry == nil || d.Geometry.Disposed() {
			continue
		}
		m := d.Material
		if m == nil {
			m = defaultMaterial
		}
		if m.Transparent() && !flushedOpaque {
			b.flush()
			flushedOpaque = true
		}
		center, radius := d.Geometry.BoundingSphere()
		if !frustum.IntersectsSphere(common.TransformPoint(d.World, center), radius*maxScale(d.World)) {
			b.stats.Culled++
			continue
		}
		b.stats.Drawables++
		switch d.Geometry.Kind() {
		case geometry.KindPoints:
			b.collectPoints(d, m, &f)
		case geometry.KindLines:
			b.collectSegments(d, m, &f, d.Geometry.Edges())
		default:
			if m.Wireframe() {
				b.collectSegments(d, m, &f, d.Geometry.Edges())
			} else {
				b.collectTriangles(d, m, &f)
			}
		}
	}
	b.flush()
}

// frameParams is per-frame state shared by the collectors.
type frameParams struct {
	viewProj mgl32.Mat4
	view     mgl32.Mat4
	bw, bh   float64
	ratio    float32
	ortho    bool
	lights   []light.Light
}

// toScreen maps a clip-space point to device pixels. ok is false behind the camera.
func (f *frameParams) toScreen(clip mgl32.Vec4) (x, y float64, z float32, ok bool) {
	if clip[3] <= common.Epsilon {
		return 0, 0, 0, false
	}
	inv := 1 / clip[3]
	nx, ny, nz := clip[0]*inv, clip[1]*inv, clip[2]*inv
	x = (float64(nx) + 1) / 2 * f.bw
	y = (1 - float64(ny)) / 2 * f.bh
	return x, y, nz, true
}

func (b *SoftwareBackend) collectTriangles(d scene.Drawable, m material.Material, f *frameParams) {
	pos := d.Geometry.Attribute(geometry.AttributePosition)
	if pos == nil || pos.ItemSize < 3 {
		return
	}
	colors := vertexColors(d.Geometry, m)
	base, alpha := surface(m)
	mvp := f.viewProj.Mul4(d.World)
	lit := m.Kind() == material.KindStandard

	indices := d.Geometry.Indices()
	count := len(indices)
	if count == 0 {
		count = pos.Count() - pos.Count()%3
	}
	index := func(i int) int {
		if len(indices) > 0 {
			return int(indices[i])
		}
		return i
	}

	for i := 0; i+2 < count; i += 3 {
		var t prim
		t.kind = primTriangle
		var world [3]mgl32.Vec3
		var ndcArea [3][2]float32
		visible := true
		for k := 0; k < 3; k++ {
			v := index(i + k)
			p := attrVec3(pos, v)
			clip := mvp.Mul4x1(p.Vec4(1))
			x, y, z, ok := f.toScreen(clip)
			if !ok || z < -1 || z > 1 {
				visible = false
				break
			}
			t.pts[k] = [2]float64{x, y}
			t.depth += z / 3
			ndcArea[k] = [2]float32{clip[0] / clip[3], clip[1] / clip[3]}
			world[k] = common.TransformPoint(d.World, p)
		}
		if !visible {
			continue
		}
		area := (ndcArea[1][0]-ndcArea[0][0])*(ndcArea[2][1]-ndcArea[0][1]) -
			(ndcArea[1][1]-ndcArea[0][1])*(ndcArea[2][0]-ndcArea[0][0])
		if b.cfg.backfaceCull && area <= 0 {
			continue
		}

		c := base
		if colors != nil {
			c = c.Mul(avgColor(colors, index(i), index(i+1), index(i+2)))
		}
		if lit {
			n, ok := common.SafeNormalize(world[1].Sub(world[0]).Cross(world[2].Sub(world[0])))
			if ok {
				centroid := world[0].Add(world[1]).Add(world[2]).Mul(1.0 / 3)
				c = c.Mul(irradiance(f.lights, centroid, n))
			}
		}
		t.color = toRGBA(c, alpha)
		b.prims = append(b.prims, t)
		b.stats.Triangles++
	}
}

func (b *SoftwareBackend) collectSegments(d scene.Drawable, m material.Material, f *frameParams, edges []uint32) {
	pos := d.Geometry.Attribute(geometry.AttributePosition)
	if pos == nil || pos.ItemSize < 3 {
		return
	}
	colors := vertexColors(d.Geometry, m)
	base, alpha := surface(m)
	mvp := f.viewProj.Mul4(d.World)

	for i := 0; i+1 < len(edges); i += 2 {
		a, c := int(edges[i]), int(edges[i+1])
		ax, ay, az, okA := f.toScreen(mvp.Mul4x1(attrVec3(pos, a).Vec4(1)))
		cx, cy, cz, okC := f.toScreen(mvp.Mul4x1(attrVec3(pos, c).Vec4(1)))
		if !okA || !okC {
			continue
		}
		col := base
		if colors != nil {
			col = col.Mul(avgColor(colors, a, c))
		}
		b.prims = append(b.prims, prim{
			kind:  primSegment,
			depth: (az + cz) / 2,
			pts:   [3][2]float64{{ax, ay}, {cx, cy}},
			size:  b.cfg.lineWidth * float64(f.ratio),
			color: toRGBA(col, alpha),
		})
		b.stats.Lines++
	}
}

func (b *SoftwareBackend) collectPoints(d scene.Drawable, m material.Material, f *frameParams) {
	pos := d.Geometry.Attribute(geometry.AttributePosition)
	if pos == nil || pos.ItemSize < 3 {
		return
	}
	colors := vertexColors(d.Geometry, m)
	base, alpha := surface(m)
	mvp := f.viewProj.Mul4(d.World)
	mv := f.view.Mul4(d.World)
	additive := m.Blending() == material.BlendingAdditive
	attenuate := m.SizeAttenuation() && !f.ortho
	pm := b.ctx.ResizeTarget()

	n := pos.Count()
	for i := 0; i < n; i++ {
		p := attrVec3(pos, i)
		x, y, z, ok := f.toScreen(mvp.Mul4x1(p.Vec4(1)))
		if !ok || z < -1 || z > 1 {
			continue
		}
		size := float64(m.Size() * f.ratio)
		if attenuate {
			depth := -mv.Mul4x1(p.Vec4(1))[2]
			if depth <= common.Epsilon {
				continue
			}
			size = float64(m.Size()) * f.bh / 2 / float64(depth)
		}
		col := base
		if colors != nil {
			col = col.Mul(attrColor(colors, i))
		}
		b.stats.Points++
		if additive {
			splat(pm, x, y, size, toRGBA(col, alpha), true)
			continue
		}
		b.prims = append(b.prims, prim{
			kind:  primPoint,
			depth: z,
			pts:   [3][2]float64{{x, y}},
			size:  size,
			color: toRGBA(col, alpha),
		})
	}
}

// flush paints the collected primitives far to near. Caller must hold the mutex.
func (b *SoftwareBackend) flush() {
	sort.SliceStable(b.prims, func(i, j int) bool { return b.prims[i].depth > b.prims[j].depth })
	pm := b.ctx.ResizeTarget()
	for _, p := range b.prims {
		switch p.kind {
		case primTriangle:
			b.ctx.SetRGBA(p.color.R, p.color.G, p.color.B, p.color.A)
			b.ctx.MoveTo(p.pts[0][0], p.pts[0][1])
			b.ctx.LineTo(p.pts[1][0], p.pts[1][1])
			b.ctx.LineTo(p.pts[2][0], p.pts[2][1])
			b.ctx.ClosePath()
			if err := b.ctx.Fill(); err != nil {
				b.logger.Debug("triangle fill failed", zap.Error(err))
			}
		case primSegment:
			b.ctx.SetRGBA(p.color.R, p.color.G, p.color.B, p.color.A)
			b.ctx.SetLineWidth(p.size)
			b.ctx.DrawLine(p.pts[0][0], p.pts[0][1], p.pts[1][0], p.pts[1][1])
			if err := b.ctx.Stroke(); err != nil {
				b.logger.Debug("segment stroke failed", zap.Error(err))
			}
		case primPoint:
			splat(pm, p.pts[0][0], p.pts[0][1], p.size, p.color, false)
		}
	}
	b.prims = b.prims[:0]
}

// splat paints a square point sprite directly into the pixmap.
func splat(pm *gg.Pixmap, x, y, size float64, c gg.RGBA, additive bool) {
	half := max(size, 1) / 2
	x0, x1 := int(math.Floor(x-half)), int(math.Ceil(x+half))
	y0, y1 := int(math.Floor(y-half)), int(math.Ceil(y+half))
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, pm.Width()), min(y1, pm.Height())
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			dst := pm.GetPixel(px, py)
			if additive {
				dst.R = min(dst.R+c.R*c.A, 1)
				dst.G = min(dst.G+c.G*c.A, 1)
				dst.B = min(dst.B+c.B*c.A, 1)
			} else {
				dst.R = dst.R*(1-c.A) + c.R*c.A
				dst.G = dst.G*(1-c.A) + c.G*c.A
				dst.B = dst.B*(1-c.A) + c.B*c.A
			}
			dst.A = min(dst.A+c.A, 1)
			pm.SetPixel(px, py, dst)
		}
	}
}

var defaultMaterial = material.NewBasic()

// surface returns the material's base color (tinted by its color map) and alpha.
func surface(m material.Material) (common.Color, float32) {
	c := m.Color()
	if tex := m.Map(); tex != nil {
		avg, _ := tex.Average()
		c = c.Mul(avg)
	}
	alpha := float32(1)
	if m.Transparent() {
		alpha = m.Opacity()
		if am := m.AlphaMap(); am != nil {
			// alpha maps are read from the green channel
			avg, _ := am.Average()
			alpha *= avg.G
		}
	}
	return c, alpha
}

// irradiance sums every light's contribution at p with normal n.
func irradiance(lights []light.Light, p, n mgl32.Vec3) common.Color {
	var sum common.Color
	for _, l := range lights {
		sum = sum.Add(l.Contribution(p, n))
	}
	return sum
}

func vertexColors(g geometry.Geometry, m material.Material) *geometry.Attribute {
	if !m.VertexColors() {
		return nil
	}
	c := g.Attribute(geometry.AttributeColor)
	if c == nil || c.ItemSize < 3 {
		return nil
	}
	return c
}

func attrVec3(a *geometry.Attribute, i int) mgl32.Vec3 {
	o := i * a.ItemSize
	return mgl32.Vec3{a.Data[o], a.Data[o+1], a.Data[o+2]}
}

func attrColor(a *geometry.Attribute, i int) common.Color {
	v := attrVec3(a, i)
	return common.Color{R: v[0], G: v[1], B: v[2]}
}

func avgColor(a *geometry.Attribute, idx ...int) common.Color {
	var sum common.Color
	for _, i := range idx {
		sum = sum.Add(attrColor(a, i))
	}
	return sum.Scale(1 / float32(len(idx)))
}

func toRGBA(c common.Color, alpha float32) gg.RGBA {
	r, g, b := c.SRGB()
	return gg.RGBA{R: r, G: g, B: b, A: float64(common.Clamp(alpha, 0, 1))}
}

// maxScale returns the largest axis scale of m, bounding how far it stretches a sphere.
func maxScale(m mgl32.Mat4) float32 {
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	return max(sx, sy, sz)
}

func bufferSize(width, height int, ratio float32) (int, int) {
	return max(int(math.Round(float64(width)*float64(ratio))), 1),
		max(int(math.Round(float64(height)*float64(ratio))), 1)
}
