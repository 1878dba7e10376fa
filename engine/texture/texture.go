package texture

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

// State is the lifecycle stage of a texture handle.
type State int

const (
	// StatePending means the handle shows the placeholder while the image loads.
	StatePending State = iota
	// StateLoaded means the decoded image is available.
	StateLoaded
	// StateFailed means loading failed; the placeholder stays in place.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Filter selects how texels are sampled.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

// ColorSpace describes how the stored bytes encode color.
type ColorSpace int

const (
	// ColorSpaceNone stores data textures (alpha, normal, roughness maps) that must not be converted.
	ColorSpaceNone ColorSpace = iota
	// ColorSpaceSRGB stores color maps authored in sRGB.
	ColorSpaceSRGB
)

// Wrap selects what happens to texture coordinates outside [0, 1].
type Wrap int

const (
	WrapClampToEdge Wrap = iota
	WrapRepeat
	WrapMirroredRepeat
)

// ErrAlreadyResolved is returned when a handle that already loaded or failed is resolved again.
var ErrAlreadyResolved = errors.New("texture already resolved")

type textureImpl struct {
	mu *sync.Mutex

	id   uuid.UUID
	name string

	state   State
	err     error
	img     *image.RGBA
	avg     color.RGBA
	mips    []*image.RGBA
	version uint64

	minFilter       Filter
	magFilter       Filter
	generateMipmaps bool
	colorSpace      ColorSpace
	wrapS, wrapT    Wrap

	repeat   mgl32.Vec2
	offset   mgl32.Vec2
	center   mgl32.Vec2
	rotation float32
}

// Texture is an image handle that is valid immediately and shows a 1x1 white placeholder
// until its pixels arrive. Resolve and Fail must be called on the render loop.
type Texture interface {
	// ID returns the unique handle identifier.
	//
	// Returns:
	//   - uuid.UUID: the handle id
	ID() uuid.UUID

	// Name returns the source the texture was created for, usually a path.
	//
	// Returns:
	//   - string: the texture name
	Name() string

	// State returns the lifecycle stage.
	//
	// Returns:
	//   - State: pending, loaded or failed
	State() State

	// Err returns the load failure, or nil.
	//
	// Returns:
	//   - error: the failure reason
	Err() error

	// Size returns the image dimensions (1x1 for the placeholder).
	//
	// Returns:
	//   - width, height: pixel dimensions
	Size() (width, height int)

	// Image returns the current pixels: the decoded image or the placeholder.
	//
	// Returns:
	//   - *image.RGBA: the image, never nil
	Image() *image.RGBA

	// Version increases every time pixels or sampling parameters change.
	//
	// Returns:
	//   - uint64: the version counter
	Version() uint64

	MinFilter() Filter
	MagFilter() Filter
	SetFilters(min, mag Filter)
	GenerateMipmaps() bool
	SetGenerateMipmaps(enabled bool)
	ColorSpace() ColorSpace
	SetColorSpace(cs ColorSpace)
	Wrap() (s, t Wrap)
	SetWrap(s, t Wrap)
	Repeat() mgl32.Vec2
	SetRepeat(x, y float32)
	Offset() mgl32.Vec2
	SetOffset(x, y float32)
	Rotation() float32
	SetRotation(radians float32)
	Center() mgl32.Vec2
	SetCenter(x, y float32)

	// Mipmaps returns the mip chain below level 0, or nil when mipmaps are disabled.
	// The chain is built on first use after each pixel change.
	//
	// Returns:
	//   - []*image.RGBA: level 1..n, each half the size of the previous
	Mipmaps() []*image.RGBA

	// Sample reads the texture at uv, applying the transform, wrap and magnification filter.
	//
	// Parameters:
	//   - u, v: texture coordinates, v = 0 at the bottom row
	//
	// Returns:
	//   - color.RGBA: the stored (encoded) texel
	Sample(u, v float32) color.RGBA

	// Average returns the mean color in linear space, decoding sRGB when the color space says so.
	//
	// Returns:
	//   - common.Color: the average color
	//   - float32: the average alpha
	Average() (common.Color, float32)

	// Resolve installs decoded pixels and moves the handle to StateLoaded.
	//
	// Parameters:
	//   - img: the decoded image
	//
	// Returns:
	//   - error: ErrAlreadyResolved if the handle is not pending
	Resolve(img *image.RGBA) error

	// Fail records a load failure and moves the handle to StateFailed, keeping the placeholder.
	//
	// Parameters:
	//   - err: the failure reason
	//
	// Returns:
	//   - error: ErrAlreadyResolved if the handle is not pending
	Fail(err error) error
}

var _ Texture = &textureImpl{}

// New creates a pending texture handle showing the placeholder.
//
// Parameters:
//   - name: the source, usually a path
//   - options: functional options to configure sampling
//
// Returns:
//   - Texture: the new handle
func New(name string, options ...TextureBuilderOption) Texture {
	t := &textureImpl{
		mu:              &sync.Mutex{},
		id:              uuid.New(),
		name:            name,
		img:             placeholder(),
		avg:             color.RGBA{R: 255, G: 255, B: 255, A: 255},
		minFilter:       FilterLinear,
		magFilter:       FilterLinear,
		generateMipmaps: true,
		colorSpace:      ColorSpaceNone,
		wrapS:           WrapClampToEdge,
		wrapT:           WrapClampToEdge,
		repeat:          mgl32.Vec2{1, 1},
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// FromImage creates an already loaded texture.
//
// Parameters:
//   - name: a descriptive name
//   - img: the pixels
//   - options: functional options to configure sampling
//
// Returns:
//   - Texture: the loaded handle
func FromImage(name string, img *image.RGBA, options ...TextureBuilderOption) Texture {
	t := New(name, options...)
	_ = t.Resolve(img)
	return t
}

func placeholder() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func (t *textureImpl) ID() uuid.UUID { return t.id }

func (t *textureImpl) Name() string { return t.name }

func (t *textureImpl) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *textureImpl) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *textureImpl) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *textureImpl) Image() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.img
}

func (t *textureImpl) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

func (t *textureImpl) MinFilter() Filter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.minFilter
}

func (t *textureImpl) MagFilter() Filter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.magFilter
}

func (t *textureImpl) SetFilters(min, mag Filter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.minFilter != min {
		t.mips = nil
	}
	t.minFilter, t.magFilter = min, mag
	t.version++
}

func (t *textureImpl) GenerateMipmaps() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generateMipmaps
}

func (t *textureImpl) SetGenerateMipmaps(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generateMipmaps = enabled
	if !enabled {
		t.mips = nil
	}
	t.version++
}

func (t *textureImpl) ColorSpace() ColorSpace {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.colorSpace
}

func (t *textureImpl) SetColorSpace(cs ColorSpace) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.colorSpace = cs
	t.version++
}

func (t *textureImpl) Wrap() (s, w Wrap) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wrapS, t.wrapT
}

func (t *textureImpl) SetWrap(s, w Wrap) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wrapS, t.wrapT = s, w
	t.version++
}

func (t *textureImpl) Repeat() mgl32.Vec2 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.repeat
}

func (t *textureImpl) SetRepeat(x, y float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.repeat = mgl32.Vec2{x, y}
	t.version++
}

func (t *textureImpl) Offset() mgl32.Vec2 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset
}

func (t *textureImpl) SetOffset(x, y float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offset = mgl32.Vec2{x, y}
	t.version++
}

func (t *textureImpl) Rotation() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rotation
}

func (t *textureImpl) SetRotation(radians float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rotation = radians
	t.version++
}

func (t *textureImpl) Center() mgl32.Vec2 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.center
}

func (t *textureImpl) SetCenter(x, y float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.center = mgl32.Vec2{x, y}
	t.version++
}

func (t *textureImpl) Mipmaps() []*image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.generateMipmaps || t.state != StateLoaded {
		return nil
	}
	if t.mips == nil {
		t.mips = buildMipChain(t.img, t.minFilter)
	}
	return t.mips
}

func (t *textureImpl) Sample(u, v float32) color.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()

	uv := mgl32.Vec2{u, v}
	if t.rotation != 0 {
		s, c := math32.Sincos(t.rotation)
		d := uv.Sub(t.center)
		uv = mgl32.Vec2{d[0]*c - d[1]*s, d[0]*s + d[1]*c}.Add(t.center)
	}
	uv = mgl32.Vec2{uv[0] * t.repeat[0], uv[1] * t.repeat[1]}.Add(t.offset)
	u = wrap(uv[0], t.wrapS)
	v = wrap(uv[1], t.wrapT)

	b := t.img.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	// v = 0 is the bottom row of the image
	x := u*w - 0.5
	y := (1-v)*h - 0.5

	if t.magFilter == FilterNearest {
		return t.texel(int(math32.Round(x)), int(math32.Round(y)))
	}

	x0, y0 := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0, y-y0
	c00 := t.texel(int(x0), int(y0))
	c10 := t.texel(int(x0)+1, int(y0))
	c01 := t.texel(int(x0), int(y0)+1)
	c11 := t.texel(int(x0)+1, int(y0)+1)
	lerp := func(a, b, c, d uint8) uint8 {
		top := float32(a)*(1-fx) + float32(b)*fx
		bottom := float32(c)*(1-fx) + float32(d)*fx
		return uint8(math32.Round(top*(1-fy) + bottom*fy))
	}
	return color.RGBA{
		R: lerp(c00.R, c10.R, c01.R, c11.R),
		G: lerp(c00.G, c10.G, c01.G, c11.G),
		B: lerp(c00.B, c10.B, c01.B, c11.B),
		A: lerp(c00.A, c10.A, c01.A, c11.A),
	}
}

func (t *textureImpl) Average() (common.Color, float32) {
	t.mu.Lock()
	avg, cs := t.avg, t.colorSpace
	t.mu.Unlock()

	if cs == ColorSpaceSRGB {
		return common.ColorFromUint(uint32(avg.R)<<16 | uint32(avg.G)<<8 | uint32(avg.B)), float32(avg.A) / 255
	}
	return common.Color{R: float32(avg.R) / 255, G: float32(avg.G) / 255, B: float32(avg.B) / 255}, float32(avg.A) / 255
}

func (t *textureImpl) Resolve(img *image.RGBA) error {
	if img == nil || img.Bounds().Empty() {
		return t.Fail(errors.New("empty image"))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePending {
		return ErrAlreadyResolved
	}
	t.img = img
	t.avg = average(img)
	t.mips = nil
	t.state = StateLoaded
	t.version++
	return nil
}

func (t *textureImpl) Fail(err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePending {
		return ErrAlreadyResolved
	}
	t.err = err
	t.state = StateFailed
	t.version++
	return nil
}

// texel reads a pixel with edge clamping. Caller must hold the mutex.
func (t *textureImpl) texel(x, y int) color.RGBA {
	b := t.img.Bounds()
	x = min(max(x, 0), b.Dx()-1)
	y = min(max(y, 0), b.Dy()-1)
	return t.img.RGBAAt(b.Min.X+x, b.Min.Y+y)
}

func wrap(c float32, mode Wrap) float32 {
	switch mode {
	case WrapRepeat:
		return c - math32.Floor(c)
	case WrapMirroredRepeat:
		f := c - 2*math32.Floor(c/2)
		if f > 1 {
			return 2 - f
		}
		return f
	default:
		return common.Clamp(c, 0, 1)
	}
}

func average(img *image.RGBA) color.RGBA {
	b := img.Bounds()
	var r, g, bl, a, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			r += uint64(c.R)
			g += uint64(c.G)
			bl += uint64(c.B)
			a += uint64(c.A)
			n++
		}
	}
	if n == 0 {
		return color.RGBA{}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: uint8(a / n)}
}

// buildMipChain halves src until 1x1 using the scaler that matches the minification filter.
func buildMipChain(src *image.RGBA, minFilter Filter) []*image.RGBA {
	var scaler xdraw.Scaler = xdraw.ApproxBiLinear
	if minFilter == FilterNearest {
		scaler = xdraw.NearestNeighbor
	}

	var chain []*image.RGBA
	cur := src
	for {
		b := cur.Bounds()
		if b.Dx() <= 1 && b.Dy() <= 1 {
			return chain
		}
		next := image.NewRGBA(image.Rect(0, 0, max(b.Dx()/2, 1), max(b.Dy()/2, 1)))
		scaler.Scale(next, next.Bounds(), cur, b, xdraw.Src, nil)
		chain = append(chain, next)
		cur = next
	}
}
