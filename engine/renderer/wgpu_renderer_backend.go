package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// presentBackend rasterizes with the software backend and uploads each finished frame
// into the window's swapchain texture.
type presentBackend struct {
	mu *sync.Mutex

	soft *SoftwareBackend

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	staging       []byte

	closed bool
	logger *zap.Logger
}

var _ Backend = &presentBackend{}

func newPresentBackend(cfg *config) (Backend, error) {
	runtime.LockOSThread()
	b := &presentBackend{
		mu:          &sync.Mutex{},
		soft:        newSoftwareBackend(cfg),
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		logger:      cfg.logger,
	}
	if cfg.presentMode == PresentModeUncapped {
		b.presentMode = wgpu.PresentModeImmediate
	}
	b.surface = b.instance.CreateSurface(cfg.surface)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{Label: "Present Device"})
	if err != nil {
		b.release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	w, h := b.soft.Size()
	b.configure(w, h)
	return b, nil
}

func (b *presentBackend) Render(snap scene.Snapshot, cam camera.Camera) error {
	if err := b.soft.Render(snap, cam); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	return b.present()
}

func (b *presentBackend) Resize(width, height int, pixelRatio float32) error {
	if err := b.soft.Resize(width, height, pixelRatio); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	w, h := b.soft.Size()
	b.configure(w, h)
	return nil
}

func (b *presentBackend) Size() (w, h int) {
	return b.soft.Size()
}

func (b *presentBackend) Stats() FrameStats {
	return b.soft.Stats()
}

func (b *presentBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.release()
	return b.soft.Close()
}

// configure (re)creates the swapchain at the buffer size. Caller must hold the mutex.
func (b *presentBackend) configure(width, height int) {
	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopyDst,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	b.logger.Debug("surface configured",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Any("format", b.surfaceFormat),
	)
}

// present copies the software frame into the swapchain texture and presents it.
// Caller must hold the mutex.
func (b *presentBackend) present() error {
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	img := b.soft.Image()
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pix := img.Pix
	if b.surfaceFormat == wgpu.TextureFormatBGRA8Unorm || b.surfaceFormat == wgpu.TextureFormatBGRA8UnormSrgb {
		if cap(b.staging) < len(pix) {
			b.staging = make([]byte, len(pix))
		}
		b.staging = b.staging[:len(pix)]
		for i := 0; i+3 < len(pix); i += 4 {
			b.staging[i], b.staging[i+1], b.staging[i+2], b.staging[i+3] = pix[i+2], pix[i+1], pix[i], pix[i+3]
		}
		pix = b.staging
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  surfaceTexture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * 4),
			RowsPerImage: uint32(h),
		},
		&wgpu.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
	)
	b.surface.Present()
	return nil
}

// release frees every GPU object acquired so far. Caller must hold the mutex or own b exclusively.
func (b *presentBackend) release() {
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
