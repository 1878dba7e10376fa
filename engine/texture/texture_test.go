package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func TestPendingTextureShowsWhitePlaceholder(t *testing.T) {
	tex := New("door/color.jpg")

	assert.Equal(t, StatePending, tex.State())
	w, h := tex.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, tex.Sample(0.3, 0.7))
	assert.Nil(t, tex.Mipmaps())
}

func TestResolveInstallsPixelsOnce(t *testing.T) {
	tex := New("checker")
	v := tex.Version()

	require.NoError(t, tex.Resolve(checker(4)))
	assert.Equal(t, StateLoaded, tex.State())
	assert.Greater(t, tex.Version(), v)
	w, h := tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)

	assert.ErrorIs(t, tex.Resolve(checker(2)), ErrAlreadyResolved)
	assert.ErrorIs(t, tex.Fail(errors.New("late")), ErrAlreadyResolved)
}

func TestFailKeepsPlaceholder(t *testing.T) {
	tex := New("missing.png")
	boom := errors.New("not found")

	require.NoError(t, tex.Fail(boom))
	assert.Equal(t, StateFailed, tex.State())
	assert.ErrorIs(t, tex.Err(), boom)
	w, _ := tex.Size()
	assert.Equal(t, 1, w)
}

func TestNearestSamplingAndWrap(t *testing.T) {
	tex := FromImage("checker", checker(2), WithFilters(FilterNearest, FilterNearest), WithWrap(WrapRepeat, WrapRepeat))

	// bottom-left texel is (0, 1) in image space
	assert.Equal(t, color.RGBA{B: 255, A: 255}, tex.Sample(0.25, 0.25))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, tex.Sample(0.75, 0.25))
	// repeat wraps back onto the same texel
	assert.Equal(t, tex.Sample(0.25, 0.25), tex.Sample(1.25, 2.25))

	tex.SetWrap(WrapClampToEdge, WrapClampToEdge)
	assert.Equal(t, tex.Sample(0.75, 0.25), tex.Sample(5, 0.25))
}

func TestRepeatAndOffset(t *testing.T) {
	tex := FromImage("checker", checker(2), WithFilters(FilterNearest, FilterNearest),
		WithWrap(WrapRepeat, WrapRepeat), WithRepeat(2, 2))

	// doubling the repeat lands the quarter point on the next texel over
	assert.Equal(t, tex.Sample(0.5+0.125, 0.125), tex.Sample(0.125, 0.125))
	tex.SetOffset(0.5, 0)
	assert.NotEqual(t, color.RGBA{}, tex.Sample(0.1, 0.1))
}

func TestMipChainHalvesToOnePixel(t *testing.T) {
	tex := FromImage("checker", checker(8))

	mips := tex.Mipmaps()
	require.Len(t, mips, 3)
	assert.Equal(t, 4, mips[0].Bounds().Dx())
	assert.Equal(t, 1, mips[2].Bounds().Dx())

	tex.SetGenerateMipmaps(false)
	assert.Nil(t, tex.Mipmaps())
}

func TestAverageDecodesSRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	linear := FromImage("grey", img)
	c, a := linear.Average()
	assert.InDelta(t, 128.0/255, c.R, 1e-6)
	assert.InDelta(t, 1, a, 1e-6)

	srgb := FromImage("grey", img, WithColorSpace(ColorSpaceSRGB))
	c, _ = srgb.Average()
	assert.Less(t, c.R, float32(0.25))
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, checker(3)))

	img, format, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 3, 3), img.Bounds())

	_, _, err = Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
