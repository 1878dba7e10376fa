package loader

import (
	"fmt"
	"image"
	"io"
	"io/fs"

	"github.com/Carmen-Shannon/oxy-lessons/engine/texture"
)

// loaderBackend defines the generic interface for reading images from a file system or stream.
// Concrete implementations handle format-specific details.
type loaderBackend interface {
	// Load reads and decodes the image at path.
	//
	// Parameters:
	//   - fsys: the file system to read from
	//   - path: the slash-separated path inside fsys
	//
	// Returns:
	//   - *image.RGBA: the decoded pixels
	//   - error: error if the file is missing or malformed
	Load(fsys fs.FS, path string) (*image.RGBA, error)

	// LoadReader decodes an image from a stream.
	//
	// Parameters:
	//   - r: the reader providing encoded image data
	//
	// Returns:
	//   - *image.RGBA: the decoded pixels
	//   - error: error if decoding fails
	LoadReader(r io.Reader) (*image.RGBA, error)
}

// imageLoaderBackend decodes PNG, JPEG, BMP and WebP through the registered image decoders.
type imageLoaderBackend struct{}

var _ loaderBackend = imageLoaderBackend{}

func (imageLoaderBackend) Load(fsys fs.FS, path string) (*image.RGBA, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, err := imageLoaderBackend{}.LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func (imageLoaderBackend) LoadReader(r io.Reader) (*image.RGBA, error) {
	img, _, err := texture.Decode(r)
	return img, err
}
