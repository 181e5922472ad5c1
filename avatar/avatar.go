// Package avatar detects stock placeholder profile pictures.
//
// Detection is exact: the reference set is a small, literal collection of
// placeholder images shipped with the deployment, so a candidate is "default"
// only when it is pixel-for-pixel identical to one of them. Anything less
// than exact equality (including decode failures) is treated as a custom
// picture.
package avatar

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // GIF support
	_ "image/jpeg" // JPEG support
	_ "image/png"  // PNG support
	"os"

	"github.com/codeGROOVE-dev/imposter/profile"
)

// Set is an immutable collection of reference placeholder images.
// It is loaded once at startup and safely shared by concurrent requests.
type Set struct {
	refs []*image.NRGBA
}

// Load reads and decodes the reference images at the given paths.
// A missing or corrupt reference is a hard error: the caller must not start
// serving with a partial set.
func Load(paths ...string) (*Set, error) {
	s := &Set{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read reference avatar %s: %w", path, err)
		}
		img, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode reference avatar %s: %w", path, err)
		}
		s.refs = append(s.refs, img)
	}
	return s, nil
}

// NewFromBytes builds a Set from in-memory reference images.
func NewFromBytes(images ...[]byte) (*Set, error) {
	s := &Set{}
	for i, data := range images {
		img, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode reference avatar %d: %w", i, err)
		}
		s.refs = append(s.refs, img)
	}
	return s, nil
}

// Len returns the number of reference images.
func (s *Set) Len() int { return len(s.refs) }

// IsDefault reports whether the candidate image is one of the reference
// placeholders. It fails open: undecodable input or a dimension mismatch
// means "custom picture", never an error.
func (s *Set) IsDefault(candidate []byte) bool {
	if s == nil || len(s.refs) == 0 || len(candidate) == 0 {
		return false
	}

	img, err := decode(candidate)
	if err != nil {
		return false
	}

	for _, ref := range s.refs {
		if ref.Bounds().Dx() != img.Bounds().Dx() || ref.Bounds().Dy() != img.Bounds().Dy() {
			continue
		}
		if bytes.Equal(ref.Pix, img.Pix) {
			return true
		}
	}
	return false
}

// decode normalizes any supported image into NRGBA so that pixel buffers
// compare byte-for-byte regardless of source encoding.
func decode(data []byte) (*image.NRGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", profile.ErrImageDecode, err)
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}
