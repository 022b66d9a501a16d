// Package imaging turns a submitted data-URL payload into the canonical stored doodle:
// a square PNG of domain.CanvasSize pixels per edge.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
)

// MaxPixels caps the decoded canvas a payload may declare. Headers are checked before any
// pixel buffer is allocated.
const MaxPixels = 89_478_485

// Decode extracts the base64 body after the first comma of payload and decodes it
// into an image. The header before the comma is ignored.
func Decode(payload string) (image.Image, error) {
	_, body, ok := strings.Cut(payload, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing data header separator", domain.ErrDecode)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > MaxPixels {
		return nil, fmt.Errorf("%w: %s image of %dx%d exceeds %d pixels",
			domain.ErrDecode, format, cfg.Width, cfg.Height, MaxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty %s image", domain.ErrDecode, format)
	}
	return img, nil
}

// Resize scales src to a size x size canvas, ignoring aspect ratio.
func Resize(src image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Render decodes payload, resizes it to the canvas and returns PNG bytes.
func Render(payload string) ([]byte, error) {
	img, err := Decode(payload)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Resize(img, domain.CanvasSize)); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
