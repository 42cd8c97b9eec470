// Package compositor loads source images and prepares them for placement
// into a grid cell: content-based decoding, downscaling to the output
// resolution, and color normalization for print.
package compositor

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 95

// Asset is one renderable image, ready to be embedded into the output
// document. Assets are ephemeral: produced for a cell, placed, released.
type Asset struct {
	// Name identifies the asset by content, so identical sources are
	// embedded only once per document.
	Name   string
	Data   []byte
	Format string // "JPEG"
	Width  int    // pixels
	Height int    // pixels
}

// AspectRatio returns width/height of the source image.
func (a *Asset) AspectRatio() float64 {
	if a.Height == 0 {
		return 1
	}
	return float64(a.Width) / float64(a.Height)
}

// Compositor converts source files into Assets at a fixed output resolution.
type Compositor struct {
	dpi int
}

// New creates a compositor rasterizing to the given output DPI.
func New(dpi int) *Compositor {
	if dpi <= 0 {
		dpi = 300
	}
	return &Compositor{dpi: dpi}
}

// TargetPixels converts a cell dimension in points to the raster size at
// the compositor's output resolution.
func (c *Compositor) TargetPixels(points float64) int {
	px := int(points / 72.0 * float64(c.dpi))
	if px < 1 {
		px = 1
	}
	return px
}

// Compose loads the image at path and produces an asset fitted to a cell of
// cellWidth x cellHeight points. Failures are per-cell recoverable: the
// caller logs them and leaves the cell blank.
func (c *Compositor) Compose(path string, cellWidth, cellHeight float64) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}
	return c.ComposeBytes(data, cellWidth, cellHeight)
}

// ComposeBytes is Compose over in-memory source data.
func (c *Compositor) ComposeBytes(data []byte, cellWidth, cellHeight float64) (*Asset, error) {
	// Detection is by content, never by file extension.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unrecognized image data: %w", err)
	}

	// A color-separated JPEG is print-ready as-is; embed the original
	// bytes without recompression.
	if format == "jpeg" && cfg.ColorModel == color.CMYKModel {
		return newAsset(data, cfg.Width, cfg.Height), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s image: %w", format, err)
	}

	// Non-JPEG separated sources cannot pass through; fall back to the
	// normalized three-channel representation.
	maxW := c.TargetPixels(cellWidth)
	maxH := c.TargetPixels(cellHeight)

	// Fit never upscales; small sources keep their native resolution.
	fitted := imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	if !fitted.Opaque() {
		fitted = flattenOnWhite(fitted)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fitted, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding normalized image: %w", err)
	}

	b := fitted.Bounds()
	return newAsset(buf.Bytes(), b.Dx(), b.Dy()), nil
}

func newAsset(data []byte, w, h int) *Asset {
	return &Asset{
		Name:   fmt.Sprintf("img_%x", sha1.Sum(data)),
		Data:   data,
		Format: "JPEG",
		Width:  w,
		Height: h,
	}
}

// flattenOnWhite composites a transparent image onto an opaque white matte.
// Transparency never passes through to the printed document.
func flattenOnWhite(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	matte := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(matte, img, image.Pt(0, 0), 1.0)
}
