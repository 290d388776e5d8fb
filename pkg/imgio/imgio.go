// Package imgio converts lossless image containers to and from the pixel
// grids the steg codec operates on. PNG and BMP are supported; lossy or
// paletted containers (JPEG, GIF) are rejected up front because re-encoding
// them would not preserve the embedded bits.
package imgio

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/image/bmp"

	"github.com/jakergrossman/csteg/pkg/steg"
)

var (
	ErrUnsupportedImage = fmt.Errorf("❌ unsupported image")
)

// Format identifies a supported image container.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// Magic prefixes of the containers we can identify.
var (
	pngMagic  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	bmpMagic  = []byte{0x42, 0x4d}
	gifMagic  = []byte{0x47, 0x49, 0x46}
	jpegMagic = []byte{0xff, 0xd8, 0xff}
)

var logger = hclog.NewNullLogger()

// SetLogger routes package diagnostics to the given logger.
func SetLogger(l hclog.Logger) {
	if l != nil {
		logger = l
	}
}

// DetectFormat sniffs the container format from the file's magic bytes.
// Known-but-unusable containers get a specific rejection.
func DetectFormat(data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG, nil
	case bytes.HasPrefix(data, bmpMagic):
		return FormatBMP, nil
	case bytes.HasPrefix(data, gifMagic):
		return 0, fmt.Errorf("%w: GIF is paletted and cannot carry LSB data", ErrUnsupportedImage)
	case bytes.HasPrefix(data, jpegMagic):
		return 0, fmt.Errorf("%w: JPEG is lossy and cannot carry LSB data", ErrUnsupportedImage)
	default:
		return 0, fmt.Errorf("%w: unrecognized container", ErrUnsupportedImage)
	}
}

// Decode turns an encoded image into a pixel grid. Truecolor sources become
// 3-channel grids, sources with an alpha channel 4-channel grids. Anything
// that is not 8-bit RGB or RGBA is rejected here, before the codec ever
// sees it.
func Decode(data []byte) (*steg.PixelGrid, Format, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, 0, err
	}

	var img image.Image
	switch format {
	case FormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
	case FormatBMP:
		img, err = bmp.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %v: %w", format, err)
	}

	grid, err := gridFromImage(img)
	if err != nil {
		return nil, 0, err
	}

	logger.Debug("🖼️ Decoded image",
		"format", format.String(),
		"width", grid.Width,
		"height", grid.Height,
		"channels", grid.Channels,
		"capacity_bytes", grid.CapacityBytes(),
	)
	return grid, format, nil
}

// Encode writes a pixel grid back out in the given container format.
func Encode(grid *steg.PixelGrid, format Format) ([]byte, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	img := imageFromGrid(grid)

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(&buf, img)
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("%w: cannot encode format %d", ErrUnsupportedImage, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %v: %w", format, err)
	}

	logger.Debug("🖼️ Encoded image",
		"format", format.String(),
		"bytes", buf.Len(),
	)
	return buf.Bytes(), nil
}

// DecodeFile reads and decodes the image at path.
func DecodeFile(path string) (*steg.PixelGrid, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return Decode(data)
}

// EncodeFile encodes the grid and writes it to path.
func EncodeFile(path string, grid *steg.PixelGrid, format Format) error {
	data, err := Encode(grid, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// gridFromImage flattens a decoded image into a grid. Each supported
// concrete type is handled individually; everything else is out of scope.
func gridFromImage(img image.Image) (*steg.PixelGrid, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.NRGBA:
		if src.Opaque() {
			// Fully opaque images must come out as 3-channel grids no
			// matter which decoder produced them: a 32-bpp BMP decodes
			// to an opaque NRGBA (the reader discards plain alpha), and
			// re-encoding writes 24-bpp, which decodes to RGBA. Keeping
			// the channel count stable across that re-encode is what
			// makes decode(encode(grid)) an identity.
			return rgbGridFromPix(src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride, w, h), nil
		}
		grid := steg.NewPixelGrid(w, h, 4)
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(grid.Pix[y*w*4:(y+1)*w*4], src.Pix[off:off+w*4])
		}
		return grid, nil
	case *image.RGBA:
		if !src.Opaque() {
			// Premultiplied partial alpha does not survive a PNG
			// re-encode losslessly, so there is nowhere safe to
			// put payload bits.
			return nil, fmt.Errorf("%w: premultiplied alpha", ErrUnsupportedImage)
		}
		// Opaque truecolor: premultiplied and straight samples coincide.
		return rgbGridFromPix(src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride, w, h), nil
	default:
		return nil, fmt.Errorf("%w: %s color model (want 8-bit RGB or RGBA)",
			ErrUnsupportedImage, modelName(img))
	}
}

// rgbGridFromPix flattens 4-byte-per-pixel samples into a 3-channel grid,
// dropping the constant alpha. pix must start at the first sample of the
// image's bounds.
func rgbGridFromPix(pix []uint8, stride, w, h int) *steg.PixelGrid {
	grid := steg.NewPixelGrid(w, h, 3)
	for y := 0; y < h; y++ {
		row := pix[y*stride:]
		for x := 0; x < w; x++ {
			copy(grid.Pix[(y*w+x)*3:], row[x*4:x*4+3])
		}
	}
	return grid
}

// imageFromGrid rebuilds a drawable image from a grid. 3-channel grids get
// an opaque alpha so the PNG encoder emits plain truecolor again.
func imageFromGrid(grid *steg.PixelGrid) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	switch grid.Channels {
	case 4:
		copy(img.Pix, grid.Pix)
	case 3:
		for i := 0; i < grid.Width*grid.Height; i++ {
			copy(img.Pix[i*4:], grid.Pix[i*3:i*3+3])
			img.Pix[i*4+3] = 0xff
		}
	}
	return img
}

func modelName(img image.Image) string {
	switch img.(type) {
	case *image.Alpha:
		return "Alpha"
	case *image.Alpha16:
		return "Alpha16"
	case *image.CMYK:
		return "CMYK"
	case *image.Gray:
		return "Gray"
	case *image.Gray16:
		return "Gray16"
	case *image.NRGBA64:
		return "NRGBA64"
	case *image.Paletted:
		return "Paletted"
	case *image.RGBA64:
		return "RGBA64"
	default:
		return "unknown"
	}
}
