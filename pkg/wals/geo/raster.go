package geo

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/cognicore/wals/pkg/wals/internalerr"
)

// PixelSource exposes the ARGB color of a raster's pixels.
type PixelSource interface {
	Size() (width, height int)
	ARGB(x, y int) uint32
}

// RasterClassifier reads the province code from an equirectangular
// classification image: column 0 is longitude -180, row 0 is latitude 90.
type RasterClassifier struct {
	src           PixelSource
	width, height int
}

// NewRasterClassifier wraps a pixel source.
func NewRasterClassifier(src PixelSource) *RasterClassifier {
	w, h := src.Size()
	return &RasterClassifier{src: src, width: w, height: h}
}

// LoadRaster decodes a classification image (PNG, GIF, JPEG, BMP or TIFF).
// A missing or undecodable file wraps internalerr.ErrMissingAsset.
func LoadRaster(path string) (*RasterClassifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raster %s: %w: %v", path, internalerr.ErrMissingAsset, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode raster %s: %w: %v", path, internalerr.ErrMissingAsset, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("raster %s is empty: %w", path, internalerr.ErrMissingAsset)
	}
	return NewRasterClassifier(ImagePixels{Image: img}), nil
}

// Classify implements Classifier.
func (r *RasterClassifier) Classify(lat, lon float64) Province {
	if !validCoordinate(lat, lon) || r.width <= 0 || r.height <= 0 {
		return Uninhabited
	}
	x, y := PixelAt(lat, lon, r.width, r.height)
	return FromARGB(r.src.ARGB(x, y))
}

// PixelAt projects a coordinate onto a width×height equirectangular grid:
//
//	x = floor((lon+180)/360 · width)
//	y = floor((90−lat)/180 · height)
//
// Both axes are clamped to the grid, so lon=180 lands in the last column and
// lat=-90 in the last row; lon=-180 and lat=90 land in column and row 0.
func PixelAt(lat, lon float64, width, height int) (x, y int) {
	x = clampIndex(int((lon+180)/360*float64(width)), width)
	y = clampIndex(int((90-lat)/180*float64(height)), height)
	return x, y
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// ImagePixels adapts an image.Image to PixelSource. Pixels are read as
// non-premultiplied ARGB so palette and RGBA images agree.
type ImagePixels struct {
	Image image.Image
}

// Size implements PixelSource.
func (p ImagePixels) Size() (int, int) {
	b := p.Image.Bounds()
	return b.Dx(), b.Dy()
}

// ARGB implements PixelSource.
func (p ImagePixels) ARGB(x, y int) uint32 {
	b := p.Image.Bounds()
	c := color.NRGBAModel.Convert(p.Image.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
