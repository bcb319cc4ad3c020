package gpu

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// textureSamplerName is the sampler uniform BindTexture points at texture unit 0.
const textureSamplerName = "basic_texture"

// Image is a decoded 8-bit texture ready for upload. Rows are stored top row first with no padding.
type Image struct {
	// Width and Height are the image size in pixels.
	Width  int
	Height int

	// Depth is the number of 8-bit channels per pixel: 3 (RGB) or 4 (RGBA).
	Depth int

	// Pix holds Width * Height * Depth bytes.
	Pix []byte

	// Source names the file the image was decoded from, for diagnostics.
	Source string
}

// LoadImage decodes an image file into an Image.
// PNG, JPEG, GIF, BMP, TIFF, WebP and TGA files are understood. Only 8-bit color images are accepted:
// opaque YCbCr images (JPEG) become 3-channel RGB, RGBA, NRGBA and paletted images become 4-channel RGBA.
// Grayscale, 16-bit and CMYK images are rejected.
//
// Parameters:
//   - path: the image file
//
// Returns:
//   - *Image: the decoded image
//   - error: a *common.AssetError of kind KindImageFormat or KindImageDepth, or a wrapped read error
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gpu: open image %s: %w", path, err)
	}
	defer f.Close()
	return DecodeImage(path, f)
}

// DecodeImage decodes an image from r. See LoadImage for the accepted layouts.
//
// Parameters:
//   - name: a name for diagnostics
//   - r: the encoded image
//
// Returns:
//   - *Image: the decoded image
//   - error: a *common.AssetError of kind KindImageFormat or KindImageDepth
func DecodeImage(name string, r io.Reader) (*Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		// unknown signatures and corrupt payloads are both format defects
		return nil, &common.AssetError{Kind: common.KindImageFormat, Source: name, Err: err}
	}

	img, err := fromImage(src)
	if err != nil {
		return nil, &common.AssetError{Kind: common.KindImageDepth, Source: name, Log: fmt.Sprintf("%s image: %v", format, err)}
	}
	img.Source = name
	common.Logger().Debug("gpu: image decoded", "source", name, "format", format, "width", img.Width, "height", img.Height, "depth", img.Depth)
	return img, nil
}

// fromImage converts a decoded image into a tightly packed 3 or 4 channel buffer.
func fromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch s := src.(type) {
	case *image.YCbCr:
		rgba := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), s, b.Min, draw.Src)
		pix := make([]byte, 0, w*h*3)
		for i := 0; i < len(rgba.Pix); i += 4 {
			pix = append(pix, rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2])
		}
		return &Image{Width: w, Height: h, Depth: 3, Pix: pix}, nil
	case *image.NRGBA:
		return &Image{Width: w, Height: h, Depth: 4, Pix: packRows(s.Pix, s.Stride, w*4, h)}, nil
	case *image.RGBA, *image.Paletted:
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), s, b.Min, draw.Src)
		return &Image{Width: w, Height: h, Depth: 4, Pix: dst.Pix}, nil
	case *image.Gray, *image.Alpha:
		return nil, errors.New("1 channel images are not supported")
	case *image.RGBA64, *image.NRGBA64, *image.Gray16, *image.Alpha16:
		return nil, errors.New("16-bit images are not supported")
	case *image.CMYK:
		return nil, errors.New("CMYK images are not supported")
	default:
		return nil, fmt.Errorf("unsupported pixel layout %T", src)
	}
}

// packRows copies h rows of rowBytes each out of a strided buffer.
func packRows(pix []byte, stride, rowBytes, h int) []byte {
	if stride == rowBytes {
		return append([]byte(nil), pix[:rowBytes*h]...)
	}
	out := make([]byte, 0, rowBytes*h)
	for y := 0; y < h; y++ {
		out = append(out, pix[y*stride:y*stride+rowBytes]...)
	}
	return out
}

// LoadTexture decodes an image file and uploads it as a texture.
//
// Parameters:
//   - d: the device
//   - path: the image file
//
// Returns:
//   - TextureID: the new texture
//   - error: any error from LoadImage or CreateTexture
func LoadTexture(d Device, path string) (TextureID, error) {
	img, err := LoadImage(path)
	if err != nil {
		return 0, err
	}
	tex, err := d.CreateTexture(img)
	if err != nil {
		return 0, err
	}
	common.Logger().Info("gpu: texture loaded", "path", path, "texture", tex)
	return tex, nil
}
