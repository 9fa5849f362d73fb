// Package picture loads image files into framebuffers.
package picture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/user-none/emdvi/dvi"
)

// ErrImage is returned when image data cannot be decoded.
var ErrImage = errors.New("picture: unsupported image")

// Decode decodes PNG, JPEG, GIF, BMP or WebP data.
func Decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImage, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty %s image", ErrImage, format)
	}
	return img, nil
}

// ToRGB565 scales img to fill fb and converts it to RGB565.
func ToRGB565(img image.Image, fb dvi.FrameBuffer) {
	dst := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	if img.Bounds().Size() == dst.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	}
	for y := 0; y < fb.Height; y++ {
		row := fb.Row(y)
		for x := range row {
			i := dst.PixOffset(x, y)
			row[x] = dvi.RGB565(dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2])
		}
	}
}
