package picture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/user-none/emdvi/dvi"
)

func TestToRGB565_ExactSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	fb := dvi.NewFrameBuffer(4, 2)

	ToRGB565(img, fb)

	if got := fb.Row(1)[1]; got != 0xf800 {
		t.Errorf("got 0x%04x, want 0xf800", got)
	}
	if got := fb.Row(0)[0]; got != 0 {
		t.Errorf("got 0x%04x, want 0", got)
	}
}

func TestToRGB565_Scales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	fb := dvi.NewFrameBuffer(32, 24)

	ToRGB565(src, fb)

	for y := 0; y < fb.Height; y++ {
		for x, c := range fb.Row(y) {
			if c != 0x07e0 {
				t.Fatalf("pixel %d,%d: 0x%04x", x, y, c)
			}
		}
	}
}

func TestToRGB565_PaddedRows(t *testing.T) {
	fb := dvi.FrameBuffer{Pix: make([]uint16, 6*2), Stride: 6, Width: 4, Height: 2}
	for i := range fb.Pix {
		fb.Pix[i] = 0x1234
	}
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for i := 2; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1] = 0xff, 0xff
	}

	ToRGB565(src, fb)

	for y := 0; y < 2; y++ {
		for x := 0; x < 6; x++ {
			want := uint16(0x001f)
			if x >= 4 {
				want = 0x1234
			}
			if c := fb.Pix[y*6+x]; c != want {
				t.Errorf("pixel %d,%d: 0x%04x, want 0x%04x", x, y, c, want)
			}
		}
	}
}

func TestDecode_PNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("width %d", img.Bounds().Dx())
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("not an image"))
	if !errors.Is(err, ErrImage) {
		t.Errorf("got %v, want ErrImage", err)
	}
}
