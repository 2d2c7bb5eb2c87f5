package imgx

import (
	"image"
	"image/color"
	"testing"
)

// leftRightImage is black on the outer quarters and white in the middle half
func leftRightImage(w, h int) image.Image {
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= w/4 && x < 3*w/4 {
				src.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				src.Set(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	return src
}

func TestCenterCropWideSource(t *testing.T) {
	// 200x50 into a square keeps only the white middle 50x50
	out := CenterCrop(leftRightImage(200, 50), 20, 20)
	if out == nil {
		t.Fatal("expected an image")
	}
	if b := out.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("expected 20x20, got %v", b)
	}
	for _, x := range []int{1, 10, 18} {
		r, g, b, _ := out.At(x, 10).RGBA()
		if r>>8 < 200 || g>>8 < 200 || b>>8 < 200 {
			t.Errorf("pixel (%d,10) should be white, got %d %d %d", x, r>>8, g>>8, b>>8)
		}
	}
}

func TestCenterCropTallSource(t *testing.T) {
	out := CenterCrop(image.NewGray(image.Rect(0, 0, 30, 300)), 60, 30)
	if b := out.Bounds(); b.Dx() != 60 || b.Dy() != 30 {
		t.Fatalf("expected 60x30, got %v", b)
	}
}

func TestCenterCropInvalid(t *testing.T) {
	if CenterCrop(nil, 10, 10) != nil {
		t.Error("nil source should yield nil")
	}
	if CenterCrop(image.NewGray(image.Rect(0, 0, 10, 10)), 0, 10) != nil {
		t.Error("empty box should yield nil")
	}
	if CenterCrop(image.NewGray(image.Rect(0, 0, 0, 10)), 10, 10) != nil {
		t.Error("empty source should yield nil")
	}
}

func TestPlaceholder(t *testing.T) {
	c := color.RGBA{10, 20, 30, 255}
	img := Placeholder(4, 3, c)
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("expected 4x3, got %v", b)
	}
	r, g, b, _ := img.At(3, 2).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("unexpected colour %d %d %d", r>>8, g>>8, b>>8)
	}
	if b := Placeholder(0, -1, c).Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("degenerate sizes should clamp to 1x1, got %v", b)
	}
}
