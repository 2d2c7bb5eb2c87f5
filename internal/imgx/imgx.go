// Package imgx fits decoded frames into filmstrip slots.
package imgx

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// CenterCrop scales src to cover a w×h box and crops the overflow evenly on
// both sides, the way an image view in centre-crop mode draws it.
// A nil src or an empty box yields nil.
func CenterCrop(src image.Image, w, h int) image.Image {
	if src == nil || w <= 0 || h <= 0 {
		return nil
	}
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw <= 0 || sh <= 0 {
		return nil
	}

	// source rectangle with the target aspect ratio, centred
	crop := b
	if sw*h > sh*w {
		cw := max(sh*w/h, 1)
		x0 := b.Min.X + (sw-cw)/2
		crop = image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	} else if sw*h < sh*w {
		ch := max(sw*h/w, 1)
		y0 := b.Min.Y + (sh-ch)/2
		crop = image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, xdraw.Src, nil)
	return dst
}

// Placeholder returns a w×h image filled with c
func Placeholder(w, h int, c color.Color) image.Image {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}
