// Package imaging содержит примитивы обработки изображений:
// декодирование, уменьшение и перевод в HSV.
package imaging

import (
	"bytes"
	"image"
	"image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/DRSN-tech/visual-search/pkg/e"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Decode декодирует байты изображения в RGBA.
// Возвращает e.ErrUndecodableImage для битых или неподдерживаемых данных.
func Decode(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, e.ErrUndecodableImage
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, e.Wrap(err.Error(), e.ErrUndecodableImage)
	}

	return toRGBA(src), nil
}

// Downscale уменьшает изображение так, чтобы большая сторона не превышала maxSide,
// сохраняя пропорции. Изображение меньше лимита возвращается без изменений.
func Downscale(img *image.RGBA, maxSide int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxSide
		nh = h * maxSide / w
	} else {
		nh = maxSide
		nw = w * maxSide / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
