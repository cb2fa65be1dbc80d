package imaging

import "image"

// HSV — пиксель в цветовом пространстве hue/saturation/value
// в диапазонах OpenCV: H ∈ [0, 180], S ∈ [0, 255], V ∈ [0, 255].
type HSV struct {
	H, S, V float64
}

// RGBToHSV переводит 8-битные RGB-компоненты в HSV (диапазоны OpenCV).
func RGBToHSV(r, g, b uint8) HSV {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	maxC := max3(rf, gf, bf)
	minC := min3(rf, gf, bf)
	delta := maxC - minC

	v := maxC * 255.0

	var s float64
	if maxC > 0 {
		s = delta / maxC * 255.0
	}

	var h float64
	switch {
	case delta == 0:
		h = 0
	case maxC == rf:
		h = 60 * ((gf - bf) / delta)
	case maxC == gf:
		h = 60 * ((bf-rf)/delta + 2)
	default:
		h = 60 * ((rf-gf)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	// OpenCV хранит hue в половинных градусах, чтобы уместить его в байт
	return HSV{H: h / 2, S: s, V: v}
}

// Pixels возвращает все пиксели изображения в HSV построчно.
func Pixels(img *image.RGBA) []HSV {
	b := img.Bounds()
	out := make([]HSV, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			i := x * 4
			out = append(out, RGBToHSV(row[i], row[i+1], row[i+2]))
		}
	}
	return out
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
