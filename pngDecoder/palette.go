package pngDecoder

import "image/color"

// Palette is a decoded palette: four bytes (R, G, B, A) per entry.
type Palette []byte

// DecodePalette pairs each RGB triple with its alpha. Entries without an
// alpha value are opaque; a trailing partial triple is dropped.
func DecodePalette(rgb []byte, alphas []byte) Palette {
	n := len(rgb) / 3
	ret := make(Palette, n*4)
	for c := 0; c < n; c++ {
		copy(ret[c*4:], rgb[c*3:c*3+3])
		if c < len(alphas) {
			ret[c*4+3] = alphas[c]
		} else {
			ret[c*4+3] = 255
		}
	}
	return ret
}

func (p Palette) Len() int {
	return len(p) / 4
}

// At returns entry i, or transparent black when i is out of range.
func (p Palette) At(i int) color.NRGBA {
	if i < 0 || i >= p.Len() {
		return color.NRGBA{}
	}
	return color.NRGBA{R: p[i*4], G: p[i*4+1], B: p[i*4+2], A: p[i*4+3]}
}

func (p Palette) ColorPalette() color.Palette {
	ret := make(color.Palette, p.Len())
	for i := range ret {
		ret[i] = p.At(i)
	}
	return ret
}
