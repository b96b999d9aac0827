package pngDecoder

// Clip selects a sub-rectangle of the image. A nil W or H means "to the
// right or bottom edge".
type Clip struct {
	X, Y int
	W, H *int
}

// ClipRect returns a clip with every field set.
func ClipRect(x, y, w, h int) *Clip {
	return &Clip{X: x, Y: y, W: &w, H: &h}
}

// RGBABuffer is an expanded image, four bytes per pixel, row-major.
type RGBABuffer struct {
	Pix   []byte
	Width int
}

func (b *RGBABuffer) Height() int {
	if b.Width == 0 {
		return 0
	}
	return len(b.Pix) / 4 / b.Width
}

type clipRect struct {
	x, y, w, h int
}

// resolve fills in defaults and checks the clip against a width x height
// image.
func (c Clip) resolve(width, height int) (clipRect, error) {
	r := clipRect{x: c.X, y: c.Y, w: width - c.X, h: height - c.Y}
	if c.W != nil {
		r.w = *c.W
	}
	if c.H != nil {
		r.h = *c.H
	}
	if r.x < 0 || r.x >= width {
		return r, &ClipOutOfBoundsError{Field: "x", Value: r.x, Limit: width}
	}
	if r.y < 0 || r.y >= height {
		return r, &ClipOutOfBoundsError{Field: "y", Value: r.y, Limit: height}
	}
	if r.w <= 0 || r.w > width {
		return r, &ClipOutOfBoundsError{Field: "w", Value: r.w, Limit: width}
	}
	if r.h <= 0 || r.h > height {
		return r, &ClipOutOfBoundsError{Field: "h", Value: r.h, Limit: height}
	}
	return r, nil
}

// ExpandRGBA maps one-byte palette indices through palette. With a clip, the
// output pixel (ox, oy) comes from source index (ox+X) + (oy+Y)*width, so a
// clip wider than the space right of X runs on into the next row. Indices
// past the end of pixels or of the palette produce transparent black.
func ExpandRGBA(pixels []byte, width, height int, palette Palette, clip *Clip) (*RGBABuffer, error) {
	if clip == nil {
		ret := make([]byte, len(pixels)*4)
		for i, v := range pixels {
			putEntry(ret[i*4:], palette, v)
		}
		return &RGBABuffer{Pix: ret, Width: width}, nil
	}

	c, err := clip.resolve(width, height)
	if err != nil {
		return nil, err
	}
	ret := make([]byte, c.w*c.h*4)
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			src := (x + c.x) + (y+c.y)*width
			if src >= len(pixels) {
				continue
			}
			putEntry(ret[(x+y*c.w)*4:], palette, pixels[src])
		}
	}
	return &RGBABuffer{Pix: ret, Width: c.w}, nil
}

func putEntry(dst []byte, palette Palette, index byte) {
	i := int(index) * 4
	if i+4 > len(palette) {
		return
	}
	copy(dst[:4], palette[i:i+4])
}
