// Package pngDecoder decodes indexed, grayscale and RGB PNG files held in
// memory into raw pixel bytes, and expands indexed pixels into RGBA.
//
// Chunks are scanned when the Image is created. Inflating and defiltering
// happen on first use and the result is kept for the life of the Image.
package pngDecoder

import (
	"fmt"
	"image"
	"sync"

	"indexedpng/compression"
	"indexedpng/config"
	"indexedpng/oops"

	"github.com/rs/zerolog"
)

// Inflater decompresses the concatenated IDAT payload.
type Inflater func(compressed []byte) ([]byte, error)

type Image struct {
	raw            *RawImage
	inflate        Inflater
	maxInflateSize int64
	logger         zerolog.Logger

	mu      sync.Mutex
	decoded bool
	palette Palette
	pixels  []byte
}

type Option func(*Image)

func WithInflater(inflate Inflater) Option {
	return func(img *Image) {
		img.inflate = inflate
	}
}

// WithMaxInflateSize caps the inflated image data used by the built-in
// inflater. Zero or less disables the cap. It has no effect with WithInflater.
func WithMaxInflateSize(limit int64) Option {
	return func(img *Image) {
		img.maxInflateSize = limit
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(img *Image) {
		img.logger = logger
	}
}

func limitedInflater(limit int64) Inflater {
	return func(compressed []byte) ([]byte, error) {
		return compression.InflateDataLimit(compressed, limit)
	}
}

// New scans data and returns an Image ready to decode.
func New(data []byte, opts ...Option) (*Image, error) {
	img := &Image{
		maxInflateSize: config.DefaultMaxInflateSize,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(img)
	}
	if img.inflate == nil {
		img.inflate = limitedInflater(img.maxInflateSize)
	}

	raw, err := parse(data, img.logger)
	if err != nil {
		return nil, oops.New(err, "failed to parse png")
	}
	img.raw = raw
	return img, nil
}

func (img *Image) Raw() *RawImage {
	return img.raw
}

func (img *Image) Header() Header {
	return img.raw.Header
}

func (img *Image) Width() int {
	return int(img.raw.Width)
}

func (img *Image) Height() int {
	return int(img.raw.Height)
}

func (img *Image) ColorSpace() string {
	return img.raw.ColorSpace
}

func (img *Image) Transparency() Transparency {
	return img.raw.Transparency
}

func (img *Image) Text() map[string]string {
	return img.raw.Text
}

// Decode inflates and defilters the image data and decodes the palette. It
// does the work once; later calls return immediately. A failed decode leaves
// nothing cached, so it may be retried.
func (img *Image) Decode() error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.decoded {
		return nil
	}
	if img.raw.InterlaceMethod != 0 {
		return oops.New(UnsupportedError("interlaced images"), "failed to decode png")
	}

	palette := DecodePalette(img.raw.Palette, img.raw.Transparency.Indexed)
	data, err := img.inflate(img.raw.Data)
	if err != nil {
		return oops.New(&DecompressionError{Err: err}, "failed to decode png")
	}
	pixels, err := DecodePixels(data, img.raw.Width, img.raw.Height, img.raw.PixelBitLength)
	if err != nil {
		return oops.New(err, "failed to decode png")
	}

	img.palette = palette
	img.pixels = pixels
	img.decoded = true
	img.logger.Debug().
		Int("inflatedBytes", len(data)).
		Int("pixelBytes", len(pixels)).
		Int("paletteEntries", palette.Len()).
		Msg("decoded png")
	return nil
}

// Pixels returns the defiltered pixel bytes, decoding first if needed. The
// slice is shared with the Image and must not be modified.
func (img *Image) Pixels() ([]byte, error) {
	if err := img.Decode(); err != nil {
		return nil, err
	}
	return img.pixels, nil
}

// Palette returns the decoded RGBA palette, decoding first if needed. The
// slice is shared with the Image and must not be modified.
func (img *Image) Palette() (Palette, error) {
	if err := img.Decode(); err != nil {
		return nil, err
	}
	return img.palette, nil
}

type RGBAOptions struct {
	// Palette replaces the image's own palette for this call.
	Palette Palette
	Clip    *Clip
}

// ToRGBA expands the pixels through a palette into a new RGBA buffer. Only
// one-byte-per-pixel data can be expanded, and images that are not indexed
// need a caller-supplied palette.
func (img *Image) ToRGBA(opts RGBAOptions) (*RGBABuffer, error) {
	if err := img.Decode(); err != nil {
		return nil, err
	}

	palette := opts.Palette
	if palette == nil {
		if img.raw.ColorType != Indexed {
			return nil, oops.New(UnsupportedError(fmt.Sprintf("rgba expansion of color type %d without a palette", img.raw.ColorType)), "failed to expand png")
		}
		palette = img.palette
	}
	if img.raw.PixelBitLength != 8 {
		return nil, oops.New(UnsupportedError(fmt.Sprintf("rgba expansion of %d bits per pixel", img.raw.PixelBitLength)), "failed to expand png")
	}

	buf, err := ExpandRGBA(img.pixels, img.Width(), img.Height(), palette, opts.Clip)
	if err != nil {
		return nil, oops.New(err, "failed to expand png")
	}
	return buf, nil
}

// ToImage is ToRGBA wrapped in an *image.NRGBA.
func (img *Image) ToImage(opts RGBAOptions) (*image.NRGBA, error) {
	buf, err := img.ToRGBA(opts)
	if err != nil {
		return nil, err
	}
	return &image.NRGBA{
		Pix:    buf.Pix,
		Stride: buf.Width * 4,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height()),
	}, nil
}
