package pngDecoder

import (
	"bytes"
	"encoding/binary"
)

const ihdrLength = 13

type ColorType byte

const (
	Grayscale      ColorType = 0
	TrueColor      ColorType = 2
	Indexed        ColorType = 3
	GrayscaleAlpha ColorType = 4
	TrueColorAlpha ColorType = 6
)

const (
	DeviceGray = "DeviceGray"
	DeviceRGB  = "DeviceRGB"
)

// Header mirrors the IHDR payload field for field.
type Header struct {
	Width             uint32
	Height            uint32
	BitDepth          byte
	ColorType         ColorType
	CompressionMethod byte
	FilterMethod      byte
	InterlaceMethod   byte
}

func ParseIHDR(data []byte) (*Header, error) {
	var ihdr Header

	reader := bytes.NewReader(data)
	err := binary.Read(reader, binary.BigEndian, &ihdr)
	if err != nil {
		return nil, err
	}
	return &ihdr, nil
}

// Colors is the number of color samples per pixel, not counting alpha. It is
// 0 for color types PNG does not define.
func (h *Header) Colors() int {
	switch h.ColorType {
	case Grayscale, Indexed, GrayscaleAlpha:
		return 1
	case TrueColor, TrueColorAlpha:
		return 3
	}
	return 0
}

func (h *Header) HasAlphaChannel() bool {
	return h.ColorType == GrayscaleAlpha || h.ColorType == TrueColorAlpha
}

func (h *Header) PixelBitLength() int {
	colors := h.Colors()
	if h.HasAlphaChannel() {
		colors++
	}
	return int(h.BitDepth) * colors
}

// ColorSpace names the device color space for the sample layout, or "" for an
// unknown color type.
func (h *Header) ColorSpace() string {
	switch h.Colors() {
	case 1:
		return DeviceGray
	case 3:
		return DeviceRGB
	}
	return ""
}
