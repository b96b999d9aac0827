package pngDecoder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		colorType      ColorType
		colors         int
		hasAlpha       bool
		pixelBitLength int
		colorSpace     string
	}{
		{Grayscale, 1, false, 8, DeviceGray},
		{TrueColor, 3, false, 24, DeviceRGB},
		{Indexed, 1, false, 8, DeviceGray},
		{GrayscaleAlpha, 1, true, 16, DeviceGray},
		{TrueColorAlpha, 3, true, 32, DeviceRGB},
		{ColorType(5), 0, false, 0, ""},
	}

	for _, tt := range tests {
		raw, err := Parse(newPNG().ihdr(640, 480, 8, tt.colorType).iend().bytes())
		require.Nil(t, err)

		assert.Equal(t, uint32(640), raw.Width)
		assert.Equal(t, uint32(480), raw.Height)
		assert.Equal(t, byte(8), raw.BitDepth)
		assert.Equal(t, tt.colorType, raw.ColorType)
		assert.Equal(t, tt.colors, raw.Colors, "color type %d", tt.colorType)
		assert.Equal(t, tt.hasAlpha, raw.HasAlphaChannel, "color type %d", tt.colorType)
		assert.Equal(t, tt.pixelBitLength, raw.PixelBitLength, "color type %d", tt.colorType)
		assert.Equal(t, tt.colorSpace, raw.ColorSpace, "color type %d", tt.colorType)
	}
}

func TestParseChunks(t *testing.T) {
	t.Run("IDAT chunks are concatenated in order", func(t *testing.T) {
		raw, err := Parse(newPNG().
			ihdr(1, 1, 8, Grayscale).
			chunk("IDAT", []byte{1, 2}).
			chunk("gAMA", []byte{0, 0, 0xb1, 0x8f}).
			chunk("IDAT", []byte{3}).
			chunk("IDAT", []byte{4, 5}).
			iend().
			bytes())
		require.Nil(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4, 5}, raw.Data)
	})
	t.Run("no IDAT", func(t *testing.T) {
		raw, err := Parse(newPNG().ihdr(1, 1, 8, Grayscale).iend().bytes())
		require.Nil(t, err)
		assert.NotNil(t, raw.Data)
		assert.Len(t, raw.Data, 0)
	})
	t.Run("palette", func(t *testing.T) {
		raw, err := Parse(newPNG().
			ihdr(1, 1, 8, Indexed).
			chunk("PLTE", []byte{1, 2, 3, 4, 5, 6}).
			iend().
			bytes())
		require.Nil(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, raw.Palette)
		assert.Equal(t, TransparencyNone, raw.Transparency.Kind)
	})
	t.Run("CRCs are not checked", func(t *testing.T) {
		data := newPNG().ihdr(3, 4, 8, Grayscale).iend().bytes()
		// Clobber the IHDR CRC.
		data[8+8+13] ^= 0xff
		raw, err := Parse(data)
		require.Nil(t, err)
		assert.Equal(t, uint32(3), raw.Width)
	})
	t.Run("signature is not checked", func(t *testing.T) {
		data := newPNG().ihdr(3, 4, 8, Grayscale).iend().bytes()
		copy(data, "NOTAPNG!")
		_, err := Parse(data)
		assert.Nil(t, err)
	})
	t.Run("parsing stops at IEND", func(t *testing.T) {
		data := newPNG().ihdr(3, 4, 8, Grayscale).bytes()
		// IEND with no CRC, followed by junk.
		data = append(data, 0, 0, 0, 0, 'I', 'E', 'N', 'D')
		raw, err := Parse(data)
		require.Nil(t, err)
		assert.Equal(t, uint32(4), raw.Height)

		raw, err = Parse(append(newPNG().ihdr(3, 4, 8, Grayscale).iend().bytes(), 0xde, 0xad, 0xbe, 0xef, 0xff))
		require.Nil(t, err)
		assert.Equal(t, uint32(3), raw.Width)
	})
}

func TestParseText(t *testing.T) {
	raw, err := Parse(newPNG().
		ihdr(1, 1, 8, Grayscale).
		chunk("tEXt", []byte("Title\x00First")).
		chunk("tEXt", []byte("Author\x00Caf\xe9")).
		chunk("tEXt", []byte("Title\x00Second")).
		chunk("tEXt", []byte("Comment\x00a\x00b")).
		chunk("tEXt", []byte("NoSeparator")).
		iend().
		bytes())
	require.Nil(t, err)

	assert.Equal(t, map[string]string{
		"Title":       "Second",
		"Author":      "Café",
		"Comment":     "a\x00b",
		"NoSeparator": "",
	}, raw.Text)
}

func TestParseTransparency(t *testing.T) {
	palette := []byte{
		0, 0, 0,
		10, 10, 10,
		20, 20, 20,
		30, 30, 30,
	}

	t.Run("indexed, short payload", func(t *testing.T) {
		raw, err := Parse(newPNG().
			ihdr(1, 1, 8, Indexed).
			chunk("PLTE", palette).
			chunk("tRNS", []byte{0, 128}).
			iend().
			bytes())
		require.Nil(t, err)
		assert.Equal(t, TransparencyIndexed, raw.Transparency.Kind)
		// Four palette entries: three opaque entries are appended.
		assert.Equal(t, []byte{0, 128, 255, 255, 255}, raw.Transparency.Indexed)
	})
	t.Run("indexed, one short", func(t *testing.T) {
		raw, err := Parse(newPNG().
			ihdr(1, 1, 8, Indexed).
			chunk("PLTE", palette).
			chunk("tRNS", []byte{1, 2, 3}).
			iend().
			bytes())
		require.Nil(t, err)
		assert.Equal(t, []byte{1, 2, 3, 255, 255, 255}, raw.Transparency.Indexed)
	})
	t.Run("indexed, single byte payload", func(t *testing.T) {
		raw, err := Parse(newPNG().
			ihdr(1, 1, 8, Indexed).
			chunk("PLTE", palette).
			chunk("tRNS", []byte{7}).
			iend().
			bytes())
		require.Nil(t, err)
		// Padding follows the palette size, not the payload size.
		assert.Equal(t, []byte{7, 255, 255, 255}, raw.Transparency.Indexed)

		// Missing alphas default to opaque, so the padding never changes colors.
		padded := DecodePalette(raw.Palette, raw.Transparency.Indexed)
		unpadded := DecodePalette(raw.Palette, []byte{7})
		assert.Equal(t, unpadded, padded)
	})
	t.Run("indexed, full payload", func(t *testing.T) {
		raw, err := Parse(newPNG().
			ihdr(1, 1, 8, Indexed).
			chunk("PLTE", palette).
			chunk("tRNS", []byte{1, 2, 3, 4}).
			iend().
			bytes())
		require.Nil(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4}, raw.Transparency.Indexed)
	})
	t.Run("indexed, single entry palette", func(t *testing.T) {
		raw, err := Parse(newPNG().
			ihdr(1, 1, 8, Indexed).
			chunk("PLTE", palette[:3]).
			chunk("tRNS", []byte{}).
			iend().
			bytes())
		require.Nil(t, err)
		assert.Len(t, raw.Transparency.Indexed, 0)
	})
	t.Run("grayscale", func(t *testing.T) {
		raw, err := Parse(newPNG().
			ihdr(1, 1, 8, Grayscale).
			chunk("tRNS", []byte{0x01, 0x02}).
			iend().
			bytes())
		require.Nil(t, err)
		assert.Equal(t, TransparencyGrayscale, raw.Transparency.Kind)
		assert.Equal(t, uint16(0x0102), raw.Transparency.Gray)
	})
	t.Run("rgb", func(t *testing.T) {
		raw, err := Parse(newPNG().
			ihdr(1, 1, 8, TrueColor).
			chunk("tRNS", []byte{0, 1, 0, 2, 0, 3}).
			iend().
			bytes())
		require.Nil(t, err)
		assert.Equal(t, TransparencyRGB, raw.Transparency.Kind)
		assert.Equal(t, []uint16{1, 2, 3}, raw.Transparency.RGB)
	})
	t.Run("color type with alpha channel", func(t *testing.T) {
		raw, err := Parse(newPNG().
			ihdr(1, 1, 8, TrueColorAlpha).
			chunk("tRNS", []byte{0, 1}).
			iend().
			bytes())
		require.Nil(t, err)
		assert.Equal(t, TransparencyNone, raw.Transparency.Kind)
	})
	t.Run("before IHDR", func(t *testing.T) {
		raw, err := Parse(newPNG().
			chunk("tRNS", []byte{0, 1}).
			ihdr(1, 1, 8, Grayscale).
			iend().
			bytes())
		require.Nil(t, err)
		assert.Equal(t, TransparencyNone, raw.Transparency.Kind)
	})
}

func TestParseCorrupt(t *testing.T) {
	t.Run("truncated mid-chunk", func(t *testing.T) {
		data := newPNG().
			ihdr(2, 2, 8, Grayscale).
			chunk("IDAT", []byte{1, 2, 3, 4, 5, 6, 7, 8}).
			iend().
			bytes()
		idatOffset := 8 + 12 + 13
		_, err := Parse(data[:idatOffset+8+4])
		require.NotNil(t, err)
		assert.True(t, errors.Is(err, ErrCorruptFile))

		var corrupt *CorruptFileError
		require.True(t, errors.As(err, &corrupt))
		assert.Equal(t, "IDAT", corrupt.Chunk)
		assert.Equal(t, idatOffset+8, corrupt.Offset)
		assert.Equal(t, 8, corrupt.Need)
		assert.Equal(t, 4, corrupt.Have)
	})
	t.Run("missing CRC", func(t *testing.T) {
		data := newPNG().ihdr(2, 2, 8, Grayscale).bytes()
		_, err := Parse(data[:len(data)-2])
		assert.True(t, errors.Is(err, ErrCorruptFile))
	})
	t.Run("missing IEND", func(t *testing.T) {
		_, err := Parse(newPNG().ihdr(2, 2, 8, Grayscale).bytes())

		var corrupt *CorruptFileError
		require.True(t, errors.As(err, &corrupt))
		assert.Equal(t, "", corrupt.Chunk)
		assert.Contains(t, err.Error(), "chunk header")
	})
	t.Run("huge declared length", func(t *testing.T) {
		data := append(newPNG().bytes(), 0xff, 0xff, 0xff, 0xff, 'I', 'D', 'A', 'T', 1, 2, 3)
		_, err := Parse(data)
		assert.True(t, errors.Is(err, ErrCorruptFile))
	})
	t.Run("short IHDR", func(t *testing.T) {
		_, err := Parse(newPNG().chunk("IHDR", []byte{0, 0, 0, 1}).iend().bytes())

		var corrupt *CorruptFileError
		require.True(t, errors.As(err, &corrupt))
		assert.Equal(t, "IHDR", corrupt.Chunk)
		assert.Equal(t, 13, corrupt.Need)
		assert.Equal(t, 4, corrupt.Have)
	})
	t.Run("shorter than signature", func(t *testing.T) {
		_, err := Parse([]byte{137, 80, 78})
		assert.True(t, errors.Is(err, ErrCorruptFile))
	})
	t.Run("empty", func(t *testing.T) {
		_, err := Parse(nil)
		assert.True(t, errors.Is(err, ErrCorruptFile))
	})
}

func TestHasSignature(t *testing.T) {
	assert.True(t, HasSignature(newPNG().bytes()))
	assert.False(t, HasSignature([]byte("GIF89a..")))
	assert.False(t, HasSignature(pngHeader[:7]))
}

func TestChunkCritical(t *testing.T) {
	assert.True(t, (&Chunk{Type: "IDAT"}).Critical())
	assert.False(t, (&Chunk{Type: "tEXt"}).Critical())
	assert.False(t, (&Chunk{}).Critical())
}
