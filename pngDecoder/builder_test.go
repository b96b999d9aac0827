package pngDecoder

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// pngBuilder assembles PNG files chunk by chunk for tests.
type pngBuilder struct {
	buf bytes.Buffer
}

func newPNG() *pngBuilder {
	b := &pngBuilder{}
	b.buf.Write(pngHeader)
	return b
}

func (b *pngBuilder) chunk(typ string, data []byte) *pngBuilder {
	binary.Write(&b.buf, binary.BigEndian, uint32(len(data)))
	b.buf.WriteString(typ)
	b.buf.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	binary.Write(&b.buf, binary.BigEndian, crc.Sum32())
	return b
}

func (b *pngBuilder) ihdr(width, height uint32, depth byte, colorType ColorType) *pngBuilder {
	var data bytes.Buffer
	binary.Write(&data, binary.BigEndian, width)
	binary.Write(&data, binary.BigEndian, height)
	data.Write([]byte{depth, byte(colorType), 0, 0, 0})
	return b.chunk("IHDR", data.Bytes())
}

func (b *pngBuilder) iend() *pngBuilder {
	return b.chunk("IEND", nil)
}

func (b *pngBuilder) bytes() []byte {
	return b.buf.Bytes()
}

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(data)
	require.Nil(t, err)
	require.Nil(t, w.Close())
	return buf.Bytes()
}

// twoByTwoIndexed is a 2x2 indexed image: a red row over a green row.
func twoByTwoIndexed(t *testing.T) []byte {
	return newPNG().
		ihdr(2, 2, 8, Indexed).
		chunk("PLTE", []byte{255, 0, 0, 0, 255, 0}).
		chunk("IDAT", deflate(t, []byte{0, 0, 0, 0, 1, 1})).
		iend().
		bytes()
}
