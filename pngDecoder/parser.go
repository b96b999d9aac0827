package pngDecoder

import (
	"encoding/binary"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
)

const (
	chunkIHDR = "IHDR"
	chunkPLTE = "PLTE"
	chunkIDAT = "IDAT"
	chunkTRNS = "tRNS"
	chunkTEXT = "tEXt"
	chunkIEND = "IEND"
)

type TransparencyKind int

const (
	TransparencyNone TransparencyKind = iota
	TransparencyIndexed
	TransparencyGrayscale
	TransparencyRGB
)

// Transparency is the decoded tRNS chunk. Which field is meaningful depends
// on Kind.
type Transparency struct {
	Kind    TransparencyKind
	Indexed []byte   // per palette entry alpha
	Gray    uint16   // transparent gray level
	RGB     []uint16 // transparent color samples
}

// RawImage is everything the chunk scan collects. It is not modified after
// Parse returns.
type RawImage struct {
	Header
	Palette      []byte // PLTE payload, RGB triples
	Data         []byte // IDAT payloads concatenated in file order
	Transparency Transparency
	Text         map[string]string

	Colors          int
	HasAlphaChannel bool
	PixelBitLength  int
	ColorSpace      string
}

// Parse scans data chunk by chunk until IEND. The signature is skipped and
// CRCs are ignored.
func Parse(data []byte) (*RawImage, error) {
	return parse(data, zerolog.Nop())
}

func parse(data []byte, logger zerolog.Logger) (*RawImage, error) {
	raw := &RawImage{
		Text: map[string]string{},
	}
	seenIHDR := false

	r := newChunkReader(data)
	for {
		chunk, err := r.nextChunk()
		if err != nil {
			return nil, err
		}
		if chunk == nil {
			break
		}
		logger.Debug().
			Str("chunk", chunk.Type).
			Uint32("length", chunk.Length).
			Int("offset", chunk.Offset).
			Msg("read chunk")

		switch chunk.Type {
		case chunkIHDR:
			ihdr, err := ParseIHDR(chunk.Data)
			if err != nil {
				return nil, &CorruptFileError{
					Chunk:  chunk.Type,
					Offset: chunk.Offset + 8,
					Need:   ihdrLength,
					Have:   len(chunk.Data),
				}
			}
			raw.Header = *ihdr
			seenIHDR = true
		case chunkPLTE:
			raw.Palette = append([]byte(nil), chunk.Data...)
		case chunkIDAT:
			raw.Data = append(raw.Data, chunk.Data...)
		case chunkTRNS:
			if !seenIHDR {
				logger.Debug().Msg("tRNS before IHDR, ignoring")
				raw.Transparency = Transparency{}
				continue
			}
			raw.Transparency = parseTransparency(raw.ColorType, chunk.Data, len(raw.Palette)/3)
		case chunkTEXT:
			key, value := parseText(chunk.Data)
			raw.Text[key] = value
		case chunkIEND:
			raw.Colors = raw.Header.Colors()
			raw.HasAlphaChannel = raw.Header.HasAlphaChannel()
			raw.PixelBitLength = raw.Header.PixelBitLength()
			raw.ColorSpace = raw.Header.ColorSpace()
			if raw.Data == nil {
				raw.Data = []byte{}
			}
		default:
			logger.Debug().
				Str("chunk", chunk.Type).
				Bool("critical", chunk.Critical()).
				Msg("skipping chunk")
		}
	}

	logger.Debug().
		Uint32("width", raw.Width).
		Uint32("height", raw.Height).
		Int("colorType", int(raw.ColorType)).
		Int("idatBytes", len(raw.Data)).
		Msg("parsed png")
	return raw, nil
}

// parseTransparency interprets a tRNS payload for the given color type.
// paletteLength is the number of palette entries seen so far.
func parseTransparency(colorType ColorType, data []byte, paletteLength int) Transparency {
	switch colorType {
	case Indexed:
		alphas := append([]byte(nil), data...)
		// A short payload gets paletteLength-1 opaque entries appended,
		// whatever the actual shortfall.
		if len(data) < paletteLength {
			for i := 0; i < paletteLength-1; i++ {
				alphas = append(alphas, 255)
			}
		}
		return Transparency{Kind: TransparencyIndexed, Indexed: alphas}
	case Grayscale:
		samples := readSamples(data)
		var gray uint16
		if len(samples) > 0 {
			gray = samples[0]
		}
		return Transparency{Kind: TransparencyGrayscale, Gray: gray}
	case TrueColor:
		return Transparency{Kind: TransparencyRGB, RGB: readSamples(data)}
	}
	return Transparency{}
}

// readSamples splits data into big-endian 16-bit samples. A trailing odd byte
// is kept as its own sample.
func readSamples(data []byte) []uint16 {
	samples := make([]uint16, 0, (len(data)+1)/2)
	for i := 0; i < len(data); i += 2 {
		if i+1 == len(data) {
			samples = append(samples, uint16(data[i]))
			break
		}
		samples = append(samples, binary.BigEndian.Uint16(data[i:]))
	}
	return samples
}

// parseText splits a tEXt payload at its first NUL. Without a NUL the whole
// payload is the key.
func parseText(data []byte) (string, string) {
	for i, b := range data {
		if b == 0 {
			return latin1(data[:i]), latin1(data[i+1:])
		}
	}
	return latin1(data), ""
}

func latin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
