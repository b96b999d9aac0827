package pngDecoder

import (
	"fmt"
	"math"
	"math/bits"
)

type FilterMethod byte

const (
	FilterNone FilterMethod = iota
	FilterSub
	FilterUp
	FilterAverage
	FilterPaeth
)

// DecodePixels undoes the per-scanline filtering of an inflated IDAT stream.
// Each scanline is a filter type byte followed by width*pixelBitLength/8
// bytes; the result holds exactly height rows with no filter bytes.
func DecodePixels(data []byte, width, height uint32, pixelBitLength int) ([]byte, error) {
	if pixelBitLength <= 0 || pixelBitLength%8 != 0 {
		return nil, UnsupportedError(fmt.Sprintf("%d bits per pixel", pixelBitLength))
	}
	bytesPerPixel := pixelBitLength / 8
	scanlineLength := uint64(bytesPerPixel) * uint64(width)
	hi, need := bits.Mul64(scanlineLength+1, uint64(height))
	if hi != 0 || need > math.MaxInt {
		return nil, UnsupportedError(fmt.Sprintf("image of %dx%d pixels", width, height))
	}
	if uint64(len(data)) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortPixelData, len(data), need)
	}

	stride := int(scanlineLength)
	pixels := make([]byte, stride*int(height))
	previousLine := make([]byte, stride)
	pos := 0
	for row := 0; row < int(height); row++ {
		filter := data[pos]
		scanline := data[pos+1 : pos+1+stride]
		pos += 1 + stride
		processedLine := pixels[row*stride : (row+1)*stride]

		switch FilterMethod(filter) {
		case FilterNone:
			processNoneFilter(scanline, processedLine)
		case FilterSub:
			processSubFilter(scanline, processedLine, bytesPerPixel)
		case FilterUp:
			processUpFilter(previousLine, scanline, processedLine)
		case FilterAverage:
			processAvgFilter(previousLine, scanline, processedLine, bytesPerPixel)
		case FilterPaeth:
			processPaethFilter(previousLine, scanline, processedLine, bytesPerPixel)
		default:
			return nil, &InvalidFilterTypeError{Filter: filter, Row: row}
		}
		previousLine = processedLine
	}
	return pixels, nil
}

func processNoneFilter(scanline, processedLine []byte) {
	copy(processedLine, scanline)
}

func processSubFilter(scanline, processedLine []byte, bytesPerPixel int) {
	for i, curr := range scanline {
		var left byte
		if i >= bytesPerPixel {
			left = processedLine[i-bytesPerPixel]
		}
		processedLine[i] = curr + left
	}
}

func processUpFilter(previousLine, scanline, processedLine []byte) {
	for i, curr := range scanline {
		processedLine[i] = curr + previousLine[i]
	}
}

func processAvgFilter(previousLine, scanline, processedLine []byte, bytesPerPixel int) {
	for i, curr := range scanline {
		var left byte
		if i >= bytesPerPixel {
			left = processedLine[i-bytesPerPixel]
		}
		avg := (int(left) + int(previousLine[i])) / 2
		processedLine[i] = curr + byte(avg)
	}
}

func processPaethFilter(previousLine, scanline, processedLine []byte, bytesPerPixel int) {
	for i, curr := range scanline {
		var left, upperLeft byte
		if i >= bytesPerPixel {
			left = processedLine[i-bytesPerPixel]
			upperLeft = previousLine[i-bytesPerPixel]
		}
		paeth := paethPredictor(int(left), int(previousLine[i]), int(upperLeft))
		processedLine[i] = curr + byte(paeth)
	}
}
