package pngDecoder

import (
	"errors"
	"fmt"
)

var (
	ErrCorruptFile       = errors.New("incomplete or corrupt file")
	ErrInvalidFilterType = errors.New("invalid filter algorithm")
	ErrDecompression     = errors.New("decompression failed")
	ErrClipOutOfBounds   = errors.New("clip out of bounds")
	ErrUnsupported       = errors.New("unsupported png feature")
	ErrShortPixelData    = errors.New("not enough pixel data")
)

// CorruptFileError reports a read that would run past the end of the input
// or past the end of a chunk payload.
type CorruptFileError struct {
	Chunk  string // tag of the chunk being read, empty while reading a chunk header
	Offset int    // cursor position when the read started
	Need   int
	Have   int
}

func (e *CorruptFileError) Error() string {
	where := "chunk header"
	if e.Chunk != "" {
		where = e.Chunk + " chunk"
	}
	return fmt.Sprintf("%v: %s at offset %d needs %d bytes, %d available", ErrCorruptFile, where, e.Offset, e.Need, e.Have)
}

func (e *CorruptFileError) Is(target error) bool {
	return target == ErrCorruptFile
}

type InvalidFilterTypeError struct {
	Filter byte
	Row    int
}

func (e *InvalidFilterTypeError) Error() string {
	return fmt.Sprintf("%v: %d on row %d", ErrInvalidFilterType, e.Filter, e.Row)
}

func (e *InvalidFilterTypeError) Is(target error) bool {
	return target == ErrInvalidFilterType
}

// DecompressionError carries the failure returned by the inflate collaborator.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("%v: %v", ErrDecompression, e.Err)
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}

func (e *DecompressionError) Is(target error) bool {
	return target == ErrDecompression
}

// ClipOutOfBoundsError names the clip field ("x", "y", "w" or "h") that fell
// outside the image.
type ClipOutOfBoundsError struct {
	Field string
	Value int
	Limit int
}

func (e *ClipOutOfBoundsError) Error() string {
	return fmt.Sprintf("clip.%s is out of bounds: %d (limit %d)", e.Field, e.Value, e.Limit)
}

func (e *ClipOutOfBoundsError) Is(target error) bool {
	return target == ErrClipOutOfBounds
}

type UnsupportedError string

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnsupported, string(e))
}

func (e UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}
