package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

var ErrTooLarge = errors.New("inflated data exceeds size limit")

func InflateData(compressedData []byte) ([]byte, error) {
	return InflateDataLimit(compressedData, 0)
}

// InflateDataLimit inflates a zlib stream, failing once more than limit bytes
// come out. A limit of zero or less means no limit.
func InflateDataLimit(compressedData []byte, limit int64) ([]byte, error) {
	reader := bytes.NewReader(compressedData)

	zlibReader, err := zlib.NewReader(reader)
	if err != nil {
		return nil, err
	}
	defer zlibReader.Close()

	var src io.Reader = zlibReader
	if limit > 0 {
		src = io.LimitReader(zlibReader, limit+1)
	}
	var decompressedData bytes.Buffer
	n, err := io.Copy(&decompressedData, src)
	if err != nil {
		return nil, err
	}
	if limit > 0 && n > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return decompressedData.Bytes(), nil
}
