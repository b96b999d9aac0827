package utils

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

func BytesToLength(data []byte) uint32 {
	return binary.BigEndian.Uint32(data)
}

// CreatePPM creates name and writes a binary (P6) PPM header for a
// width x height image. The caller writes the RGB samples and closes the file.
func CreatePPM(name string, width, height int) (*os.File, error) {
	file, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	_, err = fmt.Fprintf(file, "P6\n%d %d\n255\n", width, height)
	if err != nil {
		file.Close()
		return nil, err
	}

	return file, nil
}

// WriteRGB writes the RGB samples of an RGBA buffer, dropping alpha.
func WriteRGB(w io.Writer, rgba []byte) error {
	bw := bufio.NewWriter(w)
	for i := 0; i+3 < len(rgba); i += 4 {
		if _, err := bw.Write(rgba[i : i+3]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
