package pngDecoder

import "indexedpng/utils"

const signatureLength = 8

// Chunk is one length-prefixed block of the file body. The CRC is carried
// along but never verified.
type Chunk struct {
	Length uint32
	Type   string
	Data   []uint8
	CRC    uint32
	Offset int
}

// Critical reports whether the chunk type starts with an upper-case letter.
func (c *Chunk) Critical() bool {
	return len(c.Type) > 0 && c.Type[0] >= 'A' && c.Type[0] <= 'Z'
}

// chunkReader walks the input buffer one chunk at a time. The cursor only
// moves forward.
type chunkReader struct {
	data     []uint8
	idx      int
	finished bool
}

// newChunkReader positions the cursor just past the signature, which is not
// checked.
func newChunkReader(data []byte) *chunkReader {
	return &chunkReader{
		data: data,
		idx:  signatureLength,
	}
}

func (r *chunkReader) nextChunk() (*Chunk, error) {
	if r.finished {
		return nil, nil
	}
	offset := r.idx
	length, err := r.tryAdvance(4, "")
	if err != nil {
		return nil, err
	}
	chunkType, err := r.tryAdvance(4, "")
	if err != nil {
		return nil, err
	}
	chunk := &Chunk{
		Length: utils.BytesToLength(length),
		Type:   string(chunkType),
		Offset: offset,
	}
	// Nothing after the IEND tag is read, not even its CRC.
	if chunk.Type == chunkIEND {
		r.finished = true
		return chunk, nil
	}
	chunk.Data, err = r.tryAdvance(chunk.Length, chunk.Type)
	if err != nil {
		return nil, err
	}
	crc, err := r.tryAdvance(4, chunk.Type)
	if err != nil {
		return nil, err
	}
	chunk.CRC = utils.BytesToLength(crc)
	return chunk, nil
}

func (r *chunkReader) remaining() int {
	if r.idx > len(r.data) {
		return 0
	}
	return len(r.data) - r.idx
}

func (r *chunkReader) tryAdvance(length uint32, chunkType string) ([]uint8, error) {
	if uint64(length) > uint64(r.remaining()) {
		return nil, &CorruptFileError{
			Chunk:  chunkType,
			Offset: r.idx,
			Need:   int(length),
			Have:   r.remaining(),
		}
	}

	n := int(length)
	r.idx += n
	return r.data[r.idx-n : r.idx], nil
}
