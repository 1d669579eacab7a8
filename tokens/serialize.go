package tokens

import (
	"encoding/binary"
	"fmt"
)

// Binary layout, all integers big-endian uint32:
//
//	blockCount
//	per block:
//	  startLineNumber
//	  lineCount
//	  per line:
//	    byteLength
//	    byteLength bytes of token words
//
// The format carries no version field; compatibility is gated by the caller
// before decoding.

// Serialize encodes a collection of multiline token blocks into a byte
// buffer. It fails on any line whose token array is nil, because an
// un-tokenized line has no byte representation.
func Serialize(blocks []*MultilineTokens) ([]byte, error) {
	size := 4
	for _, block := range blocks {
		size += 8
		for lineIndex, line := range block.tokens {
			if line == nil {
				return nil, fmt.Errorf("serialize: line %d of block starting at line %d is not tokenized", lineIndex, block.startLineNumber)
			}
			size += 4 + 4*len(line)
		}
	}

	buf := make([]byte, size)
	offset := 0
	put := func(v uint32) {
		binary.BigEndian.PutUint32(buf[offset:], v)
		offset += 4
	}

	put(uint32(len(blocks)))
	for _, block := range blocks {
		put(uint32(block.startLineNumber))
		put(uint32(len(block.tokens)))
		for _, line := range block.tokens {
			put(uint32(4 * len(line)))
			for _, word := range line {
				put(word)
			}
		}
	}
	return buf, nil
}

// Deserialize decodes a buffer produced by Serialize. Every line's token
// array is a sub-slice of one shared decode buffer, so
// deserialize(serialize(x)) round-trips content exactly without one
// allocation per line.
func Deserialize(data []byte) ([]*MultilineTokens, error) {
	offset := 0
	read := func() (uint32, error) {
		if offset+4 > len(data) {
			return 0, fmt.Errorf("deserialize: truncated payload at byte %d", offset)
		}
		v := binary.BigEndian.Uint32(data[offset:])
		offset += 4
		return v, nil
	}

	blockCount, err := read()
	if err != nil {
		return nil, err
	}
	// Counts come from the payload and bound allocations, so they must be
	// validated against the bytes actually present before any make. Each
	// block takes at least 8 header bytes, each line at least 4.
	if int64(blockCount) > int64(len(data)-offset)/8 {
		return nil, fmt.Errorf("deserialize: block count %d exceeds payload size", blockCount)
	}

	// Shared backing storage for every decoded line. len(data)/4 words is
	// an upper bound on the total token payload.
	backing := make([]uint32, len(data)/4)
	used := 0

	blocks := make([]*MultilineTokens, 0, blockCount)
	for b := uint32(0); b < blockCount; b++ {
		startLineNumber, err := read()
		if err != nil {
			return nil, err
		}
		lineCount, err := read()
		if err != nil {
			return nil, err
		}
		if int64(lineCount) > int64(len(data)-offset)/4 {
			return nil, fmt.Errorf("deserialize: line count %d exceeds payload size", lineCount)
		}
		lines := make([][]uint32, lineCount)
		for l := uint32(0); l < lineCount; l++ {
			byteLength, err := read()
			if err != nil {
				return nil, err
			}
			if byteLength%4 != 0 {
				return nil, fmt.Errorf("deserialize: line payload of %d bytes is not word-aligned", byteLength)
			}
			words := int(byteLength / 4)
			if offset+4*words > len(data) {
				return nil, fmt.Errorf("deserialize: truncated payload at byte %d", offset)
			}
			dst := backing[used : used+words : used+words]
			for w := 0; w < words; w++ {
				dst[w] = binary.BigEndian.Uint32(data[offset:])
				offset += 4
			}
			used += words
			lines[l] = dst
		}
		blocks = append(blocks, &MultilineTokens{
			startLineNumber: int(startLineNumber),
			tokens:          lines,
		})
	}
	return blocks, nil
}
