package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Entry file frame layout, all lengths little-endian:
//
//	magic   4 bytes  "FME1"
//	keyLen  4 bytes
//	key     keyLen bytes   (codec-encoded)
//	valLen  4 bytes
//	value   valLen bytes   (codec-encoded)
//
// The magic doubles as a format version; foreign or truncated files fail
// frame validation and are treated as corrupt.
const (
	frameMagic   = "FME1"
	frameLenSize = 4
	frameMinSize = len(frameMagic) + frameLenSize
)

// Frame errors. All of them unwrap to [ErrCorrupt].
var (
	// ErrCorrupt marks any entry file whose frame cannot be decoded.
	ErrCorrupt = errors.New("storage: corrupt entry file")

	errBadMagic     = fmt.Errorf("%w: bad magic", ErrCorrupt)
	errTruncated    = fmt.Errorf("%w: truncated", ErrCorrupt)
	errTrailingData = fmt.Errorf("%w: trailing bytes after value", ErrCorrupt)
)

// encodeFrame builds the full on-disk representation of one entry.
func encodeFrame(key, value []byte) []byte {
	buf := make([]byte, 0, frameMinSize+len(key)+frameLenSize+len(value))

	buf = append(buf, frameMagic...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(key)))
	buf = append(buf, key...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(value)))
	buf = append(buf, value...)

	return buf
}

// decodeFrameKey validates the magic and extracts the key segment.
//
// The value segment is deliberately not validated: the startup scan only
// needs the key, and a file with a readable key but damaged value must
// still enter the index (reads of it then miss).
func decodeFrameKey(data []byte) ([]byte, error) {
	if len(data) < frameMinSize {
		return nil, errTruncated
	}

	if string(data[:len(frameMagic)]) != frameMagic {
		return nil, errBadMagic
	}

	keyLen := binary.LittleEndian.Uint32(data[len(frameMagic):frameMinSize])

	rest := data[frameMinSize:]
	if uint64(keyLen) > uint64(len(rest)) {
		return nil, errTruncated
	}

	return rest[:keyLen], nil
}

// decodeFrame validates the whole frame and returns both segments.
// Every byte must be accounted for; trailing data is corruption.
func decodeFrame(data []byte) (key, value []byte, err error) {
	key, err = decodeFrameKey(data)
	if err != nil {
		return nil, nil, err
	}

	rest := data[frameMinSize+len(key):]
	if len(rest) < frameLenSize {
		return nil, nil, errTruncated
	}

	valLen := binary.LittleEndian.Uint32(rest[:frameLenSize])

	rest = rest[frameLenSize:]
	if uint64(valLen) > uint64(len(rest)) {
		return nil, nil, errTruncated
	}

	if uint64(len(rest)) > uint64(valLen) {
		return nil, nil, errTrailingData
	}

	return key, rest[:valLen], nil
}
