package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Gob encodes values with [encoding/gob]. Each encoded sequence is
// self-contained (produced by a fresh encoder), so values written by one
// process decode in another.
//
// Gob is the default codec. Note that gob cannot encode nil pointers;
// use [JSON] or [Msgpack] when nil values must round-trip.
type Gob struct{}

func (Gob) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer

	err := gob.NewEncoder(&buf).Encode(v)
	if err != nil {
		return nil, fmt.Errorf("codec: gob encode: %w", err)
	}

	return buf.Bytes(), nil
}

func (Gob) Unmarshal(data []byte, v any) error {
	err := gob.NewDecoder(bytes.NewReader(data)).Decode(v)
	if err != nil {
		return fmt.Errorf("%w: gob: %w", ErrDecode, err)
	}

	return nil
}
