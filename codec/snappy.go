package codec

import (
	"errors"
	"fmt"

	"github.com/golang/snappy"
)

// Snappy compresses the output of another codec with snappy block
// encoding. Decoding rejects inputs that are not valid snappy data, so
// corrupt or foreign bytes surface as [ErrDecode] before the inner codec
// ever sees them.
type Snappy struct {
	// Inner produces the bytes to compress. Must be non-nil.
	Inner Codec
}

func (s Snappy) Marshal(v any) ([]byte, error) {
	if s.Inner == nil {
		return nil, errors.New("codec: snappy: nil inner codec")
	}

	plain, err := s.Inner.Marshal(v)
	if err != nil {
		return nil, err
	}

	return snappy.Encode(nil, plain), nil
}

func (s Snappy) Unmarshal(data []byte, v any) error {
	if s.Inner == nil {
		return errors.New("codec: snappy: nil inner codec")
	}

	plain, err := snappy.Decode(nil, data)
	if err != nil {
		return fmt.Errorf("%w: snappy: %w", ErrDecode, err)
	}

	return s.Inner.Unmarshal(plain, v)
}
