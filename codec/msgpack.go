package codec

import (
	"bytes"
	"fmt"

	msgpack "github.com/hashicorp/go-msgpack/v2/codec"
)

// Shared handle; stateless and safe for concurrent encoders/decoders.
var msgpackHandle = &msgpack.MsgpackHandle{}

// Msgpack encodes values as MessagePack. More compact than gob for
// small values because it carries no type preamble.
type Msgpack struct{}

func (Msgpack) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer

	err := msgpack.NewEncoder(&buf, msgpackHandle).Encode(v)
	if err != nil {
		return nil, fmt.Errorf("codec: msgpack encode: %w", err)
	}

	return buf.Bytes(), nil
}

func (Msgpack) Unmarshal(data []byte, v any) error {
	err := msgpack.NewDecoderBytes(data, msgpackHandle).Decode(v)
	if err != nil {
		return fmt.Errorf("%w: msgpack: %w", ErrDecode, err)
	}

	return nil
}
