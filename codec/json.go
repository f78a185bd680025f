package codec

import (
	"encoding/json"
	"fmt"
)

// JSON encodes values with [encoding/json]. Useful when entry files
// should stay human-inspectable, at the cost of JSON's type fidelity
// (integers round-trip through float64 inside untyped values).
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: json encode: %w", err)
	}

	return data, nil
}

func (JSON) Unmarshal(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err != nil {
		return fmt.Errorf("%w: json: %w", ErrDecode, err)
	}

	return nil
}
