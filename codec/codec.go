// Package codec defines the pluggable serialization used for keys and
// values, and ships implementations for gob, JSON, MessagePack, and a
// snappy-compressing wrapper.
//
// Every entry file stores one encoded key and one encoded value produced
// by a Codec. The store never inspects the bytes; any format that
// round-trips typed values works. [Gob] is the default.
package codec

import (
	"errors"
	"fmt"
)

// Codec converts typed values to and from byte sequences.
//
// Implementations must be safe for concurrent use and must return
// errors matching [ErrDecode] for any undecodable input, so callers can
// treat corrupt data uniformly without knowing the format.
type Codec interface {
	// Marshal encodes v into a self-contained byte sequence.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into the value pointed to by v.
	Unmarshal(data []byte, v any) error
}

// Sentinel errors.
var (
	// ErrDecode wraps every decode failure, regardless of format.
	ErrDecode = errors.New("codec: cannot decode")

	// ErrUnknown is returned by [ByName] for unrecognized codec names.
	ErrUnknown = errors.New("codec: unknown codec")
)

// Names accepted by [ByName].
const (
	NameGob     = "gob"
	NameJSON    = "json"
	NameMsgpack = "msgpack"
)

// ByName returns the codec registered under name.
// Recognized names: "gob", "json", "msgpack".
func ByName(name string) (Codec, error) {
	switch name {
	case NameGob:
		return Gob{}, nil
	case NameJSON:
		return JSON{}, nil
	case NameMsgpack:
		return Msgpack{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}
