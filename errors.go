package filemap

import "errors"

// Sentinel errors. Match with [errors.Is].
var (
	// ErrNilKey is returned by Put and PutAll when the key is nil: a nil
	// interface value, or a nil pointer, chan, func, map, or slice.
	// Nothing is written and the index is untouched.
	ErrNilKey = errors.New("filemap: nil key")

	// ErrConfigInvalid is returned by LoadConfig and Config.Options when
	// a configuration cannot be parsed or validated.
	ErrConfigInvalid = errors.New("filemap: invalid config")
)
