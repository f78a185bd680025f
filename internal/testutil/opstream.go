// Package testutil derives deterministic operation sequences from fuzz
// input, for checking the store against an in-memory model.
package testutil

import "fmt"

// OpStream reads bytes sequentially from fuzz input and turns them into
// store operations. An exhausted stream keeps returning zero values, so
// the same input always replays the same operation sequence.
type OpStream struct {
	data []byte
	pos  int
}

// NewOpStream creates a stream over the given fuzz input.
func NewOpStream(data []byte) *OpStream {
	return &OpStream{data: data}
}

// HasMore reports whether unread bytes remain.
func (s *OpStream) HasMore() bool {
	return s.pos < len(s.data)
}

func (s *OpStream) next() byte {
	if s.pos >= len(s.data) {
		return 0
	}

	b := s.data[s.pos]
	s.pos++

	return b
}

// Op returns the next operation selector in [0, n).
func (s *OpStream) Op(n int) int {
	if n <= 0 {
		return 0
	}

	return int(s.next()) % n
}

// Key returns one of space keys. The space is kept small on purpose so
// sequences collide on keys and exercise overwrite and re-remove paths.
func (s *OpStream) Key(space int) string {
	if space <= 0 {
		space = 1
	}

	return fmt.Sprintf("key-%02d", int(s.next())%space)
}

// Value returns a short deterministic value.
func (s *OpStream) Value() string {
	return fmt.Sprintf("value-%03d", s.next())
}
