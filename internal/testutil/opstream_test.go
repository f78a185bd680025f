package testutil_test

import (
	"testing"

	"github.com/calvinalkan/filemap/internal/testutil"
)

func Test_OpStream_Replays_Identically_When_Input_Equal(t *testing.T) {
	t.Parallel()

	input := []byte{0x00, 0x42, 0xff, 0x07, 0x13}

	first := testutil.NewOpStream(input)
	second := testutil.NewOpStream(input)

	for first.HasMore() {
		if a, b := first.Op(5), second.Op(5); a != b {
			t.Fatalf("op diverged: %d != %d", a, b)
		}
	}

	if second.HasMore() {
		t.Fatal("streams consumed different amounts of input")
	}
}

func Test_OpStream_Returns_Zero_Values_When_Exhausted(t *testing.T) {
	t.Parallel()

	s := testutil.NewOpStream(nil)

	if s.HasMore() {
		t.Fatal("empty stream should have no more input")
	}

	if got := s.Op(7); got != 0 {
		t.Fatalf("op = %d, want 0", got)
	}

	if got := s.Key(8); got != "key-00" {
		t.Fatalf("key = %q, want key-00", got)
	}

	if got := s.Value(); got != "value-000" {
		t.Fatalf("value = %q, want value-000", got)
	}
}

func Test_OpStream_Confines_Keys_To_Space(t *testing.T) {
	t.Parallel()

	input := make([]byte, 64)
	for i := range input {
		input[i] = byte(i * 7)
	}

	s := testutil.NewOpStream(input)
	seen := make(map[string]bool)

	for s.HasMore() {
		seen[s.Key(4)] = true
	}

	if len(seen) > 4 {
		t.Fatalf("distinct keys = %d, want at most 4", len(seen))
	}
}
