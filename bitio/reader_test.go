package bitio_test

import (
	"testing"

	"github.com/nassora/binlayout/bitio"
)

func TestReaderBytes(t *testing.T) {
	r := bitio.NewReader([]byte{0x01, 0x02, 0x03, 0x04}, 1, 2)
	if got := r.NextByte(); got != 0x02 {
		t.Fatalf("NextByte() = %#x, want 0x02", got)
	}
	if got := r.NextByte(); got != 0x03 {
		t.Fatalf("NextByte() = %#x, want 0x03", got)
	}
	if got := r.NextByte(); got != 0 {
		t.Fatalf("NextByte() past end = %#x, want 0", got)
	}
	if !r.Overrun() {
		t.Fatal("Overrun() = false, want true")
	}
}

func TestReaderBits(t *testing.T) {
	// 0x49 = 0100 1001, split as 3/2/3 bits.
	r := bitio.NewReader([]byte{0x49}, 0, 1)
	if got := r.NextBits(3); got != 2 {
		t.Fatalf("NextBits(3) = %d, want 2", got)
	}
	if got := r.NextBits(2); got != 1 {
		t.Fatalf("NextBits(2) = %d, want 1", got)
	}
	if got := r.NextBits(3); got != 1 {
		t.Fatalf("NextBits(3) = %d, want 1", got)
	}
}

func TestReaderBitsAcrossByteBoundary(t *testing.T) {
	// 0xAB 0xCD = 1010 1011 1100 1101. Read 4, then 12 bits.
	r := bitio.NewReader([]byte{0xAB, 0xCD}, 0, 2)
	if got := r.NextBits(4); got != 0x0A {
		t.Fatalf("NextBits(4) = %#x, want 0x0A", got)
	}
	// remaining 12 bits: 1011 1100 1101 = 0xBCD, but NextBits caps at 8
	// bits per call, so pull it in two calls instead.
	if got := r.NextBits(8); got != 0xBC {
		t.Fatalf("NextBits(8) = %#x, want 0xBC", got)
	}
	if got := r.NextBits(4); got != 0x0D {
		t.Fatalf("NextBits(4) = %#x, want 0x0D", got)
	}
}

func TestReaderPositionRoundTrip(t *testing.T) {
	r := bitio.NewReader([]byte{0x12, 0x34, 0x56}, 0, 3)
	r.NextByte()
	snap := r.Position()
	want := r.NextByte()
	r.Reset(snap)
	got := r.NextByte()
	if got != want {
		t.Fatalf("after Reset: NextByte() = %#x, want %#x", got, want)
	}
}

func TestReaderRemaining(t *testing.T) {
	r := bitio.NewReader([]byte{1, 2, 3, 4, 5}, 1, 3)
	if got := r.Remaining(); got != 3 {
		t.Fatalf("Remaining() = %d, want 3", got)
	}
	r.NextByte()
	if got := r.Remaining(); got != 2 {
		t.Fatalf("Remaining() after one read = %d, want 2", got)
	}
}

func TestReaderBytesBulk(t *testing.T) {
	r := bitio.NewReader([]byte{0xAA, 0xBB, 0xCC, 0xDD}, 0, 4)
	got := r.Bytes(3)
	want := []byte{0xAA, 0xBB, 0xCC}
	if len(got) != len(want) {
		t.Fatalf("Bytes(3) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bytes(3)[%d] = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestReaderBytesOverrun(t *testing.T) {
	r := bitio.NewReader([]byte{0xAA}, 0, 1)
	got := r.Bytes(3)
	if len(got) != 3 {
		t.Fatalf("Bytes(3) len = %d, want 3", len(got))
	}
	if got[0] != 0xAA || got[1] != 0 || got[2] != 0 {
		t.Fatalf("Bytes(3) = %v, want [0xAA 0 0]", got)
	}
	if !r.Overrun() {
		t.Fatal("Overrun() = false, want true")
	}
}
