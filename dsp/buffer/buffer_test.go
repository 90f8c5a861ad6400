package buffer

import (
	"errors"
	"testing"
)

func TestNewZeroFilled(t *testing.T) {
	b := New(48000, 2, 8)
	if b.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", b.Len())
	}
	if b.Frames() != 8 || b.Channels() != 2 || b.SampleRate() != 48000 {
		t.Fatalf("shape = (%d, %d, %d), want (48000, 2, 8)", b.SampleRate(), b.Channels(), b.Frames())
	}
	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v, want 0", i, v)
		}
	}
}

func TestNewNegativeDimensions(t *testing.T) {
	b := New(48000, -1, 4)
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for negative channels", b.Len())
	}

	b = New(48000, 2, -4)
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for negative frames", b.Len())
	}
}

func TestFromSamplesSharesMemory(t *testing.T) {
	s := []float32{1, 2, 3, 4}

	b, err := FromSamples(44100, 2, s)
	if err != nil {
		t.Fatalf("FromSamples() error = %v", err)
	}
	if b.Frames() != 2 {
		t.Fatalf("Frames() = %d, want 2", b.Frames())
	}

	b.Samples()[0] = 99
	if s[0] != 99 {
		t.Fatal("FromSamples should share underlying memory")
	}
}

func TestFromSamplesRejectsBadShape(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		samples  []float32
	}{
		{"zero channels", 0, []float32{1, 2}},
		{"ragged", 2, []float32{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSamples(48000, tt.channels, tt.samples)
			if !errors.Is(err, ErrShape) {
				t.Fatalf("FromSamples() error = %v, want ErrShape", err)
			}
		})
	}
}

func TestClearKeepsStorage(t *testing.T) {
	b := New(48000, 1, 4)
	copy(b.Samples(), []float32{1, 2, 3, 4})
	before := &b.Samples()[0]

	b.Clear()

	if &b.Samples()[0] != before {
		t.Fatal("Clear reallocated the backing array")
	}
	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v after Clear", i, v)
		}
	}
}

func TestViewAddressesFrames(t *testing.T) {
	b := New(48000, 2, 4)
	copy(b.Samples(), []float32{0, 1, 2, 3, 4, 5, 6, 7})

	v, ok := b.View(1, 2)
	if !ok {
		t.Fatal("View(1, 2) not ok")
	}
	if v.Frames() != 2 || v.Len() != 4 {
		t.Fatalf("view shape = %d frames / %d samples, want 2 / 4", v.Frames(), v.Len())
	}

	want := []float32{2, 3, 4, 5}
	for i, x := range v.Samples() {
		if x != want[i] {
			t.Fatalf("view[%d] = %v, want %v", i, x, want[i])
		}
	}

	v.Samples()[0] = -1
	if b.Samples()[2] != -1 {
		t.Fatal("view should share storage with parent")
	}
}

func TestViewOutOfRange(t *testing.T) {
	b := New(48000, 1, 4)

	for _, r := range [][2]int{{-1, 1}, {0, 5}, {3, 2}, {0, -1}} {
		if _, ok := b.View(r[0], r[1]); ok {
			t.Errorf("View(%d, %d) ok, want out of range", r[0], r[1])
		}
	}
}

func TestViewDoesNotAllocate(t *testing.T) {
	b := New(48000, 2, 256)

	allocs := testing.AllocsPerRun(100, func() {
		v, _ := b.View(10, 100)
		v.Samples()[0] = 0.5
	})
	if allocs != 0 {
		t.Fatalf("View allocated %v times per run", allocs)
	}
}

func TestDecodePCMZeroesTail(t *testing.T) {
	b := New(48000, 1, 4)
	copy(b.Samples(), []float32{9, 9, 9, 9})

	frames := b.DecodePCM([]byte{0x00, 0x40, 0x00, 0xC0})
	if frames != 2 {
		t.Fatalf("DecodePCM() = %d frames, want 2", frames)
	}

	want := []float32{0.5, -0.5, 0, 0}
	for i, x := range b.Samples() {
		if x != want[i] {
			t.Fatalf("Samples()[%d] = %v, want %v", i, x, want[i])
		}
	}
}

func TestEncodePCM(t *testing.T) {
	b := New(48000, 2, 1)
	copy(b.Samples(), []float32{1, -1})

	dst := make([]byte, 4)
	if n := b.EncodePCM(dst); n != 4 {
		t.Fatalf("EncodePCM() = %d bytes, want 4", n)
	}

	want := []byte{0xFF, 0x7F, 0x01, 0x80}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, dst[i], want[i])
		}
	}
}
