package bitpack

import "testing"

func TestBufLen(t *testing.T) {
	cases := []struct {
		bits int
		want int
	}{
		{1, 2},
		{7, 2},
		{8, 2},
		{9, 3},
		{15, 3},
		{16, 3},
		{17, 4},
		{2000, 251},
	}

	for _, c := range cases {
		if got := BufLen(c.bits); got != c.want {
			t.Errorf("BufLen(%d) = %d, want %d", c.bits, got, c.want)
		}
	}
}

func TestWriteSingleBit(t *testing.T) {
	s := make([]byte, BufLen(16))

	Write(s, 0, 1, 1)
	if s[0] != 0x01 {
		t.Errorf("expected 0x01, got 0x%02X", s[0])
	}

	Write(s, 3, 1, 1)
	if s[0] != 0x09 {
		t.Errorf("expected 0x09, got 0x%02X", s[0])
	}

	// Clearing a bit must not disturb its neighbours
	Write(s, 0, 1, 0)
	if s[0] != 0x08 {
		t.Errorf("expected 0x08, got 0x%02X", s[0])
	}
}

func TestWriteRunAcrossByteBoundary(t *testing.T) {
	s := make([]byte, BufLen(16))

	// 8-bit run starting at bit 5 spans s[0] and s[1]
	Write(s, 5, 8, 0xFF)
	if s[0] != 0xE0 {
		t.Errorf("expected s[0] = 0xE0, got 0x%02X", s[0])
	}
	if s[1] != 0x1F {
		t.Errorf("expected s[1] = 0x1F, got 0x%02X", s[1])
	}

	if got := Read(s, 5, 8); got != 0xFF {
		t.Errorf("expected read-back 0xFF, got 0x%02X", got)
	}
}

func TestWriteMasksValueToWidth(t *testing.T) {
	s := make([]byte, BufLen(8))

	// Only the low 3 bits of the value may land in the store
	Write(s, 0, 3, 0xFF)
	if s[0] != 0x07 {
		t.Errorf("expected 0x07, got 0x%02X", s[0])
	}
	if s[1] != 0x00 {
		t.Errorf("expected high byte untouched, got 0x%02X", s[1])
	}
}

func TestWritePreservesSurroundingBits(t *testing.T) {
	s := make([]byte, BufLen(16))
	s[0] = 0xFF
	s[1] = 0xFF

	Write(s, 2, 4, 0)
	if s[0] != 0xC3 {
		t.Errorf("expected 0xC3, got 0x%02X", s[0])
	}
	if s[1] != 0xFF {
		t.Errorf("expected 0xFF, got 0x%02X", s[1])
	}
}

func TestReadAtOffsets(t *testing.T) {
	s := make([]byte, BufLen(16))
	s[0] = 0xEF // 1110 1111

	cases := []struct {
		offset int
		width  int
		want   uint16
	}{
		{0, 1, 1},
		{4, 1, 0},
		{0, 8, 0xEF},
		{0, 4, 0x0F},
		{4, 4, 0x0E},
		{6, 2, 0x03},
	}

	for _, c := range cases {
		if got := Read(s, c.offset, c.width); got != c.want {
			t.Errorf("Read(s, %d, %d) = 0x%02X, want 0x%02X", c.offset, c.width, got, c.want)
		}
	}
}

func TestWriteAtLastBitPosition(t *testing.T) {
	// A write at the final bit of a 15-bit buffer touches the overshoot byte;
	// BufLen sizing keeps it addressable.
	s := make([]byte, BufLen(15))

	Write(s, 14, 1, 1)
	if got := Read(s, 14, 1); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if s[1] != 0x40 {
		t.Errorf("expected s[1] = 0x40, got 0x%02X", s[1])
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := make([]byte, BufLen(64))

	for offset := 0; offset < 56; offset++ {
		for width := 1; width <= 8; width++ {
			value := uint16((offset + width) % (1 << uint(width)))
			Write(s, offset, width, value)
			if got := Read(s, offset, width); got != value {
				t.Fatalf("round trip at offset %d width %d: wrote 0x%02X, read 0x%02X",
					offset, width, value, got)
			}
		}
	}
}
