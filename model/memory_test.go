package model

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryStoreCoils(t *testing.T) {
	store := NewMemoryStore(16, 16, 16, 16)

	store.SetCoil(0, true)
	store.SetCoil(2, true)
	store.SetCoil(9, true)

	out := make([]byte, 2)
	store.ReadCoils(0, 16, out)

	if out[0] != 0x05 {
		t.Errorf("expected first byte 0x05, got 0x%02X", out[0])
	}
	if out[1] != 0x02 {
		t.Errorf("expected second byte 0x02, got 0x%02X", out[1])
	}
}

func TestMemoryStoreReadCoilsAtOffset(t *testing.T) {
	store := NewMemoryStore(16, 16, 16, 16)

	store.SetCoil(5, true)
	store.SetCoil(6, true)

	// Bit k of the response represents relative address rel + k
	out := make([]byte, 1)
	store.ReadCoils(5, 3, out)

	if out[0] != 0x03 {
		t.Errorf("expected 0x03, got 0x%02X", out[0])
	}
}

func TestMemoryStoreWriteCoils(t *testing.T) {
	store := NewMemoryStore(16, 16, 16, 16)

	// Write 10 coils spanning a byte boundary
	store.WriteCoils(3, 10, []byte{0xFF, 0x03})

	for i := uint16(3); i < 13; i++ {
		if !store.Coil(i) {
			t.Errorf("expected coil %d on", i)
		}
	}
	if store.Coil(2) || store.Coil(13) {
		t.Error("coils outside the written run must stay off")
	}
}

func TestMemoryStoreWriteCoilsPartialWidth(t *testing.T) {
	store := NewMemoryStore(16, 16, 16, 16)
	store.SetCoil(3, true)

	// A 3-coil write must not disturb its neighbours even when the
	// payload byte carries more set bits
	store.WriteCoils(0, 3, []byte{0xFF})

	if !store.Coil(0) || !store.Coil(1) || !store.Coil(2) {
		t.Error("expected coils 0..2 on")
	}
	if !store.Coil(3) {
		t.Error("expected coil 3 untouched")
	}
	if store.Coil(4) {
		t.Error("expected coil 4 off")
	}
}

func TestMemoryStoreDiscreteInputs(t *testing.T) {
	store := NewMemoryStore(16, 16, 16, 16)
	store.LoadDiscreteInputBytes([]byte{0xEF})

	out := make([]byte, 1)
	store.ReadDiscreteInputs(0, 8, out)
	if out[0] != 0xEF {
		t.Errorf("expected 0xEF, got 0x%02X", out[0])
	}

	if store.DiscreteInput(4) {
		t.Error("expected input 4 off")
	}
	if !store.DiscreteInput(5) {
		t.Error("expected input 5 on")
	}
}

func TestMemoryStoreRegisters(t *testing.T) {
	store := NewMemoryStore(16, 16, 16, 16)
	store.LoadInputRegisters([]int16{1, 2, 3})
	store.SetHoldingRegister(0, 0x1234)
	store.SetHoldingRegister(1, -2)

	out := make([]byte, 6)
	store.ReadInputRegisters(0, 3, out)
	want := []byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03}
	if !bytes.Equal(out, want) {
		t.Errorf("expected % X, got % X", want, out)
	}

	out = make([]byte, 4)
	store.ReadHoldingRegisters(0, 2, out)
	want = []byte{0x12, 0x34, 0xFF, 0xFE}
	if !bytes.Equal(out, want) {
		t.Errorf("expected % X, got % X", want, out)
	}
}

func TestMemoryStoreWriteHoldingRegisters(t *testing.T) {
	store := NewMemoryStore(16, 16, 16, 16)

	store.WriteHoldingRegisters(4, 2, []byte{0x00, 0xC8, 0xFF, 0xFE})

	if got := store.HoldingRegister(4); got != 200 {
		t.Errorf("expected 200, got %d", got)
	}
	if got := store.HoldingRegister(5); got != -2 {
		t.Errorf("expected -2, got %d", got)
	}
	if got := store.HoldingRegister(3); got != 0 {
		t.Errorf("expected register 3 untouched, got %d", got)
	}
}

func TestMemoryStoreRoundTripBits(t *testing.T) {
	store := NewMemoryStore(64, 64, 16, 16)

	in := []byte{0xA5, 0x3C, 0x01}
	store.WriteCoils(7, 17, in)

	out := make([]byte, 3)
	store.ReadCoils(7, 17, out)

	if !bytes.Equal(in, out) {
		t.Errorf("round trip mismatch: wrote % X, read % X", in, out)
	}
}

func TestMemoryStoreDumpRegisters(t *testing.T) {
	store := NewMemoryStore(16, 16, 16, 16)
	store.SetCoil(1, true)
	store.SetHoldingRegister(2, 7)

	dump := store.DumpRegisters()
	if !strings.Contains(dump, "Coils") || !strings.Contains(dump, "Holding Registers") {
		t.Errorf("unexpected dump: %s", dump)
	}
	if !strings.Contains(dump, "2: 7") {
		t.Errorf("expected holding register entry, got: %s", dump)
	}
}
