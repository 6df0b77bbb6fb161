package model

import (
	"testing"

	"github.com/Moonlight-Companies/mbapserver/common"
)

func TestWindowContainsRange(t *testing.T) {
	w := Window{Start: 10, Count: 5}

	cases := []struct {
		addr  common.Address
		count uint16
		want  bool
	}{
		{10, 1, true},
		{10, 5, true},
		{14, 1, true},
		{12, 3, true},
		{9, 1, false},
		{10, 6, false},
		{14, 2, false},
		{15, 1, false},
		{0, 1, false},
	}

	for _, c := range cases {
		if got := w.ContainsRange(c.addr, c.count); got != c.want {
			t.Errorf("ContainsRange(%d, %d) = %t, want %t", c.addr, c.count, got, c.want)
		}
	}
}

func TestWindowContainsRangeNoWrap(t *testing.T) {
	// A request near the top of the address space must not wrap around
	w := Window{Start: 0xFF00, Count: 0x100}

	if !w.ContainsRange(0xFFFF, 1) {
		t.Error("last address of the window must be readable")
	}
	if w.ContainsRange(0xFFFF, 2) {
		t.Error("a range past 0xFFFF must be rejected")
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: 10, Count: 5}

	cases := []struct {
		addr common.Address
		want bool
	}{
		{10, true},
		{14, true},
		{9, false},
		{15, false}, // upper bound is exclusive
	}

	for _, c := range cases {
		if got := w.Contains(c.addr); got != c.want {
			t.Errorf("Contains(%d) = %t, want %t", c.addr, got, c.want)
		}
	}
}

func TestDataModelValidate(t *testing.T) {
	store := NewMemoryStore(15, 15, 15, 15)

	valid := &DataModel{
		Coils:            Window{Start: 0, Count: 15},
		DiscreteInputs:   Window{Start: 0, Count: 15},
		InputRegisters:   Window{Start: 0, Count: 15},
		HoldingRegisters: Window{Start: 0, Count: 15},
		HoldingLower:     make([]int16, 15),
		HoldingUpper:     make([]int16, 15),
		Store:            store,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid model rejected: %v", err)
	}

	missing := *valid
	missing.Store = nil
	if err := missing.Validate(); err != common.ErrMissingStore {
		t.Errorf("expected ErrMissingStore, got %v", err)
	}

	overflow := *valid
	overflow.DiscreteInputs = Window{Start: 0xFFFF, Count: 2}
	if err := overflow.Validate(); err != common.ErrWindowOverflow {
		t.Errorf("expected ErrWindowOverflow, got %v", err)
	}

	mismatch := *valid
	mismatch.HoldingLower = make([]int16, 3)
	if err := mismatch.Validate(); err != common.ErrLimitSizeMismatch {
		t.Errorf("expected ErrLimitSizeMismatch, got %v", err)
	}
}
