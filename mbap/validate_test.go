package mbap

import (
	"testing"

	"github.com/Moonlight-Companies/mbapserver/model"
)

// recordingStore counts capability calls so tests can assert that rejected
// queries never reach the data backing.
type recordingStore struct {
	reads  int
	writes int
}

func (s *recordingStore) ReadCoils(rel uint16, count int16, out []byte)          { s.reads++ }
func (s *recordingStore) ReadDiscreteInputs(rel uint16, count int16, out []byte) { s.reads++ }
func (s *recordingStore) ReadInputRegisters(rel, count uint16, out []byte)       { s.reads++ }
func (s *recordingStore) ReadHoldingRegisters(rel, count uint16, out []byte)     { s.reads++ }
func (s *recordingStore) WriteHoldingRegisters(rel, count uint16, in []byte)     { s.writes++ }
func (s *recordingStore) WriteCoils(rel uint16, count int16, in []byte)          { s.writes++ }

func newRecordingCodec(t *testing.T) (*Codec, *recordingStore) {
	t.Helper()

	store := &recordingStore{}
	m := &model.DataModel{
		Coils:            model.Window{Start: 0, Count: 15},
		DiscreteInputs:   model.Window{Start: 0, Count: 15},
		InputRegisters:   model.Window{Start: 0, Count: 15},
		HoldingRegisters: model.Window{Start: 0, Count: 15},
		HoldingLower:     make([]int16, 15),
		HoldingUpper:     []int16{200, 200, 200, 200, 200, 200, 200, 200, 200, 200, 200, 200, 200, 200, 200},
		Store:            store,
	}

	codec, err := NewCodec(m)
	if err != nil {
		t.Fatalf("NewCodec returned error: %v", err)
	}
	return codec, store
}

func TestRejectedQueriesNeverReachTheStore(t *testing.T) {
	codec, store := newRecordingCodec(t)

	queries := [][]byte{
		// Wrong protocol id
		{0x00, 0x00, 0x00, 0x01, 0x00, 0x06, 0x01, 0x01, 0x00, 0x00, 0x00, 0x01},
		// Wrong unit id
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x07, 0x01, 0x00, 0x00, 0x00, 0x01},
		// Oversized MBAP length field
		{0x00, 0x00, 0x00, 0x00, 0x02, 0x00, 0x01, 0x01, 0x00, 0x00, 0x00, 0x01},
		// Unknown function code
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01, 0x0A, 0x00, 0x00, 0x00, 0x01},
		// Coil read overrunning the window
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01, 0x01, 0x00, 0x00, 0x00, 0x10},
		// Discrete input read overrunning the window
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01, 0x02, 0x00, 0x0F, 0x00, 0x01},
		// Holding register read overrunning the window
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01, 0x03, 0x00, 0x0E, 0x00, 0x02},
		// Input register read overrunning the window
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01, 0x04, 0x00, 0x00, 0x00, 0x10},
		// Single coil write outside the window
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01, 0x05, 0x00, 0x0F, 0xFF, 0x00},
		// Single coil write with an illegal value
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01, 0x05, 0x00, 0x00, 0xAB, 0xCD},
		// Single register write outside the window
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01, 0x06, 0x00, 0x0F, 0x00, 0x01},
		// Single register write above the limit
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01, 0x06, 0x00, 0x00, 0x00, 0xC9},
		// Multi coil write overrunning the window
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x09, 0x01, 0x0F, 0x00, 0x0E, 0x00, 0x02, 0x01, 0x03},
		// Multi coil write with inconsistent byte count
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x09, 0x01, 0x0F, 0x00, 0x00, 0x00, 0x02, 0x02, 0x03},
		// Multi register write with inconsistent byte count
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x0B, 0x01, 0x10, 0x00, 0x00, 0x00, 0x02, 0x05, 0x00, 0x01, 0x00, 0x02},
		// Multi register write with an out-of-range value
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x0B, 0x01, 0x10, 0x00, 0x00, 0x00, 0x02, 0x04, 0x00, 0x01, 0x00, 0xC9},
	}

	for i, query := range queries {
		codec.ProcessRequest(query)
		if store.reads != 0 || store.writes != 0 {
			t.Fatalf("query %d reached the store (reads=%d writes=%d)", i, store.reads, store.writes)
		}
	}
}

func TestAcceptedQueriesReachTheStore(t *testing.T) {
	codec, store := newRecordingCodec(t)

	read := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01, 0x01, 0x00, 0x00, 0x00, 0x08}
	codec.ProcessRequest(read)
	if store.reads != 1 {
		t.Errorf("expected 1 read, got %d", store.reads)
	}

	write := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x01, 0x05, 0x00, 0x00, 0xFF, 0x00}
	codec.ProcessRequest(write)
	if store.writes != 1 {
		t.Errorf("expected 1 write, got %d", store.writes)
	}
}
