// Package model defines the data-backing side of the codec: the address
// windows served by the device, the per-holding-register write limits, and
// the capability interface the codec drives to read and write actual data.
package model

import (
	"github.com/Moonlight-Companies/mbapserver/common"
)

// Window describes one contiguous range of a Modbus address space.
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 4.4 (Addressing Model)
type Window struct {
	Start common.Address // First valid address
	Count uint16         // Number of addressable items
}

// ContainsRange reports whether a read or write of `count` items starting at
// `addr` falls entirely inside the window. Arithmetic is done in 32 bits so a
// request near the top of the address space cannot wrap around.
func (w Window) ContainsRange(addr common.Address, count uint16) bool {
	return addr >= w.Start &&
		uint32(addr)+uint32(count) <= uint32(w.Start)+uint32(w.Count)
}

// Contains reports whether a single address is a member of the window.
// The upper bound is exclusive: a window {Start: 0, Count: 15} spans
// addresses 0 through 14.
func (w Window) Contains(addr common.Address) bool {
	return addr >= w.Start && uint32(addr) < uint32(w.Start)+uint32(w.Count)
}

// Store is the capability interface between the codec and the data backing
// it. All addresses are store-relative: the codec subtracts the window start
// before any call, so implementations index from zero.
//
// Bit data is packed one status per bit, LSB of the first byte holding the
// lowest address. Register data is two bytes per register, big-endian, in
// ascending address order. Write input uses the same encoding as the
// corresponding read output.
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 4.3 (Data Encoding)
type Store interface {
	// ReadCoils packs `count` coil states starting at rel into out.
	ReadCoils(rel uint16, count int16, out []byte)

	// ReadDiscreteInputs packs `count` discrete input states starting at rel into out.
	ReadDiscreteInputs(rel uint16, count int16, out []byte)

	// ReadInputRegisters copies `count` input registers starting at rel into out.
	ReadInputRegisters(rel uint16, count uint16, out []byte)

	// ReadHoldingRegisters copies `count` holding registers starting at rel into out.
	ReadHoldingRegisters(rel uint16, count uint16, out []byte)

	// WriteHoldingRegisters stores `count` registers from in starting at rel.
	WriteHoldingRegisters(rel uint16, count uint16, in []byte)

	// WriteCoils stores `count` coil states from in starting at rel.
	WriteCoils(rel uint16, count int16, in []byte)
}

// DataModel is the configuration bound to a codec at construction time. It
// owns the four address windows, the per-holding-register write limits and
// the store the codec reads and writes through.
//
// The codec keeps a reference; the buffers behind the store are not copied.
type DataModel struct {
	// Address windows for the four Modbus data types
	// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 4.3 (Data Model)
	Coils            Window
	DiscreteInputs   Window
	InputRegisters   Window
	HoldingRegisters Window

	// Permitted value range per holding register, indexed relative to the
	// holding register window. A write of value v to relative address i is
	// accepted iff HoldingLower[i] <= v <= HoldingUpper[i], compared as
	// signed 16-bit values.
	HoldingLower []int16
	HoldingUpper []int16

	// Store provides the actual data access
	Store Store
}

// Validate checks the configuration for internal consistency. It must be
// called (and must pass) before the model is bound to a codec.
func (m *DataModel) Validate() error {
	if m.Store == nil {
		return common.ErrMissingStore
	}

	for _, w := range []Window{m.Coils, m.DiscreteInputs, m.InputRegisters, m.HoldingRegisters} {
		if uint32(w.Start)+uint32(w.Count) > 0x10000 {
			return common.ErrWindowOverflow
		}
	}

	if len(m.HoldingLower) != int(m.HoldingRegisters.Count) ||
		len(m.HoldingUpper) != int(m.HoldingRegisters.Count) {
		return common.ErrLimitSizeMismatch
	}

	return nil
}
