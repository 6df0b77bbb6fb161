package model

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/Moonlight-Companies/mbapserver/bitpack"
)

// MemoryStore implements Store with in-memory buffers
// Provides storage for all four Modbus data types as defined in the specification
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 4.3 (Data Model)
type MemoryStore struct {
	// Coils (read-write 1-bit outputs) - Function codes 0x01 (read) and 0x05/0x0F (write)
	// Packed one coil per bit; sized with bitpack.BufLen so windowed bit
	// access at the last address stays in bounds.
	coils []byte

	// Discrete Inputs (read-only 1-bit inputs) - Function code 0x02 (read)
	discreteInputs []byte

	// Input Registers (read-only 16-bit registers) - Function code 0x04 (read)
	inputRegisters []int16

	// Holding Registers (read-write 16-bit registers) - Function codes 0x03 (read) and 0x06/0x10 (write)
	holdingRegisters []int16

	// Mutex to protect concurrent access to the buffers
	mu sync.RWMutex
}

// NewMemoryStore creates a memory-backed store sized for the given number of
// items in each address space.
func NewMemoryStore(coils, discreteInputs, inputRegisters, holdingRegisters uint16) *MemoryStore {
	return &MemoryStore{
		coils:            make([]byte, bitpack.BufLen(int(coils))),
		discreteInputs:   make([]byte, bitpack.BufLen(int(discreteInputs))),
		inputRegisters:   make([]int16, inputRegisters),
		holdingRegisters: make([]int16, holdingRegisters),
	}
}

// ReadCoils packs coil states into out, LSB of out[0] holding address rel
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.1 (Read Coils)
func (s *MemoryStore) ReadCoils(rel uint16, count int16, out []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	readBits(s.coils, rel, count, out)
}

// ReadDiscreteInputs packs discrete input states into out
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.2 (Read Discrete Inputs)
func (s *MemoryStore) ReadDiscreteInputs(rel uint16, count int16, out []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	readBits(s.discreteInputs, rel, count, out)
}

// ReadInputRegisters copies input registers into out, two bytes per register,
// big-endian, ascending address order
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.4 (Read Input Registers)
func (s *MemoryStore) ReadInputRegisters(rel uint16, count uint16, out []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := uint16(0); i < count; i++ {
		binary.BigEndian.PutUint16(out[2*i:], uint16(s.inputRegisters[rel+i]))
	}
}

// ReadHoldingRegisters copies holding registers into out
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.3 (Read Holding Registers)
func (s *MemoryStore) ReadHoldingRegisters(rel uint16, count uint16, out []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := uint16(0); i < count; i++ {
		binary.BigEndian.PutUint16(out[2*i:], uint16(s.holdingRegisters[rel+i]))
	}
}

// WriteHoldingRegisters stores big-endian register words from in
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.12 (Write Multiple Registers)
func (s *MemoryStore) WriteHoldingRegisters(rel uint16, count uint16, in []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := uint16(0); i < count; i++ {
		s.holdingRegisters[rel+i] = int16(binary.BigEndian.Uint16(in[2*i:]))
	}
}

// WriteCoils stores packed coil states from in, 8 bits at a time, through the
// windowed bit-field primitive
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.11 (Write Multiple Coils)
func (s *MemoryStore) WriteCoils(rel uint16, count int16, in []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bit := int(rel)
	for k := 0; count > 0; k++ {
		width := 8
		if count < 8 {
			width = int(count)
		}
		bitpack.Write(s.coils, bit, width, uint16(in[k]))
		bit += 8
		count -= 8
	}
}

// readBits packs bit runs from a backing buffer into out, one output byte per
// run of up to 8 bits.
func readBits(buf []byte, rel uint16, count int16, out []byte) {
	bit := int(rel)
	for k := 0; count > 0; k++ {
		width := 8
		if count < 8 {
			width = int(count)
		}
		out[k] = byte(bitpack.Read(buf, bit, width))
		bit += 8
		count -= 8
	}
}

// SetCoil sets a single coil state
func (s *MemoryStore) SetCoil(rel uint16, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := uint16(0)
	if value {
		v = 1
	}
	bitpack.Write(s.coils, int(rel), 1, v)
}

// Coil gets a single coil state
func (s *MemoryStore) Coil(rel uint16) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return bitpack.Read(s.coils, int(rel), 1) != 0
}

// SetDiscreteInput sets a single discrete input state
func (s *MemoryStore) SetDiscreteInput(rel uint16, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := uint16(0)
	if value {
		v = 1
	}
	bitpack.Write(s.discreteInputs, int(rel), 1, v)
}

// DiscreteInput gets a single discrete input state
func (s *MemoryStore) DiscreteInput(rel uint16) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return bitpack.Read(s.discreteInputs, int(rel), 1) != 0
}

// SetInputRegister sets a single input register value
func (s *MemoryStore) SetInputRegister(rel uint16, value int16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inputRegisters[rel] = value
}

// InputRegister gets a single input register value
func (s *MemoryStore) InputRegister(rel uint16) int16 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.inputRegisters[rel]
}

// SetHoldingRegister sets a single holding register value
func (s *MemoryStore) SetHoldingRegister(rel uint16, value int16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.holdingRegisters[rel] = value
}

// HoldingRegister gets a single holding register value
func (s *MemoryStore) HoldingRegister(rel uint16) int16 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.holdingRegisters[rel]
}

// LoadCoilBytes seeds the coil buffer from packed bytes
func (s *MemoryStore) LoadCoilBytes(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.coils, b)
}

// LoadDiscreteInputBytes seeds the discrete input buffer from packed bytes
func (s *MemoryStore) LoadDiscreteInputBytes(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.discreteInputs, b)
}

// LoadInputRegisters seeds input registers starting at address 0
func (s *MemoryStore) LoadInputRegisters(values []int16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.inputRegisters, values)
}

// LoadHoldingRegisters seeds holding registers starting at address 0
func (s *MemoryStore) LoadHoldingRegisters(values []int16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.holdingRegisters, values)
}

// DumpRegisters returns a string representation of the store's content
func (s *MemoryStore) DumpRegisters() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := "Memory Store Content:\n"

	result += "Coils:\n"
	for i := 0; i < (len(s.coils)-1)*8; i++ {
		if bitpack.Read(s.coils, i, 1) != 0 {
			result += fmt.Sprintf("  %d: true\n", i)
		}
	}

	result += "Discrete Inputs:\n"
	for i := 0; i < (len(s.discreteInputs)-1)*8; i++ {
		if bitpack.Read(s.discreteInputs, i, 1) != 0 {
			result += fmt.Sprintf("  %d: true\n", i)
		}
	}

	result += "Input Registers:\n"
	for i, v := range s.inputRegisters {
		if v != 0 {
			result += fmt.Sprintf("  %d: %d (0x%04X)\n", i, v, uint16(v))
		}
	}

	result += "Holding Registers:\n"
	for i, v := range s.holdingRegisters {
		if v != 0 {
			result += fmt.Sprintf("  %d: %d (0x%04X)\n", i, v, uint16(v))
		}
	}

	return result
}
