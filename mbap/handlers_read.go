package mbap

import (
	"encoding/binary"

	"github.com/Moonlight-Companies/mbapserver/model"
)

// readBits assembles the response for Read Coils (0x01) and Read Discrete
// Inputs (0x02). The validated absolute address is converted to a
// store-relative index, the header and function code are echoed, and the
// store packs the requested bits directly into the response buffer.
//
// Response PDU: byte count, then ceil(count/8) data bytes with the LSB of the
// first byte holding the lowest address.
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Sections 6.1 and 6.2
func (c *Codec) readBits(query []byte, window model.Window, read func(rel uint16, count int16, out []byte)) outcome {
	addr := binary.BigEndian.Uint16(query[startAddressOffset:])
	count := binary.BigEndian.Uint16(query[countOffset:])

	// Queries address the device absolutely; the store indexes from zero
	rel := addr - uint16(window.Start)

	byteCount := int(count) / 8
	if count&7 != 0 {
		byteCount++
	}

	response := make([]byte, dataValuesOffset+byteCount)

	// Echo MBAP header and function code
	copy(response, query[:headerLength+1])

	// Length field counts unit id + function code + byte count + data
	// Ref: Modbus_Messaging_Implementation_Guide_V1_0b.pdf, Section 3.1.3
	binary.BigEndian.PutUint16(response[lengthOffset:], uint16(3+byteCount))
	response[byteCountOffset] = byte(byteCount)

	read(rel, int16(count), response[dataValuesOffset:])

	return normal(response)
}

// readRegisters assembles the response for Read Holding Registers (0x03) and
// Read Input Registers (0x04).
//
// Response PDU: byte count, then 2*count data bytes, one big-endian word per
// register in ascending address order.
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Sections 6.3 and 6.4
func (c *Codec) readRegisters(query []byte, window model.Window, read func(rel, count uint16, out []byte)) outcome {
	addr := binary.BigEndian.Uint16(query[startAddressOffset:])
	count := binary.BigEndian.Uint16(query[countOffset:])

	rel := addr - uint16(window.Start)

	byteCount := 2 * int(count)

	response := make([]byte, dataValuesOffset+byteCount)

	// Echo MBAP header and function code
	copy(response, query[:headerLength+1])

	binary.BigEndian.PutUint16(response[lengthOffset:], uint16(3+byteCount))
	response[byteCountOffset] = byte(byteCount)

	read(rel, count, response[dataValuesOffset:])

	return normal(response)
}
