package mbap

import (
	"encoding/binary"

	"github.com/Moonlight-Companies/mbapserver/common"
)

// writeSingleCoil handles Write Single Coil (0x05).
//
// The value field encodes the requested state: 0xFF00 for ON, 0x0000 for
// OFF. Any other value is illegal and must not affect the coil.
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.5
func (c *Codec) writeSingleCoil(query []byte) outcome {
	addr := binary.BigEndian.Uint16(query[startAddressOffset:])
	value := binary.BigEndian.Uint16(query[valueOffset:])

	rel := addr - uint16(c.model.Coils.Start)

	var state byte
	switch value {
	case common.CoilOnU16:
		state = 1
	case common.CoilOffU16:
		state = 0
	default:
		return exception(common.ExceptionInvalidDataValue)
	}

	// One coil in read-output encoding: bit 0 of a single byte
	c.model.Store.WriteCoils(rel, 1, []byte{state})

	// The normal response is an echo of the request
	response := make([]byte, writeResponseLength)
	copy(response, query[:writeResponseLength])

	return normal(response)
}

// writeSingleRegister handles Write Single Register (0x06).
//
// The value is accepted only inside the configured per-register range,
// compared as signed 16-bit values; out-of-range values answer with
// InvalidDataValue.
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.6
func (c *Codec) writeSingleRegister(query []byte) outcome {
	addr := binary.BigEndian.Uint16(query[startAddressOffset:])
	value := int16(binary.BigEndian.Uint16(query[valueOffset:]))

	rel := addr - uint16(c.model.HoldingRegisters.Start)

	if value < c.model.HoldingLower[rel] || value > c.model.HoldingUpper[rel] {
		return exception(common.ExceptionInvalidDataValue)
	}

	// The register is already wire-encoded at the value offset
	c.model.Store.WriteHoldingRegisters(rel, 1, query[valueOffset:valueOffset+2])

	// The normal response is an echo of the request
	response := make([]byte, writeResponseLength)
	copy(response, query[:writeResponseLength])

	return normal(response)
}

// writeMultipleCoils handles Write Multiple Coils (0x0F).
//
// The byte count must equal ceil(count/8); an inconsistent frame is silently
// dropped rather than answered.
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.11
func (c *Codec) writeMultipleCoils(query []byte) outcome {
	if len(query) <= writeByteCountOffset {
		return drop()
	}

	addr := binary.BigEndian.Uint16(query[startAddressOffset:])
	count := binary.BigEndian.Uint16(query[countOffset:])
	byteCount := int(query[writeByteCountOffset])

	expected := int(count) / 8
	if count&7 != 0 {
		expected++
	}
	if byteCount != expected {
		return drop()
	}

	// The advertised payload must actually be present
	if len(query) < writeValuesOffset+byteCount {
		return drop()
	}

	rel := addr - uint16(c.model.Coils.Start)

	c.model.Store.WriteCoils(rel, int16(count), query[writeValuesOffset:writeValuesOffset+byteCount])

	return writeMultipleResponse(query)
}

// writeMultipleRegisters handles Write Multiple Registers (0x10).
//
// The byte count must equal 2*count, and every value must lie inside its
// register's configured range before anything is stored; a single
// out-of-range value rejects the whole request.
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.12
func (c *Codec) writeMultipleRegisters(query []byte) outcome {
	if len(query) <= writeByteCountOffset {
		return drop()
	}

	addr := binary.BigEndian.Uint16(query[startAddressOffset:])
	count := binary.BigEndian.Uint16(query[countOffset:])
	byteCount := int(query[writeByteCountOffset])

	if byteCount != 2*int(count) {
		return drop()
	}

	if len(query) < writeValuesOffset+byteCount {
		return drop()
	}

	rel := addr - uint16(c.model.HoldingRegisters.Start)

	// Validate every value before the first store mutation
	for i := 0; i < int(count); i++ {
		value := int16(binary.BigEndian.Uint16(query[writeValuesOffset+2*i:]))
		if value < c.model.HoldingLower[rel+uint16(i)] || value > c.model.HoldingUpper[rel+uint16(i)] {
			return exception(common.ExceptionInvalidDataValue)
		}
	}

	c.model.Store.WriteHoldingRegisters(rel, count, query[writeValuesOffset:writeValuesOffset+byteCount])

	return writeMultipleResponse(query)
}

// writeMultipleResponse assembles the shared response shape of FC 0x0F and
// 0x10: MBAP header, function code and the echoed start address and count.
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Sections 6.11 and 6.12 (Response PDU)
func writeMultipleResponse(query []byte) outcome {
	response := make([]byte, writeResponseLength)
	copy(response, query[:writeResponseLength])
	binary.BigEndian.PutUint16(response[lengthOffset:], writeResponseMBAPLength)

	return normal(response)
}
