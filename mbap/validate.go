package mbap

import (
	"encoding/binary"

	"github.com/Moonlight-Companies/mbapserver/common"
)

// basicValidation checks the MBAP header fields that identify the frame as
// Modbus TCP traffic addressed to this device. A failure here means the frame
// is either not for us or not well formed, and the whole request is silently
// dropped: the protocol defines no exception response for these cases.
// Ref: Modbus_Messaging_Implementation_Guide_V1_0b.pdf, Section 3.1 (MBAP Header)
func (c *Codec) basicValidation(query []byte) bool {
	protocolID := common.ProtocolID(binary.BigEndian.Uint16(query[protocolIDOffset:]))
	mbapLength := binary.BigEndian.Uint16(query[lengthOffset:])
	unitID := common.UnitID(query[unitIDOffset])

	// Check for the Modbus TCP/IP protocol identifier
	if protocolID != common.TCPProtocolIdentifier {
		return false
	}

	// Check the advertised length against the frame size bound
	if mbapLength > common.MaxMBAPLength {
		return false
	}

	// Check the unit identifier; this implementation is single-slave
	if unitID != common.DeviceUnitID {
		return false
	}

	return true
}

// validateDataAddress checks the quantity and the addressed range for a
// supported function code, before any handler runs. It returns 0 when the
// query may proceed, or the exception code to answer with.
//
// Quantity bounds are checked before the address range, each failing with its
// own exception kind:
//   - quantity outside the per-function limits -> InvalidDataValue (0x03)
//   - addressed range outside the configured window -> DataAddressNotAvailable (0x02)
//
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7 (Exception Responses)
func (c *Codec) validateDataAddress(query []byte) common.ExceptionCode {
	fc := common.FunctionCode(query[functionCodeOffset])
	addr := common.Address(binary.BigEndian.Uint16(query[startAddressOffset:]))
	count := binary.BigEndian.Uint16(query[countOffset:])

	switch fc {
	case common.FuncReadCoils:
		if count == 0 || count > common.MaxBitCount {
			return common.ExceptionInvalidDataValue
		}
		if !c.model.Coils.ContainsRange(addr, count) {
			return common.ExceptionDataAddressNotAvailable
		}

	case common.FuncReadDiscreteInputs:
		if count == 0 || count > common.MaxBitCount {
			return common.ExceptionInvalidDataValue
		}
		if !c.model.DiscreteInputs.ContainsRange(addr, count) {
			return common.ExceptionDataAddressNotAvailable
		}

	case common.FuncReadHoldingRegisters:
		if count == 0 || count > common.MaxRegisterCount {
			return common.ExceptionInvalidDataValue
		}
		if !c.model.HoldingRegisters.ContainsRange(addr, count) {
			return common.ExceptionDataAddressNotAvailable
		}

	case common.FuncReadInputRegisters:
		if count == 0 || count > common.MaxRegisterCount {
			return common.ExceptionInvalidDataValue
		}
		if !c.model.InputRegisters.ContainsRange(addr, count) {
			return common.ExceptionDataAddressNotAvailable
		}

	case common.FuncWriteSingleCoil:
		// Single-address membership; offset 10 carries the value here
		if !c.model.Coils.Contains(addr) {
			return common.ExceptionDataAddressNotAvailable
		}

	case common.FuncWriteSingleRegister:
		if !c.model.HoldingRegisters.Contains(addr) {
			return common.ExceptionDataAddressNotAvailable
		}

	case common.FuncWriteMultipleCoils:
		if count == 0 || count > common.MaxBitCount {
			return common.ExceptionInvalidDataValue
		}
		if !c.model.Coils.ContainsRange(addr, count) {
			return common.ExceptionDataAddressNotAvailable
		}

	case common.FuncWriteMultipleRegisters:
		if count == 0 || count > common.MaxWriteRegisterCount {
			return common.ExceptionInvalidDataValue
		}
		if !c.model.HoldingRegisters.ContainsRange(addr, count) {
			return common.ExceptionDataAddressNotAvailable
		}
	}

	return 0
}
