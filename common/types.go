package common

import "fmt"

// TransactionID is a unique identifier for a transaction
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 4.1 (MBAP Header), Field 1
type TransactionID uint16

// ProtocolID identifies the protocol used (0 for Modbus TCP)
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 4.1 (MBAP Header), Field 2
type ProtocolID uint16

// UnitID identifies a specific device on a Modbus network
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 4.1 (MBAP Header), Field 4
type UnitID byte

// ExceptionCode represents an exception code in a Modbus response
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7 (Exception Responses)
type ExceptionCode byte

// FunctionCode represents a Modbus function code
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6 (MODBUS Function Codes)
type FunctionCode byte

// Address represents a Modbus address (coil, register, etc.)
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 4.4 (Addressing Model - specifies 0-65535 range)
type Address uint16

// Quantity represents the number of coils or registers to read/write
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, e.g., Section 6.1 (Read Coils Request PDU defines "Quantity of Coils")
type Quantity uint16

// Function codes served by this implementation
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6 (Function Codes)
const (
	FuncReadCoils              FunctionCode = 0x01 // Ref: Section 6.1
	FuncReadDiscreteInputs     FunctionCode = 0x02 // Ref: Section 6.2
	FuncReadHoldingRegisters   FunctionCode = 0x03 // Ref: Section 6.3
	FuncReadInputRegisters     FunctionCode = 0x04 // Ref: Section 6.4
	FuncWriteSingleCoil        FunctionCode = 0x05 // Ref: Section 6.5
	FuncWriteSingleRegister    FunctionCode = 0x06 // Ref: Section 6.6
	FuncWriteMultipleCoils     FunctionCode = 0x0F // Ref: Section 6.11
	FuncWriteMultipleRegisters FunctionCode = 0x10 // Ref: Section 6.12

	// Exception codes
	// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7 (Exception Codes)
	ExceptionFunctionCodeNotSupported ExceptionCode = 0x01 // Ref: Section 7.1
	ExceptionDataAddressNotAvailable  ExceptionCode = 0x02 // Ref: Section 7.2
	ExceptionInvalidDataValue         ExceptionCode = 0x03 // Ref: Section 7.3
)

// String returns the string representation of a FunctionCode
func (f FunctionCode) String() string {
	switch f {
	case FuncReadCoils:
		return "ReadCoils"
	case FuncReadDiscreteInputs:
		return "ReadDiscreteInputs"
	case FuncReadHoldingRegisters:
		return "ReadHoldingRegisters"
	case FuncReadInputRegisters:
		return "ReadInputRegisters"
	case FuncWriteSingleCoil:
		return "WriteSingleCoil"
	case FuncWriteSingleRegister:
		return "WriteSingleRegister"
	case FuncWriteMultipleCoils:
		return "WriteMultipleCoils"
	case FuncWriteMultipleRegisters:
		return "WriteMultipleRegisters"
	default:
		// If it's an exception response
		if IsException(byte(f)) {
			original := GetOriginalFunctionCode(byte(f))
			return fmt.Sprintf("Exception(%s)", FunctionCode(original).String())
		}
		return fmt.Sprintf("Unknown(0x%02X)", byte(f))
	}
}

func (e ExceptionCode) String() string {
	switch e {
	case ExceptionFunctionCodeNotSupported:
		return "FunctionCodeNotSupported"
	case ExceptionDataAddressNotAvailable:
		return "DataAddressNotAvailable"
	case ExceptionInvalidDataValue:
		return "InvalidDataValue"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", byte(e))
	}
}

// Protocol-specific constants
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 4 (Data Model)
const (
	// Modbus TCP framing
	// Ref: Modbus_Messaging_Implementation_Guide_V1_0b.pdf, Section 3.1 (MBAP Header)
	TCPHeaderLength = 7   // Transaction ID (2) + Protocol ID (2) + Length (2) + Unit ID (1)
	MaxMBAPLength   = 256 // Upper bound on the MBAP Length field (Unit ID + PDU)
	DefaultTCPPort  = 502 // Default Modbus TCP port

	// This implementation is single-slave and answers exactly one unit
	// Ref: Modbus_Messaging_Implementation_Guide_V1_0b.pdf, Section 3.1.3 (Unit Identifier)
	DeviceUnitID UnitID = 1

	// Per-request quantity limits
	// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.x (function specific limits)
	MaxBitCount           = 2000 // Bit-oriented reads/writes (FC 0x01, 0x02, 0x0F), Ref: Section 6.1
	MaxRegisterCount      = 125  // Register reads (FC 0x03, 0x04), Ref: Section 6.3
	MaxWriteRegisterCount = 123  // Write Multiple Registers (FC 0x10), Ref: Section 6.12

	// Coil values as defined in the Modbus specification
	// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6.5 (Write Single Coil)
	//
	// "A value of 0xFF00 requests the coil to be ON.
	// A value of 0x0000 requests the coil to be OFF.
	// All other values are illegal and will not affect the coil."
	//
	CoilOnU16  = 0xFF00 // ON value for coils in register format
	CoilOffU16 = 0x0000 // OFF value for coils in register format
)

// TCPProtocolIdentifier is the standard identifier for Modbus TCP
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 4.1
const TCPProtocolIdentifier = ProtocolID(0)

// ExceptionBit is the bit that is set in the function code to indicate an exception response
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7 (Exception Responses)
const ExceptionBit byte = 0x80

// IsException checks if a function code represents an exception
func IsException(functionCode byte) bool {
	return (functionCode & ExceptionBit) != 0
}

// GetOriginalFunctionCode extracts the original function code from an exception
func GetOriginalFunctionCode(exceptionCode byte) byte {
	return exceptionCode & ^ExceptionBit
}
