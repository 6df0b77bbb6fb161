package common

import (
	"errors"
	"fmt"
)

// Data model configuration errors, reported when a DataModel is validated
// before being bound to a codec.
var (
	ErrMissingStore      = errors.New("data model has no store")
	ErrWindowOverflow    = errors.New("address window exceeds the 16-bit address space")
	ErrLimitSizeMismatch = errors.New("holding register limit slices do not match the window size")
)

// ModbusError represents an exception response emitted by the codec
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7 (Exception Responses)
// "If the Server returns an Exception Response, the Exception Code field contains
// the reason why the Server is unable to process the requested function."
type ModbusError struct {
	FunctionCode  FunctionCode  // Function code from the request (with exception bit set)
	ExceptionCode ExceptionCode // Exception code indicating the error reason
}

// Error implements the error interface
func (e *ModbusError) Error() string {
	return fmt.Sprintf("modbus: exception response: function: %s, exception code: %#x (%s)",
		e.FunctionCode, e.ExceptionCode, GetExceptionString(e.ExceptionCode))
}

// NewModbusError creates a new ModbusError
func NewModbusError(functionCode FunctionCode, exceptionCode ExceptionCode) *ModbusError {
	return &ModbusError{
		FunctionCode:  functionCode,
		ExceptionCode: exceptionCode,
	}
}

// GetExceptionString returns a human-readable description of an exception code
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7 (Exception Responses)
func GetExceptionString(exceptionCode ExceptionCode) string {
	switch exceptionCode {
	case ExceptionFunctionCodeNotSupported:
		// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7.1
		return "function code not supported"
	case ExceptionDataAddressNotAvailable:
		// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7.2
		return "data address not available"
	case ExceptionInvalidDataValue:
		// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7.3
		return "invalid data value"
	default:
		return fmt.Sprintf("unknown exception code: %#x", exceptionCode)
	}
}
