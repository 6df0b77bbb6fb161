package mbap

import "github.com/Moonlight-Companies/mbapserver/common"

// Byte layout of a Modbus TCP query and response
// Ref: Modbus_Messaging_Implementation_Guide_V1_0b.pdf, Section 3.1 (MBAP Header)
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6 (PDU formats)
const (
	headerLength = common.TCPHeaderLength

	transactionIDOffset = 0
	protocolIDOffset    = 2
	lengthOffset        = 4
	unitIDOffset        = 6

	// PDU offsets, shared by query and response
	functionCodeOffset = 7

	// Query offsets
	startAddressOffset   = 8  // Start address (2 bytes, big-endian)
	countOffset          = 10 // Quantity for multi-item requests (2 bytes)
	valueOffset          = 10 // Value for single-item writes (2 bytes)
	writeByteCountOffset = 12 // Byte count for FC 0x0F / 0x10 (1 byte)
	writeValuesOffset    = 13 // Payload for FC 0x0F / 0x10

	// Response offsets
	byteCountOffset  = 8 // Byte count in read responses (1 byte)
	dataValuesOffset = 9 // Data in read responses

	// The shortest query the router can act on: header + function code
	minQueryLength = headerLength + 1
	// Header + function code + start address + count/value
	fixedQueryLength = 12

	// Single writes echo the query; multi writes echo address and count.
	// Either way the response is header + 5 PDU bytes
	// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Sections 6.5, 6.6, 6.11, 6.12
	writeResponseLength     = headerLength + 5
	writeResponseMBAPLength = 6

	// Exception frame: header + error function code + exception code
	// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7 (Exception Responses)
	exceptionCodeOffset     = 8
	exceptionMBAPLength     = 3
	exceptionResponseLength = headerLength + 2
)
