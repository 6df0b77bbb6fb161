package mbap

import (
	"encoding/binary"

	"github.com/Moonlight-Companies/mbapserver/common"
)

// buildException assembles the 9-byte exception frame for a query. The MBAP
// header is copied from the query so transaction id, protocol id and unit id
// are preserved; the length field is rewritten for the 3-byte remainder, the
// function code gets the exception bit, and the final byte carries the code.
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7 (Exception Responses)
func buildException(query []byte, code common.ExceptionCode) []byte {
	response := make([]byte, exceptionResponseLength)
	copy(response, query[:headerLength])

	binary.BigEndian.PutUint16(response[lengthOffset:], exceptionMBAPLength)
	response[functionCodeOffset] = query[functionCodeOffset] | common.ExceptionBit
	response[exceptionCodeOffset] = byte(code)

	return response
}
