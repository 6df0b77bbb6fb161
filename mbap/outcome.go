package mbap

import "github.com/Moonlight-Companies/mbapserver/common"

// outcomeKind discriminates the three ways a request can end
type outcomeKind int

const (
	// outcomeDrop means no response at all: the frame failed basic
	// validation or was internally inconsistent. Modbus TCP defines no
	// exception for either case.
	outcomeDrop outcomeKind = iota

	// outcomeNormal carries a fully assembled response frame
	outcomeNormal

	// outcomeException carries an exception code; the frame is built at the
	// edge from the query header
	outcomeException
)

// outcome is the internal result of processing one query. ProcessRequest
// serializes it into response bytes at the edge.
type outcome struct {
	kind  outcomeKind
	frame []byte
	code  common.ExceptionCode
}

func drop() outcome {
	return outcome{kind: outcomeDrop}
}

func normal(frame []byte) outcome {
	return outcome{kind: outcomeNormal, frame: frame}
}

func exception(code common.ExceptionCode) outcome {
	return outcome{kind: outcomeException, code: code}
}
