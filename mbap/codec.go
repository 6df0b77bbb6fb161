// Package mbap implements the server side of the Modbus TCP application
// protocol: a synchronous codec that consumes one framed query, validates it,
// executes the requested operation against a bound data model and produces
// either a normal or an exception response frame.
//
// Ref: Modbus_Application_Protocol_V1_1b3.pdf (PDU formats)
// Ref: Modbus_Messaging_Implementation_Guide_V1_0b.pdf (MBAP framing)
package mbap

import (
	"context"

	"github.com/Moonlight-Companies/mbapserver/common"
	"github.com/Moonlight-Companies/mbapserver/logging"
	"github.com/Moonlight-Companies/mbapserver/model"
)

// Codec processes Modbus TCP queries against a data model. A codec instance
// is stateless between requests; it holds only its configuration. It takes no
// locks and assumes exclusive access to the model for the duration of one
// ProcessRequest call.
type Codec struct {
	model   *model.DataModel
	enabled map[common.FunctionCode]bool
	logger  common.LoggerInterface
}

// Option is a function that configures a Codec
type Option func(*Codec)

// WithLogger sets the logger for the codec
func WithLogger(logger common.LoggerInterface) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

// WithoutFunction disables a function code. A query using a disabled code is
// answered exactly like one using an unknown code.
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7.1 (Illegal Function)
func WithoutFunction(fc common.FunctionCode) Option {
	return func(c *Codec) {
		delete(c.enabled, fc)
	}
}

// NewCodec binds a data model to a new codec instance. All eight supported
// function codes start enabled; use WithoutFunction to remove some. The model
// is kept by reference, its buffers are not copied.
func NewCodec(m *model.DataModel, options ...Option) (*Codec, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	c := &Codec{
		model: m,
		enabled: map[common.FunctionCode]bool{
			common.FuncReadCoils:              true,
			common.FuncReadDiscreteInputs:     true,
			common.FuncReadHoldingRegisters:   true,
			common.FuncReadInputRegisters:     true,
			common.FuncWriteSingleCoil:        true,
			common.FuncWriteSingleRegister:    true,
			common.FuncWriteMultipleCoils:     true,
			common.FuncWriteMultipleRegisters: true,
		},
		logger: logging.NewNoopLogger(),
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

// ProcessRequest consumes one query frame and returns the response frame. A
// nil return means the query was silently dropped (frame-level malformation
// or internal inconsistency; see outcomeDrop).
func (c *Codec) ProcessRequest(query []byte) []byte {
	out := c.process(query)

	switch out.kind {
	case outcomeNormal:
		return out.frame
	case outcomeException:
		ctx := context.Background()
		fc := common.FunctionCode(query[functionCodeOffset] | common.ExceptionBit)
		c.logger.Debug(ctx, "request rejected: %v", common.NewModbusError(fc, out.code))
		return buildException(query, out.code)
	default:
		return nil
	}
}

// process runs the validation pipeline and dispatches to a handler
func (c *Codec) process(query []byte) outcome {
	// Too short to carry a function code; nothing to answer
	if len(query) < minQueryLength {
		return drop()
	}

	if !c.basicValidation(query) {
		return drop()
	}

	// A disabled function code is indistinguishable from an unknown one
	// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 7.1 (Illegal Function)
	fc := common.FunctionCode(query[functionCodeOffset])
	if !c.enabled[fc] {
		return exception(common.ExceptionFunctionCodeNotSupported)
	}

	// Every supported function carries a start address and a count or value;
	// anything shorter cannot be parsed and is not answerable
	if len(query) < fixedQueryLength {
		return drop()
	}

	if code := c.validateDataAddress(query); code != 0 {
		return exception(code)
	}

	return c.handleRequest(query)
}

// handleRequest dispatches a fully validated query by function code
// Ref: Modbus_Application_Protocol_V1_1b3.pdf, Section 6 (Function Codes)
func (c *Codec) handleRequest(query []byte) outcome {
	switch common.FunctionCode(query[functionCodeOffset]) {
	case common.FuncReadCoils:
		return c.readBits(query, c.model.Coils, c.model.Store.ReadCoils)
	case common.FuncReadDiscreteInputs:
		return c.readBits(query, c.model.DiscreteInputs, c.model.Store.ReadDiscreteInputs)
	case common.FuncReadHoldingRegisters:
		return c.readRegisters(query, c.model.HoldingRegisters, c.model.Store.ReadHoldingRegisters)
	case common.FuncReadInputRegisters:
		return c.readRegisters(query, c.model.InputRegisters, c.model.Store.ReadInputRegisters)
	case common.FuncWriteSingleCoil:
		return c.writeSingleCoil(query)
	case common.FuncWriteSingleRegister:
		return c.writeSingleRegister(query)
	case common.FuncWriteMultipleCoils:
		return c.writeMultipleCoils(query)
	case common.FuncWriteMultipleRegisters:
		return c.writeMultipleRegisters(query)
	default:
		// Unreachable: validation already rejected unknown codes
		return drop()
	}
}
