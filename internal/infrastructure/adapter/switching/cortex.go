package switching

import (
	"fmt"
	"io"

	"github.com/moov-io/iso8583"
	"github.com/moov-io/iso8583/encoding"
	"github.com/moov-io/iso8583/field"
	"github.com/moov-io/iso8583/prefix"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
)

// cortexHeader precedes every CORTEX message inside the frame
const cortexHeader = "ISO8583-1993001000000"

// cortexFeeWidth is the space padded width of the fee in field 46
const cortexFeeWidth = 34

// cortexSpec is ISO 8583:1993 with BCD numerics, ASCII text, and binary length prefixes
var cortexSpec = &iso8583.MessageSpec{
	Name: "CORTEX",
	Fields: map[int]field.Field{
		0:   bcdField(4, "Message Type Indicator", false),
		1:   field.NewBitmap(&field.Spec{Length: 8, Description: "Bitmap", Enc: encoding.Binary, Pref: prefix.Binary.Fixed}),
		2:   bcdField(19, "Primary Account Number", true),
		3:   bcdField(6, "Processing Code", false),
		4:   bcdField(12, "Transaction Amount", false),
		6:   bcdField(12, "Cardholder Billing Amount", false),
		7:   bcdField(10, "Transmission Date and Time", false),
		11:  bcdField(6, "System Trace Audit Number", false),
		12:  bcdField(12, "Local Transaction Date and Time", false),
		26:  bcdField(4, "Merchant Category Code", false),
		30:  bcdField(12, "Original Amount", false),
		32:  bcdField(11, "Acquiring Institution Code", true),
		33:  bcdField(11, "Forwarding Institution Code", true),
		37:  asciiField(12, "Retrieval Reference Number", binaryLengthPrefixers.Fixed),
		39:  bcdField(3, "Response Code", false),
		41:  asciiField(8, "Terminal ID", binaryLengthPrefixers.Fixed),
		43:  asciiField(99, "Terminal Name and Location", binaryLengthPrefixers.LL),
		46:  asciiField(204, "Transaction Fee", binaryLengthPrefixers.LLL),
		49:  bcdField(3, "Transaction Currency Code", false),
		51:  bcdField(3, "Cardholder Billing Currency Code", false),
		54:  asciiField(120, "Additional Amounts", binaryLengthPrefixers.LLL),
		56:  bcdField(35, "Original Data Elements", true),
		100: bcdField(11, "Receiving Institution Code", true),
		102: asciiField(28, "Source Account", binaryLengthPrefixers.LL),
		103: asciiField(28, "Destination Account", binaryLengthPrefixers.LL),
	},
}

func bcdField(length int, description string, variable bool) field.Field {
	pref := binaryLengthPrefixers.Fixed
	if variable {
		pref = binaryLengthPrefixers.LL
	}
	return field.NewString(&field.Spec{
		Length:      length,
		Description: description,
		Enc:         encoding.BCD,
		Pref:        pref,
	})
}

func asciiField(length int, description string, pref prefix.Prefixer) field.Field {
	return field.NewString(&field.Spec{
		Length:      length,
		Description: description,
		Enc:         encoding.ASCII,
		Pref:        pref,
	})
}

// CortexCodec speaks the CORTEX dialect
type CortexCodec struct {
	logger coreport.Logger
}

// NewCortexCodec creates a CORTEX codec
func NewCortexCodec(logger coreport.Logger) *CortexCodec {
	return &CortexCodec{logger: logger.With(map[string]any{"switch": entity.SwitchCortex.String()})}
}

// Pack encodes a built message into a CORTEX frame
func (c *CortexCodec) Pack(message entity.Message) ([]byte, error) {
	if err := requireBuilt(message); err != nil {
		return nil, err
	}

	amount := padLeft(entity.MinorUnits(message.TransactionAmount), 12)
	fields := map[int]string{
		3:  message.ProcessCode,
		4:  amount,
		6:  amount,
		7:  message.TransmissionDateTime,
		11: message.TraceNumber,
		12: message.LocalTransactionDateTime,
		26: message.Device.String(),
		30: amount,
		32: padLeft(message.AcquiringInstitutionCode, acquirerWidth),
		37: message.Rrn,
		46: padRight("00608D-"+padLeft(entity.MinorUnits(message.TransactionFee), 7), cortexFeeWidth),
		51: entity.CurrencyPHP.String(),
	}
	setOptional(fields, 2, message.PrimaryAccountNumber)
	setOptional(fields, 43, message.TerminalNameAndLocation)
	setOptional(fields, 49, message.CurrencyCode.String())
	setOptional(fields, 56, message.OriginalDataElements)
	setOptional(fields, 100, message.ReceivingInstitutionCode)
	setOptional(fields, 102, message.SourceAccount)
	setOptional(fields, 103, message.DestinationAccount)
	if message.TerminalID != "" {
		fields[41] = padRight(message.TerminalID, 8)
	}

	return c.encode(message.Mti, fields)
}

func (c *CortexCodec) encode(mti string, fields map[int]string) ([]byte, error) {
	isoMessage, err := newMessage(cortexSpec, mti, fields)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Packing message", describeFields(isoMessage))

	packed, err := isoMessage.Pack()
	if err != nil {
		return nil, fmt.Errorf("failed to pack CORTEX message: %w", err)
	}
	return writeFrame(append([]byte(cortexHeader), packed...))
}

// Unpack reads one CORTEX frame and extracts the response
func (c *CortexCodec) Unpack(r io.Reader) (entity.AtmResponse, error) {
	payload, err := readFrame(r)
	if err != nil {
		return entity.AtmResponse{}, err
	}
	if len(payload) < len(cortexHeader) {
		return entity.AtmResponse{}, malformed(entity.SwitchCortex, fmt.Errorf("frame of %d bytes is shorter than the header", len(payload)))
	}

	isoMessage := iso8583.NewMessage(cortexSpec)
	if err := isoMessage.Unpack(payload[len(cortexHeader):]); err != nil {
		return entity.AtmResponse{}, malformed(entity.SwitchCortex, err)
	}
	c.logger.Debug("Unpacked response", describeFields(isoMessage))

	return responseFrom(isoMessage), nil
}
