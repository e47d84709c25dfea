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

// naradaSpec is ISO 8583:1987 with every element EBCDIC encoded
var naradaSpec = &iso8583.MessageSpec{
	Name: "NARADA",
	Fields: map[int]field.Field{
		0:   ebcdicField(4, "Message Type Indicator", prefix.EBCDIC.Fixed),
		1:   field.NewBitmap(&field.Spec{Length: 8, Description: "Bitmap", Enc: encoding.Binary, Pref: prefix.Binary.Fixed}),
		2:   ebcdicField(99, "Primary Account Number", prefix.EBCDIC.LL),
		3:   ebcdicField(6, "Processing Code", prefix.EBCDIC.Fixed),
		4:   ebcdicField(12, "Transaction Amount", prefix.EBCDIC.Fixed),
		6:   ebcdicField(12, "Cardholder Billing Amount", prefix.EBCDIC.Fixed),
		7:   ebcdicField(10, "Transmission Date and Time", prefix.EBCDIC.Fixed),
		11:  ebcdicField(6, "System Trace Audit Number", prefix.EBCDIC.Fixed),
		13:  ebcdicField(4, "Local Transaction Date", prefix.EBCDIC.Fixed),
		14:  ebcdicField(4, "Expiration Date", prefix.EBCDIC.Fixed),
		15:  ebcdicField(4, "Settlement Date", prefix.EBCDIC.Fixed),
		18:  ebcdicField(4, "Merchant Category Code", prefix.EBCDIC.Fixed),
		19:  ebcdicField(3, "Acquiring Institution Country Code", prefix.EBCDIC.Fixed),
		22:  ebcdicField(3, "POS Entry Mode", prefix.EBCDIC.Fixed),
		25:  ebcdicField(3, "POS Condition Code", prefix.EBCDIC.Fixed),
		28:  ebcdicField(9, "Transaction Fee Amount", prefix.EBCDIC.Fixed),
		30:  ebcdicField(12, "Original Amount", prefix.EBCDIC.Fixed),
		32:  ebcdicField(99, "Acquiring Institution Code", prefix.EBCDIC.LL),
		35:  ebcdicField(99, "Track 2 Data", prefix.EBCDIC.LL),
		37:  ebcdicField(12, "Retrieval Reference Number", prefix.EBCDIC.Fixed),
		39:  ebcdicField(2, "Response Code", prefix.EBCDIC.Fixed),
		40:  ebcdicField(3, "Service Restriction Code", prefix.EBCDIC.Fixed),
		41:  ebcdicField(8, "Terminal ID", prefix.EBCDIC.Fixed),
		42:  ebcdicField(15, "Card Acceptor ID", prefix.EBCDIC.Fixed),
		43:  ebcdicField(40, "Terminal Name and Location", prefix.EBCDIC.Fixed),
		47:  ebcdicField(999, "Additional Data National", prefix.EBCDIC.LLL),
		49:  ebcdicField(3, "Transaction Currency Code", prefix.EBCDIC.Fixed),
		51:  ebcdicField(3, "Cardholder Billing Currency Code", prefix.EBCDIC.Fixed),
		52:  ebcdicField(16, "PIN Data", prefix.EBCDIC.Fixed),
		54:  ebcdicField(999, "Additional Amounts", prefix.EBCDIC.LLL),
		56:  ebcdicField(99, "Original Data Elements", prefix.EBCDIC.LL),
		63:  ebcdicField(99, "Network Data", prefix.EBCDIC.LL),
		94:  ebcdicField(2, "Service Indicator", prefix.EBCDIC.Fixed),
		100: ebcdicField(11, "Receiving Institution Code", prefix.EBCDIC.LL),
		102: ebcdicField(99, "Source Account", prefix.EBCDIC.LL),
		103: ebcdicField(99, "Destination Account", prefix.EBCDIC.LL),
	},
}

func ebcdicField(length int, description string, pref prefix.Prefixer) field.Field {
	return field.NewString(&field.Spec{
		Length:      length,
		Description: description,
		Enc:         encoding.EBCDIC,
		Pref:        pref,
	})
}

// NaradaCodec speaks the NARADA dialect
type NaradaCodec struct {
	logger coreport.Logger
}

// NewNaradaCodec creates a NARADA codec
func NewNaradaCodec(logger coreport.Logger) *NaradaCodec {
	return &NaradaCodec{logger: logger.With(map[string]any{"switch": entity.SwitchNarada.String()})}
}

// Pack encodes a built message into a NARADA frame
func (c *NaradaCodec) Pack(message entity.Message) ([]byte, error) {
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
		13: message.LocalTransactionDateTime[2:6],
		18: message.Device.String(),
		28: "D" + padLeft(entity.MinorUnits(message.TransactionFee), 8),
		32: padLeft(message.AcquiringInstitutionCode, acquirerWidth),
		37: message.Rrn,
		51: entity.CurrencyPHP.String(),
	}
	setOptional(fields, 2, message.PrimaryAccountNumber)
	setOptional(fields, 49, message.CurrencyCode.String())
	setOptional(fields, 56, message.OriginalDataElements)
	setOptional(fields, 100, message.ReceivingInstitutionCode)
	setOptional(fields, 102, message.SourceAccount)
	setOptional(fields, 103, message.DestinationAccount)
	if message.TerminalID != "" {
		fields[41] = padRight(message.TerminalID, 8)
	}
	if message.TerminalNameAndLocation != "" {
		fields[43] = padRight(message.TerminalNameAndLocation, 40)
	}

	return c.encode(message.Mti, fields)
}

func (c *NaradaCodec) encode(mti string, fields map[int]string) ([]byte, error) {
	isoMessage, err := newMessage(naradaSpec, mti, fields)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Packing message", describeFields(isoMessage))

	packed, err := isoMessage.Pack()
	if err != nil {
		return nil, fmt.Errorf("failed to pack NARADA message: %w", err)
	}
	return writeFrame(packed)
}

// Unpack reads one NARADA frame and extracts the response
func (c *NaradaCodec) Unpack(r io.Reader) (entity.AtmResponse, error) {
	payload, err := readFrame(r)
	if err != nil {
		return entity.AtmResponse{}, err
	}

	isoMessage := iso8583.NewMessage(naradaSpec)
	if err := isoMessage.Unpack(payload); err != nil {
		return entity.AtmResponse{}, malformed(entity.SwitchNarada, err)
	}
	c.logger.Debug("Unpacked response", describeFields(isoMessage))

	return responseFrom(isoMessage), nil
}
