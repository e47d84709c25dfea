package switching

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
)

// postbridgeMessage is the Iso8583PostXml document exchanged with POSTBRIDGE
type postbridgeMessage struct {
	XMLName xml.Name         `xml:"Iso8583PostXml"`
	MsgType string           `xml:"MsgType"`
	Fields  postbridgeFields `xml:"Fields"`
}

type postbridgeFields struct {
	Field002 string `xml:"Field_002,omitempty"`
	Field003 string `xml:"Field_003,omitempty"`
	Field004 string `xml:"Field_004,omitempty"`
	Field007 string `xml:"Field_007,omitempty"`
	Field011 string `xml:"Field_011,omitempty"`
	Field012 string `xml:"Field_012,omitempty"`
	Field013 string `xml:"Field_013,omitempty"`
	Field014 string `xml:"Field_014,omitempty"`
	Field015 string `xml:"Field_015,omitempty"`
	Field018 string `xml:"Field_018,omitempty"`
	Field028 string `xml:"Field_028,omitempty"`
	Field032 string `xml:"Field_032,omitempty"`
	Field037 string `xml:"Field_037,omitempty"`
	Field039 string `xml:"Field_039,omitempty"`
	Field041 string `xml:"Field_041,omitempty"`
	Field043 string `xml:"Field_043,omitempty"`
	Field049 string `xml:"Field_049,omitempty"`
	Field054 string `xml:"Field_054,omitempty"`
	Field056 string `xml:"Field_056,omitempty"`
	Field100 string `xml:"Field_100,omitempty"`
	Field102 string `xml:"Field_102,omitempty"`
	Field103 string `xml:"Field_103,omitempty"`
}

// PostbridgeCodec speaks the POSTBRIDGE XML dialect
type PostbridgeCodec struct {
	logger coreport.Logger
}

// NewPostbridgeCodec creates a POSTBRIDGE codec
func NewPostbridgeCodec(logger coreport.Logger) *PostbridgeCodec {
	return &PostbridgeCodec{logger: logger.With(map[string]any{"switch": entity.SwitchPostbridge.String()})}
}

// Pack encodes a built message into a POSTBRIDGE frame
func (c *PostbridgeCodec) Pack(message entity.Message) ([]byte, error) {
	if err := requireBuilt(message); err != nil {
		return nil, err
	}

	transmission := message.TransmissionDateTime
	local := message.LocalTransactionDateTime
	doc := postbridgeMessage{
		MsgType: message.Mti,
		Fields: postbridgeFields{
			Field002: message.PrimaryAccountNumber,
			Field003: message.ProcessCode,
			Field004: padLeft(entity.MinorUnits(message.TransactionAmount), 12),
			Field007: transmission,
			Field011: message.TraceNumber,
			Field012: transmission[4:],
			Field013: transmission[:4],
			Field014: local[:4],
			Field015: transmission[:4],
			Field018: message.Device.String(),
			Field028: "D" + padLeft(entity.MinorUnits(message.TransactionFee), 8),
			Field032: padLeft(message.AcquiringInstitutionCode, acquirerWidth),
			Field037: message.Rrn,
			Field041: message.TerminalID,
			Field043: message.TerminalNameAndLocation,
			Field049: message.CurrencyCode.String(),
			Field056: message.OriginalDataElements,
			Field100: message.ReceivingInstitutionCode,
			Field102: message.SourceAccount,
			Field103: message.DestinationAccount,
		},
	}

	return c.encode(doc)
}

func (c *PostbridgeCodec) encode(doc postbridgeMessage) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal POSTBRIDGE message: %w", err)
	}
	c.logger.Debug("Packing message", map[string]any{
		"mti":          doc.MsgType,
		"trace_number": doc.Fields.Field011,
	})
	return writeFrame(append([]byte(xml.Header), body...))
}

// Unpack reads one POSTBRIDGE frame and extracts the response
func (c *PostbridgeCodec) Unpack(r io.Reader) (entity.AtmResponse, error) {
	payload, err := readFrame(r)
	if err != nil {
		return entity.AtmResponse{}, err
	}

	var doc postbridgeMessage
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return entity.AtmResponse{}, malformed(entity.SwitchPostbridge, err)
	}
	c.logger.Debug("Unpacked response", map[string]any{
		"mti":           doc.MsgType,
		"response_code": doc.Fields.Field039,
	})

	return entity.AtmResponse{
		TraceNumber:  doc.Fields.Field011,
		ResponseCode: doc.Fields.Field039,
		RRN:          doc.Fields.Field037,
		Balance:      parseBalance(doc.Fields.Field054),
	}, nil
}
