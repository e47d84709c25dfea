package switching

import (
	"fmt"
	"strings"

	"github.com/moov-io/iso8583"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/switching"
)

// acquirerWidth is the zero padded width of the acquiring institution code
const acquirerWidth = 10

// NewCodecs returns a codec for every switch that can be reached.
// COREWARE has none and is rejected by the gateway.
func NewCodecs(logger coreport.Logger) map[entity.Switch]switching.Codec {
	return map[entity.Switch]switching.Codec{
		entity.SwitchCortex:     NewCortexCodec(logger),
		entity.SwitchNarada:     NewNaradaCodec(logger),
		entity.SwitchPostbridge: NewPostbridgeCodec(logger),
	}
}

// requireBuilt rejects messages that never went through the builder
func requireBuilt(message entity.Message) error {
	if message.Mti == "" || message.ProcessCode == "" || !message.HasIdentifiers() ||
		len(message.TransmissionDateTime) != 10 || len(message.LocalTransactionDateTime) != 12 {
		return fmt.Errorf("message for %s has not been built", message.Switch)
	}
	return nil
}

// newMessage creates an ISO 8583 message from spec with the given fields set
func newMessage(spec *iso8583.MessageSpec, mti string, fields map[int]string) (*iso8583.Message, error) {
	isoMessage := iso8583.NewMessage(spec)
	isoMessage.MTI(mti)
	for id, value := range fields {
		if err := isoMessage.Field(id, value); err != nil {
			return nil, fmt.Errorf("failed to set field %d: %w", id, err)
		}
	}
	return isoMessage, nil
}

// responseFrom extracts what the console shows from an unpacked answer
func responseFrom(isoMessage *iso8583.Message) entity.AtmResponse {
	return entity.AtmResponse{
		TraceNumber:  fieldString(isoMessage, 11),
		ResponseCode: fieldString(isoMessage, 39),
		RRN:          fieldString(isoMessage, 37),
		Balance:      parseBalance(fieldString(isoMessage, 54)),
	}
}

func setOptional(fields map[int]string, id int, value string) {
	if value != "" {
		fields[id] = value
	}
}

// padLeft left-pads s with zeros up to width
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
