package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Message is a financial transaction message as composed, sent, and recorded in the ledger.
// Identifier fields are empty until the message is built for sending.
type Message struct {
	ID                       uint64          `json:"id,omitempty"`
	Transaction              TransactionKind `json:"transaction"`
	Switch                   Switch          `json:"switch"`
	PrimaryAccountNumber     string          `json:"primaryAccountNumber,omitempty"`
	TransactionAmount        decimal.Decimal `json:"transactionAmount"`
	AcquiringInstitutionCode string          `json:"acquiringInstitutionCode"`
	ReceivingInstitutionCode string          `json:"receivingInstitutionCode,omitempty"`
	TransactionFee           decimal.Decimal `json:"transactionFee"`
	TerminalNameAndLocation  string          `json:"terminalNameAndLocation"`
	CurrencyCode             Currency        `json:"currencyCode"`
	TerminalID               string          `json:"terminalId"`
	SourceAccount            string          `json:"sourceAccount,omitempty"`
	DestinationAccount       string          `json:"destinationAccount,omitempty"`
	Channel                  Channel         `json:"channel"`
	Device                   Device          `json:"device"`
	TargetBank               Bank            `json:"targetBank,omitempty"`
	Rrn                      string          `json:"rrn,omitempty"`
	TraceNumber              string          `json:"traceNumber,omitempty"`
	TransmissionDateTime     string          `json:"transmissionDateTime,omitempty"`
	LocalTransactionDateTime string          `json:"localTransactionDateTime,omitempty"`
	OriginalDataElements     string          `json:"originalDataElements,omitempty"`
	Mti                      string          `json:"mti,omitempty"`
	ProcessCode              string          `json:"processCode,omitempty"`
	CreatedAt                time.Time       `json:"createdAt,omitzero"`
}

// IsReversal reports whether the message is itself a reversal
func (m Message) IsReversal() bool {
	return m.Transaction.IsReversal()
}

// CanReverse reports whether a reversal may be requested for the message
func (m Message) CanReverse() bool {
	return !m.IsReversal()
}

// HasIdentifiers reports whether STAN and RRN were assigned
func (m Message) HasIdentifiers() bool {
	return m.TraceNumber != "" && m.Rrn != ""
}

// Draft returns the operator-editable part of the message with every
// identifier, timestamp, and derived field cleared
func (m Message) Draft() Message {
	return Message{
		Transaction:              m.Transaction,
		Switch:                   m.Switch,
		PrimaryAccountNumber:     m.PrimaryAccountNumber,
		TransactionAmount:        m.TransactionAmount,
		AcquiringInstitutionCode: m.AcquiringInstitutionCode,
		ReceivingInstitutionCode: m.ReceivingInstitutionCode,
		TransactionFee:           m.TransactionFee,
		TerminalNameAndLocation:  m.TerminalNameAndLocation,
		CurrencyCode:             m.CurrencyCode,
		TerminalID:               m.TerminalID,
		SourceAccount:            m.SourceAccount,
		DestinationAccount:       m.DestinationAccount,
		Channel:                  m.Channel,
		Device:                   m.Device,
		TargetBank:               m.TargetBank,
	}
}
