package model

import (
	"time"
)

// AtmMessage represents the database model for sent messages.
// A reversal shares STAN and RRN with its original, so neither is unique.
type AtmMessage struct {
	ID                       uint64    `gorm:"primaryKey;autoIncrement"`
	Transaction              string    `gorm:"not null;size:40"`
	Switch                   string    `gorm:"not null;size:20"`
	PrimaryAccountNumber     string    `gorm:"size:19"`
	TransactionAmount        string    `gorm:"not null;size:24;default:'0'"`
	AcquiringInstitutionCode string    `gorm:"not null;size:11"`
	ReceivingInstitutionCode string    `gorm:"size:11"`
	TransactionFee           string    `gorm:"not null;size:24;default:'0'"`
	TerminalNameAndLocation  string    `gorm:"not null;size:99"`
	CurrencyCode             string    `gorm:"not null;size:3"`
	TerminalID               string    `gorm:"not null;size:8"`
	SourceAccount            string    `gorm:"size:28"`
	DestinationAccount       string    `gorm:"size:28"`
	Channel                  string    `gorm:"not null;size:20"`
	Device                   string    `gorm:"not null;size:4"`
	TargetBank               string    `gorm:"size:20"`
	Rrn                      string    `gorm:"not null;size:12;index"`
	TraceNumber              string    `gorm:"not null;size:6;index"`
	TransmissionDateTime     string    `gorm:"not null;size:10"`
	LocalTransactionDateTime string    `gorm:"not null;size:12"`
	OriginalDataElements     string    `gorm:"size:42"`
	Mti                      string    `gorm:"not null;size:4"`
	ProcessCode              string    `gorm:"not null;size:6"`
	CreatedAt                time.Time `gorm:"not null"`
}

// TableName specifies the table name for AtmMessage
func (AtmMessage) TableName() string {
	return "atm_messages"
}
