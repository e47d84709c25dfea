package usecase

import (
	"context"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
)

// MessageInput is the raw operator input for one message, before validation
type MessageInput struct {
	Transaction              string `json:"transaction" validate:"transaction"`
	Switch                   string `json:"switch" validate:"switch"`
	PrimaryAccountNumber     string `json:"primaryAccountNumber" validate:"omitempty,max=19,number"`
	TransactionAmount        string `json:"transactionAmount" validate:"amount"`
	AcquiringInstitutionCode string `json:"acquiringInstitutionCode" validate:"required,max=11,number"`
	ReceivingInstitutionCode string `json:"receivingInstitutionCode" validate:"omitempty,max=11,number"`
	TransactionFee           string `json:"transactionFee" validate:"fee"`
	TerminalNameAndLocation  string `json:"terminalNameAndLocation" validate:"required,max=99,printascii"`
	CurrencyCode             string `json:"currencyCode" validate:"currency"`
	TerminalID               string `json:"terminalId" validate:"len=8,printascii"`
	SourceAccount            string `json:"sourceAccount" validate:"max=28,printascii"`
	DestinationAccount       string `json:"destinationAccount" validate:"max=28,printascii"`
	Channel                  string `json:"channel" validate:"channel"`
	Device                   string `json:"device" validate:"device"`
	TargetBank               string `json:"targetBank" validate:"bank"`
}

// ComposerUseCase drafts, validates, and submits new messages
type ComposerUseCase interface {
	// Compose validates input and stores it as the current draft
	Compose(input MessageInput) (entity.Message, error)
	// Submit sends a validated message. Only one submission may be in flight.
	Submit(ctx context.Context, message entity.Message) (entity.AtmResponse, error)
	// ComposeAndSubmit validates input and submits the result
	ComposeAndSubmit(ctx context.Context, input MessageInput) (entity.AtmResponse, error)
	// Load replaces the draft with a recorded message and shows the composer
	Load(message entity.Message)
	// Reset restores the default draft and bumps the form generation
	Reset()
	// Draft returns the current draft input and its form generation
	Draft() (MessageInput, int)
}

// HistoryPage is one fetched page of the ledger
type HistoryPage struct {
	Number int
	Rows   []entity.Message
}

// LedgerUseCase browses the history of sent messages
type LedgerUseCase interface {
	// List fetches a page of history. Pages start at 1.
	List(ctx context.Context, page int) (HistoryPage, error)
	// Refresh re-fetches the current page
	Refresh(ctx context.Context) (HistoryPage, error)
	// Rows returns the last fetched page and its number
	Rows() ([]entity.Message, int)
	// Find returns the row with id from the last fetched page
	Find(id uint64) (entity.Message, bool)
	// CanReverse reports whether a reversal may be requested for row
	CanReverse(row entity.Message) bool
	// Load copies a row into the composer and switches to it
	Load(id uint64) (entity.Message, error)
}

// ReversalUseCase reverses recorded messages
type ReversalUseCase interface {
	Reverse(ctx context.Context, id uint64) (entity.AtmResponse, error)
}

// TunnelUseCase tracks and changes tunnel connectivity
type TunnelUseCase interface {
	// Start checks the tunnel once and begins consuming state notifications
	Start(ctx context.Context)
	// Shutdown stops consuming notifications
	Shutdown()
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Toggle(ctx context.Context) error
	Connected() bool
	Busy() bool
}

// SettingsUseCase edits the console configuration
type SettingsUseCase interface {
	// Load fetches the stored configuration into the editor
	Load(ctx context.Context) ([]entity.ConfigEntry, error)
	// Entries returns the edited entries with secrets masked
	Entries() []entity.ConfigEntry
	// Set changes one edited value
	Set(key, value string) error
	// PickFile fills the key file entry through the file picker
	PickFile(ctx context.Context) (string, bool, error)
	// Submit stores every edited entry at once
	Submit(ctx context.Context) error
}
