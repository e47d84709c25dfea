package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
)

// ReversalMarker is the token whose presence in a kind marks the message as a reversal
const ReversalMarker = "REVERSAL"

// TransactionKind identifies the business operation a message performs
type TransactionKind string

// Transaction kinds
const (
	KindWithdraw TransactionKind = "WITHDRAW"
	KindBalInq   TransactionKind = "BAL_INQ"
	KindFT       TransactionKind = "FT"
	KindIBFTC    TransactionKind = "IBFTC"
	KindIBFTD    TransactionKind = "IBFTD"
	KindELoad    TransactionKind = "ELOAD"
	KindBills    TransactionKind = "BILLS"
	KindPurchase TransactionKind = "PURCHASE"
)

// TransactionKinds lists the kinds an operator may compose
var TransactionKinds = []TransactionKind{
	KindWithdraw, KindBalInq, KindFT, KindIBFTC, KindIBFTD, KindELoad, KindBills, KindPurchase,
}

// Switch identifies the external switch a message is routed to
type Switch string

// Switches
const (
	SwitchCortex     Switch = "CORTEX"
	SwitchPostbridge Switch = "POSTBRIDGE"
	SwitchCoreware   Switch = "COREWARE"
	SwitchNarada     Switch = "NARADA"
)

// Switches lists every known switch
var Switches = []Switch{SwitchCortex, SwitchPostbridge, SwitchCoreware, SwitchNarada}

// Device is the merchant category code of the originating device
type Device string

// Devices
const (
	DeviceATM Device = "6011"
	DevicePOS Device = "6012"
	DeviceNAD Device = "6016"
)

// Devices lists every known device code
var Devices = []Device{DeviceATM, DevicePOS, DeviceNAD}

// Currency is an ISO 4217 numeric currency code
type Currency string

// Currencies
const (
	CurrencyPHP Currency = "608"
	CurrencyUSD Currency = "840"
)

// Currencies lists every known currency code
var Currencies = []Currency{CurrencyPHP, CurrencyUSD}

// Channel is the card network relationship of the transaction
type Channel string

// Channels
const (
	ChannelOnUs       Channel = "ON_US"
	ChannelOffUs      Channel = "OFF_US"
	ChannelMastercard Channel = "MASTERCARD"
)

// Channels lists every known channel
var Channels = []Channel{ChannelOnUs, ChannelOffUs, ChannelMastercard}

// Bank is the destination bank category for interbank transfers
type Bank string

// Banks
const (
	BankOther       Bank = "OTHER_BANK"
	BankInterSystem Bank = "INTER_SYSTEM"
)

// Banks lists every known bank category
var Banks = []Bank{BankOther, BankInterSystem}

// MTI is the three digit message type without the version prefix
type MTI string

// Message types
const (
	MTIFinancialRequestMasterVisa    MTI = "100"
	MTIFinancialRequest              MTI = "200"
	MTIFinancialAdvice               MTI = "220"
	MTIFinancialReversal             MTI = "400"
	MTIFinancialReversalAdvice       MTI = "420"
	MTIFinancialReversalRepeatAdvice MTI = "421"
	MTINetworkManagementRequest      MTI = "800"
)

// MTIs lists every known message type
var MTIs = []MTI{
	MTIFinancialRequestMasterVisa,
	MTIFinancialRequest,
	MTIFinancialAdvice,
	MTIFinancialReversal,
	MTIFinancialReversalAdvice,
	MTIFinancialReversalRepeatAdvice,
	MTINetworkManagementRequest,
}

// parseEnum maps a wire string onto one of values or fails naming the valid set
func parseEnum[T ~string](name, raw string, values []T) (T, error) {
	for _, v := range values {
		if string(v) == raw {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s", errs.ErrInvalidEnum, EnumMessage(name, values))
}

// EnumMessage renders the operator-facing message for an out-of-set enum value
func EnumMessage[T ~string](name string, values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return fmt.Sprintf("Invalid %s, should be any of %s", name, strings.Join(names, ", "))
}

// ParseTransactionKind parses a composable kind. Reversal kinds are rejected.
func ParseTransactionKind(raw string) (TransactionKind, error) {
	return parseEnum("transaction", raw, TransactionKinds)
}

// ParseLedgerKind parses a kind as stored in the ledger. Any kind carrying the
// reversal marker is accepted as a reversal, whatever its spelling.
func ParseLedgerKind(raw string) (TransactionKind, error) {
	if strings.Contains(raw, ReversalMarker) {
		return TransactionKind(raw), nil
	}
	return ParseTransactionKind(raw)
}

// IsReversal reports whether the kind carries the reversal marker
func (k TransactionKind) IsReversal() bool {
	return strings.Contains(string(k), ReversalMarker)
}

// AsReversal returns the kind recorded for a reversal of k
func (k TransactionKind) AsReversal() TransactionKind {
	if k.IsReversal() {
		return k
	}
	return TransactionKind(ReversalMarker + " " + string(k))
}

// Base strips the reversal prefix, if any
func (k TransactionKind) Base() TransactionKind {
	return TransactionKind(strings.TrimPrefix(string(k), ReversalMarker+" "))
}

func (k TransactionKind) String() string { return string(k) }

// UnmarshalText rejects kinds that are neither composable nor their reversal
func (k *TransactionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseLedgerKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseSwitch parses a switch name
func ParseSwitch(raw string) (Switch, error) {
	return parseEnum("switch", raw, Switches)
}

func (s Switch) String() string { return string(s) }

// UnmarshalText rejects unknown switches
func (s *Switch) UnmarshalText(text []byte) error {
	parsed, err := ParseSwitch(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseDevice parses a device code
func ParseDevice(raw string) (Device, error) {
	return parseEnum("device", raw, Devices)
}

func (d Device) String() string { return string(d) }

// Label returns the short device name
func (d Device) Label() string {
	switch d {
	case DeviceATM:
		return "ATM"
	case DevicePOS:
		return "POS"
	case DeviceNAD:
		return "NAD"
	default:
		return string(d)
	}
}

// UnmarshalText rejects unknown device codes
func (d *Device) UnmarshalText(text []byte) error {
	parsed, err := ParseDevice(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseCurrency parses a numeric currency code
func ParseCurrency(raw string) (Currency, error) {
	return parseEnum("currency", raw, Currencies)
}

func (c Currency) String() string { return string(c) }

// UnmarshalText rejects unknown currency codes
func (c *Currency) UnmarshalText(text []byte) error {
	parsed, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseChannel parses a channel name
func ParseChannel(raw string) (Channel, error) {
	return parseEnum("channel", raw, Channels)
}

func (c Channel) String() string { return string(c) }

// UnmarshalText rejects unknown channels
func (c *Channel) UnmarshalText(text []byte) error {
	parsed, err := ParseChannel(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseBank parses a bank category. The empty string means no target bank.
func ParseBank(raw string) (Bank, error) {
	if raw == "" {
		return "", nil
	}
	return parseEnum("target bank", raw, Banks)
}

func (b Bank) String() string { return string(b) }

// UnmarshalText rejects unknown bank categories
func (b *Bank) UnmarshalText(text []byte) error {
	parsed, err := ParseBank(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseMTI parses a three digit message type
func ParseMTI(raw string) (MTI, error) {
	return parseEnum("mti", raw, MTIs)
}

func (m MTI) String() string { return string(m) }
