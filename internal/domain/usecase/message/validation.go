package message

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
)

// fieldLabels are the operator-facing names of the message fields
var fieldLabels = map[string]string{
	"transaction":              "Transaction",
	"switch":                   "Switch",
	"primaryAccountNumber":     "Primary Account Number",
	"transactionAmount":        "Transaction Amount",
	"acquiringInstitutionCode": "Acquiring Institution Code",
	"receivingInstitutionCode": "Receiving Institution Code",
	"transactionFee":           "Transaction Fee",
	"terminalNameAndLocation":  "Terminal Name and Location",
	"currencyCode":             "Currency Code",
	"terminalId":               "Terminal ID",
	"sourceAccount":            "Source Account",
	"destinationAccount":       "Destination Account",
	"channel":                  "Channel",
	"device":                   "Device",
	"targetBank":               "Target Bank",
}

// enumMessages render the rejection of an out-of-set value per enum tag
var enumMessages = map[string]string{
	"transaction": entity.EnumMessage("transaction", entity.TransactionKinds),
	"switch":      entity.EnumMessage("switch", entity.Switches),
	"device":      entity.EnumMessage("device", entity.Devices),
	"currency":    entity.EnumMessage("currency", entity.Currencies),
	"channel":     entity.EnumMessage("channel", entity.Channels),
	"bank":        entity.EnumMessage("target bank", entity.Banks),
}

// amountDigits maps each amount rule to its width in minor-unit digits
var amountDigits = map[string]int{
	"amount": entity.MaxAmountDigits,
	"fee":    entity.MaxFeeDigits,
}

// naradaLocationWidth is the fixed width of the NARADA terminal location element
const naradaLocationWidth = 40

// Validator checks raw operator input against the message field schema
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the enum and amount rules registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]func(string) error{
		"transaction": accepts(entity.ParseTransactionKind),
		"switch":      accepts(entity.ParseSwitch),
		"device":      accepts(entity.ParseDevice),
		"currency":    accepts(entity.ParseCurrency),
		"channel":     accepts(entity.ParseChannel),
		"bank":        accepts(entity.ParseBank),
		"amount":      accepts(bounded(entity.MaxAmountDigits)),
		"fee":         accepts(bounded(entity.MaxFeeDigits)),
	}
	for tag, rule := range rules {
		// registration only fails for empty tags or nil funcs
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return rule(fl.Field().String()) == nil
		})
	}

	return &Validator{validate: v}
}

func bounded(digits int) func(string) (decimal.Decimal, error) {
	return func(raw string) (decimal.Decimal, error) {
		return entity.ParseBoundedAmount(raw, digits)
	}
}

// accepts adapts a parser into a pass/fail rule
func accepts[T any](parse func(string) (T, error)) func(string) error {
	return func(raw string) error {
		_, err := parse(raw)
		return err
	}
}

// Validate checks every field and converts the input into a message draft.
// On failure the error is errs.FieldErrors naming each offending field.
func (v *Validator) Validate(input usecase.MessageInput) (entity.Message, error) {
	if err := v.validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return entity.Message{}, fmt.Errorf("%w: %s", errs.ErrInvalidRequest, err.Error())
		}

		fieldErrors := errs.FieldErrors{}
		for _, fe := range validationErrors {
			fieldErrors.Add(fe.Field(), describe(fe))
		}
		return entity.Message{}, fieldErrors
	}

	return toMessage(input)
}

// toMessage converts input that already passed the schema
func toMessage(input usecase.MessageInput) (entity.Message, error) {
	fieldErrors := errs.FieldErrors{}
	parse := func(field string, err error) {
		if err != nil {
			fieldErrors.Add(field, err.Error())
		}
	}

	var msg entity.Message
	var err error

	msg.Transaction, err = entity.ParseTransactionKind(input.Transaction)
	parse("transaction", err)
	msg.Switch, err = entity.ParseSwitch(input.Switch)
	parse("switch", err)
	msg.Device, err = entity.ParseDevice(input.Device)
	parse("device", err)
	msg.CurrencyCode, err = entity.ParseCurrency(input.CurrencyCode)
	parse("currencyCode", err)
	msg.Channel, err = entity.ParseChannel(input.Channel)
	parse("channel", err)
	msg.TargetBank, err = entity.ParseBank(input.TargetBank)
	parse("targetBank", err)
	msg.TransactionAmount, err = entity.ParseBoundedAmount(input.TransactionAmount, entity.MaxAmountDigits)
	parse("transactionAmount", err)
	msg.TransactionFee, err = entity.ParseBoundedAmount(input.TransactionFee, entity.MaxFeeDigits)
	parse("transactionFee", err)

	if msg.Switch == entity.SwitchNarada && len(input.TerminalNameAndLocation) > naradaLocationWidth {
		fieldErrors.Add("terminalNameAndLocation", fmt.Sprintf(
			"%s must contain at most %d character(s) for %s.",
			fieldLabels["terminalNameAndLocation"], naradaLocationWidth, entity.SwitchNarada,
		))
	}

	if len(fieldErrors) > 0 {
		return entity.Message{}, fieldErrors
	}

	msg.PrimaryAccountNumber = input.PrimaryAccountNumber
	msg.AcquiringInstitutionCode = input.AcquiringInstitutionCode
	msg.ReceivingInstitutionCode = input.ReceivingInstitutionCode
	msg.TerminalNameAndLocation = input.TerminalNameAndLocation
	msg.TerminalID = input.TerminalID
	msg.SourceAccount = input.SourceAccount
	msg.DestinationAccount = input.DestinationAccount

	return msg, nil
}

// describe turns one rule violation into the message shown next to the field
func describe(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	if msg, ok := enumMessages[fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "len":
		return fmt.Sprintf("%s must contain %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must contain at most %s character(s).", label, fe.Param())
	case "number":
		return fmt.Sprintf("%s must contain digits only.", label)
	case "printascii":
		return fmt.Sprintf("%s must contain printable ASCII characters only.", label)
	case "amount", "fee":
		value, _ := fe.Value().(string)
		_, err := entity.ParseAmount(value)
		switch {
		case errors.Is(err, errs.ErrNegativeAmount):
			return fmt.Sprintf("%s cannot be negative.", label)
		case err == nil:
			return fmt.Sprintf("%s must not exceed %s.", label, entity.FormatAmount(entity.MaxAmount(amountDigits[fe.Tag()])))
		}
		return fmt.Sprintf("%s must be a number with at most %d decimal places.", label, entity.MaxDecimalPlaces)
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}

// InputFromMessage renders a message back into editable operator input
func InputFromMessage(msg entity.Message) usecase.MessageInput {
	return usecase.MessageInput{
		Transaction:              msg.Transaction.String(),
		Switch:                   msg.Switch.String(),
		PrimaryAccountNumber:     msg.PrimaryAccountNumber,
		TransactionAmount:        entity.FormatAmount(msg.TransactionAmount),
		AcquiringInstitutionCode: msg.AcquiringInstitutionCode,
		ReceivingInstitutionCode: msg.ReceivingInstitutionCode,
		TransactionFee:           entity.FormatAmount(msg.TransactionFee),
		TerminalNameAndLocation:  msg.TerminalNameAndLocation,
		CurrencyCode:             msg.CurrencyCode.String(),
		TerminalID:               msg.TerminalID,
		SourceAccount:            msg.SourceAccount,
		DestinationAccount:       msg.DestinationAccount,
		Channel:                  msg.Channel.String(),
		Device:                   msg.Device.String(),
		TargetBank:               msg.TargetBank.String(),
	}
}
