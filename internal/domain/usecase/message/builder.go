package message

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
)

// Timestamp layouts of the built messages
const (
	transmissionLayout = "0102150405" // MMDDhhmmss
	yearLayout         = "06"
)

// reversalAcquirerWidth is the zero padded width of the acquiring code in original data elements
const reversalAcquirerWidth = 10

// switchProfile captures how one switch differs in message building
type switchProfile struct {
	// mtiVersion is the ISO 8583 version digit prefixed to every MTI
	mtiVersion string
	// swapIBFT exchanges the IBFTC and IBFTD processing codes
	swapIBFT bool
	// originalMTIInReversal references the original MTI instead of the reversal MTI
	originalMTIInReversal bool
}

var switchProfiles = map[entity.Switch]switchProfile{
	entity.SwitchCortex:     {mtiVersion: "1"},
	entity.SwitchPostbridge: {mtiVersion: "1"},
	entity.SwitchNarada:     {mtiVersion: "0", swapIBFT: true, originalMTIInReversal: true},
}

// Builder fills in the fields a switch needs before a message can be sent
type Builder struct {
	identifiers  *IdentifierGenerator
	timeProvider coreport.TimeProvider
}

// NewBuilder creates a builder
func NewBuilder(identifiers *IdentifierGenerator, timeProvider coreport.TimeProvider) *Builder {
	return &Builder{
		identifiers:  identifiers,
		timeProvider: timeProvider,
	}
}

// Supports reports whether messages for sw can be built
func Supports(sw entity.Switch) bool {
	_, ok := switchProfiles[sw]
	return ok
}

func profileFor(sw entity.Switch) (switchProfile, error) {
	profile, ok := switchProfiles[sw]
	if !ok {
		return switchProfile{}, fmt.Errorf("%w: %s", errs.ErrUnsupportedSwitch, sw)
	}
	return profile, nil
}

// BuildNew assigns MTI, timestamps, fresh identifiers, and the processing code.
// Identifiers already recorded according to checker are redrawn.
func (b *Builder) BuildNew(ctx context.Context, draft entity.Message, checker UsageChecker) (entity.Message, error) {
	profile, err := profileFor(draft.Switch)
	if err != nil {
		return entity.Message{}, err
	}

	msg := draft.Draft()
	msg.Mti = buildMTI(profile, msg.Channel, false)

	processCode, err := ProcessCode(msg)
	if err != nil {
		return entity.Message{}, err
	}
	msg.ProcessCode = processCode

	if msg.TraceNumber, err = b.identifiers.UniqueTraceNumber(ctx, checker); err != nil {
		return entity.Message{}, err
	}
	if msg.Rrn, err = b.identifiers.UniqueRrn(ctx, checker); err != nil {
		return entity.Message{}, err
	}

	now := b.timeProvider.Now()
	msg.TransmissionDateTime = now.Format(transmissionLayout)
	msg.LocalTransactionDateTime = now.Format(yearLayout) + msg.TransmissionDateTime

	return msg, nil
}

// BuildReversal derives the reversal of a recorded message. Identifiers and
// timestamps are carried over and the original is referenced in field 56.
func (b *Builder) BuildReversal(original entity.Message) (entity.Message, error) {
	if original.IsReversal() {
		return entity.Message{}, errs.NewReversalError(original.ID, original.Transaction.String())
	}
	profile, err := profileFor(original.Switch)
	if err != nil {
		return entity.Message{}, err
	}

	msg := original
	msg.ID = 0
	msg.CreatedAt = time.Time{}
	msg.Mti = buildMTI(profile, original.Channel, true)

	referencedMTI := msg.Mti
	if profile.originalMTIInReversal {
		referencedMTI = original.Mti
	}
	msg.OriginalDataElements = OriginalDataElements(referencedMTI, original)
	msg.Transaction = original.Transaction.AsReversal()

	return msg, nil
}

// OriginalDataElements serializes the back reference a reversal carries
func OriginalDataElements(mti string, original entity.Message) string {
	return mti +
		original.TraceNumber +
		original.LocalTransactionDateTime +
		"01" +
		PadLeft(original.AcquiringInstitutionCode, reversalAcquirerWidth, '0')
}

// PadLeft left-pads s with pad up to width. Longer input is returned unchanged.
func PadLeft(s string, width int, pad byte) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(string(pad), width-len(s)) + s
}

func buildMTI(profile switchProfile, channel entity.Channel, reversal bool) string {
	switch {
	case reversal:
		return profile.mtiVersion + entity.MTIFinancialReversal.String()
	case channel == entity.ChannelMastercard:
		return profile.mtiVersion + entity.MTIFinancialRequestMasterVisa.String()
	default:
		return profile.mtiVersion + entity.MTIFinancialRequest.String()
	}
}

// ProcessCode returns the 6 digit processing code of msg for its switch
func ProcessCode(msg entity.Message) (string, error) {
	profile, err := profileFor(msg.Switch)
	if err != nil {
		return "", err
	}

	kind := msg.Transaction.Base()
	if profile.swapIBFT {
		switch kind {
		case entity.KindIBFTC:
			kind = entity.KindIBFTD
		case entity.KindIBFTD:
			kind = entity.KindIBFTC
		}
	}

	var code string
	switch kind {
	case entity.KindPurchase, entity.KindELoad:
		code = "00"
	case entity.KindWithdraw:
		code = "01"
	case entity.KindIBFTC:
		code = "10"
	case entity.KindIBFTD:
		if msg.TargetBank == entity.BankInterSystem {
			code = "26"
		} else {
			code = "21"
		}
	case entity.KindBalInq:
		if msg.Device == entity.DeviceATM {
			code = "30"
		} else {
			code = "31"
		}
	case entity.KindFT:
		code = "48"
	case entity.KindBills:
		code = "51"
	default:
		return "", fmt.Errorf("%w: no processing code for %s", errs.ErrInvalidEnum, msg.Transaction)
	}

	return code + "0000", nil
}
