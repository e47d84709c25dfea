package console

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/session"
	mockcore "github.com/amirhossein-jamali/atm-console/mocks/port/core"
)

var fixedTime = time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *session.Store {
	timeProvider := mockcore.NewMockTimeProvider(t)
	timeProvider.On("Now").Return(fixedTime).Maybe()
	return session.NewStore(timeProvider)
}

func defaultInput() usecase.MessageInput {
	return usecase.MessageInput{
		Transaction:              "WITHDRAW",
		Switch:                   "CORTEX",
		AcquiringInstitutionCode: "928",
		TerminalNameAndLocation:  "BGC ATM1 TAGUIG PH",
		CurrencyCode:             "608",
		TerminalID:               "61740007",
		Channel:                  "ON_US",
		Device:                   "6011",
	}
}

func ledgerRow(id uint64, kind entity.TransactionKind) entity.Message {
	return entity.Message{
		ID:                       id,
		Transaction:              kind,
		Switch:                   entity.SwitchCortex,
		TransactionAmount:        decimal.RequireFromString("250.50"),
		AcquiringInstitutionCode: "928",
		TerminalNameAndLocation:  "BGC ATM1 TAGUIG PH",
		CurrencyCode:             entity.CurrencyPHP,
		TerminalID:               "61740007",
		Channel:                  entity.ChannelOnUs,
		Device:                   entity.DeviceATM,
		Rrn:                      "000000654321",
		TraceNumber:              "123456",
		TransmissionDateTime:     "1019110000",
		LocalTransactionDateTime: "261019110000",
		Mti:                      "1200",
		ProcessCode:              "010000",
		CreatedAt:                fixedTime,
	}
}

func noticeTexts(store *session.Store) []string {
	var texts []string
	for _, n := range store.Notices() {
		texts = append(texts, n.Text)
	}
	return texts
}
