package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentWithdrawal() Message {
	return Message{
		ID:                       12,
		Transaction:              KindWithdraw,
		Switch:                   SwitchCortex,
		TransactionAmount:        decimal.RequireFromString("500.00"),
		AcquiringInstitutionCode: "928",
		TerminalNameAndLocation:  "BGC ATM1 TAGUIG PH",
		CurrencyCode:             CurrencyPHP,
		TerminalID:               "61740007",
		Channel:                  ChannelOnUs,
		Device:                   DeviceATM,
		Rrn:                      "000000123456",
		TraceNumber:              "004211",
		TransmissionDateTime:     "1019101500",
		LocalTransactionDateTime: "261019101500",
		Mti:                      "1200",
		ProcessCode:              "010000",
		CreatedAt:                time.Date(2026, 10, 19, 10, 15, 0, 0, time.UTC),
	}
}

func TestMessageReversalEligibility(t *testing.T) {
	msg := sentWithdrawal()
	assert.False(t, msg.IsReversal())
	assert.True(t, msg.CanReverse())

	msg.Transaction = msg.Transaction.AsReversal()
	assert.True(t, msg.IsReversal())
	assert.False(t, msg.CanReverse())
}

func TestMessageHasIdentifiers(t *testing.T) {
	msg := sentWithdrawal()
	assert.True(t, msg.HasIdentifiers())

	msg.Rrn = ""
	assert.False(t, msg.HasIdentifiers())
}

func TestMessageDraft(t *testing.T) {
	msg := sentWithdrawal()
	draft := msg.Draft()

	assert.Zero(t, draft.ID)
	assert.Empty(t, draft.Rrn)
	assert.Empty(t, draft.TraceNumber)
	assert.Empty(t, draft.TransmissionDateTime)
	assert.Empty(t, draft.LocalTransactionDateTime)
	assert.Empty(t, draft.Mti)
	assert.Empty(t, draft.ProcessCode)
	assert.True(t, draft.CreatedAt.IsZero())

	assert.Equal(t, msg.Transaction, draft.Transaction)
	assert.Equal(t, msg.TerminalID, draft.TerminalID)
	assert.True(t, msg.TransactionAmount.Equal(draft.TransactionAmount))
}

func TestMessageJSON(t *testing.T) {
	data, err := json.Marshal(sentWithdrawal())
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, KindWithdraw, decoded.Transaction)
	assert.Equal(t, "000000123456", decoded.Rrn)
	assert.True(t, decimal.RequireFromString("500").Equal(decoded.TransactionAmount))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "6011", raw["device"])
	assert.NotContains(t, raw, "targetBank")
}

func TestAtmResponseApproved(t *testing.T) {
	assert.True(t, AtmResponse{ResponseCode: "000"}.Approved())
	assert.True(t, AtmResponse{ResponseCode: "00"}.Approved())
	assert.False(t, AtmResponse{ResponseCode: "051"}.Approved())
	assert.False(t, AtmResponse{}.Approved())
}

func TestConfigEntry(t *testing.T) {
	assert.True(t, IsConfigKey(ConfigBastionHost))
	assert.False(t, IsConfigKey("DATABASE_URL"))
	assert.True(t, IsFileConfigKey(ConfigSSHKey))
	assert.True(t, IsSecretConfigKey(ConfigSSHPassphrase))

	secret := ConfigEntry{Key: ConfigSSHPassphrase, Value: "hunter2"}
	assert.Equal(t, MaskedValue, secret.Masked().Value)

	empty := ConfigEntry{Key: ConfigSSHPassphrase}
	assert.Equal(t, "", empty.Masked().Value)

	plain := ConfigEntry{Key: ConfigSSHUsername, Value: "operator"}
	assert.Equal(t, plain, plain.Masked())
}
