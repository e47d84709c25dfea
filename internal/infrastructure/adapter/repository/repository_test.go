package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/model"
	mockcore "github.com/amirhossein-jamali/atm-console/mocks/port/core"
)

var recordedAt = time.Date(2026, 10, 19, 10, 15, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ledger.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.AtmMessage{}, &model.ConfigEntry{}))
	return db
}

func newMessageRepo(t *testing.T, db *gorm.DB) *MessageRepository {
	clock := mockcore.NewMockTimeProvider(t)
	clock.On("Now").Return(recordedAt).Maybe()
	return NewMessageRepository(db, clock, logger.NewNoopLogger()).(*MessageRepository)
}

func builtMessage(stan, rrn string) entity.Message {
	return entity.Message{
		Transaction:              entity.KindFT,
		Switch:                   entity.SwitchNarada,
		PrimaryAccountNumber:     "5264123412341234",
		TransactionAmount:        decimal.RequireFromString("1500.50"),
		AcquiringInstitutionCode: "928",
		TransactionFee:           decimal.RequireFromString("15"),
		TerminalNameAndLocation:  "BGC ATM1 TAGUIG PH",
		CurrencyCode:             entity.CurrencyPHP,
		TerminalID:               "61740007",
		SourceAccount:            "001234567890",
		DestinationAccount:       "009876543210",
		Channel:                  entity.ChannelOffUs,
		Device:                   entity.DeviceATM,
		TargetBank:               entity.BankOther,
		Rrn:                      rrn,
		TraceNumber:              stan,
		TransmissionDateTime:     "1019101500",
		LocalTransactionDateTime: "261019101500",
		Mti:                      "0200",
		ProcessCode:              "480000",
	}
}

func TestMessageRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newMessageRepo(t, setupTestDB(t))

	msg := builtMessage("004211", "000000123456")
	require.NoError(t, repo.Create(ctx, &msg))
	assert.NotZero(t, msg.ID)
	assert.Equal(t, recordedAt, msg.CreatedAt)

	got, err := repo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.KindFT, got.Transaction)
	assert.Equal(t, entity.SwitchNarada, got.Switch)
	assert.Equal(t, entity.BankOther, got.TargetBank)
	assert.True(t, decimal.RequireFromString("1500.5").Equal(got.TransactionAmount))
	assert.True(t, decimal.NewFromInt(15).Equal(got.TransactionFee))
	assert.Equal(t, "000000123456", got.Rrn)
	assert.Equal(t, "004211", got.TraceNumber)
	assert.True(t, recordedAt.Equal(got.CreatedAt))
}

func TestMessageRepository_GetByIDNotFound(t *testing.T) {
	repo := newMessageRepo(t, setupTestDB(t))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, errs.ErrMessageNotFound)
}

func TestMessageRepository_ReversalSharesIdentifiers(t *testing.T) {
	ctx := context.Background()
	repo := newMessageRepo(t, setupTestDB(t))

	original := builtMessage("004211", "000000123456")
	require.NoError(t, repo.Create(ctx, &original))

	reversal := original
	reversal.ID = 0
	reversal.Transaction = original.Transaction.AsReversal()
	reversal.Mti = "0400"
	reversal.OriginalDataElements = "02000042112610191015000100000000928"
	require.NoError(t, repo.Create(ctx, &reversal))
	assert.NotEqual(t, original.ID, reversal.ID)

	got, err := repo.GetByID(ctx, reversal.ID)
	require.NoError(t, err)
	assert.True(t, got.IsReversal())
	assert.Equal(t, entity.KindFT, got.Transaction.Base())
	assert.Equal(t, reversal.OriginalDataElements, got.OriginalDataElements)
}

func TestMessageRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newMessageRepo(t, setupTestDB(t))

	for _, stan := range []string{"000001", "000002", "000003"} {
		msg := builtMessage(stan, "000000000"+stan[3:])
		require.NoError(t, repo.Create(ctx, &msg))
	}

	rows, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "000003", rows[0].TraceNumber)
	assert.Equal(t, "000002", rows[1].TraceNumber)

	rows, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "000001", rows[0].TraceNumber)

	rows, err = repo.List(ctx, 50, 50)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMessageRepository_IdentifierUsage(t *testing.T) {
	ctx := context.Background()
	repo := newMessageRepo(t, setupTestDB(t))

	msg := builtMessage("004211", "000000123456")
	require.NoError(t, repo.Create(ctx, &msg))

	used, err := repo.TraceNumberExists(ctx, "004211")
	require.NoError(t, err)
	assert.True(t, used)

	used, err = repo.TraceNumberExists(ctx, "004212")
	require.NoError(t, err)
	assert.False(t, used)

	used, err = repo.RrnExists(ctx, "000000123456")
	require.NoError(t, err)
	assert.True(t, used)
}

func TestMessageRepository_UnreadableRow(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := newMessageRepo(t, db)

	msg := builtMessage("004211", "000000123456")
	require.NoError(t, repo.Create(ctx, &msg))
	require.NoError(t, db.Model(&model.AtmMessage{}).Where("id = ?", msg.ID).Update("switch", "VISANET").Error)

	_, err := repo.GetByID(ctx, msg.ID)
	assert.ErrorIs(t, err, errs.ErrInternalServer)

	other := builtMessage("004212", "000000123457")
	require.NoError(t, repo.Create(ctx, &other))

	rows, err := repo.List(ctx, 0, 50)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, other.ID, rows[0].ID)
}

func TestMessageRepository_ForeignReversalKind(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := newMessageRepo(t, db)

	msg := builtMessage("004211", "000000123456")
	require.NoError(t, repo.Create(ctx, &msg))
	require.NoError(t, db.Model(&model.AtmMessage{}).Where("id = ?", msg.ID).Update("transaction", "FINANCIAL_REVERSAL").Error)

	rows, err := repo.List(ctx, 0, 50)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionKind("FINANCIAL_REVERSAL"), rows[0].Transaction)
	assert.True(t, rows[0].IsReversal())
	assert.False(t, rows[0].CanReverse())

	got, err := repo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsReversal())
}

func TestConfigRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewConfigRepository(setupTestDB(t), logger.NewNoopLogger())

	require.NoError(t, repo.EnsureKeys(ctx, entity.ConfigKeys))
	// seeding twice keeps existing values
	require.NoError(t, repo.Update(ctx, entity.ConfigEntry{Key: entity.ConfigBastionHost, Value: "bastion.example.com"}))
	require.NoError(t, repo.EnsureKeys(ctx, entity.ConfigKeys))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, len(entity.ConfigKeys))
	assert.Equal(t, entity.ConfigBastionHost, entries[0].Key)
	assert.Equal(t, "bastion.example.com", entries[0].Value)

	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Key, entries[i].Key)
	}

	err = repo.Update(ctx, entity.ConfigEntry{Key: "DATABASE_URL", Value: "x"})
	assert.ErrorIs(t, err, errs.ErrUnknownConfigKey)
}
