package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/model"
)

// MessageRepository implements the ledger of sent messages using GORM
type MessageRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewMessageRepository creates a new MessageRepository instance
func NewMessageRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) persistence.MessageRepository {
	return &MessageRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a message entity to a database model
func entityToModel(msg *entity.Message) model.AtmMessage {
	return model.AtmMessage{
		ID:                       msg.ID,
		Transaction:              msg.Transaction.String(),
		Switch:                   msg.Switch.String(),
		PrimaryAccountNumber:     msg.PrimaryAccountNumber,
		TransactionAmount:        msg.TransactionAmount.String(),
		AcquiringInstitutionCode: msg.AcquiringInstitutionCode,
		ReceivingInstitutionCode: msg.ReceivingInstitutionCode,
		TransactionFee:           msg.TransactionFee.String(),
		TerminalNameAndLocation:  msg.TerminalNameAndLocation,
		CurrencyCode:             msg.CurrencyCode.String(),
		TerminalID:               msg.TerminalID,
		SourceAccount:            msg.SourceAccount,
		DestinationAccount:       msg.DestinationAccount,
		Channel:                  msg.Channel.String(),
		Device:                   msg.Device.String(),
		TargetBank:               msg.TargetBank.String(),
		Rrn:                      msg.Rrn,
		TraceNumber:              msg.TraceNumber,
		TransmissionDateTime:     msg.TransmissionDateTime,
		LocalTransactionDateTime: msg.LocalTransactionDateTime,
		OriginalDataElements:     msg.OriginalDataElements,
		Mti:                      msg.Mti,
		ProcessCode:              msg.ProcessCode,
		CreatedAt:                msg.CreatedAt,
	}
}

// modelToEntity converts a stored row back to a message, rejecting values no
// longer known to the console
func modelToEntity(row *model.AtmMessage) (*entity.Message, error) {
	var (
		msg = entity.Message{
			ID:                       row.ID,
			PrimaryAccountNumber:     row.PrimaryAccountNumber,
			AcquiringInstitutionCode: row.AcquiringInstitutionCode,
			ReceivingInstitutionCode: row.ReceivingInstitutionCode,
			TerminalNameAndLocation:  row.TerminalNameAndLocation,
			TerminalID:               row.TerminalID,
			SourceAccount:            row.SourceAccount,
			DestinationAccount:       row.DestinationAccount,
			Rrn:                      row.Rrn,
			TraceNumber:              row.TraceNumber,
			TransmissionDateTime:     row.TransmissionDateTime,
			LocalTransactionDateTime: row.LocalTransactionDateTime,
			OriginalDataElements:     row.OriginalDataElements,
			Mti:                      row.Mti,
			ProcessCode:              row.ProcessCode,
			CreatedAt:                row.CreatedAt,
		}
		err error
	)

	if msg.Transaction, err = entity.ParseLedgerKind(row.Transaction); err != nil {
		return nil, err
	}
	if msg.Switch, err = entity.ParseSwitch(row.Switch); err != nil {
		return nil, err
	}
	if msg.CurrencyCode, err = entity.ParseCurrency(row.CurrencyCode); err != nil {
		return nil, err
	}
	if msg.Channel, err = entity.ParseChannel(row.Channel); err != nil {
		return nil, err
	}
	if msg.Device, err = entity.ParseDevice(row.Device); err != nil {
		return nil, err
	}
	if msg.TargetBank, err = entity.ParseBank(row.TargetBank); err != nil {
		return nil, err
	}
	if msg.TransactionAmount, err = decimal.NewFromString(row.TransactionAmount); err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, row.TransactionAmount)
	}
	if msg.TransactionFee, err = decimal.NewFromString(row.TransactionFee); err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, row.TransactionFee)
	}

	return &msg, nil
}

// handleDatabaseError standardizes database error handling
func (r *MessageRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("Message not found", fields)
		return errs.ErrMessageNotFound
	}

	logFields := map[string]any{
		"operation":  operation,
		"error":      err.Error(),
		"error_type": string(r.errorClassifier.Classify(err)),
	}
	for k, v := range fields {
		logFields[k] = v
	}
	r.logger.Error("Database error on messages", logFields)

	if r.errorClassifier.IsConstraintError(err) {
		return fmt.Errorf("%w: %s", errs.ErrConstraintViolation, err.Error())
	}
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// Create records a sent message and assigns its ID
func (r *MessageRepository) Create(ctx context.Context, msg *entity.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = r.timeProvider.Now()
	}

	row := entityToModel(msg)
	row.ID = 0

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.handleDatabaseError("create", err, map[string]any{
			"trace_number": msg.TraceNumber,
			"rrn":          msg.Rrn,
		})
	}

	msg.ID = row.ID

	r.logger.Info("Message recorded", map[string]any{
		"message_id":   row.ID,
		"transaction":  row.Transaction,
		"trace_number": row.TraceNumber,
		"rrn":          row.Rrn,
	})
	return nil
}

// GetByID retrieves a recorded message
func (r *MessageRepository) GetByID(ctx context.Context, id uint64) (*entity.Message, error) {
	r.logger.Debug("Getting message by ID", map[string]any{
		"message_id": id,
	})

	var row model.AtmMessage
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, r.handleDatabaseError("get", err, map[string]any{
			"message_id": id,
		})
	}

	msg, err := modelToEntity(&row)
	if err != nil {
		r.logger.Error("Stored message is unreadable", map[string]any{
			"message_id": id,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: message %d: %s", errs.ErrInternalServer, id, err.Error())
	}
	return msg, nil
}

// List returns up to limit messages ordered newest first, skipping offset rows
func (r *MessageRepository) List(ctx context.Context, offset, limit int) ([]entity.Message, error) {
	var rows []model.AtmMessage
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, r.handleDatabaseError("list", err, map[string]any{
			"offset": offset,
			"limit":  limit,
		})
	}

	messages := make([]entity.Message, 0, len(rows))
	for i := range rows {
		msg, err := modelToEntity(&rows[i])
		if err != nil {
			// one bad row must not hide the rest of the page
			r.logger.Error("Skipping unreadable stored message", map[string]any{
				"message_id": rows[i].ID,
				"error":      err.Error(),
			})
			continue
		}
		messages = append(messages, *msg)
	}

	r.logger.Debug("Messages listed", map[string]any{
		"offset": offset,
		"count":  len(messages),
	})
	return messages, nil
}

// TraceNumberExists checks if a STAN was already recorded
func (r *MessageRepository) TraceNumberExists(ctx context.Context, traceNumber string) (bool, error) {
	return r.exists(ctx, "trace_number", traceNumber)
}

// RrnExists checks if an RRN was already recorded
func (r *MessageRepository) RrnExists(ctx context.Context, rrn string) (bool, error) {
	return r.exists(ctx, "rrn", rrn)
}

func (r *MessageRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AtmMessage{}).
		Where(column+" = ?", value).
		Count(&count).Error
	if err != nil {
		return false, r.handleDatabaseError("exists", err, map[string]any{
			column: value,
		})
	}
	return count > 0, nil
}
