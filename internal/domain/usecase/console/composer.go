package console

import (
	"context"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/backend"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/message"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/session"
)

// Composer drafts, validates, and submits new messages
type Composer struct {
	backend   backend.Backend
	validator *message.Validator
	store     *session.Store
	defaults  usecase.MessageInput
	logger    coreport.Logger
}

// NewComposer creates a composer and seeds the draft with defaults
func NewComposer(
	backend backend.Backend,
	validator *message.Validator,
	store *session.Store,
	defaults usecase.MessageInput,
	logger coreport.Logger,
) usecase.ComposerUseCase {
	store.SetActiveMessage(defaults)
	return &Composer{
		backend:   backend,
		validator: validator,
		store:     store,
		defaults:  defaults,
		logger:    logger,
	}
}

// Compose keeps input as the current draft and validates it
func (c *Composer) Compose(input usecase.MessageInput) (entity.Message, error) {
	c.store.SetActiveMessage(input)

	msg, err := c.validator.Validate(input)
	if err != nil {
		c.logger.Debug("Draft rejected", map[string]any{
			"error": err.Error(),
		})
		return entity.Message{}, err
	}
	return msg, nil
}

// Submit sends msg unless another destructive operation is in flight.
// The response is opened as the result; failures become a notice and keep the draft.
// Once started, a submit runs to completion even if ctx is canceled; the
// transport timeouts bound it.
func (c *Composer) Submit(ctx context.Context, msg entity.Message) (entity.AtmResponse, error) {
	release, err := c.store.TryBusy("submit")
	if err != nil {
		c.logger.Warn("Submit rejected while busy", map[string]any{
			"error": err.Error(),
		})
		return entity.AtmResponse{}, err
	}
	defer release()

	ctx = context.WithoutCancel(ctx)

	c.logger.Info("Submitting message", map[string]any{
		"transaction": msg.Transaction.String(),
		"switch":      msg.Switch.String(),
		"terminal_id": msg.TerminalID,
	})

	response, err := c.backend.SubmitMessage(ctx, msg)
	if err != nil {
		err = errs.NewBackendError("submit message", err)
		c.logger.Error("Failed to submit message", map[string]any{
			"error":  err.Error(),
			"switch": msg.Switch.String(),
		})
		c.store.Notify(session.NoticeError, err.Error())
		return entity.AtmResponse{}, err
	}

	c.logger.Info("Message submitted", map[string]any{
		"trace_number":  response.TraceNumber,
		"response_code": response.ResponseCode,
	})
	if response.Error != "" {
		c.store.Notify(session.NoticeError, response.Error)
	}
	c.store.ShowResult(response)

	return response, nil
}

// ComposeAndSubmit validates input and submits the resulting message
func (c *Composer) ComposeAndSubmit(ctx context.Context, input usecase.MessageInput) (entity.AtmResponse, error) {
	msg, err := c.Compose(input)
	if err != nil {
		return entity.AtmResponse{}, err
	}
	return c.Submit(ctx, msg)
}

// Load replaces the draft with the editable part of a recorded message
func (c *Composer) Load(msg entity.Message) {
	c.store.SetActiveMessage(message.InputFromMessage(msg.Draft()))
	c.store.BumpFormKey()
	c.store.SetPage(session.PageComposer)
}

// Reset restores the default draft. Bumping the form key discards edits held by views.
func (c *Composer) Reset() {
	c.store.SetActiveMessage(c.defaults)
	c.store.BumpFormKey()
}

// Draft returns the current draft and its form generation
func (c *Composer) Draft() (usecase.MessageInput, int) {
	return c.store.ActiveMessage(), c.store.FormKey()
}
