package dto

import (
	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
)

// DraftResponse is the composer form: the draft input and its generation
type DraftResponse struct {
	Draft   usecase.MessageInput `json:"draft"`
	FormKey int                  `json:"formKey"`
}

// ComposeResponse is a validated message ready to be submitted
type ComposeResponse struct {
	Message entity.Message `json:"message"`
}

// SubmitResponse is what the switch answered
type SubmitResponse struct {
	Response entity.AtmResponse `json:"response"`
	Approved bool               `json:"approved"`
}

// NewSubmitResponse wraps a switch answer
func NewSubmitResponse(response entity.AtmResponse) SubmitResponse {
	return SubmitResponse{Response: response, Approved: response.Approved()}
}
