package usecase

import (
	"errors"

	"github.com/xavierca1/leadflow/internal/entity"
)

const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeInvalidChannel = "INVALID_CHANNEL"
	CodeNotOutreach    = "NOT_OUTREACH"
	CodeNoEmail        = "LEAD_HAS_NO_EMAIL"
	CodeUnusableDraft  = "UNUSABLE_OUTREACH"
	CodeNotDeliverable = "CHANNEL_NOT_DELIVERABLE"
	CodeDatabase       = "DATABASE_ERROR"
	CodeModel          = "MODEL_ERROR"
	CodeDispatch       = "DISPATCH_ERROR"
)

// DomainError is a request the caller can fix. Nothing was written.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps a failure of the store, the model endpoint or the
// dispatcher.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// storeError keeps not-found sentinels as they are and wraps anything else.
func storeError(op string, err error) error {
	if errors.Is(err, entity.ErrLeadNotFound) || errors.Is(err, entity.ErrInteractionNotFound) {
		return err
	}
	return &TechnicalError{Code: CodeDatabase, Message: op + ": " + err.Error(), Err: err}
}
