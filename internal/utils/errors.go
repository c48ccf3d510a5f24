package utils

import "errors"

// Common application errors used across services. Handlers translate these
// into HTTP responses via RespondError.
var (
	ErrValidation       = errors.New("VALIDATION_ERROR")
	ErrUnauthenticated  = errors.New("UNAUTHENTICATED")
	ErrForbidden        = errors.New("FORBIDDEN")
	ErrNotFound         = errors.New("NOT_FOUND")
	ErrConflict         = errors.New("CONFLICT")
	ErrGateway          = errors.New("GATEWAY_ERROR")
	ErrInvalidToken     = errors.New("INVALID_TOKEN")
	ErrTokenExpired     = errors.New("TOKEN_EXPIRED")
	ErrInvalidVariant   = errors.New("INVALID_VARIANT")
	ErrInvalidDomain    = errors.New("INVALID_DOMAIN")
	ErrInvalidSignature = errors.New("INVALID_SIGNATURE")
)

// StatusForError maps an application error to an HTTP status code.
// Uniqueness violations map to 409, not 500.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidVariant),
		errors.Is(err, ErrInvalidDomain), errors.Is(err, ErrInvalidSignature):
		return 400
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired):
		return 401
	case errors.Is(err, ErrForbidden):
		return 403
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrConflict):
		return 409
	default:
		return 500
	}
}

// CodeForError extracts the machine-readable code of an application error.
// Unknown errors are reported as INTERNAL_ERROR without leaking details.
func CodeForError(err error) string {
	for _, appErr := range []error{
		ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound,
		ErrConflict, ErrGateway, ErrInvalidToken, ErrTokenExpired,
		ErrInvalidVariant, ErrInvalidDomain, ErrInvalidSignature,
	} {
		if errors.Is(err, appErr) {
			return appErr.Error()
		}
	}
	return "INTERNAL_ERROR"
}
