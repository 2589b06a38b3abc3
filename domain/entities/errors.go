package entities

import "fmt"

// DomainError is a domain-rule violation with a stable machine-readable code.
// Services wrap these with fmt.Errorf("...: %w", err) to add context; callers
// match with errors.Is against the sentinel values below and extract the code
// with errors.As.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any DomainError carrying the same code, so wrapped errors compare
// equal to their sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func newDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	ErrValidation          = newDomainError("VALIDATION_ERROR", "invalid input")
	ErrMalformedResult     = newDomainError("MALFORMED_RESULT", "result values must be 1-3 digit strings")
	ErrDuplicateResult     = newDomainError("DUPLICATE_RESULT", "a result is already declared for this bazaar and date")
	ErrBettingClosed       = newDomainError("BETTING_CLOSED", "betting is closed for this bazaar session")
	ErrBazaarInactive      = newDomainError("BAZAAR_INACTIVE", "bazaar is not accepting bets")
	ErrInvalidAmount       = newDomainError("INVALID_AMOUNT", "amount is outside the allowed range")
	ErrInsufficientBalance = newDomainError("INSUFFICIENT_BALANCE", "wallet balance is insufficient")
	ErrAlreadySettled      = newDomainError("ALREADY_SETTLED", "bet has already reached a terminal state")
	ErrUnsupportedBetType  = newDomainError("UNSUPPORTED_BET_TYPE", "unknown bet type")
	ErrNotCancellable      = newDomainError("NOT_CANCELLABLE", "bet can no longer be cancelled")
	ErrNotFound            = newDomainError("NOT_FOUND", "record not found")
)
