/*
errors.go - Error taxonomy for the calculation engine

PURPOSE:
  Every engine operation is total: it returns a result or exactly one of
  three error kinds. Callers branch with errors.Is on the sentinels; the
  structured types carry the context needed for a useful message.

ERROR CATEGORIES:
  1. ErrInvalidInput  - a precondition on an input failed
  2. ErrNonAmortizing - a fixed-term payment never reduces the balance
  3. ErrUnpayable     - a payoff search cannot finish within the ceiling

USAGE:
  if errors.Is(err, engine.ErrUnpayable) {
      // show "payment too low"
  }

  var ie *engine.InputError
  if errors.As(err, &ie) {
      log.Printf("bad field %s: %s", ie.Field, ie.Reason)
  }

SEE ALSO:
  - api/handlers.go: maps these to HTTP status codes
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when an input violates a precondition
	// (negative amount, non-positive term, unknown timing...).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNonAmortizing is returned when a fixed-term payment does not exceed
	// the interest accrued in some period before payoff.
	ErrNonAmortizing = errors.New("payment does not amortize the balance")

	// ErrUnpayable is returned when a payoff search cannot reach a zero
	// balance within MaxPayoffPeriods.
	ErrUnpayable = errors.New("balance cannot be paid off")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InputError names the offending field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// NonAmortizingError reports the first period whose interest swallowed the
// payment.
type NonAmortizingError struct {
	Period   int
	Payment  decimal.Decimal
	Interest decimal.Decimal
}

func (e *NonAmortizingError) Error() string {
	return fmt.Sprintf("payment %s does not cover interest %s in period %d",
		e.Payment.StringFixed(2), e.Interest.StringFixed(2), e.Period)
}

func (e *NonAmortizingError) Unwrap() error {
	return ErrNonAmortizing
}

// UnpayableError reports why a payoff search gave up. Periods is zero when
// the payment fails to cover the first period's interest, otherwise the
// ceiling that was reached.
type UnpayableError struct {
	Balance  decimal.Decimal
	Payment  decimal.Decimal
	Interest decimal.Decimal
	Periods  int
}

func (e *UnpayableError) Error() string {
	if e.Periods == 0 {
		return fmt.Sprintf("payment %s does not cover first-period interest %s on balance %s",
			e.Payment.StringFixed(2), e.Interest.StringFixed(2), e.Balance.StringFixed(2))
	}
	return fmt.Sprintf("balance %s not paid off within %d periods at payment %s",
		e.Balance.StringFixed(2), e.Periods, e.Payment.StringFixed(2))
}

func (e *UnpayableError) Unwrap() error {
	return ErrUnpayable
}

// invalid is shorthand for constructing an InputError.
func invalid(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}

// Invalid builds an InputError for callers outside the engine (calculator
// adapters validating their own fields).
func Invalid(field, reason string) error {
	return invalid(field, reason)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is caused by the caller's inputs
// rather than by the system.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNonAmortizing) ||
		errors.Is(err, ErrUnpayable)
}

// IsUnprocessable returns true for inputs that are well-formed but describe
// a loan that cannot be amortized or paid off.
func IsUnprocessable(err error) bool {
	return errors.Is(err, ErrNonAmortizing) || errors.Is(err, ErrUnpayable)
}
