// Package clammerr defines the core error taxonomy shared by the
// fixed-point math, quoting and routing packages.
package clammerr

import "fmt"

// Kind identifies a category of core error.
type Kind int

const (
	// TickOutOfBounds means a tick index fell outside [MinTick, MaxTick].
	TickOutOfBounds Kind = iota
	// InvalidTickRange means tickLower >= tickUpper, or a tick wasn't a
	// multiple of the pool's tickSpacing.
	InvalidTickRange
	// InputMintMismatch means the supplied input mint doesn't belong to
	// the pool.
	InputMintMismatch
	// ArithmeticOverflow is a fatal widening-arithmetic overflow.
	ArithmeticOverflow
	// DivideByZero is a fatal division by a zero divisor.
	DivideByZero
	// InsufficientTickArrays means the swap ran out of provided tick
	// arrays before filling the requested amount.
	InsufficientTickArrays
	// ZeroLiquidity means the pool (or the active tick range) has no
	// liquidity to swap against.
	ZeroLiquidity
	// PoolNotFound is a fetcher miss on a pool address.
	PoolNotFound
	// TickArrayNotFound is a fetcher miss on a tick-array address.
	TickArrayNotFound
)

func (k Kind) String() string {
	switch k {
	case TickOutOfBounds:
		return "TickOutOfBounds"
	case InvalidTickRange:
		return "InvalidTickRange"
	case InputMintMismatch:
		return "InputMintMismatch"
	case ArithmeticOverflow:
		return "ArithmeticOverflow"
	case DivideByZero:
		return "DivideByZero"
	case InsufficientTickArrays:
		return "InsufficientTickArrays"
	case ZeroLiquidity:
		return "ZeroLiquidity"
	case PoolNotFound:
		return "PoolNotFound"
	case TickArrayNotFound:
		return "TickArrayNotFound"
	default:
		return "Unknown"
	}
}

// CoreError is the concrete error type returned by the core packages.
type CoreError struct {
	Kind    Kind
	Message string
}

func (e *CoreError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Fatal reports whether the error kind represents a computation failure
// that must propagate (as opposed to a single route/percent being
// infeasible, which the router drops silently).
func (e *CoreError) Fatal() bool {
	switch e.Kind {
	case ArithmeticOverflow, DivideByZero:
		return true
	default:
		return false
	}
}

// New constructs a CoreError of the given kind.
func New(kind Kind, format string, args ...any) *CoreError {
	return &CoreError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is itself a CoreError of the given kind. It
// checks err directly; a CoreError wrapped inside another error is not
// unwrapped.
func Is(err error, kind Kind) bool {
	ce, ok := err.(*CoreError)
	return ok && ce.Kind == kind
}

// IsFatal reports whether err is a CoreError whose kind is fatal. A
// non-CoreError (unexpected error type) is treated as fatal, since the
// router cannot reason about its droppability.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	ce, ok := err.(*CoreError)
	if !ok {
		return true
	}
	return ce.Fatal()
}
