package httpapi

import "github.com/hxuan190/clamm-core/internal/clammerr"

type errCategory int

const (
	kindValidation errCategory = iota
	kindNotFound
	kindComputation
)

// coreErrorKind classifies a clammerr.CoreError into the HTTP status
// family it should surface as; ok is false for an error this package
// doesn't originate from the core.
func coreErrorKind(err error) (errCategory, bool) {
	ce, ok := err.(*clammerr.CoreError)
	if !ok {
		return 0, false
	}
	switch ce.Kind {
	case clammerr.TickOutOfBounds, clammerr.InvalidTickRange, clammerr.InputMintMismatch:
		return kindValidation, true
	case clammerr.PoolNotFound, clammerr.TickArrayNotFound:
		return kindNotFound, true
	default:
		return kindComputation, true
	}
}
