package accountsdb

import "fmt"

// InvariantViolation marks a condition spec §7 classifies as
// Invariant-Violation: the process aborts rather than returning an error.
// The only constructor is raiseInvariant, which panics; there is no
// recoverable path out of this package.
type InvariantViolation struct {
	Stage string
	Msg   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Stage, e.Msg)
}

func raiseInvariant(stage, format string, args ...any) {
	panic(&InvariantViolation{Stage: stage, Msg: fmt.Sprintf(format, args...)})
}

// RaiseEmptyReconstruction panics with InvariantViolation: the residual
// storage map after the post-pass was empty (spec §4.4 post-pass, §8).
func RaiseEmptyReconstruction() {
	raiseInvariant("reconstruct", "residual storage map is empty")
}

// RaiseIdentifierOverflow panics with InvariantViolation: the final
// append-vec id exceeded the reserved lower half of the identifier space
// (spec §4.4 post-pass, §8).
func RaiseIdentifierOverflow(max uint64) {
	raiseInvariant("reconstruct", "max append-vec id %d exceeds reserved lower half of identifier space", max)
}
