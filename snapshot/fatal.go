package snapshot

import "fmt"

// FatalAssemblyError marks an ASSEMBLE_BANK failure: spec §4.7 classifies
// this stage's errors as fatal rather than recoverable, because a partially
// constructed Bank cannot be safely discarded and retried the way a
// decode/merge/reconstruct failure can. The only constructor panics; there
// is no recoverable path out of this stage.
type FatalAssemblyError struct {
	Cause error
}

func (e *FatalAssemblyError) Error() string {
	return fmt.Sprintf("fatal: bank assembly failed: %v", e.Cause)
}

func (e *FatalAssemblyError) Unwrap() error { return e.Cause }

func raiseFatalAssembly(cause error) {
	panic(&FatalAssemblyError{Cause: cause})
}
