package liveness

import (
	"fmt"

	"github.com/simkernel-go/simkernel/kernel"
)

// InvalidAutomatonError wraps a malformed property-automaton
// description — a load-time InvariantViolation, since it always
// indicates a bug in the input rather than a runtime condition.
func InvalidAutomatonError(msg string) error {
	return kernel.InvariantViolationError(fmt.Sprintf("invalid automaton: %s", msg))
}

// LivenessViolationError wraps a detected acceptance cycle (§7: "MC
// violations emit the counter-example trace, the record path, and
// depth before exiting non-zero").
func LivenessViolationError(ce *CounterExample) error {
	return &kernel.KernelError{
		Kind: kernel.KindLivenessViolation,
		Msg:  fmt.Sprintf("acceptance cycle found at depth %d", ce.Depth),
	}
}
