package windowrank

import (
	"errors"
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// ErrInvalidArgument is wrapped by every construction error (spec.md §7).
// Callers test for it with errors.Is.
var ErrInvalidArgument = errors.New(`windowrank: invalid argument`)

func invalidArgumentf(format string, args ...any) error {
	return fmt.Errorf(`windowrank: %s: %w`, fmt.Sprintf(format, args...), ErrInvalidArgument)
}

// InvariantViolation reports one inconsistency found by a debug-mode
// invariant sweep (CheckInvariants). Unlike ErrInvalidArgument, it is never
// returned by New or Observe — both are total over well-formed input — it
// exists for tests and debug builds that want to assert internal
// consistency after every mutation (spec.md §7).
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf(`windowrank: invariant violation: %s`, e.Detail)
}

// invariantErrors aggregates every violation found in one sweep, rather
// than reporting only the first, using the same multierror the corpus
// already depends on elsewhere for fan-in error aggregation.
func invariantErrors(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, v := range violations {
		merr = multierror.Append(merr, &InvariantViolation{Detail: v})
	}
	return merr.ErrorOrNil()
}
