package ledger

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by store lookups when the requested row does not
// exist. Store implementations must return it (possibly wrapped) rather than
// their driver's own sentinel.
var ErrNotFound = errors.New("not found")

// ValidationError rejects a trade draft before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trade: %s %s", e.Field, e.Reason)
}

// InconsistencyError reports a broken balance chain discovered after a
// recompute pass. With the pass running in one transaction this should never
// fire; it exists so the invariants stay checkable.
type InconsistencyError struct {
	Date   time.Time
	Detail string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("ledger inconsistent at %s: %s", e.Date.Format(DateFormat), e.Detail)
}
