package transaction

import (
	"github.com/pingcap/errors"
)

// Transient transaction errors. A unit of work reporting one of these (or
// an error wrapping one) is retried by the executor; everything else is
// fatal and propagates to the caller unchanged.
var (
	ErrWriteConflict = errors.New("write conflict")
	ErrStaleRouting  = errors.New("stale routing information")
	ErrLockTimeout   = errors.New("lock acquisition timed out")
)

// ErrPoolNotRunning is returned by Submit when the pool has not been
// started or has already shut down.
var ErrPoolNotRunning = errors.New("transaction pool is not running")

// RetryPolicy is the explicit set of error kinds the executor retries.
// The boundary between transient and fatal is configuration, not a property
// of this package: callers build the policy they want.
type RetryPolicy struct {
	retryable map[error]struct{}
}

func NewRetryPolicy(errs ...error) RetryPolicy {
	m := make(map[error]struct{}, len(errs))
	for _, err := range errs {
		m[err] = struct{}{}
	}
	return RetryPolicy{retryable: m}
}

// DefaultRetryPolicy retries write conflicts, stale routing and lock
// timeouts.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(ErrWriteConflict, ErrStaleRouting, ErrLockTimeout)
}

// Retryable reports whether err is transient under the policy. Wrapped
// errors are matched by their cause.
func (p RetryPolicy) Retryable(err error) bool {
	if err == nil {
		return false
	}
	_, ok := p.retryable[errors.Cause(err)]
	return ok
}

var errNames = map[string]error{
	"write-conflict": ErrWriteConflict,
	"stale-routing":  ErrStaleRouting,
	"lock-timeout":   ErrLockTimeout,
}

// PolicyFromNames builds a RetryPolicy from configured error names. Unknown
// names are rejected so a typo in the config file fails startup instead of
// silently making an error fatal.
func PolicyFromNames(names []string) (RetryPolicy, error) {
	errs := make([]error, 0, len(names))
	for _, name := range names {
		err, ok := errNames[name]
		if !ok {
			return RetryPolicy{}, errors.Errorf("unknown retryable error name %q", name)
		}
		errs = append(errs, err)
	}
	return NewRetryPolicy(errs...), nil
}
