package billing

import "errors"

// Secondary operations that may fail after the primary effect succeeded.
const (
	OpPersistSubscription = "persist_subscription"
	OpApplyEvent          = "apply_event"
)

// SecondaryFailure is a follow-up write that failed after the primary effect
// had already happened. Payload carries what a retry needs.
type SecondaryFailure struct {
	Op      string
	Err     error
	Payload any
}

// Outcome lists secondary failures so callers can retry or alert.
type Outcome struct {
	Failures []SecondaryFailure
}

func (o *Outcome) add(op string, err error, payload any) {
	o.Failures = append(o.Failures, SecondaryFailure{Op: op, Err: err, Payload: payload})
}

// Degraded reports whether any secondary effect failed.
func (o Outcome) Degraded() bool {
	return len(o.Failures) > 0
}

// Err joins all secondary errors, nil when none failed.
func (o Outcome) Err() error {
	errs := make([]error, 0, len(o.Failures))
	for _, f := range o.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}
