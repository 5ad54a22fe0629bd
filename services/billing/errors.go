package billing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrPlanNotPurchasable  = errors.New("plan cannot be purchased")
	ErrPriceNotConfigured  = errors.New("price is not configured for plan")
	ErrUserNotFound        = errors.New("user not found")
	ErrCheckoutInProgress  = errors.New("a checkout is already in progress for this user")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrMalformedEvent      = errors.New("malformed webhook event")
	ErrMissingCheckoutURLs = errors.New("checkout redirect URLs are not configured")
	// ErrRecordNotStored means a checkout completion arrived before its
	// pending record was stored. The event stays eligible for retry.
	ErrRecordNotStored = errors.New("no stored subscription matches checkout completion")
)

// ProviderError wraps a failed call to the billing provider.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("billing provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
