package garage

import (
	"errors"
	"fmt"

	garageRepo "garagedesk/database/repository/garage"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidReference  = errors.New("referenced document does not exist")
	ErrVehicleLimit      = errors.New("vehicle limit reached for current plan")
	ErrInvalidTransition = errors.New("status change not allowed")
	ErrNotEditable       = errors.New("document can no longer be modified")
	ErrInUse             = errors.New("document is still referenced")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// lookupErr turns a repository miss into ErrNotFound for kind.
func lookupErr(kind, id string, err error) error {
	if errors.Is(err, garageRepo.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return fmt.Errorf("failed to load %s %s: %w", kind, id, err)
}

// refErr is lookupErr for ids supplied by the caller as references.
func refErr(kind, id string, err error) error {
	if errors.Is(err, garageRepo.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrInvalidReference, kind, id)
	}
	return fmt.Errorf("failed to load %s %s: %w", kind, id, err)
}
