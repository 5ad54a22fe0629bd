package garageRepo

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no document matches the owner and id.
var ErrNotFound = errors.New("document not found")

// Query narrows a List or Count. Empty fields are ignored.
type Query struct {
	Status     string
	Type       string
	ClientID   string
	VehicleID  string
	TemplateID string
	Search     string
	Limit      int64
	Skip       int64
}

// Repository is an owner-scoped document store. Every document carries
// "id" and "ownerId" fields.
type Repository[T any] interface {
	Insert(ctx context.Context, doc *T) error
	Get(ctx context.Context, ownerID, id string) (*T, error)
	List(ctx context.Context, ownerID string, q Query) ([]T, error)
	Count(ctx context.Context, ownerID string, q Query) (int64, error)
	Replace(ctx context.Context, ownerID, id string, doc *T) error
	Delete(ctx context.Context, ownerID, id string) error
	// Push appends value to the array field of a document.
	Push(ctx context.Context, ownerID, id, field string, value any) error
}

// Sequencer hands out per-owner monotonically increasing numbers.
type Sequencer interface {
	Next(ctx context.Context, ownerID, name string) (int64, error)
}
