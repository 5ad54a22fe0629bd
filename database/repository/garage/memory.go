package garageRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"garagedesk/models"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryStore is an in-process Repository. Documents are held as bson so
// filters and $push behave like MongoStore. Used by tests and local runs
// without a database.
type MemoryStore[T any] struct {
	mu   sync.Mutex
	docs map[string]bson.M
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{docs: map[string]bson.M{}}
}

func toM(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromM[T any](m bson.M) (*T, error) {
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func memKey(ownerID, id string) string { return ownerID + "/" + id }

func (s *MemoryStore[T]) Insert(_ context.Context, doc *T) error {
	m, err := toM(doc)
	if err != nil {
		return err
	}
	owner, _ := m["ownerId"].(string)
	id, _ := m["id"].(string)
	if id == "" {
		return fmt.Errorf("document has no id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[memKey(owner, id)]; exists {
		return fmt.Errorf("duplicate id %s", id)
	}
	s.docs[memKey(owner, id)] = m
	return nil
}

func (s *MemoryStore[T]) Get(_ context.Context, ownerID, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.docs[memKey(ownerID, id)]
	if !ok {
		return nil, ErrNotFound
	}
	return fromM[T](m)
}

func memMatches(m bson.M, q Query) bool {
	for field, want := range map[string]string{
		"status": q.Status, "type": q.Type, "clientId": q.ClientID,
		"vehicleId": q.VehicleID, "templateId": q.TemplateID,
	} {
		if want != "" && fmt.Sprint(m[field]) != want {
			return false
		}
	}
	return true
}

func createdAt(m bson.M) time.Time {
	if dt, ok := m["createdAt"].(interface{ Time() time.Time }); ok {
		return dt.Time()
	}
	return time.Time{}
}

// List returns newest first, ties broken by id. Search is ignored.
func (s *MemoryStore[T]) List(_ context.Context, ownerID string, q Query) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ms []bson.M
	for _, m := range s.docs {
		if m["ownerId"] == ownerID && memMatches(m, q) {
			ms = append(ms, m)
		}
	}
	sort.Slice(ms, func(i, j int) bool {
		ti, tj := createdAt(ms[i]), createdAt(ms[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return fmt.Sprint(ms[i]["id"]) < fmt.Sprint(ms[j]["id"])
	})

	if q.Skip > 0 {
		ms = ms[min(int(q.Skip), len(ms)):]
	}
	if q.Limit > 0 && int(q.Limit) < len(ms) {
		ms = ms[:q.Limit]
	}

	out := make([]T, 0, len(ms))
	for _, m := range ms {
		doc, err := fromM[T](m)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (s *MemoryStore[T]) Count(_ context.Context, ownerID string, q Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.docs {
		if m["ownerId"] == ownerID && memMatches(m, q) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore[T]) Replace(_ context.Context, ownerID, id string, doc *T) error {
	m, err := toM(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[memKey(ownerID, id)]; !ok {
		return ErrNotFound
	}
	s.docs[memKey(ownerID, id)] = m
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[memKey(ownerID, id)]; !ok {
		return ErrNotFound
	}
	delete(s.docs, memKey(ownerID, id))
	return nil
}

func (s *MemoryStore[T]) Push(_ context.Context, ownerID, id, field string, value any) error {
	v, err := toM(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.docs[memKey(ownerID, id)]
	if !ok {
		return ErrNotFound
	}
	arr, _ := m[field].(bson.A)
	m[field] = append(arr, v)
	m["updatedAt"] = time.Now()
	return nil
}

// MemoryCounters is an in-process Sequencer.
type MemoryCounters struct {
	mu sync.Mutex
	n  map[string]int64
}

func NewMemoryCounters() *MemoryCounters {
	return &MemoryCounters{n: map[string]int64{}}
}

func (c *MemoryCounters) Next(_ context.Context, ownerID, name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n[ownerID+":"+name]++
	return c.n[ownerID+":"+name], nil
}

// NewMemoryRepositories returns in-process stores for every garage collection.
func NewMemoryRepositories() *MemoryRepositories {
	return &MemoryRepositories{
		Clients:            NewMemoryStore[models.Client](),
		Vehicles:           NewMemoryStore[models.Vehicle](),
		Invoices:           NewMemoryStore[models.Invoice](),
		GuaranteeTemplates: NewMemoryStore[models.GuaranteeTemplate](),
		Guarantees:         NewMemoryStore[models.Guarantee](),
		RepairOrders:       NewMemoryStore[models.RepairOrder](),
		Counters:           NewMemoryCounters(),
	}
}

// MemoryRepositories mirrors Repositories with in-process stores.
type MemoryRepositories struct {
	Clients            *MemoryStore[models.Client]
	Vehicles           *MemoryStore[models.Vehicle]
	Invoices           *MemoryStore[models.Invoice]
	GuaranteeTemplates *MemoryStore[models.GuaranteeTemplate]
	Guarantees         *MemoryStore[models.Guarantee]
	RepairOrders       *MemoryStore[models.RepairOrder]
	Counters           *MemoryCounters
}
