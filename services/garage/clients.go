package garage

import (
	"context"
	"fmt"
	"io"
	"strings"

	garageRepo "garagedesk/database/repository/garage"
	"garagedesk/models"
	"garagedesk/services/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) ListClients(ctx context.Context, ownerID string, q garageRepo.Query) ([]models.Client, error) {
	return s.clients.List(ctx, ownerID, q)
}

func (s *Service) GetClient(ctx context.Context, ownerID, id string) (*models.Client, error) {
	c, err := s.clients.Get(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr("client", id, err)
	}
	return c, nil
}

func validateClient(c *models.Client) error {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.FirstName == "" || c.LastName == "" {
		return invalid("first and last name are required")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return invalid("email %q is not valid", c.Email)
	}
	return nil
}

func (s *Service) CreateClient(ctx context.Context, ownerID string, in models.Client) (*models.Client, error) {
	if err := validateClient(&in); err != nil {
		return nil, err
	}
	now := s.now()
	in.ID = uuid.NewString()
	in.OwnerID = ownerID
	in.Purchases = []models.Purchase{}
	in.Documents = []models.StoredFile{}
	in.Interactions = []models.Interaction{}
	in.CreatedAt = now
	in.UpdatedAt = now

	if err := s.clients.Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &in, nil
}

// UpdateClient replaces the editable fields. Purchases, documents and
// interactions are kept.
func (s *Service) UpdateClient(ctx context.Context, ownerID, id string, in models.Client) (*models.Client, error) {
	current, err := s.GetClient(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := validateClient(&in); err != nil {
		return nil, err
	}
	in.ID = current.ID
	in.OwnerID = ownerID
	in.Purchases = current.Purchases
	in.Documents = current.Documents
	in.Interactions = current.Interactions
	in.CreatedAt = current.CreatedAt
	in.UpdatedAt = s.now()

	if err := s.clients.Replace(ctx, ownerID, id, &in); err != nil {
		return nil, lookupErr("client", id, err)
	}
	return &in, nil
}

// DeleteClient refuses while invoices still reference the client.
func (s *Service) DeleteClient(ctx context.Context, ownerID, id string) error {
	n, err := s.invoices.Count(ctx, ownerID, garageRepo.Query{ClientID: id})
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: client %s has %d invoice(s)", ErrInUse, id, n)
	}
	if err := s.clients.Delete(ctx, ownerID, id); err != nil {
		return lookupErr("client", id, err)
	}
	return nil
}

func (s *Service) AddInteraction(ctx context.Context, ownerID, clientID string, in models.Interaction) (*models.Interaction, error) {
	in.Kind = strings.TrimSpace(in.Kind)
	if in.Kind == "" {
		return nil, invalid("interaction kind is required")
	}
	in.ID = uuid.NewString()
	if in.At.IsZero() {
		in.At = s.now()
	}
	if err := s.clients.Push(ctx, ownerID, clientID, "interactions", in); err != nil {
		return nil, lookupErr("client", clientID, err)
	}
	return &in, nil
}

// AddClientDocument uploads a file and attaches it to the client.
func (s *Service) AddClientDocument(ctx context.Context, ownerID, clientID string, r io.Reader, in storage.UploadInput) (*models.StoredFile, error) {
	if _, err := s.GetClient(ctx, ownerID, clientID); err != nil {
		return nil, err
	}
	in.Folder = storage.OwnerFolder(ownerID, "clients", clientID)
	if in.Kind == "" {
		in.Kind = "document"
	}
	return s.attachFile(ctx, "client", s.clients.Push, ownerID, clientID, "documents", r, in)
}

type pushFunc func(ctx context.Context, ownerID, id, field string, value any) error

// attachFile uploads then records the file; the upload is removed again if
// the record cannot be updated.
func (s *Service) attachFile(ctx context.Context, kind string, push pushFunc, ownerID, id, field string, r io.Reader, in storage.UploadInput) (*models.StoredFile, error) {
	if s.files == nil {
		return nil, fmt.Errorf("file storage is not configured")
	}
	file, err := s.files.Upload(ctx, r, in)
	if err != nil {
		return nil, err
	}
	if err := push(ctx, ownerID, id, field, *file); err != nil {
		if derr := s.files.Delete(context.WithoutCancel(ctx), file.PublicID); derr != nil {
			s.logger.Warn("orphaned upload", zap.String("publicId", file.PublicID), zap.Error(derr))
		}
		return nil, lookupErr(kind, id, err)
	}
	return file, nil
}
