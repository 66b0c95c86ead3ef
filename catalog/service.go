package catalog

import (
	"context"
	"fmt"
	"strings"
)

// ItemReader abstracts repository operations for the service.
type ItemReader interface {
	GetByID(ctx context.Context, id string) (Item, error)
	List(ctx context.Context, limit int) ([]Item, error)
}

// Service exposes the catalog to the storefront.
type Service struct {
	repo ItemReader
}

// NewService builds a Service using the provided repository.
func NewService(repo ItemReader) *Service {
	return &Service{repo: repo}
}

// GetByID returns the catalog item for the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, fmt.Errorf("catalog: empty item id: %w", ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

// List returns up to limit catalog items.
func (s *Service) List(ctx context.Context, limit int) ([]Item, error) {
	return s.repo.List(ctx, limit)
}
