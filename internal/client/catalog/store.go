// Package catalog caches the product list and the home/about content for
// the client and forwards admin changes to the API.
package catalog

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/biscotto/internal/client/models"
	"github.com/dmitrijs2005/biscotto/internal/logging"
)

type API interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput, img *models.ImageFile) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, in models.ProductInput, img *models.ImageFile) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetHome(ctx context.Context) (*models.HomeSettings, error)
	GetAbout(ctx context.Context) (*models.AboutSettings, error)
	UpdateHome(ctx context.Context, in models.HomeSettingsInput) (*models.HomeSettings, error)
	UpdateAbout(ctx context.Context, in models.AboutSettingsInput) (*models.AboutSettings, error)
}

type Store struct {
	mu       sync.RWMutex
	api      API
	logger   logging.Logger
	products []models.Product
	loaded   bool
	home     *models.HomeSettings
	about    *models.AboutSettings
}

func NewStore(a API, l logging.Logger) *Store {
	return &Store{api: a, logger: l.With("module", "catalog")}
}

// Refresh reloads the product list. The cache is kept on failure.
func (s *Store) Refresh(ctx context.Context) ([]models.Product, error) {
	items, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.products = items
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug(ctx, "catalog refreshed", "count", len(items))
	return s.Products(), nil
}

// Products returns the cached list, newest first.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Loaded reports whether Refresh has succeeded at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Find returns a cached product, fetching it when it is not cached.
func (s *Store) Find(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	for _, p := range s.products {
		if p.ID == id {
			s.mu.RUnlock()
			out := p
			return &out, nil
		}
	}
	s.mu.RUnlock()

	return s.api.GetProduct(ctx, id)
}

// ByCategory asks the server for a case-insensitive category match.
func (s *Store) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.api.ListByCategory(ctx, category)
}

func (s *Store) Create(ctx context.Context, in models.ProductInput, img *models.ImageFile) (*models.Product, error) {
	p, err := s.api.CreateProduct(ctx, in, img)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.products = append([]models.Product{*p}, s.products...)
	s.mu.Unlock()
	return p, nil
}

func (s *Store) Update(ctx context.Context, id string, in models.ProductInput, img *models.ImageFile) (*models.Product, error) {
	p, err := s.api.UpdateProduct(ctx, id, in, img)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = *p
			break
		}
	}
	s.mu.Unlock()
	return p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Home returns the cached home content, loading it on first use.
func (s *Store) Home(ctx context.Context) (*models.HomeSettings, error) {
	s.mu.RLock()
	h := s.home
	s.mu.RUnlock()
	if h != nil {
		return h, nil
	}

	h, err := s.api.GetHome(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.home = h
	s.mu.Unlock()
	return h, nil
}

// About returns the cached about content, loading it on first use.
func (s *Store) About(ctx context.Context) (*models.AboutSettings, error) {
	s.mu.RLock()
	a := s.about
	s.mu.RUnlock()
	if a != nil {
		return a, nil
	}

	a, err := s.api.GetAbout(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.about = a
	s.mu.Unlock()
	return a, nil
}

func (s *Store) UpdateHome(ctx context.Context, in models.HomeSettingsInput) (*models.HomeSettings, error) {
	h, err := s.api.UpdateHome(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.home = h
	s.mu.Unlock()
	return h, nil
}

func (s *Store) UpdateAbout(ctx context.Context, in models.AboutSettingsInput) (*models.AboutSettings, error) {
	a, err := s.api.UpdateAbout(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.about = a
	s.mu.Unlock()
	return a, nil
}
