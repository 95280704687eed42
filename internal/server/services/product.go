package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/dmitrijs2005/biscotto/internal/dbx"
	"github.com/dmitrijs2005/biscotto/internal/logging"
	"github.com/dmitrijs2005/biscotto/internal/server/images"
	"github.com/dmitrijs2005/biscotto/internal/server/models"
	"github.com/dmitrijs2005/biscotto/internal/server/repositories/repomanager"
)

// ImageUpload is an image file received with a create or update request.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// ProductService implements the catalog. Image replacement is
// write-then-delete: the new image is uploaded and the record committed
// before the old image is removed.
type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      images.Store
	assets      *AssetService
	logger      logging.Logger
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, st images.Store, as *AssetService, l logging.Logger) *ProductService {
	return &ProductService{
		db:          db,
		repomanager: m,
		images:      st,
		assets:      as,
		logger:      l.With("module", "product_service"),
	}
}

// MaxPrice is the largest price the products.price NUMERIC(10,2) column holds.
const MaxPrice = 99999999.99

// validateProduct checks p and rounds its price to cents, matching what the
// database stores.
func validateProduct(p *models.Product) error {
	p.Price = math.Round(p.Price*100) / 100
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	case math.IsNaN(p.Price) || p.Price < 0:
		return fmt.Errorf("%w: price must not be negative", common.ErrorValidation)
	case p.Price > MaxPrice:
		return fmt.Errorf("%w: price must not exceed %.2f", common.ErrorValidation, MaxPrice)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", common.ErrorValidation)
	case p.Stock > math.MaxInt32:
		return fmt.Errorf("%w: stock is too large", common.ErrorValidation)
	}
	return nil
}

func wrapRepoErr(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("error %s: %w", op, err)
}

// List returns all products, newest first.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	items, err := s.repomanager.Products(s.db).List(ctx)
	if err != nil {
		return nil, wrapRepoErr("listing products", err)
	}
	return items, nil
}

// ListByCategory returns products whose category contains pattern, ignoring case.
func (s *ProductService) ListByCategory(ctx context.Context, pattern string) ([]models.Product, error) {
	items, err := s.repomanager.Products(s.db).ListByCategory(ctx, pattern)
	if err != nil {
		return nil, wrapRepoErr("listing products", err)
	}
	return items, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.repomanager.Products(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr("getting product", err)
	}
	return p, nil
}

// Create stores a product. When img is given it is uploaded first and its
// URL replaces p.Image.
func (s *ProductService) Create(ctx context.Context, p *models.Product, img *ImageUpload) (*models.Product, error) {
	p.ImagePublicID = nil
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	var uploaded *images.Uploaded
	if img != nil {
		var err error
		if uploaded, err = s.images.Upload(ctx, img.Data, img.ContentType); err != nil {
			return nil, err
		}
		p.Image = uploaded.URL
		p.ImagePublicID = &uploaded.PublicID
	}

	created, err := s.repomanager.Products(s.db).Create(ctx, p)
	if err != nil {
		if uploaded != nil {
			s.assets.Discard(ctx, uploaded.PublicID, "product create failed")
		}
		return nil, wrapRepoErr("creating product", err)
	}

	s.logger.Info(ctx, "product created", "product_id", created.ID)
	return created, nil
}

// Update applies patch to the product. A new image is uploaded before the
// record changes; the replaced hosted image is enqueued for deletion in the
// same transaction and deleted after commit.
func (s *ProductService) Update(ctx context.Context, id string, patch models.ProductPatch, img *ImageUpload) (*models.Product, error) {
	// fail fast before uploading anything
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	patch.ImagePublicID = nil

	var uploaded *images.Uploaded
	if img != nil {
		var err error
		if uploaded, err = s.images.Upload(ctx, img.Data, img.ContentType); err != nil {
			return nil, err
		}
		patch.Image = &uploaded.URL
		patch.ImagePublicID = &uploaded.PublicID
	}

	var (
		result   *models.Product
		replaced string
	)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)

		p, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		old := p.ImagePublicID
		oldImage := p.Image
		patch.Apply(p)

		if uploaded == nil && patch.Image != nil && *patch.Image != oldImage {
			// image replaced by an external URL
			p.ImagePublicID = nil
		}

		if err := validateProduct(p); err != nil {
			return err
		}

		if result, err = repo.Update(ctx, p); err != nil {
			return err
		}

		if old != nil && (p.ImagePublicID == nil || *p.ImagePublicID != *old) {
			replaced = *old
			return s.repomanager.Assets(tx).Enqueue(ctx, replaced, "image replaced")
		}
		return nil
	})
	if err != nil {
		if uploaded != nil {
			s.assets.Discard(ctx, uploaded.PublicID, "product update failed")
		}
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, wrapRepoErr("updating product", err)
	}

	if replaced != "" {
		s.assets.Reclaim(ctx, replaced)
	}

	s.logger.Info(ctx, "product updated", "product_id", id)
	return result, nil
}

// Delete removes the record first and then its hosted image, so a failed
// image delete never leaves a product pointing at a missing image.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	var publicID string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := s.repomanager.Products(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if p.ImagePublicID != nil {
			publicID = *p.ImagePublicID
			return s.repomanager.Assets(tx).Enqueue(ctx, publicID, "product deleted")
		}
		return nil
	})
	if err != nil {
		return wrapRepoErr("deleting product", err)
	}

	if publicID != "" {
		s.assets.Reclaim(ctx, publicID)
	}

	s.logger.Info(ctx, "product deleted", "product_id", id)
	return nil
}
