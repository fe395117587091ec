package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmarchuk/storefront/internal/es"
	"github.com/dmarchuk/storefront/internal/logging"
	"github.com/dmarchuk/storefront/internal/models"
	"github.com/dmarchuk/storefront/internal/repo"
	"github.com/dmarchuk/storefront/internal/transport"
)

// CatalogService manages the product catalog. ES is optional: when nil,
// search falls back to the database and indexing is skipped.
type CatalogService struct {
	Repo  *repo.ProductRepo
	ES    *elasticsearch.Client
	Index string
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) List(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.List(ctx, offset, limit)
}

func (s *CatalogService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if product.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	product.ID = uuid.New()
	if err := s.Repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.index(ctx, product)
	return product, nil
}

func (s *CatalogService) Patch(ctx context.Context, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		product.Price = *req.Price
	}
	if req.CountInStock != nil {
		product.CountInStock = *req.CountInStock
	}

	if err := s.Repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.index(ctx, product)
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return err
	}

	if s.ES != nil {
		if err := es.DeleteProduct(ctx, s.ES, s.Index, id.String()); err != nil {
			logging.FromContext(ctx).Warn("es_delete_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	if s.ES != nil {
		return es.SearchProducts(ctx, s.ES, s.Index, q, offset, limit)
	}
	return s.Repo.Search(ctx, q, offset, limit)
}

// index is best-effort: the database stays the source of truth.
func (s *CatalogService) index(ctx context.Context, product *models.Product) {
	if s.ES == nil {
		return
	}
	if err := es.IndexProduct(ctx, s.ES, s.Index, product); err != nil {
		logging.FromContext(ctx).Warn("es_index_failed", "product_id", product.ID, "error", err)
	}
}
