package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/siravitrin-eng/the-pos-67079349/models"
	"github.com/siravitrin-eng/the-pos-67079349/repository"
)

// InventoryService edits the backing product collection. Writes wait for
// the live subscription to echo back rather than patching the local
// projection.
type InventoryService interface {
	Create(ctx context.Context, req *models.ProductRequest) (*models.Product, *ServiceError)
	Update(ctx context.Context, id string, req *models.ProductRequest) *ServiceError
	Remove(ctx context.Context, id string) *ServiceError
	RemoveMany(ctx context.Context, ids []string) *ServiceError
	RemoveAll(ctx context.Context) *ServiceError
	Seed(ctx context.Context) *ServiceError
}

// ProjectionSource exposes the catalog snapshot RemoveAll operates on.
type ProjectionSource interface {
	Projection() ([]models.Product, CatalogState)
}

type inventoryServiceImpl struct {
	repo       repository.ProductRepository
	projection ProjectionSource
	logger     *zap.Logger
}

func NewInventoryService(repo repository.ProductRepository, projection ProjectionSource, logger *zap.Logger) InventoryService {
	return &inventoryServiceImpl{
		repo:       repo,
		projection: projection,
		logger:     logger,
	}
}

// validate enforces the form contract before any network call: a title,
// a parseable non-negative price, a stored category, and a known status.
func validate(req *models.ProductRequest) *ServiceError {
	if req.Title == "" {
		return NewValidationError("Title is required")
	}
	if req.Price == nil {
		return NewValidationError("Price is required")
	}
	if *req.Price < 0 {
		return NewValidationError("Price must not be negative")
	}
	if !req.Category.IsStored() {
		return NewValidationError("Invalid category")
	}
	if !req.Status.IsValid() {
		return NewValidationError("Invalid status")
	}
	return nil
}

func toProduct(req *models.ProductRequest) *models.Product {
	return &models.Product{
		Title:    req.Title,
		Price:    *req.Price,
		Unit:     req.Unit,
		Detail:   req.Detail,
		Image:    req.Image,
		Category: req.Category,
		Status:   req.Status,
	}
}

// Create inserts a new record with a server-assigned timestamp. Nothing
// is appended locally; the subscription echo reflects it.
func (s *inventoryServiceImpl) Create(ctx context.Context, req *models.ProductRequest) (*models.Product, *ServiceError) {
	if svcErr := validate(req); svcErr != nil {
		return nil, svcErr
	}

	product := toProduct(req)
	id, err := s.repo.Insert(ctx, product)
	if err != nil {
		return nil, s.writeError("Failed to create product", err)
	}
	product.ID = id

	s.logger.Info("Product created", zap.String("id", id), zap.String("title", product.Title))
	return product, nil
}

// Update overwrites all editable fields of an existing record.
func (s *inventoryServiceImpl) Update(ctx context.Context, id string, req *models.ProductRequest) *ServiceError {
	if svcErr := validate(req); svcErr != nil {
		return svcErr
	}

	if err := s.repo.Update(ctx, id, toProduct(req)); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return NewNotFoundError("Product not found")
		}
		return s.writeError("Failed to update product", err)
	}

	s.logger.Info("Product updated", zap.String("id", id))
	return nil
}

func (s *inventoryServiceImpl) Remove(ctx context.Context, id string) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return NewNotFoundError("Product not found")
		}
		return s.writeError("Failed to delete product", err)
	}

	s.logger.Info("Product deleted", zap.String("id", id))
	return nil
}

// RemoveMany deletes the set as one atomic batch; it never partially
// applies.
func (s *inventoryServiceImpl) RemoveMany(ctx context.Context, ids []string) *ServiceError {
	if len(ids) == 0 {
		return NewValidationError("No products selected")
	}

	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return s.writeError("Failed to delete selected products", err)
	}

	s.logger.Info("Products deleted", zap.Int("count", len(ids)))
	return nil
}

// RemoveAll deletes every record currently in the projection as one
// atomic batch.
func (s *inventoryServiceImpl) RemoveAll(ctx context.Context) *ServiceError {
	products, state := s.projection.Projection()
	if state == CatalogForbidden {
		return NewAccessDeniedError(repository.ErrAccessDenied)
	}
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return s.writeError("Failed to clear catalog", err)
	}

	s.logger.Info("Catalog cleared", zap.Int("count", len(ids)))
	return nil
}

// Seed inserts a few sample products for an empty terminal.
func (s *inventoryServiceImpl) Seed(ctx context.Context) *ServiceError {
	price := func(v float64) *float64 { return &v }
	samples := []models.ProductRequest{
		{Title: "Dark Espresso", Price: price(65), Unit: "Cup", Detail: "Intense flavor",
			Image:    "https://images.unsplash.com/photo-1510591509098-f4fdc6d0ff04?q=80&w=400",
			Category: models.CategoryCoffee, Status: models.StatusInStock},
		{Title: "Neon Muffin", Price: price(45), Unit: "Piece", Detail: "Bright blueberry",
			Image:    "https://images.unsplash.com/photo-1558961363-fa8fdf82db35?q=80&w=400",
			Category: models.CategoryBakery, Status: models.StatusInStock},
		{Title: "Matcha Latte", Price: price(80), Unit: "Glass", Detail: "Green tea bliss",
			Image:    "https://images.unsplash.com/photo-1536496070726-444400fd9e80?q=80&w=400",
			Category: models.CategoryDrinks, Status: models.StatusInStock},
	}

	for i := range samples {
		if _, err := s.repo.Insert(ctx, toProduct(&samples[i])); err != nil {
			return s.writeError("Failed to seed sample data", err)
		}
	}

	s.logger.Info("Sample data seeded", zap.Int("count", len(samples)))
	return nil
}

func (s *inventoryServiceImpl) writeError(message string, err error) *ServiceError {
	s.logger.Error(message, zap.Error(err))
	if errors.Is(err, repository.ErrAccessDenied) {
		return NewAccessDeniedError(err)
	}
	return NewOperationFailedError(message, err)
}
