package service

import (
	"context"
	"fmt"
	"strings"

	"cardapiopro-backend/internal/dto"
	"cardapiopro-backend/internal/model"
	"cardapiopro-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	List(ctx context.Context, restaurantID string) ([]*model.Product, error)
	Create(ctx context.Context, restaurantID string, req *dto.CreateProductRequest) (*model.Product, error)
	Get(ctx context.Context, restaurantID, productID string) (*model.Product, error)
	Update(ctx context.Context, restaurantID, productID string, req *dto.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, restaurantID, productID string) error
}

type productServiceImpl struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
}

func NewProductService(db *gorm.DB, productRepo repository.ProductRepository) ProductService {
	return &productServiceImpl{
		db:          db,
		productRepo: productRepo,
	}
}

func (s *productServiceImpl) List(ctx context.Context, restaurantID string) ([]*model.Product, error) {
	return s.productRepo.ListByRestaurant(ctx, restaurantID, false)
}

func (s *productServiceImpl) Create(ctx context.Context, restaurantID string, req *dto.CreateProductRequest) (*model.Product, error) {
	product := &model.Product{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		PriceCents:   req.PriceCents,
		Active:       req.Active == nil || *req.Active,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("store product: %w", err)
	}
	return product, nil
}

func (s *productServiceImpl) Get(ctx context.Context, restaurantID, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindForRestaurant(ctx, restaurantID, productID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Update edits the catalog only; existing order lines keep their snapshots.
func (s *productServiceImpl) Update(ctx context.Context, restaurantID, productID string, req *dto.UpdateProductRequest) (*model.Product, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.PriceCents != nil {
		fields["price_cents"] = *req.PriceCents
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}

	if len(fields) == 0 {
		return s.Get(ctx, restaurantID, productID)
	}

	product, err := s.productRepo.Update(ctx, restaurantID, productID, fields)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// Delete refuses products that appear on any order line; those must be
// deactivated instead.
func (s *productServiceImpl) Delete(ctx context.Context, restaurantID, productID string) error {
	if _, err := s.Get(ctx, restaurantID, productID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		used, err := s.productRepo.IsReferenced(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("check product usage: %w", err)
		}
		if used {
			return ErrProductInUse
		}

		if err := s.productRepo.Delete(ctx, tx, restaurantID, productID); err != nil {
			if repository.IsNotFound(err) {
				return ErrProductNotFound
			}
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
}
