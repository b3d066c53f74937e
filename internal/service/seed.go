package service

import (
	"context"
	"fmt"
	"time"

	"cardapiopro-backend/internal/dto"
	"cardapiopro-backend/internal/model"
	"cardapiopro-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	DemoEmail    = "teste@comerciante.com"
	DemoPassword = "123456"
)

// SeedDemo provisions a demo merchant with an open restaurant and a small
// catalog. Running it again leaves existing data alone.
func SeedDemo(
	ctx context.Context,
	auth AuthService,
	userRepo repository.UserRepository,
	restaurantRepo repository.RestaurantRepository,
	productRepo repository.ProductRepository,
	log Logger,
	now time.Time,
) error {
	user, err := userRepo.FindByEmail(ctx, DemoEmail)
	if repository.IsNotFound(err) {
		if _, err := auth.Register(ctx, &dto.RegisterRequest{
			Name:           "Admin Comerciante",
			Email:          DemoEmail,
			Password:       DemoPassword,
			RestaurantName: "Restaurante do Admin",
		}, now); err != nil {
			return fmt.Errorf("register demo merchant: %w", err)
		}
		log.Infof("seed: demo merchant created (%s)", DemoEmail)
		user, err = userRepo.FindByEmail(ctx, DemoEmail)
	}
	if err != nil {
		return fmt.Errorf("find demo merchant: %w", err)
	}

	restaurant, err := restaurantRepo.FindByOwner(ctx, nil, user.ID)
	if err != nil {
		return fmt.Errorf("find demo restaurant: %w", err)
	}
	if !restaurant.IsOpen {
		description := "Restaurante teste para o app de pedidos"
		phone := "(11) 99999-9999"
		address := "Rua Exemplo, 123"
		if _, err := restaurantRepo.Update(ctx, restaurant.ID, map[string]interface{}{
			"is_open":     true,
			"description": description,
			"phone":       phone,
			"address":     address,
		}); err != nil {
			return fmt.Errorf("open demo restaurant: %w", err)
		}
	}

	existing, err := productRepo.ListByRestaurant(ctx, restaurant.ID, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Infof("seed: %d products already present", len(existing))
		return nil
	}

	demo := []struct {
		name, description string
		price             int64
	}{
		{"X-Burger", "Pão, hambúrguer, queijo e molho especial", 2490},
		{"Pizza Calabresa", "Pizza grande com calabresa e cebola", 5990},
		{"Refrigerante 2L", "Coca-Cola / Guaraná (variável)", 1290},
	}
	products := make([]*model.Product, len(demo))
	for i, d := range demo {
		description := d.description
		products[i] = &model.Product{
			ID:           uuid.NewString(),
			RestaurantID: restaurant.ID,
			Name:         d.name,
			Description:  &description,
			PriceCents:   d.price,
			Active:       true,
		}
	}

	if err := productRepo.Seed(ctx, products); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	log.Infof("seed: %d demo products created", len(products))
	return nil
}
