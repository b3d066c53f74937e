package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cardapiopro-backend/internal/domain"
	"cardapiopro-backend/internal/dto"
	"cardapiopro-backend/internal/model"
	"cardapiopro-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type RestaurantService interface {
	Create(ctx context.Context, userID string, req *dto.CreateRestaurantRequest, now time.Time) (*model.Restaurant, error)
	Get(ctx context.Context, restaurantID string) (*model.Restaurant, error)
	Update(ctx context.Context, restaurantID string, req *dto.UpdateRestaurantRequest) (*model.Restaurant, error)

	ListOpen(ctx context.Context) ([]dto.RestaurantView, error)
	GetPublic(ctx context.Context, restaurantID string) (*dto.RestaurantView, error)
	ListPublicProducts(ctx context.Context, restaurantID string) ([]dto.ProductView, error)

	Me(ctx context.Context, userID string, now time.Time) (*dto.MeResponse, error)
	SetPushToken(ctx context.Context, userID, token string) error
}

type restaurantServiceImpl struct {
	db             *gorm.DB
	trialDays      int
	userRepo       repository.UserRepository
	restaurantRepo repository.RestaurantRepository
	subRepo        repository.SubscriptionRepository
	productRepo    repository.ProductRepository
	subscriptions  SubscriptionService
}

func NewRestaurantService(
	db *gorm.DB,
	trialDays int,
	userRepo repository.UserRepository,
	restaurantRepo repository.RestaurantRepository,
	subRepo repository.SubscriptionRepository,
	productRepo repository.ProductRepository,
	subscriptions SubscriptionService,
) RestaurantService {
	return &restaurantServiceImpl{
		db:             db,
		trialDays:      trialDays,
		userRepo:       userRepo,
		restaurantRepo: restaurantRepo,
		subRepo:        subRepo,
		productRepo:    productRepo,
		subscriptions:  subscriptions,
	}
}

func (s *restaurantServiceImpl) Create(ctx context.Context, userID string, req *dto.CreateRestaurantRequest, now time.Time) (*model.Restaurant, error) {
	if _, err := s.restaurantRepo.FindByOwner(ctx, nil, userID); err == nil {
		return nil, ErrRestaurantExists
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("find restaurant: %w", err)
	}

	restaurant := &model.Restaurant{
		ID:          uuid.NewString(),
		OwnerID:     userID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Phone:       req.Phone,
		Address:     req.Address,
		IsOpen:      req.IsOpen == nil || *req.IsOpen,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.restaurantRepo.Create(ctx, tx, restaurant); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrRestaurantExists
			}
			return fmt.Errorf("store restaurant: %w", err)
		}
		return s.subRepo.Create(ctx, tx, domain.NewTrial(uuid.NewString(), restaurant.ID, now, s.trialDays))
	})
	if err != nil {
		return nil, err
	}

	return restaurant, nil
}

func (s *restaurantServiceImpl) Get(ctx context.Context, restaurantID string) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindByID(ctx, nil, restaurantID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return restaurant, nil
}

func (s *restaurantServiceImpl) Update(ctx context.Context, restaurantID string, req *dto.UpdateRestaurantRequest) (*model.Restaurant, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.IsOpen != nil {
		fields["is_open"] = *req.IsOpen
	}

	if len(fields) == 0 {
		return s.Get(ctx, restaurantID)
	}

	restaurant, err := s.restaurantRepo.Update(ctx, restaurantID, fields)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	return restaurant, nil
}

func (s *restaurantServiceImpl) ListOpen(ctx context.Context) ([]dto.RestaurantView, error) {
	restaurants, err := s.restaurantRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	views := []dto.RestaurantView{}
	if err := copier.Copy(&views, &restaurants); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *restaurantServiceImpl) GetPublic(ctx context.Context, restaurantID string) (*dto.RestaurantView, error) {
	restaurant, err := s.Get(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	var view dto.RestaurantView
	if err := copier.Copy(&view, restaurant); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *restaurantServiceImpl) ListPublicProducts(ctx context.Context, restaurantID string) ([]dto.ProductView, error) {
	if _, err := s.Get(ctx, restaurantID); err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListByRestaurant(ctx, restaurantID, true)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	views := []dto.ProductView{}
	if err := copier.Copy(&views, &products); err != nil {
		return nil, err
	}
	return views, nil
}

// Me reports the account and a normalized subscription. A restaurant seen
// without a subscription gets its trial here.
func (s *restaurantServiceImpl) Me(ctx context.Context, userID string, now time.Time) (*dto.MeResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	resp := &dto.MeResponse{}
	if err := copier.Copy(&resp.User, user); err != nil {
		return nil, err
	}

	restaurant, err := s.restaurantRepo.FindByOwner(ctx, nil, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return resp, nil
		}
		return nil, fmt.Errorf("find restaurant: %w", err)
	}

	sub, err := s.subscriptions.EnsureTrial(ctx, restaurant.ID, now)
	if err != nil {
		return nil, err
	}

	resp.Restaurant = &dto.MeRestaurant{}
	if err := copier.Copy(&resp.Restaurant.RestaurantView, restaurant); err != nil {
		return nil, err
	}
	resp.Restaurant.Subscription = subscriptionView(sub, now)

	return resp, nil
}

func subscriptionView(sub *model.Subscription, now time.Time) *dto.SubscriptionView {
	if sub == nil {
		return nil
	}

	view := &dto.SubscriptionView{
		Status:           string(sub.Status),
		PlanType:         sub.PlanType,
		CurrentPeriodEnd: sub.PaidUntil,
		Verdict:          string(domain.Evaluate(sub, now)),
	}
	if sub.Status == model.SubscriptionTrial {
		view.TrialEndsAt = sub.TrialEndsAt
	}
	if view.PlanType == nil && sub.Status == model.SubscriptionActive {
		monthly := "MONTHLY"
		view.PlanType = &monthly
	}
	return view
}

func (s *restaurantServiceImpl) SetPushToken(ctx context.Context, userID, token string) error {
	if err := s.userRepo.SetPushToken(ctx, userID, strings.TrimSpace(token)); err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("store push token: %w", err)
	}
	return nil
}
