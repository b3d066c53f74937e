package service

import (
	"context"
	"fmt"
	"time"

	"cardapiopro-backend/internal/domain"
	"cardapiopro-backend/internal/model"
	"cardapiopro-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionService interface {
	// EnsureTrial returns the restaurant's subscription, creating a trial
	// when it has none.
	EnsureTrial(ctx context.Context, restaurantID string, now time.Time) (*model.Subscription, error)
	// RequireActive is the merchant lockout gate. Lapsed TRIAL/ACTIVE
	// subscriptions are persisted as EXPIRED the first time they are seen.
	RequireActive(ctx context.Context, userID string, now time.Time) (*model.Restaurant, *model.Subscription, error)
	BackfillTrials(ctx context.Context, now time.Time) (int, error)
}

type subscriptionServiceImpl struct {
	db             *gorm.DB
	trialDays      int
	restaurantRepo repository.RestaurantRepository
	subRepo        repository.SubscriptionRepository
	log            Logger
}

func NewSubscriptionService(
	db *gorm.DB,
	trialDays int,
	restaurantRepo repository.RestaurantRepository,
	subRepo repository.SubscriptionRepository,
	log Logger,
) SubscriptionService {
	return &subscriptionServiceImpl{
		db:             db,
		trialDays:      trialDays,
		restaurantRepo: restaurantRepo,
		subRepo:        subRepo,
		log:            log,
	}
}

func (s *subscriptionServiceImpl) EnsureTrial(ctx context.Context, restaurantID string, now time.Time) (*model.Subscription, error) {
	sub, err := s.subRepo.FindByRestaurant(ctx, nil, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	if sub != nil {
		return sub, nil
	}

	trial := domain.NewTrial(uuid.NewString(), restaurantID, now, s.trialDays)
	created, err := s.subRepo.CreateIfMissing(ctx, nil, trial)
	if err != nil {
		return nil, fmt.Errorf("backfill trial: %w", err)
	}
	if created {
		s.log.Infof("trial backfilled for restaurant %s until %s", restaurantID, trial.TrialEndsAt.Format(time.RFC3339))
		return trial, nil
	}

	// lost the race to a concurrent backfill
	return s.subRepo.FindByRestaurant(ctx, nil, restaurantID)
}

func (s *subscriptionServiceImpl) RequireActive(ctx context.Context, userID string, now time.Time) (*model.Restaurant, *model.Subscription, error) {
	restaurant, err := s.restaurantRepo.FindByOwner(ctx, nil, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, ErrNoRestaurant
		}
		return nil, nil, fmt.Errorf("find restaurant: %w", err)
	}

	sub, err := s.EnsureTrial(ctx, restaurant.ID, now)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, &SubscriptionGateError{
			Code:    GateSubscriptionRequired,
			Message: "Assinatura não encontrada",
		}
	}

	if domain.Evaluate(sub, now) == domain.VerdictValid {
		return restaurant, sub, nil
	}

	observed := *sub
	if domain.NeedsExpiry(sub, now) {
		changed, err := s.subRepo.MarkExpired(ctx, nil, sub.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("persist expiry: %w", err)
		}
		if changed {
			s.log.Infof("subscription %s of restaurant %s marked EXPIRED (was %s)", sub.ID, restaurant.ID, sub.Status)
		}
	}

	return nil, nil, &SubscriptionGateError{
		Code:         GateSubscriptionExpired,
		Message:      "Assinatura expirada. Ative para continuar.",
		Subscription: &observed,
	}
}

func (s *subscriptionServiceImpl) BackfillTrials(ctx context.Context, now time.Time) (int, error) {
	count := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restaurants, err := s.restaurantRepo.ListWithoutSubscription(ctx, tx)
		if err != nil {
			return fmt.Errorf("list restaurants without subscription: %w", err)
		}

		for _, r := range restaurants {
			created, err := s.subRepo.CreateIfMissing(ctx, tx, domain.NewTrial(uuid.NewString(), r.ID, now, s.trialDays))
			if err != nil {
				return fmt.Errorf("create trial for %s: %w", r.ID, err)
			}
			if created {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Infof("backfilled %d trial subscriptions", count)
	return count, nil
}
