package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"cardapiopro-backend/internal/domain"
	"cardapiopro-backend/internal/dto"
	"cardapiopro-backend/internal/model"
	"cardapiopro-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const codeAttempts = 10

type BillingService interface {
	WhatsAppOffer(plan string) *dto.WhatsAppOffer
	Redeem(ctx context.Context, userID, code string, now time.Time) (*dto.ActivateResponse, error)
	GenerateCodes(ctx context.Context, plan string, quantity int) (*dto.GenerateCodesResponse, error)
}

type billingServiceImpl struct {
	db             *gorm.DB
	whatsAppPhone  string
	restaurantRepo repository.RestaurantRepository
	subRepo        repository.SubscriptionRepository
	codeRepo       repository.ActivationCodeRepository
	newCode        func() (string, error)
	log            Logger
}

func NewBillingService(
	db *gorm.DB,
	whatsAppPhone string,
	restaurantRepo repository.RestaurantRepository,
	subRepo repository.SubscriptionRepository,
	codeRepo repository.ActivationCodeRepository,
	log Logger,
) BillingService {
	return &billingServiceImpl{
		db:             db,
		whatsAppPhone:  whatsAppPhone,
		restaurantRepo: restaurantRepo,
		subRepo:        subRepo,
		codeRepo:       codeRepo,
		newCode:        func() (string, error) { return domain.GenerateCode(nil) },
		log:            log,
	}
}

func (s *billingServiceImpl) WhatsAppOffer(planID string) *dto.WhatsAppOffer {
	message := "Olá! Quero assinar o CardapioPro."
	offer := &dto.WhatsAppOffer{Phone: s.whatsAppPhone}

	if plan, ok := domain.LookupPlan(planID); ok {
		message = fmt.Sprintf("Olá! Quero assinar o CardapioPro no plano %s (%s/%s).", plan.Label, plan.Price(), plan.Period)
		offer.Plan = &dto.PlanView{
			ID:         plan.ID,
			PriceCents: plan.PriceCents,
			Price:      plan.Price(),
			Days:       plan.Days,
		}
	}

	offer.Message = message
	offer.WhatsAppURL = "https://wa.me/" + s.whatsAppPhone + "?text=" + url.PathEscape(message)
	return offer
}

// Redeem consumes the code and activates the subscription atomically. The
// conditional MarkUsed makes a concurrent second redemption fail with
// ErrCodeAlreadyUsed and roll back.
func (s *billingServiceImpl) Redeem(ctx context.Context, userID, rawCode string, now time.Time) (*dto.ActivateResponse, error) {
	code := domain.NormalizeCode(rawCode)
	if code == "" {
		return nil, ErrCodeRequired
	}

	var paidUntil time.Time
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restaurant, err := s.restaurantRepo.FindByOwner(ctx, tx, userID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrNoRestaurant
			}
			return fmt.Errorf("find restaurant: %w", err)
		}

		found, err := s.codeRepo.FindByCode(ctx, tx, code)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrInvalidCode
			}
			return fmt.Errorf("find activation code: %w", err)
		}
		if found.UsedAt != nil {
			return ErrCodeAlreadyUsed
		}

		current, err := s.subRepo.FindByRestaurant(ctx, tx, restaurant.ID)
		if err != nil {
			return fmt.Errorf("find subscription: %w", err)
		}
		var currentPaidUntil *time.Time
		if current != nil {
			currentPaidUntil = current.PaidUntil
		}
		paidUntil = domain.ExtendPaidUntil(currentPaidUntil, now, found.Days)

		consumed, err := s.codeRepo.MarkUsed(ctx, tx, found.ID, userID, now)
		if err != nil {
			return fmt.Errorf("consume activation code: %w", err)
		}
		if !consumed {
			return ErrCodeAlreadyUsed
		}

		planType := found.Plan
		if plan, ok := domain.LookupPlan(found.Plan); ok {
			planType = plan.PlanType()
		}

		return s.subRepo.Activate(ctx, tx, &model.Subscription{
			ID:           uuid.NewString(),
			RestaurantID: restaurant.ID,
			PaidUntil:    &paidUntil,
			PlanType:     &planType,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("user %s activated code %s, paid until %s", userID, code, paidUntil.Format(time.RFC3339))
	return &dto.ActivateResponse{
		OK:        true,
		Status:    string(model.SubscriptionActive),
		PaidUntil: paidUntil,
	}, nil
}

// GenerateCodes creates the whole batch or nothing. Each insert runs in a
// savepoint so a unique-key collision can be retried without aborting the
// outer transaction.
func (s *billingServiceImpl) GenerateCodes(ctx context.Context, planID string, quantity int) (*dto.GenerateCodesResponse, error) {
	plan, ok := domain.LookupPlan(planID)
	if !ok {
		return nil, ErrInvalidPlan
	}
	quantity = domain.ClampQuantity(quantity)

	codes := make([]string, 0, quantity)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < quantity; i++ {
			code, err := s.insertUniqueCode(ctx, tx, plan)
			if err != nil {
				return err
			}
			codes = append(codes, code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("generated %d %s activation codes", len(codes), plan.ID)
	return &dto.GenerateCodesResponse{
		OK:       true,
		Plan:     plan.ID,
		Quantity: len(codes),
		Codes:    codes,
	}, nil
}

func (s *billingServiceImpl) insertUniqueCode(ctx context.Context, tx *gorm.DB, plan domain.Plan) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}

		err = tx.Transaction(func(sp *gorm.DB) error {
			return s.codeRepo.Create(ctx, sp, &model.ActivationCode{
				ID:   uuid.NewString(),
				Code: code,
				Plan: plan.ID,
				Days: plan.Days,
			})
		})
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("store activation code: %w", err)
		}
	}

	return "", ErrCodeCollision
}
