package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"cardapiopro-backend/internal/client"
	"cardapiopro-backend/internal/config"
	"cardapiopro-backend/internal/domain"
	"cardapiopro-backend/internal/dto"
	"cardapiopro-backend/internal/model"
	"cardapiopro-backend/internal/repository"
	"cardapiopro-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, now time.Time) (*dto.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string, now time.Time) error
	ValidateResetToken(ctx context.Context, token string, now time.Time) error
	ResetPassword(ctx context.Context, token, newPassword string, now time.Time) error
}

type authServiceImpl struct {
	db             *gorm.DB
	auth           config.Auth
	trialDays      int
	webURL         string
	mail           client.MailClient
	userRepo       repository.UserRepository
	restaurantRepo repository.RestaurantRepository
	subRepo        repository.SubscriptionRepository
	log            Logger
}

func NewAuthService(
	db *gorm.DB,
	auth config.Auth,
	trialDays int,
	webURL string,
	mail client.MailClient,
	userRepo repository.UserRepository,
	restaurantRepo repository.RestaurantRepository,
	subRepo repository.SubscriptionRepository,
	log Logger,
) AuthService {
	return &authServiceImpl{
		db:             db,
		auth:           auth,
		trialDays:      trialDays,
		webURL:         webURL,
		mail:           mail,
		userRepo:       userRepo,
		restaurantRepo: restaurantRepo,
		subRepo:        subRepo,
		log:            log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authServiceImpl) issue(user *model.User) (*dto.AuthResponse, error) {
	token, err := utils.NewAccessToken(s.auth.JWTSecret, user.ID, user.Email, string(user.Role), s.auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	resp := &dto.AuthResponse{Token: token}
	if err := copier.Copy(&resp.User, user); err != nil {
		return nil, err
	}
	return resp, nil
}

// Register creates the merchant, its restaurant and the trial in one
// transaction.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest, now time.Time) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := utils.HashPassword(strings.TrimSpace(req.Password), s.auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleMerchant,
		Active:       true,
	}

	restaurantName := strings.TrimSpace(req.RestaurantName)
	if restaurantName == "" {
		restaurantName = name
	}
	restaurant := &model.Restaurant{
		ID:      uuid.NewString(),
		OwnerID: user.ID,
		Name:    restaurantName,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return fmt.Errorf("store user: %w", err)
		}
		if err := s.restaurantRepo.Create(ctx, tx, restaurant); err != nil {
			return fmt.Errorf("store restaurant: %w", err)
		}
		if err := s.subRepo.Create(ctx, tx, domain.NewTrial(uuid.NewString(), restaurant.ID, now, s.trialDays)); err != nil {
			return fmt.Errorf("store trial: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("merchant %s registered with restaurant %s", user.ID, restaurant.ID)
	return s.issue(user)
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.Active || !utils.VerifyPassword(user.PasswordHash, strings.TrimSpace(password)) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// ForgotPassword never reveals whether the email exists and never fails
// because of mail delivery.
func (s *authServiceImpl) ForgotPassword(ctx context.Context, email string, now time.Time) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	raw, digest, err := utils.NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.userRepo.SetResetToken(ctx, user.ID, digest, now.Add(s.auth.ResetTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := strings.TrimRight(s.webURL, "/") + "/reset-password?token=" + url.QueryEscape(raw)
	body := fmt.Sprintf(
		`<p>Olá, %s!</p><p>Para criar uma nova senha, acesse: <a href="%s">%s</a></p><p>O link expira em %s.</p>`,
		html.EscapeString(user.Name), link, link, s.auth.ResetTTL,
	)
	if err := s.mail.Send(ctx, user.Email, "CardapioPro - redefinição de senha", body); err != nil {
		s.log.Warnf("password reset mail to user %s not sent: %v", user.ID, err)
	}

	return nil
}

func (s *authServiceImpl) ValidateResetToken(ctx context.Context, token string, now time.Time) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidResetToken
	}
	if _, err := s.userRepo.FindByResetToken(ctx, utils.HashToken(strings.TrimSpace(token)), now); err != nil {
		if repository.IsNotFound(err) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("find reset token: %w", err)
	}
	return nil
}

func (s *authServiceImpl) ResetPassword(ctx context.Context, token, newPassword string, now time.Time) error {
	digest := utils.HashToken(strings.TrimSpace(token))

	user, err := s.userRepo.FindByResetToken(ctx, digest, now)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("find reset token: %w", err)
	}

	hash, err := utils.HashPassword(strings.TrimSpace(newPassword), s.auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.ResetPassword(ctx, user.ID, digest, hash); err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("reset password: %w", err)
	}

	return nil
}
