package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"cardapiopro-backend/internal/client"
	"cardapiopro-backend/internal/config"
	"cardapiopro-backend/internal/model"
	"cardapiopro-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	fail   bool
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type sentMail struct{ to, subject, html string }

type recordingMail struct {
	fail bool
	sent []sentMail
}

func (m *recordingMail) Send(_ context.Context, to, subject, html string) error {
	if m.fail {
		return client.ErrMailDisabled
	}
	m.sent = append(m.sent, sentMail{to, subject, html})
	return nil
}

type testEnv struct {
	db *gorm.DB

	users       repository.UserRepository
	restaurants repository.RestaurantRepository
	subs        repository.SubscriptionRepository
	products    repository.ProductRepository
	orders      repository.OrderRepository
	codes       repository.ActivationCodeRepository

	subscriptionSvc SubscriptionService
	authSvc         AuthService
	restaurantSvc   RestaurantService
	productSvc      ProductService
	orderSvc        OrderService
	billingSvc      BillingService

	events *recordingPublisher
	mail   *recordingMail
}

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := client.InitDBClient(config.Database{Driver: "sqlite", URL: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.CloseDBClient(db) })

	lg := quietLogger()
	e := &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		restaurants: repository.NewRestaurantRepository(db),
		subs:        repository.NewSubscriptionRepository(db),
		products:    repository.NewProductRepository(db),
		orders:      repository.NewOrderRepository(db),
		codes:       repository.NewActivationCodeRepository(db),
		events:      &recordingPublisher{},
		mail:        &recordingMail{},
	}

	authCfg := config.Auth{JWTSecret: "test", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost, ResetTTL: time.Hour}
	e.subscriptionSvc = NewSubscriptionService(db, 7, e.restaurants, e.subs, lg)
	e.authSvc = NewAuthService(db, authCfg, 7, "http://web.test", e.mail, e.users, e.restaurants, e.subs, lg)
	e.restaurantSvc = NewRestaurantService(db, 7, e.users, e.restaurants, e.subs, e.products, e.subscriptionSvc)
	e.productSvc = NewProductService(db, e.products)
	e.orderSvc = NewOrderService(db, e.restaurants, e.subs, e.products, e.orders, e.events, lg)
	e.billingSvc = NewBillingService(db, "5595991143280", e.restaurants, e.subs, e.codes, lg)

	return e
}

// merchant creates a user with an open restaurant. sub may be nil.
func (e *testEnv) merchant(t *testing.T, sub *model.Subscription) (*model.User, *model.Restaurant) {
	t.Helper()
	ctx := context.Background()

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         "Dona Maria",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         model.RoleMerchant,
		Active:       true,
	}
	require.NoError(t, e.users.Create(ctx, nil, user))

	restaurant := &model.Restaurant{
		ID:      uuid.NewString(),
		OwnerID: user.ID,
		Name:    "Cantina da Maria",
		IsOpen:  true,
	}
	require.NoError(t, e.restaurants.Create(ctx, nil, restaurant))

	if sub != nil {
		sub.ID = uuid.NewString()
		sub.RestaurantID = restaurant.ID
		require.NoError(t, e.subs.Create(ctx, nil, sub))
	}
	return user, restaurant
}

func (e *testEnv) product(t *testing.T, restaurantID, name string, price int64) *model.Product {
	t.Helper()
	p := &model.Product{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         name,
		PriceCents:   price,
		Active:       true,
	}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func (e *testEnv) subscriptionOf(t *testing.T, restaurantID string) *model.Subscription {
	t.Helper()
	sub, err := e.subs.FindByRestaurant(context.Background(), nil, restaurantID)
	require.NoError(t, err)
	return sub
}

func trialUntil(end time.Time) *model.Subscription {
	return &model.Subscription{Status: model.SubscriptionTrial, TrialEndsAt: &end}
}

func activeUntil(end time.Time) *model.Subscription {
	return &model.Subscription{Status: model.SubscriptionActive, PaidUntil: &end}
}

func ptr[T any](v T) *T { return &v }
