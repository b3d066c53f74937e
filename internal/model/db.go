package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey;size:36;not null" json:"id"`
	Name         string `gorm:"size:120;not null" json:"name"`
	Email        string `gorm:"size:191;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         Role   `gorm:"size:16;not null" json:"role"`
	Active       bool   `gorm:"not null" json:"active"`

	// sha256 of the emailed reset token, never the raw token
	ResetTokenHash      *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	PushToken *string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Restaurant struct {
	ID          string  `gorm:"primaryKey;size:36;not null" json:"id"`
	OwnerID     string  `gorm:"size:36;uniqueIndex;not null" json:"ownerId"` // one restaurant per merchant
	Name        string  `gorm:"size:160;not null" json:"name"`
	Description *string `gorm:"size:500" json:"description"`
	Phone       *string `gorm:"size:32" json:"phone"`
	Address     *string `gorm:"size:255" json:"address"`
	IsOpen      bool    `gorm:"not null;index" json:"isOpen"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Subscription struct {
	ID           string             `gorm:"primaryKey;size:36;not null" json:"id"`
	RestaurantID string             `gorm:"size:36;uniqueIndex;not null" json:"restaurantId"`
	Status       SubscriptionStatus `gorm:"size:16;index;not null" json:"status"` // TRIAL, ACTIVE, EXPIRED, CANCELED
	TrialEndsAt  *time.Time         `json:"trialEndsAt"`
	PaidUntil    *time.Time         `json:"paidUntil"`
	PlanType     *string            `gorm:"size:16" json:"planType"` // MONTHLY, YEARLY

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Product struct {
	ID           string  `gorm:"primaryKey;size:36;not null" json:"id"`
	RestaurantID string  `gorm:"size:36;index;not null" json:"restaurantId"`
	Name         string  `gorm:"size:160;not null" json:"name"`
	Description  *string `gorm:"size:500" json:"description"`
	ImageURL     *string `gorm:"size:500" json:"imageUrl"`
	PriceCents   int64   `gorm:"not null" json:"priceCents"` // authoritative price
	Active       bool    `gorm:"not null;index" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Order struct {
	ID                 string        `gorm:"primaryKey;size:36;not null" json:"id"`
	RestaurantID       string        `gorm:"size:36;index;not null" json:"restaurantId"`
	CustomerName       *string       `gorm:"size:160" json:"customerName"`
	CustomerPhone      *string       `gorm:"size:32" json:"customerPhone"`
	DeliveryAddress    *string       `gorm:"size:255" json:"deliveryAddress"`
	TotalCents         int64         `gorm:"not null" json:"totalCents"` // sum of item snapshots
	Status             OrderStatus   `gorm:"size:24;index;not null" json:"status"`
	PaymentMethod      PaymentMethod `gorm:"size:16;not null" json:"paymentMethod"`
	CashChangeForCents *int64        `json:"cashChangeForCents"`
	Paid               bool          `gorm:"not null" json:"paid"`

	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OrderItem struct {
	ID string `gorm:"primaryKey;size:36;not null" json:"id"`
	// FK → orders.id
	OrderID string `gorm:"size:36;index;not null" json:"orderId"`
	// FK → products.id, blocks product deletion
	ProductID      string `gorm:"size:36;index;not null" json:"productId"`
	Quantity       int    `gorm:"not null" json:"quantity"`
	UnitPriceCents int64  `gorm:"not null" json:"unitPriceCents"`
	NameSnapshot   string `gorm:"size:160;not null" json:"nameSnapshot"`

	CreatedAt time.Time `json:"createdAt"`
}

type ActivationCode struct {
	ID       string     `gorm:"primaryKey;size:36;not null" json:"id"`
	Code     string     `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Plan     string     `gorm:"size:16;not null" json:"plan"` // monthly, yearly
	Days     int        `gorm:"not null" json:"days"`
	UsedAt   *time.Time `json:"usedAt"`
	UsedByID *string    `gorm:"size:36" json:"usedById"`

	CreatedAt time.Time `json:"createdAt"`
}

// All lists every table, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Restaurant{},
		&Subscription{},
		&Product{},
		&Order{},
		&OrderItem{},
		&ActivationCode{},
	}
}
