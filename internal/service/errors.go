package service

import (
	"errors"

	"cardapiopro-backend/internal/model"
)

// Sentinel errors carry the message shown to API clients.
var (
	ErrInvalidCredentials = errors.New("Credenciais inválidas")
	ErrEmailTaken         = errors.New("E-mail já cadastrado")
	ErrInvalidResetToken  = errors.New("Token inválido ou expirado")
	ErrUserNotFound       = errors.New("Usuário não encontrado")

	ErrNoRestaurant         = errors.New("Sem restaurante cadastrado")
	ErrRestaurantExists     = errors.New("Usuário já possui restaurante")
	ErrRestaurantNotFound   = errors.New("Restaurante não encontrado")
	ErrRestaurantIDRequired = errors.New("restaurantId é obrigatório")

	ErrProductNotFound = errors.New("Produto não encontrado")
	ErrProductInUse    = errors.New("Não é possível excluir este produto porque ele já foi usado em pedidos. Desative o produto em vez de excluir.")

	ErrOrderNotFound   = errors.New("Pedido não encontrado")
	ErrStatusRequired  = errors.New("status é obrigatório")
	ErrOrderChanged    = errors.New("Pedido foi alterado por outra requisição, recarregue e tente novamente")
	ErrCodeRequired    = errors.New("Código é obrigatório")
	ErrInvalidCode     = errors.New("Código inválido")
	ErrCodeAlreadyUsed = errors.New("Este código já foi utilizado")
	ErrInvalidPlan     = errors.New("Plano inválido")
	ErrCodeCollision   = errors.New("Falha ao gerar código (colisão)")
)

const (
	GateSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	GateSubscriptionExpired  = "SUBSCRIPTION_EXPIRED"
)

// SubscriptionGateError is returned by the merchant gate when the account is
// locked out. Subscription is the state that was observed.
type SubscriptionGateError struct {
	Code         string
	Message      string
	Subscription *model.Subscription
}

func (e *SubscriptionGateError) Error() string {
	return e.Message
}

// Logger is the subset of the gommon logger the services use.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
