package handler

import (
	"errors"
	"fmt"
	"net/http"

	"cardapiopro-backend/internal/domain"
	"cardapiopro-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// RequestError is a malformed or invalid request body.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var sentinelStatus = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, ""},
	{service.ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN"},
	{service.ErrInvalidResetToken, http.StatusBadRequest, "INVALID_TOKEN"},
	{service.ErrUserNotFound, http.StatusNotFound, ""},
	{service.ErrNoRestaurant, http.StatusBadRequest, "NO_RESTAURANT"},
	{service.ErrRestaurantExists, http.StatusConflict, ""},
	{service.ErrRestaurantNotFound, http.StatusNotFound, ""},
	{service.ErrRestaurantIDRequired, http.StatusBadRequest, ""},
	{service.ErrProductNotFound, http.StatusNotFound, ""},
	{service.ErrProductInUse, http.StatusConflict, "PRODUCT_IN_USE"},
	{service.ErrOrderNotFound, http.StatusNotFound, ""},
	{service.ErrStatusRequired, http.StatusBadRequest, ""},
	{service.ErrOrderChanged, http.StatusConflict, ""},
	{service.ErrCodeRequired, http.StatusBadRequest, ""},
	{service.ErrInvalidCode, http.StatusBadRequest, "INVALID_CODE"},
	{service.ErrCodeAlreadyUsed, http.StatusBadRequest, "ALREADY_USED"},
	{service.ErrInvalidPlan, http.StatusBadRequest, "INVALID_PLAN"},
	{service.ErrCodeCollision, http.StatusInternalServerError, ""},
}

// Translate maps an error to the HTTP status and body sent to the client.
func Translate(err error) (int, interface{}) {
	var (
		reqErr        *RequestError
		admissionErr  *domain.AdmissionError
		validationErr *domain.ValidationError
		transitionErr *domain.TransitionError
		gateErr       *service.SubscriptionGateError
		httpErr       *echo.HTTPError
	)

	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, errorBody{Error: reqErr.Message}
	case errors.As(err, &admissionErr):
		return admissionStatus(admissionErr.Code), errorBody{Error: admissionErr.Message, Code: string(admissionErr.Code)}
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, errorBody{Error: validationErr.Message, Code: string(validationErr.Code)}
	case errors.As(err, &transitionErr):
		return http.StatusBadRequest, errorBody{Error: transitionErr.Error(), Code: "INVALID_TRANSITION"}
	case errors.As(err, &gateErr):
		return http.StatusPaymentRequired, errorBody{Error: gateErr.Message, Code: gateErr.Code}
	case errors.As(err, &httpErr):
		return httpErr.Code, errorBody{Error: fmt.Sprint(httpErr.Message)}
	}

	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return s.status, errorBody{Error: s.err.Error(), Code: s.code}
		}
	}
	return http.StatusInternalServerError, errorBody{Error: "Erro interno"}
}

func admissionStatus(code domain.RejectCode) int {
	switch code {
	case domain.RejectRestaurantNotFound:
		return http.StatusNotFound
	case domain.RejectRestaurantClosed:
		return http.StatusBadRequest
	default:
		return http.StatusPaymentRequired
	}
}

// ErrorHandler replaces echo's default so handlers can return service errors
// as they are.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := Translate(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return &RequestError{Message: "JSON inválido"}
	}
	return c.Validate(req)
}
