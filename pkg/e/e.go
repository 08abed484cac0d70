package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// 401 / 403
	ErrUnauthorized = fmt.Errorf("unauthorized: sign in required")
	ErrForbidden    = fmt.Errorf("forbidden: admin access required")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrOrderNotFound   = fmt.Errorf("order not found")
	ErrLeadNotFound    = fmt.Errorf("lead not found")
	ErrUserNotFound    = fmt.Errorf("user not found")

	// 409 Conflict
	ErrInsufficientStock = fmt.Errorf("insufficient stock")
	ErrDuplicateName     = fmt.Errorf("product name already taken")
	ErrReferenceTaken    = fmt.Errorf("order reference already taken")

	// 400 Bad Request
	ErrProductNameRequired = fmt.Errorf("product name is required")
	ErrPriceMustBePositive = fmt.Errorf("price must be positive")
	ErrInvalidPrice        = fmt.Errorf("invalid price")
	ErrPricePrecision      = fmt.Errorf("price must have at most 2 decimal places")
	ErrNegativeStock       = fmt.Errorf("stock must not be negative")
	ErrInvalidQuantity     = fmt.Errorf("quantity must be positive")
	ErrInvalidStatus       = fmt.Errorf("invalid status")
	ErrInvalidRole         = fmt.Errorf("invalid role")
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrMissingFields       = fmt.Errorf("missing required fields")

	// Вебхук провайдера идентификации
	ErrInvalidSignature = fmt.Errorf("invalid webhook signature")

	// 500
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
