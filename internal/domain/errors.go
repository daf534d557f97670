package domain

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrPromoNotFound      = errors.New("promo not found")
	ErrPromoExhausted     = errors.New("promo exhausted")
	ErrQuotaExceeded      = errors.New("daily quota exceeded")
	ErrBotDisabled        = errors.New("bot disabled")
	ErrActiveRequest      = errors.New("active request exists")
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrBackendUnavailable = errors.New("backend unavailable")
)
