package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyBasket       = errors.New("basket is empty")
	ErrInvalidCoupon     = errors.New("invalid coupon code")
	ErrInvalidSale       = errors.New("invalid sale")
	ErrCheckoutFailed    = errors.New("checkout failed")
	ErrUnavailable       = errors.New("unavailable")
	ErrConflict          = errors.New("concurrent update conflict")
)
