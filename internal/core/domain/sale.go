package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type CouponCode string

const (
	CouponBlackFriday CouponCode = "BFRIDAY"
	CouponXmas2024    CouponCode = "XMAS2024"
	CouponNewYear2024 CouponCode = "NEWYEAR2024"
)

var knownCoupons = map[CouponCode]struct{}{
	CouponBlackFriday: {},
	CouponXmas2024:    {},
	CouponNewYear2024: {},
}

func ParseCouponCode(s string) (CouponCode, error) {
	const op = "ParseCouponCode"

	code := CouponCode(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := knownCoupons[code]; !ok {
		return "", fmt.Errorf("%s: %w: %q", op, ErrInvalidCoupon, s)
	}
	return code, nil
}

const (
	saleTitleMinLen       = 3
	saleTitleMaxLen       = 100
	saleDescriptionMaxLen = 500
	couponCodeMaxLen      = 20
)

type Sale struct {
	SaleID         string
	Title          string
	Description    string
	DiscountAmount float64
	CouponCode     CouponCode
	ValidFrom      time.Time
	ValidUntil     time.Time
	IsActive       bool
}

func (s Sale) Validate() error {
	const op = "Sale.Validate"

	var problems []string

	titleLen := utf8.RuneCountInString(s.Title)
	if titleLen < saleTitleMinLen || titleLen > saleTitleMaxLen {
		problems = append(problems, fmt.Sprintf(
			"title should be between %d and %d characters",
			saleTitleMinLen, saleTitleMaxLen,
		))
	}
	if s.Description == "" {
		problems = append(problems, "description is required")
	}
	if utf8.RuneCountInString(s.Description) > saleDescriptionMaxLen {
		problems = append(problems, fmt.Sprintf(
			"description should not exceed %d characters", saleDescriptionMaxLen,
		))
	}
	if s.DiscountAmount < 0 {
		problems = append(problems, "discount amount must not be negative")
	}
	if s.CouponCode == "" || len(s.CouponCode) > couponCodeMaxLen {
		problems = append(problems, fmt.Sprintf(
			"coupon code is required and should not exceed %d characters",
			couponCodeMaxLen,
		))
	}
	if s.ValidFrom.IsZero() || s.ValidUntil.IsZero() {
		problems = append(problems, "validity period is required")
	} else if s.ValidUntil.Before(s.ValidFrom) {
		problems = append(problems, "valid until precedes valid from")
	}

	if len(problems) != 0 {
		return fmt.Errorf(
			"%s: %w: %s", op, ErrInvalidSale, strings.Join(problems, ", "),
		)
	}
	return nil
}

// ActiveAt reports whether the sale applies at t. Both period bounds
// are inclusive.
func (s Sale) ActiveAt(t time.Time) bool {
	if !s.IsActive {
		return false
	}
	return !t.Before(s.ValidFrom) && !t.After(s.ValidUntil)
}

func (s Sale) Status() string {
	if s.IsActive {
		return "Active"
	}
	return "Inactive"
}

// Summary renders the sale the way the content studio previews it.
func (s Sale) Summary() string {
	return fmt.Sprintf(
		"%v%% off - Code: %s - %s", s.DiscountAmount, s.CouponCode, s.Status(),
	)
}
