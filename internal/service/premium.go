package service

import (
	"github.com/olehsv/kinobot/internal/domain"
	"github.com/shopspring/decimal"
)

// PremiumOption is a purchasable premium tier shown on the premium screen.
// The bot takes no payment itself; users arrange it through the support
// contact, so the price is display-only.
type PremiumOption struct {
	Label    string
	PriceUAH decimal.Decimal
	Term     domain.Term
}

func PremiumOptions() []PremiumOption {
	return []PremiumOption{
		{Label: "1 місяць", PriceUAH: decimal.NewFromInt(100), Term: domain.Term{Seconds: 2592000}},
		{Label: "6 місяців", PriceUAH: decimal.NewFromInt(500), Term: domain.Term{Seconds: 6 * 2592000}},
		{Label: "1 рік", PriceUAH: decimal.NewFromInt(900), Term: domain.Term{Seconds: 31536000}},
	}
}
