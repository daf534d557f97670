package domain

// PromoCode grants a premium term a limited number of times. Codes are stored
// canonicalized upper-case; redemption decrements UsesRemaining exactly once
// per successful call.
type PromoCode struct {
	Code          string `json:"code"`
	Grant         Term   `json:"grant"`
	UsesRemaining int    `json:"uses_remaining"`
}
