package domain

// Settings holds bot-wide switches controlled by admins.
type Settings struct {
	// Enabled gates all non-admin interaction. When false the bot answers
	// with a maintenance notice and performs no billing or mutation.
	Enabled bool `json:"enabled"`
}

// Snapshot is the full persisted state: everything the store owns, in one
// document. Instants round-trip as RFC 3339 with offset; dates as 2006-01-02;
// a forever premium keeps a null until.
type Snapshot struct {
	Accounts   []*Account   `json:"accounts"`
	PromoCodes []*PromoCode `json:"promo_codes"`
	Settings   Settings     `json:"settings"`
}
