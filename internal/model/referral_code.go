package model

type ReferralCode struct {
	ID              string `json:"id"`
	Code            string `json:"code"`
	PartnerID       string `json:"partner_id"`
	DiscountPercent int    `json:"discount_percent"`
	FreeShipping    bool   `json:"free_shipping"`
	IsUsed          bool   `json:"is_used"`
	ExpiresAt       *int64 `json:"expires_at"`
	Ctime           int64  `json:"ctime"`
}
