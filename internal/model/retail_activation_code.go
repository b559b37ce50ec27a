package model

type RetailActivationCode struct {
	ID              string  `json:"id"`
	ActivationCode  string  `json:"activation_code"`
	ProductType     string  `json:"product_type"`
	HostingDuration int     `json:"hosting_duration"`
	IsUsed          bool    `json:"is_used"`
	UsedAt          *int64  `json:"used_at"`
	ExpiresAt       *int64  `json:"expires_at"`
	PartnerID       *string `json:"partner_id"`
	BatchID         *string `json:"batch_id"`
	Ctime           int64   `json:"ctime"`
}
