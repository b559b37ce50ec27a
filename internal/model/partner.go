package model

type Partner struct {
	ID             string  `json:"id"`
	PartnerName    string  `json:"partner_name"`
	PartnerType    string  `json:"partner_type"`
	ContactEmail   string  `json:"contact_email"`
	CommissionRate float64 `json:"commission_rate"`
	IsActive       bool    `json:"is_active"`
	LastLogin      *int64  `json:"last_login"`
	LoginCount     int     `json:"login_count"`
	Ctime          int64   `json:"ctime"`
}

type PartnerLoginCode struct {
	ID        string `json:"id"`
	PartnerID string `json:"partner_id"`
	CodeHash  string `json:"-"`
	UsedAt    *int64 `json:"used_at"`
	ExpiresAt int64  `json:"expires_at"`
	Ctime     int64  `json:"ctime"`
}

type PartnerSession struct {
	ID              string `json:"id"`
	PartnerID       string `json:"partner_id"`
	SessionToken    string `json:"-"`
	IsTrustedDevice bool   `json:"is_trusted_device"`
	IPAddress       string `json:"ip_address"`
	UserAgent       string `json:"user_agent"`
	ExpiresAt       int64  `json:"expires_at"`
	Ctime           int64  `json:"ctime"`
}
