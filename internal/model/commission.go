package model

const (
	CommissionStatusPending  = "pending"
	CommissionStatusApproved = "approved"
	CommissionStatusPaid     = "paid"
)

type Commission struct {
	ID          string  `json:"id"`
	PartnerID   string  `json:"partner_id"`
	OrderID     *string `json:"order_id"`
	AmountCents int64   `json:"amount_cents"`
	Status      string  `json:"status"`
	ApprovedAt  *int64  `json:"approved_at"`
	Ctime       int64   `json:"ctime"`
}

// CommissionTotals aggregates a partner's commission amounts by status.
type CommissionTotals struct {
	PendingCents  int64 `json:"pending_cents"`
	ApprovedCents int64 `json:"approved_cents"`
	PaidCents     int64 `json:"paid_cents"`
}
