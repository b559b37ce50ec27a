package model

const OrderStatusPaid = "paid"

type Order struct {
	ID              string  `json:"id"`
	OrderNumber     string  `json:"order_number"`
	OrderStatus     string  `json:"order_status"`
	MemorialID      *string `json:"memorial_id"`
	ProductType     string  `json:"product_type"`
	HostingDuration int     `json:"hosting_duration"`
	Ctime           int64   `json:"ctime"`
}
