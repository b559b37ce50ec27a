package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/memoriqr/memoriqr/internal/model"
	"github.com/memoriqr/memoriqr/internal/pkg/dbutil"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	where := map[string]interface{}{"order_number": orderNumber}
	sqlStr, args, err := builder.BuildSelect("orders", where, []string{"id", "order_number", "order_status", "memorial_id", "product_type", "hosting_duration", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var order model.Order
	if err := rows.Scan(&order.ID, &order.OrderNumber, &order.OrderStatus, &order.MemorialID, &order.ProductType, &order.HostingDuration, &order.Ctime); err != nil {
		return nil, err
	}
	return &order, nil
}
