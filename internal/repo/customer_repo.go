package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/memoriqr/memoriqr/internal/model"
	"github.com/memoriqr/memoriqr/internal/pkg/dbutil"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) GetByID(ctx context.Context, customerID string) (*model.Customer, error) {
	where := map[string]interface{}{"id": customerID}
	sqlStr, args, err := builder.BuildSelect("customers", where, []string{"id", "email", "full_name", "ctime"})
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
	var customer model.Customer
	if err := rows.Scan(&customer.ID, &customer.Email, &customer.FullName, &customer.Ctime); err != nil {
		return nil, err
	}
	return &customer, nil
}
