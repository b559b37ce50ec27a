package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/memoriqr/memoriqr/internal/model"
	"github.com/memoriqr/memoriqr/internal/pkg/dbutil"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type ActivationCodeRepo struct {
	db *sql.DB
}

func NewActivationCodeRepo(db *sql.DB) *ActivationCodeRepo {
	return &ActivationCodeRepo{db: db}
}

var activationCodeFields = []string{"id", "activation_code", "product_type", "hosting_duration", "is_used", "used_at", "expires_at", "partner_id", "batch_id", "ctime"}

func (r *ActivationCodeRepo) GetByCode(ctx context.Context, code string) (*model.RetailActivationCode, error) {
	where := map[string]interface{}{"activation_code": code}
	sqlStr, args, err := builder.BuildSelect("retail_activation_codes", where, activationCodeFields)
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
	var item model.RetailActivationCode
	if err := rows.Scan(&item.ID, &item.ActivationCode, &item.ProductType, &item.HostingDuration, &item.IsUsed, &item.UsedAt, &item.ExpiresAt, &item.PartnerID, &item.BatchID, &item.Ctime); err != nil {
		return nil, err
	}
	return &item, nil
}

// Consume flips is_used in one conditional statement so a code can only
// ever be consumed by a single caller.
func (r *ActivationCodeRepo) Consume(ctx context.Context, code string, now int64) error {
	const sqlStr = `UPDATE retail_activation_codes SET is_used = TRUE, used_at = $1 WHERE activation_code = $2 AND is_used = FALSE`
	result, err := r.db.ExecContext(ctx, sqlStr, now, code)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrCodeUsed
	}
	return nil
}

func (r *ActivationCodeRepo) Create(ctx context.Context, item *model.RetailActivationCode) error {
	data := map[string]interface{}{
		"id":               item.ID,
		"activation_code":  item.ActivationCode,
		"product_type":     item.ProductType,
		"hosting_duration": item.HostingDuration,
		"is_used":          item.IsUsed,
		"used_at":          item.UsedAt,
		"expires_at":       item.ExpiresAt,
		"partner_id":       item.PartnerID,
		"batch_id":         item.BatchID,
		"ctime":            item.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("retail_activation_codes", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}
