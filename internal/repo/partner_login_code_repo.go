package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/memoriqr/memoriqr/internal/model"
	"github.com/memoriqr/memoriqr/internal/pkg/dbutil"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type PartnerLoginCodeRepo struct {
	db *sql.DB
}

func NewPartnerLoginCodeRepo(db *sql.DB) *PartnerLoginCodeRepo {
	return &PartnerLoginCodeRepo{db: db}
}

func (r *PartnerLoginCodeRepo) Create(ctx context.Context, item *model.PartnerLoginCode) error {
	data := map[string]interface{}{
		"id":         item.ID,
		"partner_id": item.PartnerID,
		"code_hash":  item.CodeHash,
		"used_at":    item.UsedAt,
		"expires_at": item.ExpiresAt,
		"ctime":      item.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("partner_login_codes", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *PartnerLoginCodeRepo) DeleteByPartner(ctx context.Context, partnerID string) error {
	where := map[string]interface{}{"partner_id": partnerID}
	sqlStr, args, err := builder.BuildDelete("partner_login_codes", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// ListUnused returns pending codes for the partner, newest first. The
// caller compares the entered code against each bcrypt hash.
func (r *PartnerLoginCodeRepo) ListUnused(ctx context.Context, partnerID string) ([]*model.PartnerLoginCode, error) {
	const sqlStr = `SELECT id, partner_id, code_hash, used_at, expires_at, ctime
FROM partner_login_codes WHERE partner_id = $1 AND used_at IS NULL ORDER BY ctime DESC`
	rows, err := r.db.QueryContext(ctx, sqlStr, partnerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []*model.PartnerLoginCode
	for rows.Next() {
		var item model.PartnerLoginCode
		if err := rows.Scan(&item.ID, &item.PartnerID, &item.CodeHash, &item.UsedAt, &item.ExpiresAt, &item.Ctime); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// DeleteDead removes codes that are used or past expiry.
func (r *PartnerLoginCodeRepo) DeleteDead(ctx context.Context, now int64) (int64, error) {
	const sqlStr = `DELETE FROM partner_login_codes WHERE used_at IS NOT NULL OR expires_at <= $1`
	result, err := r.db.ExecContext(ctx, sqlStr, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Consume marks a code used only if it is still unused.
func (r *PartnerLoginCodeRepo) Consume(ctx context.Context, id string, now int64) error {
	const sqlStr = `UPDATE partner_login_codes SET used_at = $1 WHERE id = $2 AND used_at IS NULL`
	result, err := r.db.ExecContext(ctx, sqlStr, now, id)
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
