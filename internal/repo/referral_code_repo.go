package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/memoriqr/memoriqr/internal/model"
	"github.com/memoriqr/memoriqr/internal/pkg/dbutil"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type ReferralCodeRepo struct {
	db *sql.DB
}

func NewReferralCodeRepo(db *sql.DB) *ReferralCodeRepo {
	return &ReferralCodeRepo{db: db}
}

func (r *ReferralCodeRepo) GetByCode(ctx context.Context, code string) (*model.ReferralCode, error) {
	where := map[string]interface{}{"code": code}
	sqlStr, args, err := builder.BuildSelect("referral_codes", where, []string{"id", "code", "partner_id", "discount_percent", "free_shipping", "is_used", "expires_at", "ctime"})
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
	var item model.ReferralCode
	if err := rows.Scan(&item.ID, &item.Code, &item.PartnerID, &item.DiscountPercent, &item.FreeShipping, &item.IsUsed, &item.ExpiresAt, &item.Ctime); err != nil {
		return nil, err
	}
	return &item, nil
}
