package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/memoriqr/memoriqr/internal/model"
	"github.com/memoriqr/memoriqr/internal/pkg/dbutil"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type PartnerSessionRepo struct {
	db *sql.DB
}

func NewPartnerSessionRepo(db *sql.DB) *PartnerSessionRepo {
	return &PartnerSessionRepo{db: db}
}

func (r *PartnerSessionRepo) Create(ctx context.Context, item *model.PartnerSession) error {
	data := map[string]interface{}{
		"id":                item.ID,
		"partner_id":        item.PartnerID,
		"session_token":     item.SessionToken,
		"is_trusted_device": item.IsTrustedDevice,
		"ip_address":        item.IPAddress,
		"user_agent":        item.UserAgent,
		"expires_at":        item.ExpiresAt,
		"ctime":             item.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("partner_sessions", []map[string]interface{}{data})
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

func (r *PartnerSessionRepo) GetByToken(ctx context.Context, token string) (*model.PartnerSession, error) {
	const sqlStr = `SELECT id, partner_id, session_token, is_trusted_device, ip_address, user_agent, expires_at, ctime
FROM partner_sessions WHERE session_token = $1`
	row := r.db.QueryRowContext(ctx, sqlStr, token)
	var item model.PartnerSession
	if err := row.Scan(&item.ID, &item.PartnerID, &item.SessionToken, &item.IsTrustedDevice, &item.IPAddress, &item.UserAgent, &item.ExpiresAt, &item.Ctime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PartnerSessionRepo) DeleteByID(ctx context.Context, id string) error {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildDelete("partner_sessions", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *PartnerSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	where := map[string]interface{}{"session_token": token}
	sqlStr, args, err := builder.BuildDelete("partner_sessions", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *PartnerSessionRepo) UpdateExpiry(ctx context.Context, id string, expiresAt int64) error {
	where := map[string]interface{}{"id": id}
	update := map[string]interface{}{"expires_at": expiresAt}
	sqlStr, args, err := builder.BuildUpdate("partner_sessions", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// DeleteTrustedByPartner removes trusted-device sessions for a partner,
// optionally sparing one token (the caller's own session).
func (r *PartnerSessionRepo) DeleteTrustedByPartner(ctx context.Context, partnerID, excludeToken string) (int64, error) {
	const sqlStr = `DELETE FROM partner_sessions WHERE partner_id = $1 AND is_trusted_device = TRUE AND session_token <> $2`
	result, err := r.db.ExecContext(ctx, sqlStr, partnerID, excludeToken)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Demote converts a trusted session to a standard one with a fresh
// short expiry, rather than deleting it out from under the caller.
func (r *PartnerSessionRepo) Demote(ctx context.Context, token string, expiresAt int64) error {
	where := map[string]interface{}{"session_token": token}
	update := map[string]interface{}{"is_trusted_device": false, "expires_at": expiresAt}
	sqlStr, args, err := builder.BuildUpdate("partner_sessions", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *PartnerSessionRepo) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	const sqlStr = `DELETE FROM partner_sessions WHERE expires_at <= $1`
	result, err := r.db.ExecContext(ctx, sqlStr, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
