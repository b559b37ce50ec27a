package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/memoriqr/memoriqr/internal/model"
	"github.com/memoriqr/memoriqr/internal/pkg/dbutil"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type EditVerificationRepo struct {
	db *sql.DB
}

func NewEditVerificationRepo(db *sql.DB) *EditVerificationRepo {
	return &EditVerificationRepo{db: db}
}

func (r *EditVerificationRepo) Create(ctx context.Context, item *model.EditVerificationCode) error {
	data := map[string]interface{}{
		"id":          item.ID,
		"memorial_id": item.MemorialID,
		"kind":        item.Kind,
		"code":        item.Code,
		"email":       item.Email,
		"used_at":     item.UsedAt,
		"expires_at":  item.ExpiresAt,
		"ctime":       item.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("edit_verification_codes", []map[string]interface{}{data})
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

// Consume marks the matching live row used and returns it, all in one
// statement, so two concurrent verifications cannot both win.
func (r *EditVerificationRepo) Consume(ctx context.Context, memorialID, kind, code string, now int64) (*model.EditVerificationCode, error) {
	const sqlStr = `UPDATE edit_verification_codes SET used_at = $1
WHERE id = (
    SELECT id FROM edit_verification_codes
    WHERE memorial_id = $2 AND kind = $3 AND code = $4 AND used_at IS NULL
    ORDER BY ctime DESC LIMIT 1
)
RETURNING id, memorial_id, kind, code, email, used_at, expires_at, ctime`
	row := r.db.QueryRowContext(ctx, sqlStr, now, memorialID, kind, code)
	var item model.EditVerificationCode
	if err := row.Scan(&item.ID, &item.MemorialID, &item.Kind, &item.Code, &item.Email, &item.UsedAt, &item.ExpiresAt, &item.Ctime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetActive returns the live row (unused and unexpired) for the code
// value, scoped to one memorial.
func (r *EditVerificationRepo) GetActive(ctx context.Context, memorialID, kind, code string, now int64) (*model.EditVerificationCode, error) {
	const sqlStr = `SELECT id, memorial_id, kind, code, email, used_at, expires_at, ctime
FROM edit_verification_codes
WHERE memorial_id = $1 AND kind = $2 AND code = $3 AND used_at IS NULL AND expires_at > $4
ORDER BY ctime DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, sqlStr, memorialID, kind, code, now)
	var item model.EditVerificationCode
	if err := row.Scan(&item.ID, &item.MemorialID, &item.Kind, &item.Code, &item.Email, &item.UsedAt, &item.ExpiresAt, &item.Ctime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetLatest ignores the used/expired state; the verify flow uses it to
// tell a replayed code apart from a wrong one.
func (r *EditVerificationRepo) GetLatest(ctx context.Context, memorialID, kind, code string) (*model.EditVerificationCode, error) {
	const sqlStr = `SELECT id, memorial_id, kind, code, email, used_at, expires_at, ctime
FROM edit_verification_codes
WHERE memorial_id = $1 AND kind = $2 AND code = $3
ORDER BY ctime DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, sqlStr, memorialID, kind, code)
	var item model.EditVerificationCode
	if err := row.Scan(&item.ID, &item.MemorialID, &item.Kind, &item.Code, &item.Email, &item.UsedAt, &item.ExpiresAt, &item.Ctime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// DeleteUnusedCodes clears pending one-time codes before issuing a new
// one. Session rows are never touched here.
func (r *EditVerificationRepo) DeleteUnusedCodes(ctx context.Context, memorialID string) error {
	const sqlStr = `DELETE FROM edit_verification_codes WHERE memorial_id = $1 AND kind = $2 AND used_at IS NULL`
	_, err := r.db.ExecContext(ctx, sqlStr, memorialID, model.EditVerificationKindCode)
	return err
}

// DeleteDead removes used or expired rows older than the cutoff.
func (r *EditVerificationRepo) DeleteDead(ctx context.Context, now int64) (int64, error) {
	const sqlStr = `DELETE FROM edit_verification_codes WHERE used_at IS NOT NULL OR expires_at <= $1`
	result, err := r.db.ExecContext(ctx, sqlStr, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
