package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/memoriqr/memoriqr/internal/model"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type PartnerRepo struct {
	db *sql.DB
}

func NewPartnerRepo(db *sql.DB) *PartnerRepo {
	return &PartnerRepo{db: db}
}

func scanPartner(row *sql.Row) (*model.Partner, error) {
	var p model.Partner
	if err := row.Scan(&p.ID, &p.PartnerName, &p.PartnerType, &p.ContactEmail, &p.CommissionRate, &p.IsActive, &p.LastLogin, &p.LoginCount, &p.Ctime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByEmail matches case-insensitively and prefers the newest account
// when one email owns several.
func (r *PartnerRepo) GetByEmail(ctx context.Context, email string) (*model.Partner, error) {
	const sqlStr = `SELECT id, partner_name, partner_type, contact_email, commission_rate, is_active, last_login, login_count, ctime
FROM partners WHERE LOWER(contact_email) = $1 ORDER BY ctime DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, sqlStr, strings.ToLower(email))
	return scanPartner(row)
}

func (r *PartnerRepo) GetByID(ctx context.Context, partnerID string) (*model.Partner, error) {
	const sqlStr = `SELECT id, partner_name, partner_type, contact_email, commission_rate, is_active, last_login, login_count, ctime
FROM partners WHERE id = $1`
	row := r.db.QueryRowContext(ctx, sqlStr, partnerID)
	return scanPartner(row)
}

func (r *PartnerRepo) TouchLogin(ctx context.Context, partnerID string, now int64) error {
	const sqlStr = `UPDATE partners SET last_login = $1, login_count = login_count + 1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, sqlStr, now, partnerID)
	return err
}
