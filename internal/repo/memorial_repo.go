package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/memoriqr/memoriqr/internal/model"
	"github.com/memoriqr/memoriqr/internal/pkg/dbutil"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type MemorialRepo struct {
	db *sql.DB
}

func NewMemorialRepo(db *sql.DB) *MemorialRepo {
	return &MemorialRepo{db: db}
}

var memorialFields = []string{"id", "memorial_slug", "edit_token", "customer_id", "deceased_name", "deceased_type", "species", "birth_date", "death_date", "memorial_text", "theme", "frame", "photos_json", "videos_json", "hosting_duration", "product_type", "hosting_expires_at", "reminder_sent_at", "ctime", "mtime"}

func (r *MemorialRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.MemorialRecord, error) {
	sqlStr, args, err := builder.BuildSelect("memorial_records", where, memorialFields)
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
	return scanMemorial(rows)
}

func scanMemorial(rows *sql.Rows) (*model.MemorialRecord, error) {
	var m model.MemorialRecord
	if err := rows.Scan(&m.ID, &m.Slug, &m.EditToken, &m.CustomerID, &m.DeceasedName, &m.DeceasedType, &m.Species, &m.BirthDate, &m.DeathDate, &m.MemorialText, &m.Theme, &m.Frame, &m.PhotosJSON, &m.VideosJSON, &m.HostingDuration, &m.ProductType, &m.HostingExpiresAt, &m.ReminderSentAt, &m.Ctime, &m.Mtime); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemorialRepo) GetByEditToken(ctx context.Context, editToken string) (*model.MemorialRecord, error) {
	return r.getOne(ctx, map[string]interface{}{"edit_token": editToken})
}

func (r *MemorialRepo) GetBySlug(ctx context.Context, slug string) (*model.MemorialRecord, error) {
	return r.getOne(ctx, map[string]interface{}{"memorial_slug": slug})
}

func (r *MemorialRepo) GetByID(ctx context.Context, memorialID string) (*model.MemorialRecord, error) {
	return r.getOne(ctx, map[string]interface{}{"id": memorialID})
}

// Update applies a partial field map; callers own column naming.
func (r *MemorialRepo) Update(ctx context.Context, memorialID string, update map[string]interface{}) error {
	if len(update) == 0 {
		return nil
	}
	where := map[string]interface{}{"id": memorialID}
	sqlStr, args, err := builder.BuildUpdate("memorial_records", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// ListExpiring returns memorials whose hosting lapses inside the window
// and which have not been reminded since the window opened.
func (r *MemorialRepo) ListExpiring(ctx context.Context, from, to int64) ([]*model.MemorialRecord, error) {
	const sqlStr = `SELECT id, memorial_slug, edit_token, customer_id, deceased_name, deceased_type, species, birth_date, death_date, memorial_text, theme, frame, photos_json, videos_json, hosting_duration, product_type, hosting_expires_at, reminder_sent_at, ctime, mtime
FROM memorial_records
WHERE hosting_expires_at IS NOT NULL AND hosting_expires_at >= $1 AND hosting_expires_at <= $2
  AND (reminder_sent_at IS NULL OR reminder_sent_at < $1)`
	rows, err := r.db.QueryContext(ctx, sqlStr, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []*model.MemorialRecord
	for rows.Next() {
		m, err := scanMemorial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *MemorialRepo) MarkReminded(ctx context.Context, memorialID string, now int64) error {
	return r.Update(ctx, memorialID, map[string]interface{}{"reminder_sent_at": now})
}
