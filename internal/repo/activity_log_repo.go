package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/memoriqr/memoriqr/internal/model"
	"github.com/memoriqr/memoriqr/internal/pkg/dbutil"
)

type ActivityLogRepo struct {
	db *sql.DB
}

func NewActivityLogRepo(db *sql.DB) *ActivityLogRepo {
	return &ActivityLogRepo{db: db}
}

func (r *ActivityLogRepo) Create(ctx context.Context, item *model.ActivityLog) error {
	data := map[string]interface{}{
		"id":            item.ID,
		"memorial_id":   item.MemorialID,
		"activity_type": item.ActivityType,
		"details_json":  item.DetailsJSON,
		"ctime":         item.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("activity_log", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
