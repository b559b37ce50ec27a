package repo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/memoriqr/memoriqr/internal/model"
)

type CommissionRepo struct {
	db *sql.DB
}

func NewCommissionRepo(db *sql.DB) *CommissionRepo {
	return &CommissionRepo{db: db}
}

// BulkApprove transitions pending rows from the id list to approved and
// reports how many actually moved. Rows in any other status are left
// alone, which makes the call idempotent.
func (r *CommissionRepo) BulkApprove(ctx context.Context, ids []string, now int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const sqlStr = `UPDATE partner_commissions SET status = $1, approved_at = $2
WHERE id = ANY($3) AND status = $4`
	result, err := r.db.ExecContext(ctx, sqlStr, model.CommissionStatusApproved, now, pq.Array(ids), model.CommissionStatusPending)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *CommissionRepo) ListByPartner(ctx context.Context, partnerID string) ([]*model.Commission, error) {
	const sqlStr = `SELECT id, partner_id, order_id, amount_cents, status, approved_at, ctime
FROM partner_commissions WHERE partner_id = $1 ORDER BY ctime DESC`
	rows, err := r.db.QueryContext(ctx, sqlStr, partnerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []*model.Commission
	for rows.Next() {
		var item model.Commission
		if err := rows.Scan(&item.ID, &item.PartnerID, &item.OrderID, &item.AmountCents, &item.Status, &item.ApprovedAt, &item.Ctime); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *CommissionRepo) TotalsByPartner(ctx context.Context, partnerID string) (*model.CommissionTotals, error) {
	const sqlStr = `SELECT status, COALESCE(SUM(amount_cents), 0)
FROM partner_commissions WHERE partner_id = $1 GROUP BY status`
	rows, err := r.db.QueryContext(ctx, sqlStr, partnerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	totals := &model.CommissionTotals{}
	for rows.Next() {
		var status string
		var sum int64
		if err := rows.Scan(&status, &sum); err != nil {
			return nil, err
		}
		switch status {
		case model.CommissionStatusPending:
			totals.PendingCents = sum
		case model.CommissionStatusApproved:
			totals.ApprovedCents = sum
		case model.CommissionStatusPaid:
			totals.PaidCents = sum
		}
	}
	return totals, rows.Err()
}
