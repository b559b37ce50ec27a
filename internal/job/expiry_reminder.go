package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/memoriqr/memoriqr/internal/model"
	"github.com/memoriqr/memoriqr/internal/pkg/timeutil"
	"github.com/memoriqr/memoriqr/internal/service"
)

const reminderWindowDays = 30

type expiringMemorialStore interface {
	ListExpiring(ctx context.Context, from, to int64) ([]*model.MemorialRecord, error)
	MarkReminded(ctx context.Context, memorialID string, now int64) error
}

type reminderCustomerStore interface {
	GetByID(ctx context.Context, customerID string) (*model.Customer, error)
}

// ExpiryReminderJob mails owners whose hosting runs out within the
// window. Each memorial is reminded once; the mark happens only after
// the webhook was attempted.
type ExpiryReminderJob struct {
	memorials expiringMemorialStore
	customers reminderCustomerStore
	notifier  service.Notifier
}

func NewExpiryReminderJob(memorials expiringMemorialStore, customers reminderCustomerStore, notifier service.Notifier) *ExpiryReminderJob {
	return &ExpiryReminderJob{memorials: memorials, customers: customers, notifier: notifier}
}

func (j *ExpiryReminderJob) Name() string {
	return "expiry-reminders"
}

func (j *ExpiryReminderJob) Run(ctx context.Context) error {
	now := timeutil.NowUnix()
	items, err := j.memorials.ListExpiring(ctx, now, now+reminderWindowDays*24*3600)
	if err != nil {
		return err
	}
	var sent int
	for _, memorial := range items {
		customer, err := j.customers.GetByID(ctx, memorial.CustomerID)
		if err != nil {
			logutil.GetLogger(ctx).Warn("reminder skipped, no customer",
				zap.String("memorial_id", memorial.ID), zap.Error(err))
			continue
		}
		payload := map[string]interface{}{
			"customer_email": customer.Email,
			"customer_name":  customer.FullName,
			"deceased_name":  memorial.DeceasedName,
			"memorial_slug":  memorial.Slug,
		}
		if memorial.HostingExpiresAt != nil {
			payload["expires_at"] = *memorial.HostingExpiresAt
		}
		j.notifier.Send(ctx, "expiry_reminder", payload)
		if err := j.memorials.MarkReminded(ctx, memorial.ID, now); err != nil {
			return err
		}
		sent++
	}
	logutil.GetLogger(ctx).Info("expiry reminders processed", zap.Int("sent", sent))
	return nil
}
