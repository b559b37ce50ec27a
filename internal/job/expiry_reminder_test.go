package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/memoriqr/memoriqr/internal/model"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type stubExpiringMemorials struct {
	items    []*model.MemorialRecord
	reminded []string
}

func (s *stubExpiringMemorials) ListExpiring(ctx context.Context, from, to int64) ([]*model.MemorialRecord, error) {
	var out []*model.MemorialRecord
	for _, item := range s.items {
		if item.HostingExpiresAt != nil && *item.HostingExpiresAt >= from && *item.HostingExpiresAt <= to && item.ReminderSentAt == nil {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubExpiringMemorials) MarkReminded(ctx context.Context, memorialID string, now int64) error {
	s.reminded = append(s.reminded, memorialID)
	return nil
}

type stubCustomers struct {
	items map[string]*model.Customer
}

func (s *stubCustomers) GetByID(ctx context.Context, customerID string) (*model.Customer, error) {
	item, ok := s.items[customerID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return item, nil
}

type recordingNotifier struct {
	events []string
}

func (r *recordingNotifier) Send(ctx context.Context, event string, payload map[string]interface{}) {
	r.events = append(r.events, event)
}

func TestExpiryReminderJob_RemindsOnlyWindowed(t *testing.T) {
	soon := time.Now().Add(10 * 24 * time.Hour).Unix()
	far := time.Now().Add(90 * 24 * time.Hour).Unix()
	alreadySent := time.Now().Unix()

	memorials := &stubExpiringMemorials{items: []*model.MemorialRecord{
		{ID: "mem-1", CustomerID: "cust-1", Slug: "rex-2026", DeceasedName: "Rex", HostingExpiresAt: &soon},
		{ID: "mem-2", CustomerID: "cust-1", HostingExpiresAt: &far},
		{ID: "mem-3", CustomerID: "cust-1", HostingExpiresAt: &soon, ReminderSentAt: &alreadySent},
	}}
	customers := &stubCustomers{items: map[string]*model.Customer{
		"cust-1": {ID: "cust-1", Email: "jane@example.com", FullName: "Jane"},
	}}
	notifier := &recordingNotifier{}
	j := NewExpiryReminderJob(memorials, customers, notifier)

	require.Equal(t, "expiry-reminders", j.Name())
	require.NoError(t, j.Run(context.Background()))
	require.Equal(t, []string{"expiry_reminder"}, notifier.events)
	require.Equal(t, []string{"mem-1"}, memorials.reminded)
}

func TestExpiryReminderJob_SkipsMissingCustomer(t *testing.T) {
	soon := time.Now().Add(5 * 24 * time.Hour).Unix()
	memorials := &stubExpiringMemorials{items: []*model.MemorialRecord{
		{ID: "mem-1", CustomerID: "ghost", HostingExpiresAt: &soon},
	}}
	customers := &stubCustomers{items: map[string]*model.Customer{}}
	notifier := &recordingNotifier{}
	j := NewExpiryReminderJob(memorials, customers, notifier)

	require.NoError(t, j.Run(context.Background()))
	require.Empty(t, notifier.events)
	require.Empty(t, memorials.reminded)
}
