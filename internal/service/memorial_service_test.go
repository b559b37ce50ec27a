package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memoriqr/memoriqr/internal/model"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type fakeMemorialWriter struct {
	items   map[string]*model.MemorialRecord
	updates []map[string]interface{}
}

func (f *fakeMemorialWriter) GetByID(ctx context.Context, memorialID string) (*model.MemorialRecord, error) {
	item, ok := f.items[memorialID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return item, nil
}

func (f *fakeMemorialWriter) Update(ctx context.Context, memorialID string, update map[string]interface{}) error {
	if _, ok := f.items[memorialID]; !ok {
		return appErr.ErrNotFound
	}
	f.updates = append(f.updates, update)
	return nil
}

type fakeActivityLogs struct {
	rows []*model.ActivityLog
}

func (f *fakeActivityLogs) Create(ctx context.Context, item *model.ActivityLog) error {
	f.rows = append(f.rows, item)
	return nil
}

type fakeSessions struct {
	memorial *model.MemorialRecord
	err      error
}

func (f *fakeSessions) ResolveMemorial(ctx context.Context, editToken string) (*model.MemorialRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.memorial, nil
}

func (f *fakeSessions) Validate(ctx context.Context, editToken, sessionToken string) (*model.MemorialRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.memorial, nil
}

type fakeStore struct {
	existing map[string]bool
}

func (f *fakeStore) Type() string { return "fake" }

func (f *fakeStore) Stat(ctx context.Context, key string) error {
	if !f.existing[key] {
		return appErr.ErrFileNotFound
	}
	return nil
}

func (f *fakeStore) URL(key string) string {
	return "https://cdn.example.com/" + key
}

type fakeCache struct {
	invalidated []string
}

func (f *fakeCache) Invalidate(slug string) {
	f.invalidated = append(f.invalidated, slug)
}

func strPtr(s string) *string { return &s }

func newMemorialFixture(hostingDuration int) (*MemorialService, *fakeMemorialWriter, *fakeActivityLogs, *fakeStore, *fakeCache) {
	memorial := &model.MemorialRecord{
		ID:              "mem-1",
		Slug:            "rex-2026",
		DeceasedName:    "Rex",
		HostingDuration: hostingDuration,
		Theme:           "classic",
		Frame:           "classic-gold",
	}
	memorials := &fakeMemorialWriter{items: map[string]*model.MemorialRecord{"mem-1": memorial}}
	activity := &fakeActivityLogs{}
	sessions := &fakeSessions{memorial: memorial}
	store := &fakeStore{existing: map[string]bool{}}
	cache := &fakeCache{}
	return NewMemorialService(memorials, activity, sessions, store, cache), memorials, activity, store, cache
}

func TestUpdate_SanitizesText(t *testing.T) {
	svc, memorials, activity, _, cache := newMemorialFixture(25)

	err := svc.Update(context.Background(), "edit-token", "session", UpdateInput{
		MemorialText: strPtr("<p>Good boy<script>alert(1)</script></p>"),
	})
	require.NoError(t, err)
	require.Len(t, memorials.updates, 1)
	require.Equal(t, "Good boy", memorials.updates[0]["memorial_text"])
	require.Len(t, activity.rows, 1)
	require.Equal(t, "updated", activity.rows[0].ActivityType)
	require.Equal(t, []string{"rex-2026"}, cache.invalidated)
}

func TestUpdate_PlanTierAllowsUnlockedTheme(t *testing.T) {
	svc, memorials, _, _, _ := newMemorialFixture(5)

	err := svc.Update(context.Background(), "edit-token", "session", UpdateInput{
		Theme: strPtr("ocean"),
	})
	require.NoError(t, err)
	require.Equal(t, "ocean", memorials.updates[0]["theme"])
}

func TestUpdate_PlanTierRejectsLockedTheme(t *testing.T) {
	svc, memorials, _, _, _ := newMemorialFixture(5)

	err := svc.Update(context.Background(), "edit-token", "session", UpdateInput{
		Theme: strPtr("autumn"),
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)
	require.Empty(t, memorials.updates)
}

func TestUpdate_PlanTierRejectsLockedFrame(t *testing.T) {
	svc, _, _, _, _ := newMemorialFixture(10)

	err := svc.Update(context.Background(), "edit-token", "session", UpdateInput{
		Frame: strPtr("heritage"),
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestUpdate_UnknownThemeRejected(t *testing.T) {
	svc, _, _, _, _ := newMemorialFixture(25)

	err := svc.Update(context.Background(), "edit-token", "session", UpdateInput{
		Theme: strPtr("not-a-theme"),
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestUpdate_EmptyInputRejected(t *testing.T) {
	svc, _, _, _, _ := newMemorialFixture(25)

	err := svc.Update(context.Background(), "edit-token", "session", UpdateInput{})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestUpdate_SessionErrorPropagates(t *testing.T) {
	svc, memorials, _, _, _ := newMemorialFixture(25)
	svc.sessions.(*fakeSessions).err = appErr.ErrSessionExpired

	err := svc.Update(context.Background(), "edit-token", "session", UpdateInput{
		MemorialText: strPtr("text"),
	})
	require.ErrorIs(t, err, appErr.ErrSessionExpired)
	require.Empty(t, memorials.updates)
}

func TestRegisterVideo_AppendsDescriptor(t *testing.T) {
	svc, memorials, activity, store, cache := newMemorialFixture(25)
	store.existing["uploads/mem-1/clip.mp4"] = true

	videos, err := svc.RegisterVideo(context.Background(), "edit-token", "session", "uploads/mem-1/clip.mp4", "clip.mp4")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	require.Equal(t, "upload", videos[0].Type)
	require.Equal(t, "https://cdn.example.com/uploads/mem-1/clip.mp4", videos[0].URL)
	require.Equal(t, "uploads/mem-1/clip.mp4", videos[0].PublicID)
	require.Equal(t, "clip", videos[0].Title)
	require.Equal(t, 0, videos[0].Order)

	require.Len(t, memorials.updates, 1)
	var persisted []model.Video
	require.NoError(t, json.Unmarshal([]byte(memorials.updates[0]["videos_json"].(string)), &persisted))
	require.Len(t, persisted, 1)
	require.Len(t, activity.rows, 1)
	require.Equal(t, "video_added", activity.rows[0].ActivityType)
	require.Equal(t, []string{"rex-2026"}, cache.invalidated)
}

func TestRegisterVideo_MissingObjectRejected(t *testing.T) {
	svc, memorials, _, _, _ := newMemorialFixture(25)

	_, err := svc.RegisterVideo(context.Background(), "edit-token", "session", "uploads/missing.mp4", "missing.mp4")
	require.ErrorIs(t, err, appErr.ErrFileNotFound)
	require.Empty(t, memorials.updates)
}

func TestRegisterVideo_DefaultTitle(t *testing.T) {
	svc, _, _, store, _ := newMemorialFixture(25)
	store.existing[".mp4"] = true

	videos, err := svc.RegisterVideo(context.Background(), "edit-token", "session", ".mp4", ".mp4")
	require.NoError(t, err)
	require.Equal(t, "Uploaded Video", videos[0].Title)
}

func TestGetForEdit_AdminBypass(t *testing.T) {
	svc, _, _, _, _ := newMemorialFixture(25)

	view, err := svc.GetForEdit(context.Background(), "edit-token", "", true)
	require.NoError(t, err)
	require.Equal(t, "mem-1", view.ID)
	require.Equal(t, json.RawMessage("[]"), view.Photos)
}
