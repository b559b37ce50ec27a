package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/memoriqr/memoriqr/internal/filestore"
	"github.com/memoriqr/memoriqr/internal/model"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
	"github.com/memoriqr/memoriqr/internal/pkg/sanitize"
	"github.com/memoriqr/memoriqr/internal/pkg/timeutil"
)

// Theme and frame catalogs are ordered; a plan tier unlocks a prefix of
// each list (5, 10 or 25 entries keyed by hosting duration).
var (
	themeCatalog = []string{
		"classic", "serenity", "meadow", "twilight", "ocean",
		"autumn", "garden", "starlight", "marble", "lavender",
		"sunrise", "willow", "ember", "mist", "harbor",
		"orchard", "dune", "aurora", "sage", "quarry",
		"atrium", "grove", "lantern", "solstice", "haven",
	}
	frameCatalog = []string{
		"classic-gold", "classic-silver", "oak", "slate", "ivory",
		"walnut", "bronze", "pearl", "graphite", "rosewood",
		"copper", "linen", "onyx", "birch", "pewter",
		"mahogany", "fern", "opal", "wrought", "maple",
		"brass", "driftwood", "obsidian", "satin", "heritage",
	}
)

func planOptionLimit(hostingDuration int) int {
	switch hostingDuration {
	case 5:
		return 5
	case 10:
		return 10
	default:
		return 25
	}
}

func catalogAllows(catalog []string, value string, limit int) bool {
	if limit > len(catalog) {
		limit = len(catalog)
	}
	for i := 0; i < limit; i++ {
		if catalog[i] == value {
			return true
		}
	}
	return false
}

type memorialStore interface {
	GetByID(ctx context.Context, memorialID string) (*model.MemorialRecord, error)
	Update(ctx context.Context, memorialID string, update map[string]interface{}) error
}

type activityLogStore interface {
	Create(ctx context.Context, item *model.ActivityLog) error
}

type sessionValidator interface {
	ResolveMemorial(ctx context.Context, editToken string) (*model.MemorialRecord, error)
	Validate(ctx context.Context, editToken, sessionToken string) (*model.MemorialRecord, error)
}

type cacheInvalidator interface {
	Invalidate(slug string)
}

type MemorialService struct {
	memorials memorialStore
	activity  activityLogStore
	sessions  sessionValidator
	store     filestore.Store
	cache     cacheInvalidator
}

func NewMemorialService(memorials memorialStore, activity activityLogStore, sessions sessionValidator, store filestore.Store, cache cacheInvalidator) *MemorialService {
	return &MemorialService{memorials: memorials, activity: activity, sessions: sessions, store: store, cache: cache}
}

// EditView is the projection handed to the edit page.
type EditView struct {
	ID              string          `json:"id"`
	Slug            string          `json:"slug"`
	DeceasedName    string          `json:"deceasedName"`
	DeceasedType    string          `json:"deceasedType"`
	Species         *string         `json:"species"`
	BirthDate       *string         `json:"birthDate"`
	DeathDate       *string         `json:"deathDate"`
	MemorialText    string          `json:"memorialText"`
	Photos          json.RawMessage `json:"photos"`
	Videos          json.RawMessage `json:"videos"`
	Theme           string          `json:"theme"`
	Frame           string          `json:"frame"`
	HostingDuration int             `json:"hostingDuration"`
	ProductType     string          `json:"productType"`
}

func editViewOf(m *model.MemorialRecord) *EditView {
	return &EditView{
		ID:              m.ID,
		Slug:            m.Slug,
		DeceasedName:    m.DeceasedName,
		DeceasedType:    m.DeceasedType,
		Species:         m.Species,
		BirthDate:       m.BirthDate,
		DeathDate:       m.DeathDate,
		MemorialText:    m.MemorialText,
		Photos:          rawJSONList(m.PhotosJSON),
		Videos:          rawJSONList(m.VideosJSON),
		Theme:           m.Theme,
		Frame:           m.Frame,
		HostingDuration: m.HostingDuration,
		ProductType:     m.ProductType,
	}
}

func rawJSONList(s string) json.RawMessage {
	if strings.TrimSpace(s) == "" {
		return json.RawMessage("[]")
	}
	return json.RawMessage(s)
}

// GetForEdit fetches the memorial after session validation; asAdmin
// skips the session requirement but still needs the edit token.
func (s *MemorialService) GetForEdit(ctx context.Context, editToken, sessionToken string, asAdmin bool) (*EditView, error) {
	var memorial *model.MemorialRecord
	var err error
	if asAdmin {
		memorial, err = s.sessions.ResolveMemorial(ctx, editToken)
	} else {
		memorial, err = s.sessions.Validate(ctx, editToken, sessionToken)
	}
	if err != nil {
		return nil, err
	}
	return editViewOf(memorial), nil
}

type UpdateInput struct {
	MemorialText *string
	Theme        *string
	Frame        *string
}

// Update applies the partial edit after revalidating the session. Text
// is stored plain; theme and frame must sit inside the plan tier.
func (s *MemorialService) Update(ctx context.Context, editToken, sessionToken string, input UpdateInput) error {
	memorial, err := s.sessions.Validate(ctx, editToken, sessionToken)
	if err != nil {
		return err
	}
	limit := planOptionLimit(memorial.HostingDuration)
	update := map[string]interface{}{}
	var changed []string
	if input.MemorialText != nil {
		update["memorial_text"] = sanitize.Text(*input.MemorialText)
		changed = append(changed, "memorial_text")
	}
	if input.Theme != nil {
		if !catalogAllows(themeCatalog, *input.Theme, limit) {
			return appErr.ErrInvalid
		}
		update["theme"] = *input.Theme
		changed = append(changed, "theme")
	}
	if input.Frame != nil {
		if !catalogAllows(frameCatalog, *input.Frame, limit) {
			return appErr.ErrInvalid
		}
		update["frame"] = *input.Frame
		changed = append(changed, "frame")
	}
	if len(changed) == 0 {
		return appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	update["mtime"] = now
	if err := s.memorials.Update(ctx, memorial.ID, update); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(memorial.Slug)
	}
	s.logActivity(ctx, memorial.ID, "updated", map[string]interface{}{"fields": changed})
	return nil
}

// RegisterVideo attaches an object that was uploaded out-of-band. The
// object must already exist in the store.
func (s *MemorialService) RegisterVideo(ctx context.Context, editToken, sessionToken, path, fileName string) ([]model.Video, error) {
	if strings.TrimSpace(path) == "" {
		return nil, appErr.ErrInvalid
	}
	memorial, err := s.sessions.Validate(ctx, editToken, sessionToken)
	if err != nil {
		return nil, err
	}
	if err := s.store.Stat(ctx, path); err != nil {
		return nil, err
	}
	var videos []model.Video
	if err := json.Unmarshal(rawJSONList(memorial.VideosJSON), &videos); err != nil {
		videos = nil
	}
	title := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if title == "" {
		title = "Uploaded Video"
	}
	videos = append(videos, model.Video{
		ID:       fmt.Sprintf("video-%d", timeutil.NowUnixMilli()),
		Type:     "upload",
		URL:      s.store.URL(path),
		PublicID: path,
		Title:    title,
		Order:    len(videos),
	})
	data, err := json.Marshal(videos)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	if err := s.memorials.Update(ctx, memorial.ID, map[string]interface{}{
		"videos_json": string(data),
		"mtime":       now,
	}); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(memorial.Slug)
	}
	s.logActivity(ctx, memorial.ID, "video_added", map[string]interface{}{"type": "upload"})
	return videos, nil
}

func (s *MemorialService) logActivity(ctx context.Context, memorialID, activityType string, details map[string]interface{}) {
	data, err := json.Marshal(details)
	if err != nil {
		data = []byte("{}")
	}
	// Audit writes are best effort and never fail the mutation.
	_ = s.activity.Create(ctx, &model.ActivityLog{
		ID:           newID(),
		MemorialID:   memorialID,
		ActivityType: activityType,
		DetailsJSON:  string(data),
		Ctime:        timeutil.NowUnix(),
	})
}
