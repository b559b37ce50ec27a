package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/memoriqr/memoriqr/internal/model"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
	"github.com/memoriqr/memoriqr/internal/pkg/timeutil"
)

const (
	lookupCacheSize = 512
	lookupCacheTTL  = 5 * time.Minute
)

type memorialBySlugStore interface {
	GetBySlug(ctx context.Context, slug string) (*model.MemorialRecord, error)
}

// PublicView is the anonymous projection of a memorial page. The edit
// token never leaves the server.
type PublicView struct {
	Slug         string          `json:"slug"`
	DeceasedName string          `json:"deceasedName"`
	DeceasedType string          `json:"deceasedType"`
	Species      *string         `json:"species"`
	BirthDate    *string         `json:"birthDate"`
	DeathDate    *string         `json:"deathDate"`
	MemorialText string          `json:"memorialText"`
	Photos       json.RawMessage `json:"photos"`
	Videos       json.RawMessage `json:"videos"`
	Theme        string          `json:"theme"`
	Frame        string          `json:"frame"`
}

// LookupService serves the public memorial page through a small
// expirable cache; the page is read far more often than it changes.
type LookupService struct {
	memorials memorialBySlugStore
	cache     *expirable.LRU[string, *PublicView]
}

func NewLookupService(memorials memorialBySlugStore) *LookupService {
	return &LookupService{
		memorials: memorials,
		cache:     expirable.NewLRU[string, *PublicView](lookupCacheSize, nil, lookupCacheTTL),
	}
}

func (s *LookupService) Lookup(ctx context.Context, slug string) (*PublicView, error) {
	if slug == "" {
		return nil, appErr.ErrInvalid
	}
	if view, ok := s.cache.Get(slug); ok {
		return view, nil
	}
	memorial, err := s.memorials.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if memorial.HostingExpiresAt != nil && *memorial.HostingExpiresAt < timeutil.NowUnix() {
		return nil, appErr.ErrNotFound
	}
	view := &PublicView{
		Slug:         memorial.Slug,
		DeceasedName: memorial.DeceasedName,
		DeceasedType: memorial.DeceasedType,
		Species:      memorial.Species,
		BirthDate:    memorial.BirthDate,
		DeathDate:    memorial.DeathDate,
		MemorialText: memorial.MemorialText,
		Photos:       rawJSONList(memorial.PhotosJSON),
		Videos:       rawJSONList(memorial.VideosJSON),
		Theme:        memorial.Theme,
		Frame:        memorial.Frame,
	}
	s.cache.Add(slug, view)
	return view, nil
}

// Invalidate drops a slug after an edit so stale pages don't outlive
// the cache TTL.
func (s *LookupService) Invalidate(slug string) {
	s.cache.Remove(slug)
}
