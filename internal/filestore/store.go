package filestore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/memoriqr/memoriqr/internal/config"
)

// Store answers the two questions the video-registration flow asks of
// already-uploaded objects: does the object exist, and what public URL
// serves it.
type Store interface {
	Type() string
	Stat(ctx context.Context, key string) error
	URL(key string) string
}

type Factory func(cfg config.FileStoreConfig) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.FileStoreConfig) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("file_store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported file store type: %s", cfg.Type)
	}
	return factory(cfg)
}
