package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/memoriqr/memoriqr/internal/config"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

type localStore struct {
	dir       string
	publicURL string
}

func init() {
	Register("local", createLocalStore)
}

func createLocalStore(cfg config.FileStoreConfig) (Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("local store dir is required")
	}
	return &localStore{dir: cfg.Dir, publicURL: cfg.PublicURL}, nil
}

func (s *localStore) Type() string {
	return "local"
}

func (s *localStore) Stat(ctx context.Context, key string) error {
	_ = ctx
	key = strings.TrimPrefix(key, "/")
	if strings.Contains(key, "..") {
		return appErr.ErrInvalid
	}
	if _, err := os.Stat(filepath.Join(s.dir, filepath.FromSlash(key))); err != nil {
		if os.IsNotExist(err) {
			return appErr.ErrFileNotFound
		}
		return err
	}
	return nil
}

func (s *localStore) URL(key string) string {
	key = strings.TrimPrefix(key, "/")
	return strings.TrimSuffix(s.publicURL, "/") + "/" + key
}
