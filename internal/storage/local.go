package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// LocalURLPrefix is where the server mounts the local media directory.
const LocalURLPrefix = "/media/"

// LocalStorage keeps blobs on the local filesystem under Root.
type LocalStorage struct {
	Root      string
	URLPrefix string
}

func NewLocalStorage(root, urlPrefix string) (*LocalStorage, error) {
	err := os.MkdirAll(root, 0755)
	if err != nil {
		return nil, errors.Wrap(err, "create media directory")
	}
	return &LocalStorage{Root: root, URLPrefix: urlPrefix}, nil
}

func (s *LocalStorage) Save(ctx context.Context, key string, r io.Reader) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(full), 0755)
	if err != nil {
		return errors.Wrap(err, "create blob directory")
	}

	f, err := os.Create(full)
	if err != nil {
		return errors.Wrapf(err, "create %s", key)
	}

	_, err = io.Copy(f, r)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return errors.Wrapf(err, "write %s", key)
	}

	return ctx.Err()
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}

	err = os.Remove(full)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete %s", key)
	}
	return nil
}

func (s *LocalStorage) URL(_ context.Context, key string) (string, error) {
	return strings.TrimSuffix(s.URLPrefix, "/") + "/" + path.Clean(key), nil
}

// resolve maps a key to a path under Root, rejecting keys that escape it.
func (s *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", errors.Newf("invalid storage key %q", key)
	}
	return filepath.Join(s.Root, filepath.FromSlash(clean)), nil
}
