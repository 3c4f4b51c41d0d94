package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/yanun0323/errors"
)

// File stores one file per key. An entry is fresh while its modification time is younger than ttl.
type File struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

func NewFile(dir string, ttl time.Duration) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create cache dir").With("dir", dir)
	}

	return &File{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (f *File) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.dir, hex.EncodeToString(sum[:12])+".json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	p := f.path(key)
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "stat cache file").With("path", p)
	}

	if f.now().Sub(info.ModTime()) >= f.ttl {
		return nil, false, nil
	}

	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false, errors.Wrap(err, "read cache file").With("path", p)
	}

	return b, true, nil
}

// Set writes value. Freshness is decided by the ttl given to NewFile.
func (f *File) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	p := f.path(key)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return errors.Wrap(err, "write cache file").With("path", tmp)
	}

	if err := os.Rename(tmp, p); err != nil {
		return errors.Wrap(err, "rename cache file").With("path", p)
	}

	return nil
}
