package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// tempPrefix и tempSuffix помечают недописанные файлы, FileSystem их не отдаёт.
const (
	tempPrefix = ".upload-"
	tempSuffix = ".part"
)

// LocalBackend кладёт файлы на диск в Dir.
// Отдаёт их роутер по префиксу URLPrefix (обычно /uploads).
type LocalBackend struct {
	Dir       string
	URLPrefix string
}

// NewLocalBackend создаёт каталог, если его ещё нет.
func NewLocalBackend(dir, urlPrefix string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	return &LocalBackend{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (b *LocalBackend) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	dst := filepath.Join(b.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	// temp + rename: файл появляется под своим именем уже целиком
	tmp, err := os.CreateTemp(filepath.Dir(dst), tempPrefix+"*"+tempSuffix)
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmpName)
		if werr != nil {
			return "", werr
		}
		return "", cerr
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	return b.URLPrefix + "/" + key, nil
}

func (b *LocalBackend) Remove(_ context.Context, ref string) error {
	key, err := keyFromRef(b.URLPrefix, ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(b.Dir, filepath.FromSlash(key))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// NewFileSystem — каталог загрузок для http.FileServer.
// Отдаются только готовые файлы: каталоги и временные .part дают 404,
// так что перечислить чужие картинки нельзя.
func NewFileSystem(dir string) http.FileSystem {
	return filesOnly{root: http.Dir(dir)}
}

type filesOnly struct {
	root http.FileSystem
}

func (fs filesOnly) Open(name string) (http.File, error) {
	base := path.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, tempSuffix) {
		return nil, os.ErrNotExist
	}
	f, err := fs.root.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
