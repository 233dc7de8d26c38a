// Package storage хранит загруженные пользователями картинки:
// thumbnail проекта и аватар профиля.
//
// Store проверяет файл (размер, расширение, реальный тип по содержимому),
// генерирует ключ объекта и отдаёт байты в Backend: локальный диск, MinIO или S3.
// Наружу возвращается только ссылка, которую потом кладём в документ.
package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

// DefaultMaxBytes — лимит на один файл.
const DefaultMaxBytes int64 = 5 << 20

// Виды загрузок, они же первый сегмент ключа объекта.
const (
	KindThumbnail = "thumbnails"
	KindAvatar    = "avatars"
)

// Upload — файл из multipart-формы, уже прочитанный в память.
// Размер заранее ограничен HTTP-слоем, поэтому держать его в памяти безопасно.
type Upload struct {
	Filename string
	Data     []byte
}

// Backend — куда физически кладём объект.
// Put возвращает публичную ссылку на объект, Remove удаляет объект по этой ссылке.
// Удаление отсутствующего объекта не ошибка.
type Backend interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, ref string) error
}

// Store — проверка загрузки + запись в Backend.
type Store struct {
	backend  Backend
	maxBytes int64
	now      func() time.Time
}

// NewStore создаёт Store. maxBytes <= 0 означает DefaultMaxBytes.
func NewStore(backend Backend, maxBytes int64) *Store {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{backend: backend, maxBytes: maxBytes, now: time.Now}
}

// MaxBytes — действующий лимит размера файла.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save проверяет файл и сохраняет его под ключом <kind>/<yyyy>/<mm>/<uuid><ext>.
//
// Ошибки:
//   - ErrUploadRejected — файл пустой, больше лимита, с чужим расширением или не картинка;
//   - всё остальное — ошибка бэкенда.
func (s *Store) Save(ctx context.Context, kind string, u *Upload) (string, error) {
	contentType, ext, err := Check(u, s.maxBytes)
	if err != nil {
		return "", err
	}
	key := ObjectKey(kind, ext, s.now())
	ref, err := s.backend.Put(ctx, key, contentType, u.Data)
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return ref, nil
}

// Remove удаляет ранее сохранённый объект по ссылке из Save.
func (s *Store) Remove(ctx context.Context, ref string) error {
	if err := s.backend.Remove(ctx, ref); err != nil {
		return fmt.Errorf("remove %s: %w", ref, err)
	}
	return nil
}

// keyFromRef отрезает публичный префикс бэкенда от ссылки.
// Ссылка с чужим префиксом или выходом за каталог — ошибка.
func keyFromRef(prefix, ref string) (string, error) {
	key, ok := strings.CutPrefix(ref, prefix+"/")
	if !ok || key == "" || !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("foreign object ref %q", ref)
	}
	return key, nil
}

// разрешённые расширения имени файла
var allowedExt = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".webp": true,
}

// разрешённые типы по содержимому
var allowedMIME = []string{"image/jpeg", "image/png", "image/webp"}

// Check проверяет загрузку и возвращает реальный content-type и расширение,
// с которым объект будет сохранён.
//
// Расширение имени файла и сигнатура содержимого должны совпасть
// с разрешённым списком, иначе ErrUploadRejected.
func Check(u *Upload, maxBytes int64) (string, string, error) {
	if u == nil || len(u.Data) == 0 {
		return "", "", serr.ErrUploadRejected
	}
	if int64(len(u.Data)) > maxBytes {
		return "", "", serr.ErrUploadRejected
	}
	if !allowedExt[strings.ToLower(filepath.Ext(u.Filename))] {
		return "", "", serr.ErrUploadRejected
	}

	mt := mimetype.Detect(u.Data)
	for _, allowed := range allowedMIME {
		if mt.Is(allowed) {
			return allowed, mt.Extension(), nil
		}
	}
	return "", "", serr.ErrUploadRejected
}

// ObjectKey собирает ключ объекта. Имя генерируется заново, исходное имя файла не используется.
func ObjectKey(kind, ext string, now time.Time) string {
	return path.Join(kind, now.UTC().Format("2006"), now.UTC().Format("01"), uuid.NewString()+ext)
}
