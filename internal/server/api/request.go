package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/storage"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
	sm "github.com/IvanChernomyrdin/go-devlog/internal/shared/models"
)

// запас под текстовые поля формы поверх лимита файла
const formOverhead int64 = 1 << 20

// decodeJSON читает JSON тело не больше MaxBodyBytes.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return serr.Invalid("request body too large")
		}
		return serr.ErrBadJSON
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get(ContentType))
	return err == nil && mt == "multipart/form-data"
}

// form — разобранная multipart форма.
type form struct {
	*multipart.Form
	maxFile int64
}

// parseForm разбирает multipart/form-data. Тело сверх лимита — ErrUploadRejected.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (*form, error) {
	limit := h.opts.MaxUploadBytes + formOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, serr.ErrUploadRejected
		}
		return nil, serr.Invalid("malformed multipart form")
	}
	return &form{Form: r.MultipartForm, maxFile: h.opts.MaxUploadBytes}, nil
}

// str возвращает поле формы как Optional: есть ключ — Set, даже если значение пустое.
func (f *form) str(key string) sm.Optional[string] {
	values, ok := f.Value[key]
	if !ok || len(values) == 0 {
		return sm.Optional[string]{}
	}
	return sm.Some(values[0])
}

func (f *form) tags(key string) sm.Optional[sm.Tags] {
	values, ok := f.Value[key]
	if !ok {
		return sm.Optional[sm.Tags]{}
	}
	return sm.Some(sm.ParseTags(values))
}

// file читает первый файл поля key. Нет файла — nil.
// Читаем на байт больше лимита, чтобы storage увидел превышение.
func (f *form) file(key string) (*storage.Upload, error) {
	headers := f.File[key]
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]
	if fh.Size > f.maxFile {
		return nil, serr.ErrUploadRejected
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open form file %s: %w", key, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, f.maxFile+1))
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", key, err)
	}
	return &storage.Upload{Filename: fh.Filename, Data: data}, nil
}

func (f *form) cleanup() {
	if f != nil && f.Form != nil {
		_ = f.RemoveAll()
	}
}

// decodeProjectPatch собирает ProjectPatch из JSON или multipart.
func (h *Handler) decodeProjectPatch(w http.ResponseWriter, r *http.Request) (smodels.ProjectPatch, error) {
	var patch smodels.ProjectPatch
	if !isMultipart(r) {
		err := h.decodeJSON(w, r, &patch)
		return patch, err
	}

	f, err := h.parseForm(w, r)
	if err != nil {
		return patch, err
	}
	defer f.cleanup()

	patch.Title = f.str("title")
	patch.Description = f.str("description")
	patch.TechStack = f.tags("techStack")
	if s := f.str("status"); s.Set {
		patch.Status = sm.Some(models.Status(s.Value))
	}
	patch.GithubLink = f.str("githubLink")
	patch.LiveLink = f.str("liveLink")

	patch.Thumbnail, err = f.file("thumbnail")
	return patch, err
}

// decodeProfilePatch собирает ProfilePatch из JSON или multipart.
func (h *Handler) decodeProfilePatch(w http.ResponseWriter, r *http.Request) (smodels.ProfilePatch, error) {
	var patch smodels.ProfilePatch
	if !isMultipart(r) {
		err := h.decodeJSON(w, r, &patch)
		return patch, err
	}

	f, err := h.parseForm(w, r)
	if err != nil {
		return patch, err
	}
	defer f.cleanup()

	patch.Name = f.str("name")
	patch.Bio = f.str("bio")
	patch.Country = f.str("country")

	patch.ProfilePic, err = f.file("profilePic")
	return patch, err
}
