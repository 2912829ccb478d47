package handlers

import (
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"inventory-catalog/internal/apperrors"
)

const maxImageBytes = 10 << 20

// Uploads stores product images under Dir and builds their public URLs.
type Uploads struct {
	FS  afero.Fs
	Dir string
	// PublicBase prefixes image URLs; when empty the request host is used.
	PublicBase string
}

// Save writes fh and returns the URL it will be served at.
func (u *Uploads) Save(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "read upload")
	}
	if len(data) > maxImageBytes {
		return "", apperrors.Invalid("image", "image must be smaller than 10 MB")
	}
	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return "", apperrors.Invalid("image", "image must be an image file")
	}

	ext := strings.ToLower(path.Ext(fh.Filename))
	if ext == "" {
		ext = detected.Extension()
	}
	name := uuid.NewString() + ext
	if err := u.FS.MkdirAll(u.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}
	if err := afero.WriteFile(u.FS, path.Join(u.Dir, name), data, 0o644); err != nil {
		return "", errors.Wrap(err, "store upload")
	}
	return u.base(c) + "/uploads/" + name, nil
}

func (u *Uploads) base(c *gin.Context) string {
	if u.PublicBase != "" {
		return strings.TrimRight(u.PublicBase, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
