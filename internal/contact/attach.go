package contact

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/illegalcall/second-opinion/internal/models"
)

const defaultContentType = "application/octet-stream"

// AllowedTypes are the content types kept when the allow-list is enforced.
var AllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"application/pdf",
	"image/heic",
	"image/heif",
}

var (
	ErrTypeNotAllowed = errors.New("attachment type not allowed")
	ErrTooLarge       = errors.New("attachment exceeds size limit")
)

// AttachmentPolicy decides which uploads are forwarded and with what type.
type AttachmentPolicy struct {
	AllowList bool
	MaxSize   int64 // 0 disables the per-file limit
}

// Apply returns the descriptor for f, or ErrTooLarge / ErrTypeNotAllowed when
// the file must be dropped. With the allow-list on, the type is sniffed from
// the spooled bytes and the declared type is ignored.
func (p AttachmentPolicy) Apply(f models.UploadedFile) (models.AttachmentDescriptor, error) {
	desc := models.AttachmentDescriptor{Filename: f.Filename, Path: f.Path}

	if p.MaxSize > 0 && f.Size > p.MaxSize {
		return desc, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, f.Size, p.MaxSize)
	}

	if !p.AllowList {
		desc.ContentType = f.ContentType
		if desc.ContentType == "" {
			desc.ContentType = defaultContentType
		}
		return desc, nil
	}

	mt, err := mimetype.DetectFile(f.Path)
	if err != nil {
		return desc, fmt.Errorf("failed to detect attachment type: %w", err)
	}
	for _, allowed := range AllowedTypes {
		if mt.Is(allowed) {
			desc.ContentType = allowed
			return desc, nil
		}
	}
	return desc, fmt.Errorf("%w: %s", ErrTypeNotAllowed, mt.String())
}

// baseName reduces a client supplied filename to its last path element.
func baseName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, name)
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return "attachment"
	}
	return base
}
